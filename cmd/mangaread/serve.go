package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mangaread/internal/library"
	"mangaread/internal/log"
	"mangaread/internal/remote"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var (
		address   string
		assetsDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a manga's metadata and pages",
		Long: `Serve the manga stored in the assets directory (manga.json, cover.jpg,
images/<n>.jpg) over a websocket endpoint for readers to connect to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address == "" {
				address = cfg.Server.Address
			}
			if assetsDir == "" {
				assetsDir = cfg.Server.AssetsDir
			}

			lib, err := library.Open(assetsDir)
			if err != nil {
				return fmt.Errorf("opening library: %w", err)
			}
			defer lib.Close()

			if err := lib.Watch(); err != nil {
				log.Warn("metadata hot-reload unavailable", err)
			}

			server := remote.NewServer(lib, address)

			errChan := make(chan error, 1)
			go func() {
				errChan <- server.ListenAndServe()
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errChan:
				return err
			case sig := <-sigChan:
				log.Info("received %v, shutting down", sig)
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&assetsDir, "assets", "d", "", "assets directory (overrides config)")

	return cmd
}
