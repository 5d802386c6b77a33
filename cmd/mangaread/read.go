package main

import (
	"context"
	"fmt"
	"time"

	"mangaread/internal/reader"
	"mangaread/internal/remote"
	"mangaread/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewReadCmd creates the read command
func NewReadCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a manga from a page server",
		Long: `Connect to a page server and read its manga in the terminal. Pages are
fetched as you scroll; only a small window of them is kept in memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = cfg.Reader.ServerURL
			}
			timeout := time.Duration(cfg.Reader.CallTimeout) * time.Second

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			client, err := remote.Dial(ctx, serverURL, timeout)
			if err != nil {
				return fmt.Errorf("connecting to %s: %w", serverURL, err)
			}
			defer client.Close()

			session := reader.NewSession(client, cfg.Reader.WindowSize, float64(cfg.Reader.PageHeight))
			if err := session.Start(); err != nil {
				return fmt.Errorf("starting session: %w", err)
			}
			defer session.Close()

			p := tea.NewProgram(tui.New(session), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "page server websocket URL (overrides config)")

	return cmd
}
