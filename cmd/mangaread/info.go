package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mangaread/internal/remote"

	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info command
func NewInfoCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print a page server's manga metadata",
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

			manga, err := client.FetchInfo()
			if err != nil {
				return fmt.Errorf("fetching info: %w", err)
			}

			fmt.Printf("id:            %d\n", manga.ID)
			fmt.Printf("english name:  %s\n", manga.EnglishName)
			fmt.Printf("japanese name: %s\n", manga.JapaneseName)
			fmt.Printf("tags:          %s\n", strings.Join(manga.Tags, ", "))
			fmt.Printf("artists:       %s\n", strings.Join(manga.Artists, ", "))
			fmt.Printf("pages:         %d\n", manga.Pages)
			fmt.Printf("uploaded:      %s\n", manga.Uploaded)
			fmt.Printf("cover:         %d bytes\n", len(manga.Cover))
			return nil
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "page server websocket URL (overrides config)")

	return cmd
}
