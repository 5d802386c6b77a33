package main

import (
	"fmt"

	"mangaread/internal/config"
	"mangaread/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "mangaread",
		Short:   "A windowed manga reader and page server",
		Version: version,
		Long: `Mangaread serves a manga's pages over a websocket endpoint and reads
them back in the terminal, keeping only a small sliding window of pages
in memory while you scroll.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var configErr error
			if cfgFile != "" {
				cfg, configErr = config.LoadConfigFile(cfgFile)
			} else {
				cfg, configErr = config.LoadConfig()
			}

			if configErr != nil {
				fmt.Printf("Warning: %v\n", configErr)
				fmt.Println("Using default settings.")
				cfg = config.New()
			}

			log.SetDebug(cfg.Settings.Debug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mangaread/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewReadCmd())
	rootCmd.AddCommand(NewInfoCmd())

	return rootCmd
}
