package cmd

import (
	"fmt"
	"os"

	"filament-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "filament-sync",
	Short: "Filament swatch catalog mirror",
	Long: `filament-sync mirrors the public filament color-swatch catalog into a
relational store, serves a read-only query API over it and answers
nearest-color lookups.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives readable ISO8601 output for CLI errors.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
