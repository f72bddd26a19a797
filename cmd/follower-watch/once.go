package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func onceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single check and exit",
		Long: `Run one fetch-diff-notify-persist cycle and exit. The exit status
reflects whether the follower fetch itself succeeded, not whether any
new followers were found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := logger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()

			monitor, closer, err := buildMonitor(cfg, log)
			if err != nil {
				return err
			}
			defer closer.Close()

			count, err := monitor.CheckOnce(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Check completed. Found %d new follower%s.\n", count, plural(count))
			return nil
		},
	}
}
