package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"followerwatch"
)

func testCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Validate configuration and check GitHub connectivity",
		Long: `Validate that every setting required for the selected notification
method is present, then perform one read-only fetch against the GitHub
API to confirm connectivity. Nothing is persisted and no notification
is sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(out, "FAIL: configuration")
				return err
			}
			fmt.Fprintln(out, "OK: configuration is valid")

			source := followerwatch.NewGitHubFollowers(cfg.GitHubToken)
			followers, err := source.Fetch(context.Background(), cfg.Username)
			if err != nil {
				fmt.Fprintln(out, "FAIL: GitHub API connectivity")
				return errors.Wrap(err, "connectivity check")
			}
			fmt.Fprintf(out,
				"OK: connected to GitHub API, found %d follower%s\n",
				followers.Len(), plural(followers.Len()))
			return nil
		},
	}
}
