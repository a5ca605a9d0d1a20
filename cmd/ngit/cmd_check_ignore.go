package main

import (
	"fmt"
	"os"

	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newCheckIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ignore <path>",
		Short: "Check whether a path is ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Find(".")
			if err != nil {
				return err
			}

			matcher, err := r.IgnoreMatcher()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if matcher.IsIgnored(args[0]) {
				fmt.Fprintln(out, "Ignored")
				os.Exit(0)
			}
			fmt.Fprintln(out, "Not ignored")
			os.Exit(1)
			return nil
		},
	}
}
