package main

import (
	"fmt"

	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newLsFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls-files",
		Short: "Print index entry names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Find(".")
			if err != nil {
				return err
			}

			idx, err := r.GetIndex()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range idx.Entries {
				fmt.Fprintln(out, e.Name)
			}
			return nil
		},
	}
}
