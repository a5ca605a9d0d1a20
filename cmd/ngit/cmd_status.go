package main

import (
	"fmt"

	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Find(".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			head, err := r.GetHead()
			if err != nil {
				return err
			}
			switch head.Kind {
			case repo.HeadBranch:
				fmt.Fprintf(out, "on branch %s\n", head.Name)
			case repo.HeadTag:
				fmt.Fprintf(out, "on tag %s\n", head.Name)
			default:
				fmt.Fprintf(out, "HEAD detached at %s\n", head.Name)
			}

			idx, err := r.GetIndex()
			if err != nil {
				return err
			}
			commit, err := r.GetCommit(head.Commit)
			if err != nil {
				return err
			}

			entries, err := r.WorkingDirStatus(idx, commit.Tree)
			if err != nil {
				return err
			}

			var added, modified []string
			for _, e := range entries {
				switch e.StagingStatus {
				case repo.StagingAdded:
					added = append(added, e.Name)
				case repo.StagingModified:
					modified = append(modified, e.Name)
				}
			}

			if len(added) > 0 {
				fmt.Fprintln(out, "\nstaged (added):")
				for _, name := range added {
					fmt.Fprintf(out, "  + %s\n", name)
				}
			}
			if len(modified) > 0 {
				fmt.Fprintln(out, "\nstaged (modified):")
				for _, name := range modified {
					fmt.Fprintf(out, "  ~ %s\n", name)
				}
			}

			return nil
		},
	}
}
