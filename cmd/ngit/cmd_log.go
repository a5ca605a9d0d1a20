package main

import (
	"fmt"
	"time"

	"github.com/ngit/ngit/internal/objstore"
	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Find(".")
			if err != nil {
				return err
			}

			head, err := r.GetHead()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			oid := head.Commit
			for oid != "" {
				c, err := r.GetCommit(oid)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "commit %s\n", oid)
				fmt.Fprintf(out, "Author:    %s <%s>\n", c.Author.Name, c.Author.Email)
				fmt.Fprintf(out, "Committer: %s <%s>\n", c.Committer.Name, c.Committer.Email)
				fmt.Fprintf(out, "Date:      %s\n\n", formatSignatureTime(c.Committer))
				fmt.Fprintf(out, "    %s\n\n", c.Message)

				if len(c.Parents) == 0 {
					break
				}
				oid = c.Parents[0]
			}

			return nil
		},
	}
}

func formatSignatureTime(sig objstore.Signature) string {
	offset, err := time.Parse("-0700", sig.Timezone)
	loc := time.UTC
	if err == nil {
		_, secs := offset.Zone()
		loc = time.FixedZone(sig.Timezone, secs)
	}
	return time.Unix(sig.Seconds, 0).In(loc).Format("Mon Jan 2 15:04:05 2006 -0700")
}
