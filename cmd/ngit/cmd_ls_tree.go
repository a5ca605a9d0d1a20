package main

import (
	"fmt"
	"io"

	"github.com/ngit/ngit/internal/objstore"
	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recurse bool

	cmd := &cobra.Command{
		Use:   "ls-tree <oid>",
		Short: "Print tree entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Find(".")
			if err != nil {
				return err
			}
			return printTree(cmd.OutOrStdout(), r, objstore.OID(args[0]), "", recurse)
		},
	}

	cmd.Flags().BoolVarP(&recurse, "recurse", "r", false, "recurse into subtrees")
	return cmd
}

func printTree(out io.Writer, r *repo.Repo, oid objstore.OID, prefix string, recurse bool) error {
	tree, err := r.GetTree(oid)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries {
		name := e.Name
		if prefix != "" {
			name = prefix + "/" + e.Name
		}
		if e.Mode.IsDir() && recurse {
			if err := printTree(out, r, e.OID, name, recurse); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "%s %s %s\n", e.Mode.Padded(), e.OID, name)
	}
	return nil
}
