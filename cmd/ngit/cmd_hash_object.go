package main

import (
	"fmt"
	"os"

	"github.com/ngit/ngit/internal/objstore"
	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newHashObjectCmd() *cobra.Command {
	var kindStr string
	var noFilters bool
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Compute (and optionally store) an object's OID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := objstore.Kind(kindStr)
			if !objstore.ValidKind(kind) {
				return fmt.Errorf("hash-object: unknown type %q", kindStr)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}

			r, err := repo.Find(".")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if write {
				oid, err := r.WriteObject(kind, data, args[0], !noFilters)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, oid)
				return nil
			}

			var oid objstore.OID
			if noFilters {
				oid = objstore.HashObject(kind, data)
			} else {
				oid, err = r.HashObject(kind, data, args[0])
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(out, oid)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindStr, "type", "t", "blob", "object type")
	cmd.Flags().BoolVar(&noFilters, "no-filters", false, "skip content filtering")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the object to the store")
	return cmd
}
