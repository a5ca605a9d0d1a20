package main

import (
	"fmt"
	"io"

	"github.com/ngit/ngit/internal/objstore"
	"github.com/ngit/ngit/internal/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	var showType, showSize, prettyPrint bool

	cmd := &cobra.Command{
		Use:   "cat-file <oid>",
		Short: "Print object type, size, or contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, b := range []bool{showType, showSize, prettyPrint} {
				if b {
					set++
				}
			}
			if set != 1 {
				return fmt.Errorf("cat-file: exactly one of -t, -s, -p is required")
			}

			r, err := repo.Find(".")
			if err != nil {
				return err
			}

			oid := objstore.OID(args[0])
			obj, err := r.GetObject(oid)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case showType:
				fmt.Fprintln(out, obj.Kind)
			case showSize:
				fmt.Fprintln(out, len(obj.Payload))
			case prettyPrint:
				return prettyPrintObject(out, obj)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "print the object's type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "print the object's payload size")
	cmd.Flags().BoolVarP(&prettyPrint, "print", "p", false, "pretty-print the object's payload")
	return cmd
}

func prettyPrintObject(out io.Writer, obj *objstore.Object) error {
	switch obj.Kind {
	case objstore.KindTree:
		tree, err := objstore.ParseTree(obj.Payload)
		if err != nil {
			return err
		}
		for _, e := range tree.Entries {
			fmt.Fprintf(out, "%s %s %s\n", e.Mode, e.OID, e.Name)
		}
	case objstore.KindCommit:
		c, err := objstore.ParseCommit(obj.Payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "tree %s\n", c.Tree)
		for _, p := range c.Parents {
			fmt.Fprintf(out, "parent %s\n", p)
		}
		fmt.Fprintf(out, "author %s <%s> %d %s\n", c.Author.Name, c.Author.Email, c.Author.Seconds, c.Author.Timezone)
		fmt.Fprintf(out, "committer %s <%s> %d %s\n\n", c.Committer.Name, c.Committer.Email, c.Committer.Seconds, c.Committer.Timezone)
		fmt.Fprintln(out, c.Message)
	case objstore.KindTag:
		t, err := objstore.ParseTag(obj.Payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "object %s\n", t.Object)
		fmt.Fprintf(out, "type %s\n", t.Type)
		fmt.Fprintf(out, "tag %s\n", t.Tag)
		fmt.Fprintf(out, "tagger %s <%s> %d %s\n\n", t.Tagger.Name, t.Tagger.Email, t.Tagger.Seconds, t.Tagger.Timezone)
		fmt.Fprintln(out, t.Message)
	default:
		out.Write(obj.Payload)
	}
	return nil
}
