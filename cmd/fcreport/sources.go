package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/output"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

func sourcesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sources [workbook.xlsx...]",
		Short: "Show loaded sheets and the detected and current column mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args)
			if err != nil {
				return err
			}
			snap, err := sess.Snapshot()
			if err != nil {
				return loadFailure(err)
			}

			if asJSON {
				data, err := output.ToJSON(struct {
					Sources any `json:"sources"`
					Mapping any `json:"mapping"`
					Filters any `json:"filters"`
				}{snap.Sources, snap.Mapping, snap.Filters}, true)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tSHEET\tROWS\tCOLUMNS / ERROR")
			for _, e := range snap.Sources {
				detail := strings.Join(e.Columns, ", ")
				if e.Error != "" {
					detail = "error: " + e.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.File, e.Sheet, e.Rows, detail)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "FIELD\tDETECTED\tCURRENT\t")
			for _, e := range snap.Mapping {
				current := output.Blank
				if e.Column != "" {
					current = e.Column
				}
				if e.Overridden {
					current += " (override)"
				}
				detected := output.Blank
				if e.Detected != "" {
					detected = e.Detected
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", e.Field, detected, current)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the semantic fields and the column patterns used to detect them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tGROUP\tLABEL\tPATTERNS")
			for _, d := range schema.Definitions() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Field, d.Group, d.Label, strings.Join(d.Patterns, "  "))
			}
			return w.Flush()
		},
	}
}
