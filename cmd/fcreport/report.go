package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/dashboard"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/output"
)

func reportCmd() *cobra.Command {
	var (
		outputPath string
		format     string
		pretty     bool
		tabs       []string
	)

	cmd := &cobra.Command{
		Use:   "report [workbook.xlsx...]",
		Short: "Build the KPI dashboard and print it as JSON, Markdown or HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tabIDs []dashboard.TabID
			for _, t := range tabs {
				m, ok := dashboard.ParseTab(t)
				if !ok {
					return fmt.Errorf("invalid tab: %s", t)
				}
				tabIDs = append(tabIDs, m.ID)
			}

			sess, err := newSession(args)
			if err != nil {
				return err
			}
			snap, err := sess.Snapshot()
			if err != nil {
				return loadFailure(err)
			}

			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = output.ToJSON(snap, pretty)
			case "markdown", "md":
				data = []byte(output.Markdown(snap, tabIDs...))
			case "html":
				data, err = output.HTML(snap, tabIDs...)
			default:
				return fmt.Errorf("invalid format: %s (must be json, markdown, or html)", format)
			}
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: json, markdown, html")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringSliceVar(&tabs, "tab", nil, "Only render these tabs (financials, sales, supply_chain, operations, purchasing)")
	return cmd
}
