package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/output"
)

func exportCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export [workbook.xlsx...]",
		Short: "Export the dashboard as an xlsx workbook with charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args)
			if err != nil {
				return err
			}
			snap, err := sess.Snapshot()
			if err != nil {
				return loadFailure(err)
			}
			if err := output.WriteWorkbook(outputPath, snap); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			logger.Info("exported dashboard", "path", outputPath, "rows", snap.Dashboard.Rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "dashboard.xlsx", "Output workbook path")
	return cmd
}
