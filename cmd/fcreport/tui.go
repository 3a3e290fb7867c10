package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/ukaji3/fcreport-go/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [workbook.xlsx...]",
		Short: "Explore the dashboard interactively: tabs, mapping overrides and filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(args)
			if err != nil {
				return err
			}
			if _, _, err := sess.Table(); err != nil {
				return loadFailure(err)
			}

			p := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
}
