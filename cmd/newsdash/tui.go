package main

import (
	"fmt"
	"strings"

	"newsdash/orchestrator"
	"newsdash/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [keyword]",
	Short: "Browse results interactively",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// log lines would corrupt the alt screen
	zerolog.SetGlobalLevel(zerolog.Disabled)

	pipeline, err := orchestrator.Build(cfg)
	if err != nil {
		return err
	}

	q := orchestrator.QueryFrom(cfg.Query, strings.Join(args, " "), nil, nil)
	m := tui.NewModel(pipeline, q, orchestrator.OptionsFrom(cfg.Pipeline))

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
