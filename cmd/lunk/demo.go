package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/recera/lunk/internal/scenario"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("84"))
)

// cliTrace is a reactor.Observer that prints a line per pass and per
// activated link, installed by demo unless --quiet is set (watch always
// runs its demos quietly, without it).
type cliTrace struct {
	pass int
}

func (t *cliTrace) PassStart(involved, leaves int) {
	t.pass++
	fmt.Println(passStyle.Render(fmt.Sprintf("  pass %d: %d involved, %d leaves", t.pass, involved, leaves)))
}

func (t *cliTrace) LinkActivated(linkID uint64) {
	fmt.Println(dimStyle.Render(fmt.Sprintf("    activated link #%d", linkID)))
}

func newDemoCommand() *cobra.Command {
	var file string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "demo [builtin-name]",
		Short: "Run a scenario end to end and print the resulting cell values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenarioArg(file, args)
			if err != nil {
				return err
			}
			return runDemo(s, quiet)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a scenario YAML file (overrides the builtin-name argument)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-pass activation trace")
	return cmd
}

func loadScenarioArg(file string, args []string) (*scenario.Scenario, error) {
	if file != "" {
		return scenario.LoadOrDefault(file)
	}
	name := "linear-chain"
	if len(args) == 1 {
		name = args[0]
	}
	return scenario.Get(name)
}

func runDemo(s *scenario.Scenario, quiet bool) error {
	g, err := scenario.Build(s)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(s.Name))
	if s.Description != "" {
		fmt.Println(dimStyle.Render(s.Description))
	}
	fmt.Println()
	printCells(g)

	if !quiet {
		g.EG.Observe(&cliTrace{})
	}

	for _, ev := range s.Events {
		label := ev.Label
		if label == "" {
			label = "event"
		}
		fmt.Println(titleStyle.Render(label))
		scenario.ApplyEvent(g, ev)
		fmt.Println()
	}

	fmt.Println(titleStyle.Render("final state"))
	printCells(g)
	return nil
}

func printCells(g *scenario.Graph) {
	names := make([]string, 0, len(g.Cells))
	for name := range g.Cells {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %s\n", name, cellStyle.Render(fmt.Sprintf("%v", g.Cells[name].Get())))
	}
}
