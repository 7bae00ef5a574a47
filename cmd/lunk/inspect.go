package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/recera/lunk/internal/scenario"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "inspect [builtin-name]",
		Short: "Run a scenario in a live table, advancing one scripted event per second",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScenarioArg(file, args)
			if err != nil {
				return err
			}
			g, err := scenario.Build(s)
			if err != nil {
				return err
			}
			m := newInspectModel(g, s)
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a scenario YAML file")
	return cmd
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type inspectModel struct {
	g        *scenario.Graph
	s        *scenario.Scenario
	tbl      table.Model
	eventIdx int
	done     bool
	lastPass string
}

func newInspectModel(g *scenario.Graph, s *scenario.Scenario) inspectModel {
	cols := []table.Column{
		{Title: "cell", Width: 16},
		{Title: "value", Width: 16},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(len(g.Cells)+1),
	)
	m := inspectModel{g: g, s: s, tbl: t}
	m.refreshRows()
	return m
}

func (m *inspectModel) refreshRows() {
	names := make([]string, 0, len(m.g.Cells))
	for name := range m.g.Cells {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		rows = append(rows, table.Row{name, fmt.Sprintf("%v", m.g.Cells[name].Get())})
	}
	m.tbl.SetRows(rows)
}

func (m inspectModel) Init() tea.Cmd {
	return tickCmd()
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		if !m.done {
			if m.eventIdx < len(m.s.Events) {
				ev := m.s.Events[m.eventIdx]
				scenario.ApplyEvent(m.g, ev)
				m.lastPass = ev.Label
				if m.lastPass == "" {
					m.lastPass = fmt.Sprintf("event %d", m.eventIdx+1)
				}
				m.eventIdx++
			} else {
				m.done = true
				m.lastPass = "all scripted events applied"
			}
		}
		m.refreshRows()
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m inspectModel) View() string {
	header := titleStyle.Render(m.s.Name)
	status := dimStyle.Render(m.lastPass)
	footer := dimStyle.Render("q to quit")
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n", header, status, m.tbl.View(), footer)
}
