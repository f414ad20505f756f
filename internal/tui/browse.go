package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/thermokit/internal/storage"
	"github.com/san-kum/thermokit/internal/thermo"
	"github.com/san-kum/thermokit/internal/viz"
)

// RunSource is the part of storage.Store the browser reads from.
type RunSource interface {
	List() ([]storage.RunMetadata, error)
	LoadResult(runID string) (thermo.Result, error)
}

type state int

const (
	stateList state = iota
	stateDetail
)

type model struct {
	src    RunSource
	state  state
	runs   []storage.RunMetadata
	cursor int
	err    error

	table    storage.Table
	tableErr error

	width  int
	height int
}

func newModel(src RunSource) model {
	m := model{src: src, width: 80, height: 24}
	m.reload()
	return m
}

func (m *model) reload() {
	m.runs, m.err = m.src.List()
	// newest first
	for i, j := 0, len(m.runs)-1; i < j; i, j = i+1, j-1 {
		m.runs[i], m.runs[j] = m.runs[j], m.runs[i]
	}
	m.cursor = min(m.cursor, max(len(m.runs)-1, 0))
}

func (m *model) open() {
	if len(m.runs) == 0 {
		return
	}
	run := m.runs[m.cursor]
	m.state = stateDetail
	m.table, m.tableErr = storage.Table{}, nil
	if run.Error != "" {
		return
	}
	result, err := m.src.LoadResult(run.ID)
	if err != nil {
		m.tableErr = err
		return
	}
	m.table = storage.NewTable(result, run.Components)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		if m.state == stateDetail {
			return m.detailKey(msg)
		}
		return m.listKey(msg)
	}
	return m, nil
}

func (m model) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.runs)-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		m.open()
	case "r":
		m.reload()
	}
	return m, nil
}

func (m model) detailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "left", "h":
		m.state = stateList
	}
	return m, nil
}

func (m model) View() string {
	if m.state == stateDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m model) viewList() string {
	var b strings.Builder

	b.WriteString("\n  " + viz.Title.Render("thermokit runs") + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString("  " + viz.Failed.Render(m.err.Error()) + "\n")
	case len(m.runs) == 0:
		b.WriteString("  " + viz.Subtle.Render("no runs found") + "\n")
	}

	visible := max(m.height-8, 5)
	start := max(0, m.cursor-visible+1)
	for i := start; i < len(m.runs) && i < start+visible; i++ {
		run := m.runs[i]
		line := fmt.Sprintf("%-40s %-22s %s", run.ID, run.Calculation, run.Timestamp.Format("2006-01-02 15:04:05"))
		if i == m.cursor {
			b.WriteString("  " + viz.Selected.Render("▸ "+line) + "  " + viz.Status(run.Error) + "\n")
		} else {
			b.WriteString("    " + viz.Subtle.Render(line) + "  " + viz.Status(run.Error) + "\n")
		}
	}

	b.WriteString("\n  " + viz.KeyHint.Render("↑↓ select   enter open   r reload   q quit") + "\n")
	return b.String()
}

func (m model) viewDetail() string {
	run := m.runs[m.cursor]
	var b strings.Builder

	b.WriteString("\n  " + viz.Title.Render(run.ID) + "\n\n")
	b.WriteString("  " + viz.Field("calculation", run.Calculation) + "\n")
	b.WriteString("  " + viz.Field("eos", run.EOS) + "\n")
	b.WriteString("  " + viz.Field("components", strings.Join(run.Components, ", ")) + "\n")
	b.WriteString("  " + viz.Field("status", viz.Status(run.Error)) + "\n\n")

	switch {
	case run.Error != "":
		b.WriteString(viz.Panel.Render(viz.Failed.Render(run.Error)) + "\n")
	case m.tableErr != nil:
		b.WriteString(viz.Panel.Render(viz.Failed.Render(m.tableErr.Error())) + "\n")
	default:
		var tb strings.Builder
		if err := storage.WriteText(&tb, "", m.table); err != nil {
			tb.WriteString(err.Error())
		}
		b.WriteString(viz.Panel.Render(strings.TrimRight(tb.String(), "\n")) + "\n\n")

		if m.table.Rows > 1 {
			width := min(max(m.width-24, 10), 60)
			for _, c := range m.table.Columns {
				b.WriteString(fmt.Sprintf("  %-16s %s\n", viz.Label.Render(c.Name), viz.Value.Render(viz.Sparkline(c.Values, width))))
			}
		}
	}

	b.WriteString("\n  " + viz.KeyHint.Render("esc back   q quit") + "\n")
	return b.String()
}

// Browse runs the interactive run browser until the user quits.
func Browse(src RunSource) error {
	p := tea.NewProgram(newModel(src), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
