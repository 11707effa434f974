// Package tui renders a live view of a batch run: one row per modulus with
// its status, the last reported iteration, and the factors once found.
package tui

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"

	"github.com/diffsquare/diffsquare/internal/report"
	"github.com/diffsquare/diffsquare/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// digits is the significant-digit budget for numbers in table cells.
const digits = 12

const (
	statusQueued  = "queued"
	statusRunning = "running"
)

// ProgressMsg reports that job Index reached Iteration.
type ProgressMsg struct {
	Index     int
	Iteration *big.Int
}

// ResultMsg carries a finished job.
type ResultMsg struct {
	Result types.JobResult
}

// DoneMsg is sent once every job has reported.
type DoneMsg struct {
	Err error
}

type job struct {
	modulus   *big.Int
	status    string
	iteration *big.Int
	p, q      *big.Int
}

// Model is the bubbletea model for a batch run.
type Model struct {
	table    table.Model
	spinner  spinner.Model
	jobs     []job
	finished int
	started  time.Time
	elapsed  time.Duration
	done     bool
	err      error
	quitting bool
	height   int
	cancel   func()
}

// NewModel builds a model for moduli. cancel is called when the user quits
// before the batch is done; it may be nil.
func NewModel(moduli []*big.Int, cancel func()) Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Modulus", Width: 20},
		{Title: "Status", Width: 10},
		{Title: "Iteration", Width: 18},
		{Title: "P", Width: 20},
		{Title: "Q", Width: 20},
	}

	jobs := make([]job, len(moduli))
	for i, n := range moduli {
		jobs[i] = job{modulus: n, status: statusQueued}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(min(len(moduli), 20)+1),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := Model{
		table:   t,
		spinner: sp,
		jobs:    jobs,
		started: time.Now(),
		cancel:  cancel,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.done && m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h := msg.Height - 6
		if h < 3 {
			h = 3
		}
		m.height = h
		m.table.SetHeight(h)
		return m, nil
	case ProgressMsg:
		if j := m.job(msg.Index); j != nil && (j.status == statusQueued || j.status == statusRunning) {
			j.status = statusRunning
			j.iteration = msg.Iteration
			m.refresh()
		}
		return m, nil
	case ResultMsg:
		if j := m.job(msg.Result.Index); j != nil {
			j.status = string(msg.Result.Outcome)
			j.iteration = msg.Result.Iteration
			j.p, j.q = msg.Result.P, msg.Result.Q
			m.finished++
			m.refresh()
		}
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) job(index int) *job {
	if index < 0 || index >= len(m.jobs) {
		return nil
	}
	return &m.jobs[index]
}

func (m *Model) refresh() {
	rows := make([]table.Row, len(m.jobs))
	for i, j := range m.jobs {
		rows[i] = table.Row{
			fmt.Sprint(i),
			cell(j.modulus),
			j.status,
			iterationCell(j.iteration),
			cell(j.p),
			cell(j.q),
		}
	}
	m.table.SetRows(rows)
}

func cell(n *big.Int) string {
	if n == nil {
		return ""
	}
	return report.SciNotation(n, digits)
}

func iterationCell(n *big.Int) string {
	if n == nil {
		return ""
	}
	return humanize.BigComma(n)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("diffsquare batch"))
	b.WriteString("\n")
	if m.done {
		fmt.Fprintf(&b, " %d/%d jobs finished in %s\n", m.finished, len(m.jobs), m.elapsed.Round(time.Millisecond))
	} else {
		fmt.Fprintf(&b, " %s %d/%d jobs finished\n", m.spinner.View(), m.finished, len(m.jobs))
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	status := "q: stop and quit | j/k: navigate"
	if m.done {
		status = "q: quit | j/k: navigate"
	}
	b.WriteString(statusStyle.Render(status))
	return b.String()
}
