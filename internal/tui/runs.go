package tui

import (
	"fmt"

	"github.com/BBrav0/FitbitDataReader/internal/service"
	"github.com/BBrav0/FitbitDataReader/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunsModel is the run list screen model
type RunsModel struct {
	queryService *service.QueryService
	units        Units
	runs         []store.Run
	cursor       int
	offset       int
	pageSize     int
	loading      bool
	err          error
}

// NewRunsModel creates a new runs model
func NewRunsModel(qs *service.QueryService, units Units) RunsModel {
	return RunsModel{
		queryService: qs,
		units:        units,
		pageSize:     15,
		loading:      true,
	}
}

// Init initializes the runs screen
func (m RunsModel) Init() tea.Cmd {
	return m.loadRuns
}

type runsLoadedMsg struct {
	runs []store.Run
	err  error
}

func (m RunsModel) loadRuns() tea.Msg {
	runs, err := m.queryService.GetRunsList()
	return runsLoadedMsg{runs: runs, err: err}
}

// Update handles messages
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.runs = msg.runs
		if m.cursor >= len(m.runs) {
			m.cursor = 0
			m.offset = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.runs)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.pageSize {
					m.offset = m.cursor - m.pageSize + 1
				}
			}
		case "pgup":
			m.cursor -= m.pageSize
			if m.cursor < 0 {
				m.cursor = 0
			}
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		case "pgdown":
			m.cursor += m.pageSize
			if m.cursor > len(m.runs)-1 {
				m.cursor = len(m.runs) - 1
			}
			if m.cursor >= m.offset+m.pageSize {
				m.offset = m.cursor - m.pageSize + 1
			}
		case "r":
			m.loading = true
			return m, m.loadRuns
		case "enter":
			if len(m.runs) > 0 && m.cursor < len(m.runs) {
				date := m.runs[m.cursor].Date
				return m, func() tea.Msg {
					return OpenRunDetailMsg{Date: date}
				}
			}
		}
	}
	return m, nil
}

// View renders the run list
func (m RunsModel) View() string {
	if m.loading {
		return "\n  Loading runs..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.runs) == 0 {
		return "\n  No runs cached yet. Press 's' to sync with Fitbit."
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Runs (%d)", len(m.runs)))

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-13s  %9s  %8s  %9s  %5s",
		"Date", "Type", "Distance", "Pace", "Elev Gain", "AvgHR"))

	rows := []string{header}
	end := m.offset + m.pageSize
	if end > len(m.runs) {
		end = len(m.runs)
	}
	for i := m.offset; i < end; i++ {
		run := m.runs[i]

		elev := "-"
		if run.ElevGain != nil {
			elev = m.units.FormatElevation(*run.ElevGain)
			if run.ElevSource == "strava" {
				elev += "*"
			}
		}

		line := fmt.Sprintf("%-10s  %-13s  %9s  %8s  %9s  %5d",
			run.Date,
			run.ActivityType,
			m.units.FormatDistance(run.Distance),
			m.units.FormatPace(run.Duration, run.Distance),
			elev,
			run.AvgHR,
		)

		if i == m.cursor {
			rows = append(rows, tableSelectedStyle.Render(line))
		} else {
			rows = append(rows, tableRowStyle.Render(line))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	help := statusStyle.Render("j/k to move, Enter for detail, 'r' to refresh")

	return lipgloss.JoinVertical(lipgloss.Left, title, table, help)
}
