package tui

import (
	"fmt"

	"github.com/BBrav0/FitbitDataReader/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        Units
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        units,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.TotalRuns == 0 {
		return "\n  No runs cached yet. Press 's' to sync with Fitbit."
	}

	var sections []string

	// Top row: totals and this week side by side
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderTotalsCard(), "  ", m.renderWeekCard())
	sections = append(sections, topRow)

	if len(m.data.WeeklyMileage) > 2 {
		sections = append(sections, m.renderMileageChart())
	}

	sections = append(sections, m.renderRecentRuns())

	help := statusStyle.Render("Press 'r' to refresh, 's' to sync, '2' for the run list")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderTotalsCard() string {
	title := cardTitleStyle.Render("All Time")

	lines := []string{
		RenderMetric("Runs", fmt.Sprintf("%d", m.data.TotalRuns)),
		RenderMetric("Distance", m.units.FormatDistance(m.data.TotalMiles)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("This Week")

	lines := []string{
		RenderMetric("Runs", fmt.Sprintf("%d", m.data.WeekRunCount)),
		RenderMetric("Distance", m.units.FormatDistance(m.data.WeekDistance)),
		RenderMetric("Elev Gain", m.units.FormatElevation(m.data.WeekElevGain)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderMileageChart() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Weekly Mileage - Last %d Weeks", len(m.data.WeeklyMileage)))

	graph := asciigraph.Plot(m.data.WeeklyMileage,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	var rangeLabel string
	if n := len(m.data.WeeklyLabels); n > 0 {
		rangeLabel = statusStyle.Render(fmt.Sprintf("%s .. %s", m.data.WeeklyLabels[0], m.data.WeeklyLabels[n-1]))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, rangeLabel))
}

func (m DashboardModel) renderRecentRuns() string {
	title := cardTitleStyle.Render("Recent Runs")

	if len(m.data.RecentRuns) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No runs yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-13s  %9s  %8s  %9s  %5s",
		"Date", "Type", "Distance", "Pace", "Elev Gain", "AvgHR"))

	rows := []string{header}
	for i, run := range m.data.RecentRuns {
		if i >= 5 {
			break
		}

		elev := "-"
		if run.ElevGain != nil {
			elev = m.units.FormatElevation(*run.ElevGain)
			if run.ElevSource == "strava" {
				elev += "*"
			}
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-13s  %9s  %8s  %9s  %5d",
			run.Date,
			run.ActivityType,
			m.units.FormatDistance(run.Distance),
			m.units.FormatPace(run.Duration, run.Distance),
			elev,
			run.AvgHR,
		))
		rows = append(rows, row)
	}

	footnote := statusStyle.Render("* Strava reference")
	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table, footnote))
}
