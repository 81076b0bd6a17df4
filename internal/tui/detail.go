package tui

import (
	"fmt"

	"github.com/BBrav0/FitbitDataReader/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DetailModel is the run detail screen model
type DetailModel struct {
	queryService *service.QueryService
	units        Units
	date         string
	detail       *service.RunDetail
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewDetailModel creates a new detail model for a run date
func NewDetailModel(qs *service.QueryService, units Units, date string, width, height int) DetailModel {
	m := DetailModel{
		queryService: qs,
		units:        units,
		date:         date,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the detail screen
func (m DetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type detailLoadedMsg struct {
	detail *service.RunDetail
	err    error
}

func (m DetailModel) loadDetail() tea.Msg {
	detail, err := m.queryService.GetRunDetail(m.date)
	return detailLoadedMsg{detail: detail, err: err}
}

// Update handles messages
func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.detail
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.detail != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadDetail
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the run detail
func (m DetailModel) View() string {
	if m.loading {
		return "\n  Loading run..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m DetailModel) renderContent() string {
	if m.detail == nil {
		return "No data"
	}

	var sections []string
	sections = append(sections, m.renderSummary())

	if len(m.detail.Smoothed) > 2 {
		sections = append(sections, m.renderProfile())
	}
	if len(m.detail.Climbs) > 0 {
		sections = append(sections, m.renderClimbs())
	}
	if m.detail.Stats != nil {
		sections = append(sections, m.renderStats())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DetailModel) renderSummary() string {
	run := m.detail.Run
	title := cardTitleStyle.Render(fmt.Sprintf("%s - %s", run.Date, run.ActivityType))

	elev := "-"
	if run.ElevGain != nil {
		elev = m.units.FormatElevation(*run.ElevGain)
	}
	source := run.ElevSource
	if source == "" {
		source = "none"
	}

	lines := []string{
		RenderMetric("Distance", m.units.FormatDistance(run.Distance)),
		RenderMetric("Duration", m.units.FormatDuration(run.Duration)),
		RenderMetric("Pace", m.units.FormatPace(run.Duration, run.Distance)),
		RenderMetric("Steps", fmt.Sprintf("%d", run.Steps)),
		RenderMetric("Heart Rate", fmt.Sprintf("%d avg (%d-%d)", run.AvgHR, run.MinHR, run.MaxHR)),
		RenderMetric("Calories", fmt.Sprintf("%d", run.Calories)),
		RenderMetric("Elev Gain", fmt.Sprintf("%s (%s)", elev, source)),
	}

	if ref := m.detail.Reference; ref != nil {
		lines = append(lines, RenderMetric("Strava Ref", m.units.FormatElevation(ref.ElevGain)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DetailModel) renderProfile() string {
	title := cardTitleStyle.Render("Altitude Profile (smoothed, meters)")

	// Downsample wide traces so the plot fits the card
	data := downsample(m.detail.Smoothed, 60)

	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DetailModel) renderClimbs() string {
	title := cardTitleStyle.Render("Climbs")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-4s  %10s  %10s  %8s", "#", "Start", "Peak", "Gain"))
	rows := []string{header}

	for i, c := range m.detail.Climbs {
		line := fmt.Sprintf("%-4d  %9.1fm  %9.1fm  %7.1fm", i+1, c.Start, c.Peak, c.Gain)
		if c.Counted {
			rows = append(rows, tableRowStyle.Render(line))
		} else {
			rows = append(rows, navInactiveStyle.Padding(0, 1).Render(line+"  (below threshold)"))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m DetailModel) renderStats() string {
	s := m.detail.Stats
	title := cardTitleStyle.Render("Trace Stats")

	lines := []string{
		RenderMetric("Points", fmt.Sprintf("%d", s.Points)),
		RenderMetric("Altitude Range", fmt.Sprintf("%.1f-%.1fm (%.1fm)", s.Min, s.Max, s.Range)),
		RenderMetric("Std Dev", fmt.Sprintf("%.2fm", s.StdDev)),
		RenderMetric("Raw Gain", fmt.Sprintf("%.1fm", s.RawGain)),
		RenderMetric("Mean |Delta|", fmt.Sprintf("%.2fm", s.MeanAbsDelta)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// downsample reduces a trace to at most n points by bucket-averaging
func downsample(trace []float64, n int) []float64 {
	if len(trace) <= n {
		return trace
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * len(trace) / n
		end := (i + 1) * len(trace) / n
		out[i] = mean(trace[start:end])
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
