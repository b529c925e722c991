// Package tui is a terminal rendition of the sales dashboard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sales-monitor/internal/analytics"
	"sales-monitor/internal/models"
	"sales-monitor/internal/service"
)

const loadTimeout = 30 * time.Second

// Source is what the console reads from.
type Source interface {
	Dashboard(ctx context.Context, state models.FilterState) (models.DashboardSummary, error)
	Snapshot(ctx context.Context) (service.Snapshot, error)
	Refresh(ctx context.Context) (models.IngestResponse, error)
}

type loadedMsg struct {
	summary models.DashboardSummary
	units   []string
	err     error
}

type Model struct {
	source  Source
	state   models.FilterState
	units   []string
	summary models.DashboardSummary
	loaded  bool
	loading bool
	err     error

	table     table.Model
	search    textinput.Model
	searching bool

	width  int
	height int
}

func New(source Source) Model {
	t := table.New(
		table.WithColumns(unitColumns),
		table.WithHeight(6),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true).BorderStyle(lipgloss.NormalBorder())
	t.SetStyles(styles)

	search := textinput.New()
	search.Placeholder = "produk atau customer"
	search.Prompt = "/ "
	search.CharLimit = 64

	return Model{
		source: source,
		state:  models.DefaultFilterState(),
		table:  t,
		search: search,
	}
}

var unitColumns = []table.Column{
	{Title: "Unit", Width: 18},
	{Title: "Target", Width: 18},
	{Title: "Aktual", Width: 18},
	{Title: "%", Width: 5},
	{Title: "Status", Width: 7},
}

func (m Model) Init() tea.Cmd {
	return m.load(false)
}

func (m Model) load(refresh bool) tea.Cmd {
	source, state := m.source, m.state
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if refresh {
			if _, err := source.Refresh(ctx); err != nil {
				return loadedMsg{err: err}
			}
		}
		snap, err := source.Snapshot(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		summary, err := source.Dashboard(ctx, state)
		return loadedMsg{summary: summary, units: snap.Units, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
			m.units = msg.units
			m.loaded = true
			m.table.SetRows(unitRows(msg.summary.Units))
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.state.Period = nextPeriod(m.state.Period)
			return m.reload(false)
		case "u":
			m.state.Unit = nextUnit(m.state.Unit, m.units)
			return m.reload(false)
		case "/":
			m.searching = true
			m.search.SetValue(m.state.Search)
			return m, m.search.Focus()
		case "r":
			return m.reload(true)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.state.Search = strings.TrimSpace(m.search.Value())
		return m.reload(false)
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) reload(refresh bool) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.load(refresh)
}

// nextPeriod cycles through the selectors in display order.
func nextPeriod(p models.Period) models.Period {
	for i, candidate := range analytics.Periods {
		if candidate == p {
			return analytics.Periods[(i+1)%len(analytics.Periods)]
		}
	}
	return analytics.Periods[0]
}

// nextUnit cycles all -> each unit -> all.
func nextUnit(current string, units []string) string {
	if current == models.AllUnits || current == "" {
		if len(units) == 0 {
			return models.AllUnits
		}
		return units[0]
	}
	for i, u := range units {
		if u == current && i+1 < len(units) {
			return units[i+1]
		}
	}
	return models.AllUnits
}

func (m Model) State() models.FilterState {
	return m.state
}

func (m Model) View() string {
	header := headerStyle.Render("Sales Monitor")
	filter := subtle.Render(fmt.Sprintf("Periode: %s · Unit: %s · Cari: %q",
		analytics.PeriodLabel(m.state.Period), m.state.Unit, m.state.Search))
	help := subtle.Render("p periode · u unit · / cari · r refresh · q keluar")

	sections := []string{header, filter}
	if m.searching {
		sections = append(sections, m.search.View())
	}
	if m.loading {
		sections = append(sections, subtle.Render("Memuat..."))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("Error: "+m.err.Error()))
	}
	if !m.loaded {
		return strings.Join(append(sections, help), "\n\n")
	}

	sum := m.summary
	left := lipgloss.JoinVertical(lipgloss.Left,
		panel.Render(m.table.View()),
		panel.Render(renderTrend(sum.Trend, 30)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		panel.Render(renderAging(sum.Aging, sum.KPIs.CollectionRate)),
		panel.Render(renderNotifications(sum.Notifications, 6)),
	)

	sections = append(sections,
		renderKPIs(sum.KPIs),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		subtle.Render("Diperbarui "+sum.GeneratedAt),
		help,
	)
	return strings.Join(sections, "\n\n")
}
