package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show category sidebar
	sidebarWidth       = 18  // Width of category sidebar
	maxResults         = 100 // Max results to load
)

// HistoryModel is the Bubble Tea model for past session results.
type HistoryModel struct {
	categories  []registry.Category
	catCursor   int
	store       *storage.Store
	recent      bool // recent first instead of best first
	records     []storage.Record
	stats       *storage.Stats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		categories:  registry.List(),
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a table sized to the current window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 7},
		{Title: "Combo", Width: 6},
		{Title: "Dodged", Width: 7},
		{Title: "Hit", Width: 4},
		{Title: "Time", Width: 6},
		{Title: "Ended", Width: 12},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // header, stats, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// current returns the highlighted category id.
func (m HistoryModel) current() string {
	if len(m.categories) == 0 {
		return ""
	}
	return m.categories[m.catCursor].ID
}

// load fetches records and stats for the current category.
func (m *HistoryModel) load() {
	m.records = nil
	m.stats = nil
	if m.store != nil && len(m.categories) > 0 {
		var err error
		if m.recent {
			m.records, err = m.store.RecentResults(m.current(), maxResults)
		} else {
			m.records, err = m.store.TopResults(m.current(), maxResults)
		}
		if err != nil {
			m.records = nil
		}
		if st, err := m.store.CategoryStats(m.current()); err == nil {
			m.stats = st
		}
	}
	m.updateTableRows()
}

// updateTableRows refreshes the table from the loaded records.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", r.FinalScore),
			fmt.Sprintf("x%d", r.PeakCombo),
			fmt.Sprintf("%d", r.Dodges),
			fmt.Sprintf("%d", r.Collisions),
			formatClock(r.Duration),
			reasonText(r.Reason),
			r.EndedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextCat), key.Matches(msg, m.keys.Right):
			if len(m.categories) > 0 {
				m.catCursor = (m.catCursor + 1) % len(m.categories)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevCat), key.Matches(msg, m.keys.Left):
			if len(m.categories) > 0 {
				m.catCursor = (m.catCursor - 1 + len(m.categories)) % len(m.categories)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Mode):
			m.recent = !m.recent
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	order := "BEST"
	if m.recent {
		order = "RECENT"
	}
	title := order + " RUNS"
	if len(m.categories) > 0 {
		title = fmt.Sprintf("%s RUNS - %s", order, m.categories[m.catCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.renderStats(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStats summarizes the category in one line.
func (m HistoryModel) renderStats() string {
	st := m.stats
	if st == nil || st.Sessions == 0 {
		return hudLabelStyle.Render("no sessions yet")
	}
	return strings.Join([]string{
		hudField("runs", fmt.Sprintf("%d", st.Sessions)),
		hudField("best", fmt.Sprintf("%d", st.BestScore)),
		hudField("avg", fmt.Sprintf("%.0f", st.AvgScore)),
		hudField("combo", fmt.Sprintf("x%d", st.BestCombo)),
		hudField("dodge rate", fmt.Sprintf("%.0f%%", st.SuccessRate()*100)),
		hudField("played", formatClock(st.TotalDuration)),
	}, "  ")
}

// renderWideLayout renders a category sidebar next to the table.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Categories\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, c := range m.categories {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.catCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + c.Title))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders category tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.categories))
	for i, c := range m.categories {
		if i == m.catCursor {
			tabs[i] = activeTabStyle.Render(c.Title)
		} else {
			tabs[i] = tabStyle.Render(" " + c.Title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 && len(m.categories) > 0 {
		tabLine = fmt.Sprintf("< %s >", m.categories[m.catCursor].Title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.records) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay a session to fill this table!")
	}

	return m.table.View()
}

// Records returns the rows currently shown.
func (m HistoryModel) Records() []storage.Record {
	return m.records
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}
