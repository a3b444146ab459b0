package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// presetOrder is the left/right cycle of difficulty presets.
var presetOrder = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

// MenuItem represents a selectable category in the menu.
type MenuItem struct {
	CategoryID  string
	Title       string
	Description string
	Best        int
}

// MenuModel is the Bubble Tea model for the category picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	preset      int
	width       int
	height      int
	config      core.RuntimeConfig
	keys        MenuKeyMap
	help        help.Model
	quitting    bool
	selected    *MenuItem // Set when user picks a category
	openHistory bool      // True if user pressed Tab for history
}

// NewMenuModel creates a new menu model. The cursor starts on
// initialCategory and the preset on initialPreset when they are known.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, initialCategory string, initialPreset config.DifficultyPreset) MenuModel {
	cats := registry.List()
	items := make([]MenuItem, 0, len(cats))
	cursor := 0

	for i, c := range cats {
		item := MenuItem{
			CategoryID:  c.ID,
			Title:       c.Title,
			Description: c.Description,
		}
		if store != nil {
			if best, err := store.HighScore(c.ID); err == nil {
				item.Best = best
			}
		}
		if c.ID == initialCategory {
			cursor = i
		}
		items = append(items, item)
	}

	preset := 0
	for i, p := range presetOrder {
		if p == initialPreset {
			preset = i
		}
	}

	return MenuModel{
		items:  items,
		cursor: cursor,
		preset: preset,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Easier):
		if m.preset > 0 {
			m.preset--
		}

	case key.Matches(msg, m.keys.Harder):
		if m.preset < len(presetOrder)-1 {
			m.preset++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case key.Matches(msg, m.keys.History):
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	menuPresetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuPresetOnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  D O D G E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a category", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = menuCursorStyle
		}

		best := ""
		if item.Best > 0 {
			best = fmt.Sprintf("  best %d", item.Best)
		}
		line := style.Render(fmt.Sprintf("%s%-10s", cursor, item.Title)) + menuDescStyle.Render(best)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(menuDescStyle.Render(m.items[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	presets := make([]string, len(presetOrder))
	for i, p := range presetOrder {
		if i == m.preset {
			presets[i] = menuPresetOnStyle.Render(string(p))
		} else {
			presets[i] = menuPresetStyle.Render(" " + string(p) + " ")
		}
	}
	b.WriteString(centerText(strings.Join(presets, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Preset returns the highlighted difficulty preset.
func (m MenuModel) Preset() config.DifficultyPreset {
	return presetOrder[m.preset]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the history screen.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
