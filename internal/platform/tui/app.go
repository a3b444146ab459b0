package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// screen identifies which sub-model is active.
type screen int

const (
	screenMenu screen = iota
	screenPlay
	screenHistory
)

// AppOptions configures the full menu -> play -> menu flow.
type AppOptions struct {
	Store    *storage.Store
	Game     config.DodgeConfig
	Runtime  core.RuntimeConfig
	Category string // initially highlighted category
	Preset   config.DifficultyPreset
	Logger   *log.Logger
}

// AppModel manages the full session flow: menu -> play -> menu, with a
// history screen on the side. It backs both the local menu and SSH sessions.
type AppModel struct {
	opts     AppOptions
	current  screen
	menu     MenuModel
	play     *PlayModel
	history  *HistoryModel
	quitting bool
	err      error
}

// NewAppModel creates the top-level model starting at the menu.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return AppModel{
		opts: opts,
		menu: NewMenuModel(opts.Store, opts.Runtime, opts.Category, opts.Preset),
	}
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.current {
	case screenPlay:
		return m.updatePlay(msg)
	case screenHistory:
		return m.updateHistory(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu rebuilds the menu so best scores are fresh.
func (m AppModel) toMenu() (tea.Model, tea.Cmd) {
	m.current = screenMenu
	m.play = nil
	m.history = nil
	m.menu = NewMenuModel(m.opts.Store, m.opts.Runtime, m.opts.Category, m.opts.Preset)
	return m, m.menu.Init()
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		h := NewHistoryModel(m.opts.Store, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.history = &h
		m.current = screenHistory
		return m, h.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.opts.Runtime = m.menu.Config()
		m.opts.Category = selected.CategoryID
		m.opts.Preset = m.menu.Preset()

		play, err := NewPlayModel(PlayOptions{
			Category: selected.CategoryID,
			Game:     m.opts.Game,
			Preset:   m.opts.Preset,
			Runtime:  m.opts.Runtime,
			Store:    m.opts.Store,
			Logger:   m.opts.Logger,
		})
		if err != nil {
			m.opts.Logger.Error("cannot start session", "category", selected.CategoryID, "error", err)
			m.err = err
			return m.toMenu()
		}
		m.err = nil
		m.play = &play
		m.current = screenPlay
		return m, m.play.Init()
	}

	return m, cmd
}

func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		return m.toMenu()
	}

	return m, cmd
}

func (m AppModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if historyModel, ok := newModel.(HistoryModel); ok {
		m.history = &historyModel
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.history.IsGoingBack() {
		return m.toMenu()
	}

	return m, cmd
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenPlay:
		return m.play.View()
	case screenHistory:
		return m.history.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(hudAlertStyle.Render(m.err.Error()), m.opts.Runtime.ScreenW)
	}
	return view
}

// Err returns the last error raised while starting a session.
func (m AppModel) Err() error {
	return m.err
}

// RunApp runs the menu flow until the user quits.
func RunApp(opts AppOptions) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
