package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-dodge/internal/arena"
	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/session"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// Rows above and below the arena.
const (
	hudRows  = 1
	helpRows = 1
)

// PlayOptions configures a play screen.
type PlayOptions struct {
	Category string
	Game     config.DodgeConfig
	Preset   config.DifficultyPreset
	Runtime  core.RuntimeConfig
	Store    *storage.Store // nil disables persistence
	Logger   *log.Logger
	Clock    clock.Clock // nil means wall time

	// ExitOnBack quits the program on back instead of signalling the menu.
	ExitOnBack bool
}

// PlayModel is the Bubble Tea model for one dodge session.
type PlayModel struct {
	opts   PlayOptions
	o      *session.Orchestrator
	arena  *arena.Arena
	screen *core.Screen
	keys   PlayKeyMap
	help   help.Model
	input  core.InputFrame
	width  int
	height int
	best   int

	saved      bool
	quitting   bool
	backToMenu bool
}

// NewPlayModel builds a session for opts.Category and initializes it.
// The session starts on Init.
func NewPlayModel(opts PlayOptions) (PlayModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	o := session.New(
		session.WithClock(opts.Clock),
		session.WithLogger(opts.Logger),
	)
	m := PlayModel{
		opts:   opts,
		o:      o,
		arena:  arena.New(o, arena.LayoutFromConfig(opts.Game.PlayZone)),
		screen: core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-hudRows-helpRows, 1)),
		keys:   DefaultPlayKeyMap(),
		help:   help.New(),
		input:  core.NewInputFrame(),
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	if opts.Store != nil {
		if best, err := opts.Store.HighScore(opts.Category); err == nil {
			m.best = best
		}
	}

	if err := m.initialize(); err != nil {
		return PlayModel{}, err
	}
	return m, nil
}

// initialize configures a fresh session and places tiles. A zero seed
// draws a new one from the wall clock each time.
func (m *PlayModel) initialize() error {
	seed := m.opts.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg, err := registry.Configure(m.opts.Category, m.opts.Game, m.opts.Preset, seed)
	if err != nil {
		return err
	}
	if !m.o.Initialize(cfg) {
		return fmt.Errorf("tui: cannot initialize session in state %s", m.o.State())
	}
	m.arena.Attach()
	m.saved = false
	return nil
}

// Init starts the session and the tick loop.
func (m PlayModel) Init() tea.Cmd {
	m.o.Commence()
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-hudRows-helpRows, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		switch m.o.State() {
		case session.Executing:
			m.o.Suspend()
		case session.Suspended:
			m.o.Resume()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		// Back while running pauses first so a stray Esc doesn't end the run.
		if m.o.State() == session.Executing {
			m.o.Suspend()
			return m, nil
		}
		m.finish()
		m.backToMenu = true
		if m.opts.ExitOnBack {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.o.State() == session.Concluded {
			if err := m.initialize(); err != nil {
				m.opts.Logger.Error("restart failed", "error", err)
				return m, nil
			}
			m.o.Commence()
		}
		return m, nil
	}

	if a := m.keys.Action(msg); a != core.ActionNone {
		m.input.Set(a)
	}
	return m, nil
}

// handleTick applies buffered input and pumps the session once.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	m.arena.Apply(m.input)
	m.input.Clear()
	m.o.Pump()

	if m.o.State() == session.Concluded && !m.saved {
		m.save()
	}

	return m, tickCmd(m.opts.Runtime.TickRate)
}

// finish concludes a live session as a player quit and stores the result.
func (m *PlayModel) finish() {
	switch m.o.State() {
	case session.Executing, session.Suspended:
		m.o.Conclude(session.ReasonPlayerQuit)
	}
	if m.o.State() == session.Concluded && !m.saved {
		m.save()
	}
	m.arena.Detach()
}

func (m *PlayModel) save() {
	m.saved = true
	res, ok := m.o.Result()
	if !ok {
		return
	}
	m.best = max(m.best, res.FinalScore)
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SaveResult(res); err != nil {
		m.opts.Logger.Warn("could not save result", "session", res.SessionID, "error", err)
	}
}

// HUD returns the status line contents for the current session.
func (m PlayModel) HUD() HUD {
	h := HUD{
		Category: m.opts.Category,
		Preset:   string(m.opts.Preset),
		Score:    m.o.Score(),
		Phase:    m.o.ComboPhase(),
		Level:    m.o.Level(),
		Lives:    m.o.LivesLeft(),
		Clock:    time.Duration(m.o.Seconds()) * time.Second,
		Best:     m.best,
	}
	if left, ok := m.o.TimeLeft(); ok {
		h.Clock = left
		h.Countdown = true
	}
	return h
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.screen.Clear()
	v := arena.FitViewport(m.o.PlayZone(), m.screen.Width(), m.screen.Height(), 0)
	m.arena.Render(m.screen, v)

	switch m.o.State() {
	case session.Suspended:
		m.drawBanner(v, []string{"PAUSED", "p: resume  esc: menu"}, core.ColorBrightYellow)
	case session.Concluded:
		if res, ok := m.o.Result(); ok {
			m.drawBanner(v, summaryLines(res), core.ColorBrightWhite)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.HUD().Render(m.width),
		RenderScreen(m.screen),
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// drawBanner centers lines over the arena viewport.
func (m PlayModel) drawBanner(v arena.Viewport, lines []string, c core.Color) {
	top := v.Y + (v.H-len(lines))/2
	for i, line := range lines {
		w := lipgloss.Width(line)
		x := v.X + (v.W-w)/2
		m.screen.DrawRect(x-1, top+i, w+2, 1, ' ', core.ColorDefault)
		m.screen.DrawTextColored(x, top+i, line, c)
	}
}

func summaryLines(res session.Result) []string {
	return []string{
		fmt.Sprintf("GAME OVER: %s", reasonText(res.Reason)),
		fmt.Sprintf("score %d  level %d  peak combo %d", res.FinalScore, res.Level, res.PeakCombo),
		fmt.Sprintf("dodged %d  hit %d  %.0f%%  %s", res.Dodges, res.Collisions, res.SuccessRate*100, formatClock(res.Duration)),
		"r: restart  esc: menu  q: quit",
	}
}

func reasonText(r session.Reason) string {
	switch r {
	case session.ReasonOutOfLives:
		return "out of lives"
	case session.ReasonTimeUp:
		return "time up"
	default:
		return "quit"
	}
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Session exposes the orchestrator driving this screen.
func (m PlayModel) Session() *session.Orchestrator {
	return m.o
}

// RunPlay starts a single session in its own Bubble Tea program.
func RunPlay(opts PlayOptions) error {
	opts.ExitOnBack = true
	model, err := NewPlayModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
