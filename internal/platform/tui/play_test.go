package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-dodge/internal/clock"
	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/session"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newPlay(t *testing.T, clk *clock.Manual, store *storage.Store) PlayModel {
	t.Helper()
	m, err := NewPlayModel(PlayOptions{
		Category: "classic",
		Game:     config.DefaultDodgeConfig(),
		Preset:   config.DifficultyEasy,
		Runtime:  core.RuntimeConfig{ScreenW: 100, ScreenH: 40, TickRate: 60, Seed: 7},
		Store:    store,
		Clock:    clk,
	})
	if err != nil {
		t.Fatalf("NewPlayModel() failed: %v", err)
	}
	m.Init()
	return m
}

func send(m PlayModel, msg tea.Msg) PlayModel {
	next, _ := m.Update(msg)
	return next.(PlayModel)
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPlayStartsExecuting(t *testing.T) {
	m := newPlay(t, clock.NewManual(epoch), nil)
	if got := m.Session().State(); got != session.Executing {
		t.Fatalf("state = %v, want Executing", got)
	}
}

func TestPlayTickPumpsSession(t *testing.T) {
	clk := clock.NewManual(epoch)
	m := newPlay(t, clk, nil)

	for i := 0; i < 3; i++ {
		clk.Advance(16 * time.Millisecond)
		m = send(m, TickMsg(clk.Now()))
	}
	if got := m.Session().Frame(); got != 3 {
		t.Errorf("Frame() = %d, want 3", got)
	}
}

func TestPlayPauseToggles(t *testing.T) {
	m := newPlay(t, clock.NewManual(epoch), nil)

	m = send(m, runes("p"))
	if got := m.Session().State(); got != session.Suspended {
		t.Fatalf("after p: state = %v, want Suspended", got)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("paused view should show banner")
	}

	m = send(m, runes("p"))
	if got := m.Session().State(); got != session.Executing {
		t.Errorf("after second p: state = %v, want Executing", got)
	}
}

func TestPlayBackPausesThenLeaves(t *testing.T) {
	store := openStore(t)
	m := newPlay(t, clock.NewManual(epoch), store)

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("first esc should only pause")
	}
	if got := m.Session().State(); got != session.Suspended {
		t.Fatalf("state = %v, want Suspended", got)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Fatal("second esc should leave to menu")
	}
	res, ok := m.Session().Result()
	if !ok || res.Reason != session.ReasonPlayerQuit {
		t.Fatalf("Result() = %+v, %v; want player quit", res, ok)
	}

	rec, err := store.ResultBySessionID(res.SessionID)
	if err != nil || rec == nil {
		t.Fatalf("result not stored: %v", err)
	}
}

func TestPlayQuitSavesOnce(t *testing.T) {
	store := openStore(t)
	clk := clock.NewManual(epoch)
	m := newPlay(t, clk, store)

	m = send(m, runes("q"))
	if !m.IsQuitting() {
		t.Fatal("q should quit")
	}
	// Ticks after quitting are ignored.
	clk.Advance(time.Second)
	m = send(m, TickMsg(clk.Now()))

	recent, err := store.RecentResults("classic", 10)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("stored %d results, want 1", len(recent))
	}
}

func TestPlayRestartAfterConclude(t *testing.T) {
	store := openStore(t)
	clk := clock.NewManual(epoch)
	m := newPlay(t, clk, store)
	first := m.Session().ID()

	m.Session().Conclude(session.ReasonOutOfLives)
	clk.Advance(16 * time.Millisecond)
	m = send(m, TickMsg(clk.Now()))
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("concluded view should show summary")
	}

	m = send(m, runes("r"))
	if got := m.Session().State(); got != session.Executing {
		t.Fatalf("after restart: state = %v, want Executing", got)
	}
	if m.Session().ID() == first {
		t.Error("restart should start a new session")
	}

	if hs, _ := store.HighScore("classic"); hs != 0 {
		t.Errorf("HighScore = %d, want 0", hs)
	}
	recent, _ := store.RecentResults("classic", 10)
	if len(recent) != 1 || recent[0].SessionID != first {
		t.Errorf("expected first session stored, got %d records", len(recent))
	}
}

func TestPlayMovesTile(t *testing.T) {
	clk := clock.NewManual(epoch)
	m := newPlay(t, clk, nil)

	before := m.arena.Selected().Slot
	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	clk.Advance(16 * time.Millisecond)
	m = send(m, TickMsg(clk.Now()))

	if after := m.arena.Selected().Slot; after == before {
		t.Errorf("tile did not move from slot %d", before)
	}
}

func TestPlayViewHasHUD(t *testing.T) {
	m := newPlay(t, clock.NewManual(epoch), nil)
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"CLASSIC", "score", "level", "lives"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
