package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/scoring"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{9 * time.Second, "0:09"},
		{75 * time.Second, "1:15"},
		{-time.Second, "0:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHUDRender(t *testing.T) {
	h := HUD{
		Category:  "blitz",
		Score:     scoring.State{TotalScore: 42, Combo: 6},
		Phase:     scoring.ComboDecaying,
		Level:     5,
		Lives:     -1,
		Clock:     30 * time.Second,
		Countdown: true,
		Best:      10,
	}
	line := h.Render(200)
	for _, want := range []string{"BLITZ", "42", "x6", "fading", "∞", "left", "0:30"} {
		if !strings.Contains(line, want) {
			t.Errorf("HUD missing %q in %q", want, line)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.Clear()
	s.DrawTextColored(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "cd") {
		t.Errorf("first line = %q", lines[0])
	}
}
