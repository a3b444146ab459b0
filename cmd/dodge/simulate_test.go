package main

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/tui-dodge/internal/arena"
	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/session"
)

func TestSimulateRunsToConclusion(t *testing.T) {
	game := config.DefaultDodgeConfig()
	cfg, err := registry.Configure("blitz", game, config.DifficultyNormal, 11)
	if err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	res, err := simulate(context.Background(), cfg, arena.LayoutFromConfig(game.PlayZone), 16*time.Millisecond, quietLogger())
	if err != nil {
		t.Fatalf("simulate() failed: %v", err)
	}
	if res.Reason != session.ReasonTimeUp {
		t.Errorf("Reason = %v, want time_up", res.Reason)
	}
	if res.Dodges+res.Collisions == 0 {
		t.Error("no projectiles resolved in a full blitz run")
	}
	if res.Category != "blitz" {
		t.Errorf("Category = %q, want blitz", res.Category)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	game := config.DefaultDodgeConfig()
	run := func() session.Result {
		cfg, err := registry.Configure("blitz", game, config.DifficultyEasy, 99)
		if err != nil {
			t.Fatalf("Configure() failed: %v", err)
		}
		res, err := simulate(context.Background(), cfg, arena.LayoutFromConfig(game.PlayZone), 16*time.Millisecond, quietLogger())
		if err != nil {
			t.Fatalf("simulate() failed: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.FinalScore != b.FinalScore || a.Dodges != b.Dodges || a.Collisions != b.Collisions {
		t.Errorf("same seed gave different results: %+v vs %+v", a, b)
	}
}
