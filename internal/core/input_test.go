package core

import "testing"

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ActionNone)
	f.Set(ActionLeft)
	f.Set(ActionUp)

	if len(f.Actions) != 3 {
		t.Fatalf("expected 3 actions (None dropped), got %d", len(f.Actions))
	}
	if f.Actions[0] != ActionLeft || f.Actions[2] != ActionUp {
		t.Errorf("actions out of order: %v", f.Actions)
	}
	if !f.Has(ActionUp) || f.Has(ActionPause) {
		t.Error("Has() reported wrong membership")
	}

	f.Clear()
	if len(f.Actions) != 0 || f.Has(ActionLeft) {
		t.Error("Clear should drop every action")
	}
}

func TestActionString(t *testing.T) {
	if ActionNextTile.String() != "NextTile" {
		t.Errorf("ActionNextTile.String() = %q", ActionNextTile.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action should stringify as Unknown")
	}
}
