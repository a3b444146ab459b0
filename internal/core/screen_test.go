package core

import (
	"strings"
	"testing"
)

var blank = Cell{Rune: ' ', Color: ColorDefault}

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 6x3", s.Width(), s.Height())
	}
	want := strings.Repeat("      \n", 2) + "      "
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := s.GetCell(5, 2); got != blank {
		t.Errorf("GetCell(5, 2) = %+v, want blank", got)
	}
}

func TestSetColoredOutOfBounds(t *testing.T) {
	s := NewScreen(4, 4)
	for _, p := range [][2]int{{-1, 0}, {4, 0}, {0, -1}, {0, 4}} {
		s.SetColored(p[0], p[1], '*', ColorProjectile)
		if got := s.GetCell(p[0], p[1]); got != blank {
			t.Errorf("GetCell(%d, %d) = %+v, want blank", p[0], p[1], got)
		}
	}
	if strings.ContainsRune(s.String(), '*') {
		t.Error("out-of-bounds write leaked into the buffer")
	}
}

func TestClearDropsColors(t *testing.T) {
	s := NewScreen(3, 3)
	s.SetColored(1, 1, '✸', ColorImpact)
	s.Clear()
	if got := s.GetCell(1, 1); got != blank {
		t.Errorf("GetCell(1, 1) after Clear = %+v, want blank", got)
	}
}

func TestDrawTextColored(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawTextColored(2, 0, "▶▶▶▶", ColorProjectile)

	want := []Cell{blank, blank, {'▶', ColorProjectile}, {'▶', ColorProjectile}, {'▶', ColorProjectile}}
	for x, w := range want {
		if got := s.GetCell(x, 0); got != w {
			t.Errorf("cell %d = %+v, want %+v", x, got, w)
		}
	}
}

func TestDrawTextCenteredCountsRunes(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		x     int
	}{
		{"ascii", 11, "dodge", 3},
		{"arrows", 13, "→ dodge ←", 2},
		{"glyphs", 7, "▲▼◀", 2},
		{"wider than screen", 3, "abcde", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(tt.width, 1)
			s.DrawTextCentered(0, tt.text)

			runes := []rune(tt.text)
			for i, r := range runes {
				x := tt.x + i
				if x < 0 || x >= tt.width {
					continue
				}
				if got := s.Get(x, 0); got != r {
					t.Errorf("Get(%d, 0) = %q, want %q", x, got, r)
				}
			}
			if tt.x > 0 && s.Get(tt.x-1, 0) != ' ' {
				t.Errorf("cell before text = %q, want space", s.Get(tt.x-1, 0))
			}
		})
	}
}

func TestDrawBoxColored(t *testing.T) {
	s := NewScreen(6, 5)
	s.DrawBox(1, 1, 4, 3, ColorBorder)

	want := []string{
		"      ",
		" ┌──┐ ",
		" │  │ ",
		" └──┘ ",
		"      ",
	}
	if got := s.String(); got != strings.Join(want, "\n") {
		t.Fatalf("box =\n%s\nwant\n%s", got, strings.Join(want, "\n"))
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			c := s.GetCell(x, y)
			edge := c.Rune != ' '
			switch {
			case edge && c.Color != ColorBorder:
				t.Errorf("edge (%d, %d) color = %d, want %d", x, y, c.Color, ColorBorder)
			case !edge && c.Color != ColorDefault:
				t.Errorf("blank (%d, %d) color = %d, want default", x, y, c.Color)
			}
		}
	}
}

func TestDrawBoxClipsAtEdges(t *testing.T) {
	s := NewScreen(3, 3)
	s.DrawBox(-1, -1, 5, 5, ColorBorder)
	if got := s.String(); got != "   \n   \n   " {
		t.Errorf("box around the whole screen drew inside it:\n%s", got)
	}

	s.DrawBox(1, 1, 4, 4, ColorSelected)
	if got := s.GetCell(1, 1); got != (Cell{'┌', ColorSelected}) {
		t.Errorf("GetCell(1, 1) = %+v, want selected corner", got)
	}
	if got := s.GetCell(2, 1); got != (Cell{'─', ColorSelected}) {
		t.Errorf("GetCell(2, 1) = %+v, want selected edge", got)
	}
}

func TestDrawRect(t *testing.T) {
	tests := []struct {
		name        string
		x, y, w, h  int
		filled      int
		outsideCell [2]int
	}{
		{"inside", 1, 1, 2, 2, 4, [2]int{0, 0}},
		{"clipped top left", -1, -1, 3, 3, 4, [2]int{2, 2}},
		{"clipped bottom right", 3, 3, 5, 5, 1, [2]int{2, 2}},
		{"empty", 1, 1, 0, 3, 0, [2]int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(4, 4)
			s.DrawRect(tt.x, tt.y, tt.w, tt.h, '█', ColorTile)

			filled := 0
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					c := s.GetCell(x, y)
					if c == (Cell{'█', ColorTile}) {
						filled++
					} else if c != blank {
						t.Errorf("cell (%d, %d) = %+v", x, y, c)
					}
				}
			}
			if filled != tt.filled {
				t.Errorf("filled = %d, want %d", filled, tt.filled)
			}
			if got := s.GetCell(tt.outsideCell[0], tt.outsideCell[1]); got != blank {
				t.Errorf("cell %v = %+v, want blank", tt.outsideCell, got)
			}
		})
	}
}

func TestDrawRectOverwritesColor(t *testing.T) {
	s := NewScreen(3, 1)
	s.DrawRect(0, 0, 3, 1, '█', ColorTile)
	s.DrawRect(1, 0, 1, 1, '█', ColorSelected)

	want := []Color{ColorTile, ColorSelected, ColorTile}
	for x, c := range want {
		if got := s.GetCell(x, 0).Color; got != c {
			t.Errorf("cell %d color = %d, want %d", x, got, c)
		}
	}
}

func TestResizeKeepsColors(t *testing.T) {
	s := NewScreen(5, 5)
	s.SetColored(1, 1, '▼', ColorProjectile)
	s.SetColored(4, 4, '✸', ColorImpact)

	s.Resize(8, 6)
	if got := s.GetCell(1, 1); got != (Cell{'▼', ColorProjectile}) {
		t.Errorf("after grow GetCell(1, 1) = %+v", got)
	}
	if got := s.GetCell(4, 4); got != (Cell{'✸', ColorImpact}) {
		t.Errorf("after grow GetCell(4, 4) = %+v", got)
	}
	if got := s.GetCell(7, 5); got != blank {
		t.Errorf("new cell (7, 5) = %+v, want blank", got)
	}

	s.Resize(3, 3)
	if s.Width() != 3 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", s.Width(), s.Height())
	}
	if got := s.GetCell(1, 1); got != (Cell{'▼', ColorProjectile}) {
		t.Errorf("after shrink GetCell(1, 1) = %+v", got)
	}

	// Cells cut off by a shrink stay gone after growing back.
	s.Resize(5, 5)
	if got := s.GetCell(4, 4); got != blank {
		t.Errorf("GetCell(4, 4) = %+v, want blank after shrink and grow", got)
	}
}

func TestResizeSameSizeKeepsBuffer(t *testing.T) {
	s := NewScreen(2, 2)
	s.SetColored(0, 0, '·', ColorSlot)
	s.Resize(2, 2)
	if got := s.GetCell(0, 0); got != (Cell{'·', ColorSlot}) {
		t.Errorf("GetCell(0, 0) = %+v", got)
	}
}
