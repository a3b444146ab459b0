package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/scoring"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

var (
	hudTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	hudLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hudValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	hudComboStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	hudFadeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	hudAlertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// HUD is the status line shown above the arena.
type HUD struct {
	Category  string
	Preset    string
	Score     scoring.State
	Phase     scoring.Phase
	Level     int
	Lives     int // -1 = unlimited
	Clock     time.Duration
	Countdown bool // Clock is time remaining
	Best      int
}

func hudField(label, value string) string {
	return hudLabelStyle.Render(label+" ") + hudValueStyle.Render(value)
}

// Render lays the HUD out on one line of the given width.
func (h HUD) Render(width int) string {
	combo := hudLabelStyle.Render("combo ") + hudComboStyle.Render(fmt.Sprintf("x%d", h.Score.Combo))
	if h.Phase == scoring.ComboDecaying {
		combo += hudFadeStyle.Render(" fading")
	}

	lives := "∞"
	if h.Lives >= 0 {
		lives = strings.Repeat("♥", h.Lives)
		if h.Lives == 0 {
			lives = "-"
		}
	}
	livesField := hudField("lives", lives)
	if h.Lives == 1 {
		livesField = hudLabelStyle.Render("lives ") + hudAlertStyle.Render(lives)
	}

	clockLabel := "time"
	if h.Countdown {
		clockLabel = "left"
	}

	parts := []string{
		hudTitleStyle.Render(strings.ToUpper(h.Category)),
		hudField("score", fmt.Sprintf("%d", h.Score.TotalScore)),
		combo,
		hudField("level", fmt.Sprintf("%d", h.Level)),
		livesField,
		hudField(clockLabel, formatClock(h.Clock)),
		hudField("best", fmt.Sprintf("%d", max(h.Best, h.Score.TotalScore))),
	}
	if h.Preset != "" {
		parts = append(parts, hudLabelStyle.Render(h.Preset))
	}

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// formatClock renders a duration as m:ss.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
