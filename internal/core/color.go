package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to an ANSI 256-color code.
type Color uint8

// Palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Arena element colors.
const (
	ColorBorder     = ColorGray
	ColorSlot       = ColorGray
	ColorTile       = ColorCyan
	ColorSelected   = ColorBrightYellow
	ColorProjectile = ColorBrightRed
	ColorImpact     = ColorOrange
)
