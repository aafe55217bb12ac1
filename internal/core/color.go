package core

// Color represents the color of a screen cell or a settled grid cell.
// Platforms map it to ANSI codes (terminal) or RGBA (desktop).
type Color uint8

// Predefined colors. The first value is the neutral "no color".
const (
	ColorDefault Color = iota
	ColorRed
	ColorYellow
	ColorOrange
	ColorGreen
	ColorCyan
	ColorMagenta
	ColorBlue
	ColorGray
	ColorWhite
)

// PieceColors is the fixed palette a falling piece draws its color from.
// The order matters: spawners index into it with a uniform draw.
var PieceColors = [...]Color{
	ColorRed,
	ColorYellow,
	ColorOrange,
	ColorGreen,
	ColorCyan,
	ColorMagenta,
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorOrange:
		return "orange"
	case ColorGreen:
		return "green"
	case ColorCyan:
		return "cyan"
	case ColorMagenta:
		return "magenta"
	case ColorBlue:
		return "blue"
	case ColorGray:
		return "gray"
	case ColorWhite:
		return "white"
	default:
		return "unknown"
	}
}
