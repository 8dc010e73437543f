package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors. The tetromino colors follow the usual guideline palette.
const (
	ColorDefault Color = iota
	ColorYellow        // O
	ColorCyan          // I
	ColorMagenta       // T
	ColorOrange        // L
	ColorBlue          // J
	ColorGreen         // S
	ColorRed           // Z
	ColorGray          // garbage, ghost, frame
	ColorBrightWhite   // text highlights
)

// ANSI returns the 256-color code for c, or "" for the terminal default.
func (c Color) ANSI() string {
	switch c {
	case ColorYellow:
		return "11"
	case ColorCyan:
		return "14"
	case ColorMagenta:
		return "13"
	case ColorOrange:
		return "208"
	case ColorBlue:
		return "12"
	case ColorGreen:
		return "10"
	case ColorRed:
		return "9"
	case ColorGray:
		return "245"
	case ColorBrightWhite:
		return "15"
	}
	return ""
}
