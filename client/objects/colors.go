package objects

import (
	"fmt"
	"image/color"

	gametypes "github.com/cbodonnell/tetrafall/pkg/game/types"
)

var (
	BackgroundColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	WellColor       = color.RGBA{R: 32, G: 32, B: 44, A: 255}
	GridColor       = color.RGBA{R: 44, G: 44, B: 60, A: 255}
)

// cellColors holds the parsed Cell.Color of every tetromino tag.
var cellColors = map[gametypes.Cell]color.RGBA{}

func init() {
	for _, kind := range gametypes.Kinds {
		clr, err := parseHexColor(kind.Color())
		if err != nil {
			panic(fmt.Sprintf("Invalid color for %s: %v", kind, err))
		}
		cellColors[kind] = clr
	}
}

// CellColor returns the fill color of a cell tag. Empty cells use the well
// color.
func CellColor(c gametypes.Cell) color.RGBA {
	if clr, ok := cellColors[c]; ok {
		return clr
	}
	return WellColor
}

// parseHexColor parses a #rrggbb string.
func parseHexColor(s string) (color.RGBA, error) {
	clr := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return clr, fmt.Errorf("invalid hex color: %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &clr.R, &clr.G, &clr.B); err != nil {
		return clr, fmt.Errorf("invalid hex color %q: %v", s, err)
	}
	return clr, nil
}
