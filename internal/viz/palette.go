package viz

import (
	"fmt"
	"math"
	"strconv"
)

// RGB is an opaque palette color.
type RGB struct {
	R, G, B uint8
}

// RGBA formats the color as a CSS rgba() string with the given alpha.
func (c RGB) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// Palette is the 20-color categorical palette (matplotlib tab20).
var Palette = []RGB{
	{31, 119, 180}, {174, 199, 232},
	{255, 127, 14}, {255, 187, 120},
	{44, 160, 44}, {152, 223, 138},
	{214, 39, 40}, {255, 152, 150},
	{148, 103, 189}, {197, 176, 213},
	{140, 86, 75}, {196, 156, 148},
	{227, 119, 194}, {247, 182, 210},
	{127, 127, 127}, {199, 199, 199},
	{188, 189, 34}, {219, 219, 141},
	{23, 190, 207}, {158, 218, 229},
}

// PaletteColor samples the palette at parameter t in [0, 1].
// Values outside the domain are clamped.
func PaletteColor(t float64) RGB {
	n := len(Palette)
	idx := int(math.Floor(t * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return Palette[idx]
}

// TopicColors assigns each topic, in the given order, a palette color by
// spreading the indices evenly over the palette domain. A single topic maps
// to the start of the palette.
func TopicColors(topics []string) map[string]RGB {
	colors := make(map[string]RGB, len(topics))
	n := len(topics)
	for i, topic := range topics {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		colors[topic] = PaletteColor(t)
	}
	return colors
}
