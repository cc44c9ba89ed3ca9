package hue

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// white point returned for black, which has no chromaticity
var whitePoint = XY{X: 0.3127, Y: 0.3290}

// HSVToXY converts an HSV colour (all components 0..1) to CIE xy chromaticity
// using the wide gamut conversion recommended for Hue bulbs.
func HSVToXY(h, s, v float64) XY {
	// colorful.Hsv takes degrees in [0, 360)
	return linearToXY(colorful.Hsv(math.Mod(h, 1)*360, s, v).LinearRgb())
}

// RGBToXY converts sRGB components (0..1) to CIE xy.
func RGBToXY(r, g, b float64) XY {
	return linearToXY(colorful.Color{R: r, G: g, B: b}.LinearRgb())
}

func linearToXY(r, g, b float64) XY {
	x := r*0.664511 + g*0.154324 + b*0.162028
	y := r*0.283881 + g*0.668433 + b*0.047685
	z := r*0.000088 + g*0.072310 + b*0.986039

	sum := x + y + z
	if sum == 0 {
		return whitePoint
	}
	return XY{X: round4(x / sum), Y: round4(y / sum)}
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
