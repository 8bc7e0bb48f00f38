package figures

import (
	"image/color"
	"strings"
)

// Series and annotation colors shared across every figure. AOD is always
// drawn in blue and LST in orange; event figures use the red/purple pair so
// heatwaves and pollution spells stay distinguishable in print.
var (
	ColorAOD      = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	ColorLST      = color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	ColorTrend    = color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	ColorHeat     = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	ColorHaze     = color.NRGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}
	ColorResidual = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
)

// Theme carries the figure background and the color used for axes, titles
// and tick labels.
type Theme struct {
	Name       string
	Background color.Color
	Foreground color.Color
	Grid       color.Color
}

func Dark() Theme {
	return Theme{
		Name:       "dark",
		Background: color.Black,
		Foreground: color.White,
		Grid:       color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x60},
	}
}

func Light() Theme {
	return Theme{
		Name:       "light",
		Background: color.White,
		Foreground: color.Black,
		Grid:       color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0x60},
	}
}

// ThemeByName resolves a configured theme name, defaulting to dark.
func ThemeByName(name string) Theme {
	if strings.EqualFold(name, "light") {
		return Light()
	}
	return Dark()
}

// Faded returns c with its alpha scaled to alpha/255, used for the
// translucent event and confidence fills.
func Faded(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}
