package render

import (
	"image/color"
	"math"

	"github.com/Garsondee/fire-rescue/internal/sim"
)

var (
	skyTop      = color.RGBA{R: 120, G: 180, B: 235, A: 255}
	skyBottom   = color.RGBA{R: 200, G: 228, B: 250, A: 255}
	grass       = color.RGBA{R: 92, G: 160, B: 78, A: 255}
	road        = color.RGBA{R: 78, G: 80, B: 86, A: 255}
	roadStripe  = color.RGBA{R: 235, G: 220, B: 120, A: 255}
	brick       = color.RGBA{R: 168, G: 98, B: 74, A: 255}
	brickEdge   = color.RGBA{R: 110, G: 60, B: 45, A: 255}
	windowLit   = color.RGBA{R: 255, G: 224, B: 120, A: 255}
	windowDark  = color.RGBA{R: 48, G: 62, B: 96, A: 255}
	hoseCol     = color.RGBA{R: 60, G: 60, B: 64, A: 255}
	waterCol    = color.RGBA{R: 70, G: 150, B: 240, A: 255}
	portCol     = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	wheelCol    = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	glassCol    = color.RGBA{R: 170, G: 215, B: 240, A: 255}
	ladderCol   = color.RGBA{R: 210, G: 210, B: 215, A: 255}
	highlight   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	buttonCol   = color.RGBA{R: 214, G: 48, B: 40, A: 235}
	buttonOff   = color.RGBA{R: 120, G: 120, B: 120, A: 200}
	panelCol    = color.RGBA{R: 10, G: 12, B: 10, A: 210}
	panelEdge   = color.RGBA{R: 60, G: 100, B: 60, A: 180}
	devHitCol   = color.RGBA{R: 0, G: 255, B: 120, A: 255}
	devAimCol   = color.RGBA{R: 255, G: 0, B: 200, A: 255}
	textCol     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	textShadow  = color.RGBA{R: 0, G: 0, B: 0, A: 160}
	gradeGold   = color.RGBA{R: 255, G: 210, B: 60, A: 255}
	hydrantCap  = color.RGBA{R: 90, G: 90, B: 96, A: 255}
	valveOpen   = color.RGBA{R: 70, G: 200, B: 90, A: 255}
	valveClosed = color.RGBA{R: 150, G: 150, B: 155, A: 255}
)

// truckColors returns body and trim colours for a truck style.
func truckColors(s sim.TruckStyle) (body, trim color.RGBA) {
	switch s {
	case sim.TruckModern:
		return color.RGBA{R: 226, G: 232, B: 60, A: 255}, color.RGBA{R: 40, G: 40, B: 48, A: 255}
	case sim.TruckVintage:
		return color.RGBA{R: 150, G: 30, B: 28, A: 255}, color.RGBA{R: 212, G: 175, B: 55, A: 255}
	default:
		return color.RGBA{R: 218, G: 40, B: 34, A: 255}, color.RGBA{R: 245, G: 245, B: 245, A: 255}
	}
}

func hydrantColor(s sim.HydrantStyle) color.RGBA {
	if s == sim.HydrantYellow {
		return color.RGBA{R: 240, G: 200, B: 30, A: 255}
	}
	return color.RGBA{R: 205, G: 38, B: 38, A: 255}
}

// fade scales a premultiplied colour by a in [0, 1].
func fade(c color.RGBA, a float64) color.RGBA {
	a = math.Max(0, math.Min(1, a))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// fireLayers returns the outer, middle and core colours of a flame. A
// weakened fire pales towards smoke grey.
func fireLayers(f *sim.Fire) [3]color.RGBA {
	life := math.Max(0, math.Min(1, f.Life/100))
	mix := func(hot color.RGBA) color.RGBA {
		grey := 140.0
		return color.RGBA{
			R: uint8(grey + (float64(hot.R)-grey)*life),
			G: uint8(grey + (float64(hot.G)-grey)*life),
			B: uint8(grey + (float64(hot.B)-grey)*life),
			A: 255,
		}
	}
	return [3]color.RGBA{
		mix(color.RGBA{R: 230, G: 60, B: 20}),
		mix(color.RGBA{R: 255, G: 150, B: 30}),
		mix(color.RGBA{R: 255, G: 235, B: 120}),
	}
}
