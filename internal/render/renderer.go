// Package render draws the fire rescue level and its HUD with ebiten.
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/fire-rescue/internal/sim"
)

// Renderer owns the cached background and font face. It holds no game
// state; everything it draws comes from the level passed in.
type Renderer struct {
	face text.Face

	bg       *ebiten.Image
	bgW, bgH int
	bgGround float64
}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{face: text.NewGoXFace(basicfont.Face7x13)}
}

// DrawLevel paints the level back to front.
func (r *Renderer) DrawLevel(screen *ebiten.Image, l *sim.FireRescueLevel) {
	r.drawBackground(screen, l)
	tick := l.Frame()
	l.Visit(func(e sim.Entity) {
		r.drawEntity(screen, e, tick)
	})
	r.drawTargetHint(screen, l, tick)
}

// drawBackground blits the sky and street, rebuilding them only when the
// canvas size or ground line changes.
func (r *Renderer) drawBackground(screen *ebiten.Image, l *sim.FireRescueLevel) {
	w, h := int(l.Width()), int(l.Height())
	if w <= 0 || h <= 0 {
		return
	}
	if r.bg == nil || r.bgW != w || r.bgH != h || r.bgGround != l.GroundY() {
		if r.bg != nil {
			r.bg.Deallocate()
		}
		r.bg = ebiten.NewImage(w, h)
		r.bgW, r.bgH, r.bgGround = w, h, l.GroundY()
		paintBackground(r.bg, float32(w), float32(h), float32(l.GroundY()))
	}
	screen.DrawImage(r.bg, nil)
}

func paintBackground(dst *ebiten.Image, w, h, ground float32) {
	const bands = 24
	for i := 0; i < bands; i++ {
		t := float64(i) / (bands - 1)
		c := color.RGBA{
			R: uint8(float64(skyTop.R) + (float64(skyBottom.R)-float64(skyTop.R))*t),
			G: uint8(float64(skyTop.G) + (float64(skyBottom.G)-float64(skyTop.G))*t),
			B: uint8(float64(skyTop.B) + (float64(skyBottom.B)-float64(skyTop.B))*t),
			A: 255,
		}
		y := ground * float32(i) / bands
		vector.FillRect(dst, 0, y, w, ground/bands+1, c, false)
	}
	vector.FillRect(dst, 0, ground, w, h-ground, grass, false)
	roadY := ground + (h-ground)*0.35
	roadH := (h - ground) * 0.45
	vector.FillRect(dst, 0, roadY, w, roadH, road, false)
	for x := float32(20); x < w; x += 90 {
		vector.FillRect(dst, x, roadY+roadH/2-2, 46, 4, roadStripe, false)
	}
}

func (r *Renderer) drawEntity(screen *ebiten.Image, e sim.Entity, tick int) {
	switch v := e.(type) {
	case *sim.Building:
		drawBuilding(screen, v)
	case *sim.Window:
		c := windowDark
		if v.Lit {
			c = windowLit
		}
		vector.FillRect(screen, f32(v.X), f32(v.Y), f32(v.W), f32(v.H), c, false)
	case *sim.Puddle:
		drawPuddle(screen, v)
	case *sim.Hydrant:
		drawHydrant(screen, v)
	case *sim.Truck:
		drawTruck(screen, v)
	case *sim.HelperTruck:
		drawHelper(screen, v)
	case *sim.Hose:
		for _, ln := range v.Lines {
			vector.StrokeLine(screen, f32(ln.From.X), f32(ln.From.Y), f32(ln.To.X), f32(ln.To.Y), 6, hoseCol, true)
		}
	case *sim.Nozzle:
		drawNozzle(screen, v)
	case *sim.Fire:
		drawFire(screen, v)
	case *sim.MistParticle:
		rad := float32(2)
		if v.Type == sim.MistHeavy {
			rad = 3
		}
		vector.FillCircle(screen, f32(v.X), f32(v.Y), rad, fade(color.RGBA{R: 220, G: 236, B: 255, A: 255}, v.Opacity), true)
	case *sim.WaterDrop:
		vector.FillCircle(screen, f32(v.X), f32(v.Y), f32(v.Size), waterCol, true)
	}
}

func drawBuilding(dst *ebiten.Image, b *sim.Building) {
	x, y, w, h := f32(b.X), f32(b.Y), f32(b.W), f32(b.H)
	vector.FillRect(dst, x, y, w, h, brick, false)
	vector.StrokeRect(dst, x, y, w, h, 2, brickEdge, false)
	// Roof ledge.
	vector.FillRect(dst, x-4, y-6, w+8, 6, brickEdge, false)
}

func drawPuddle(dst *ebiten.Image, p *sim.Puddle) {
	c := fade(waterCol, p.Opacity)
	if p.OnBuilding {
		vector.FillCircle(dst, f32(p.X), f32(p.Y), f32(p.Size*0.6), fade(color.RGBA{R: 60, G: 40, B: 35, A: 255}, p.Opacity), true)
		return
	}
	// Flattened pool: a bar with round ends.
	half := f32(p.Size)
	thick := half * 0.3
	vector.FillRect(dst, f32(p.X)-half, f32(p.Y)-thick, 2*half, 2*thick, c, true)
	vector.FillCircle(dst, f32(p.X)-half, f32(p.Y), thick, c, true)
	vector.FillCircle(dst, f32(p.X)+half, f32(p.Y), thick, c, true)
}

func drawHydrant(dst *ebiten.Image, h *sim.Hydrant) {
	body := hydrantColor(h.Style)
	x, y, w, hh := f32(h.X), f32(h.Y), f32(h.W), f32(h.H)
	vector.FillRect(dst, x, y, w, hh, body, false)
	vector.FillCircle(dst, x+w/2, y, w/2, body, true)
	vector.FillRect(dst, x-w*0.15, y+hh-6, w*1.3, 6, hydrantCap, false)

	vc := valveClosed
	if h.Open {
		vc = valveOpen
	}
	vector.FillRect(dst, f32(h.Valve.X), f32(h.Valve.Y), f32(h.Valve.W), f32(h.Valve.H), vc, false)
	vector.FillCircle(dst, f32(h.Port.X), f32(h.Port.Y), f32(h.Port.R*0.6), portCol, true)
	vector.StrokeCircle(dst, f32(h.Port.X), f32(h.Port.Y), f32(h.Port.R*0.6), 2, hydrantCap, true)
}

func drawTruck(dst *ebiten.Image, t *sim.Truck) {
	body, trim := truckColors(t.Style)
	body, trim = fade(body, t.Fade), fade(trim, t.Fade)
	x, y, w, h := f32(t.X), f32(t.Y), f32(t.W), f32(t.H)

	// Cab on the right, facing the hydrant.
	cabW := w * 0.28
	vector.FillRect(dst, x, y+h*0.25, w-cabW, h*0.55, body, false)
	vector.FillRect(dst, x+w-cabW, y, cabW, h*0.8, body, false)
	vector.FillRect(dst, x+w-cabW*0.8, y+h*0.1, cabW*0.6, h*0.25, fade(glassCol, t.Fade), false)
	vector.FillRect(dst, x, y+h*0.62, w, h*0.06, trim, false)

	wheel := h * 0.16
	for _, wx := range []float32{x + w*0.18, x + w*0.8} {
		vector.FillCircle(dst, wx, y+h*0.82, wheel, fade(wheelCol, t.Fade), true)
		vector.FillCircle(dst, wx, y+h*0.82, wheel*0.4, trim, true)
	}

	coil := t.HoseCoil
	vector.FillCircle(dst, f32(coil.X), f32(coil.Y), f32(coil.R*0.8), fade(hoseCol, t.Fade), true)
	vector.StrokeCircle(dst, f32(coil.X), f32(coil.Y), f32(coil.R*0.5), 3, trim, true)
	vector.FillCircle(dst, f32(t.Port.X), f32(t.Port.Y), f32(t.Port.R*0.6), fade(portCol, t.Fade), true)
}

func drawHelper(dst *ebiten.Image, h *sim.HelperTruck) {
	body, trim := truckColors(sim.TruckClassic)
	x, y, w, hh := f32(h.X), f32(h.Y), f32(h.W), f32(h.H)
	vector.FillRect(dst, x, y+hh*0.2, w, hh*0.6, body, false)
	vector.FillRect(dst, x+w*0.7, y, w*0.3, hh*0.8, body, false)
	vector.FillCircle(dst, x+w*0.2, y+hh*0.85, hh*0.15, wheelCol, true)
	vector.FillCircle(dst, x+w*0.8, y+hh*0.85, hh*0.15, wheelCol, true)

	ld := &h.Ladder
	tx, ty := ld.Tip()
	px, py := f32(ld.PivotX), f32(ld.PivotY)
	vector.StrokeLine(dst, px, py, f32(tx), f32(ty), 5, ladderCol, true)
	// Rungs.
	n := int((ld.BaseLen + ld.Extension) / 12)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		rx := ld.PivotX + (tx-ld.PivotX)*t
		ry := ld.PivotY + (ty-ld.PivotY)*t
		nx, ny := -math.Sin(ld.Angle)*5, math.Cos(ld.Angle)*5
		vector.StrokeLine(dst, f32(rx-nx), f32(ry-ny), f32(rx+nx), f32(ry+ny), 1.5, trim, true)
	}
	vector.FillCircle(dst, px, py, 4, trim, true)
}

func drawNozzle(dst *ebiten.Image, n *sim.Nozzle) {
	vector.FillCircle(dst, f32(n.X), f32(n.Y), 9, color.RGBA{R: 230, G: 180, B: 40, A: 255}, true)
	vector.StrokeCircle(dst, f32(n.X), f32(n.Y), 9, 2, hoseCol, true)
	if n.Spraying {
		vector.StrokeLine(dst, f32(n.X), f32(n.Y), f32(n.AimX), f32(n.AimY), 1, fade(waterCol, 0.35), true)
	}
}

func drawFire(dst *ebiten.Image, f *sim.Fire) {
	layers := fireLayers(f)
	flick := 1 + 0.08*math.Sin(f.Flicker)
	s := f.Size * flick
	x, y := f32(f.X), f32(f.Y)
	vector.FillCircle(dst, x, y, f32(s), layers[0], true)
	vector.FillCircle(dst, x, y-f32(s*0.15), f32(s*0.68), layers[1], true)
	vector.FillCircle(dst, x, y-f32(s*0.25), f32(s*0.38), layers[2], true)
	// Tongues.
	for i := 0; i < 3; i++ {
		a := f.Flicker + float64(i)*2.1
		tx := f.X + math.Sin(a)*s*0.45
		ty := f.Y - s*0.75 - math.Abs(math.Cos(a))*s*0.35
		vector.FillCircle(dst, f32(tx), f32(ty), f32(s*0.22), layers[1], true)
	}
}

// drawTargetHint pulses a ring around the region the player should tap next.
func (r *Renderer) drawTargetHint(dst *ebiten.Image, l *sim.FireRescueLevel, tick int) {
	if !l.InputEnabled() {
		return
	}
	x, y, ok := l.TargetPoint(l.NextTarget())
	if !ok {
		return
	}
	pulse := 0.5 + 0.5*math.Sin(float64(tick)*0.12)
	rad := 22 + 8*pulse
	vector.StrokeCircle(dst, f32(x), f32(y), f32(rad), 3, fade(highlight, 0.4+0.5*pulse), true)
}

func f32(v float64) float32 { return float32(v) }
