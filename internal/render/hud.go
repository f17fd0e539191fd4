package render

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/fire-rescue/internal/score"
	"github.com/Garsondee/fire-rescue/internal/sim"
)

const (
	instructionScale = 2.5
	captionScale     = 2
	captionChars     = 48
)

// say draws s with a drop shadow. (x, y) is the anchor for align.
func (r *Renderer) say(dst *ebiten.Image, s string, x, y, scale float64, col color.RGBA, align text.Align) {
	for _, pass := range []struct {
		dx  float64
		col color.RGBA
	}{{2, fade(textShadow, float64(col.A)/255)}, {0, col}} {
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x+pass.dx, y+pass.dx)
		op.ColorScale.ScaleWithColor(pass.col)
		op.PrimaryAlign = align
		text.Draw(dst, s, r.face, op)
	}
}

// DrawHUD draws the instruction banner, fire counter and call button.
func (r *Renderer) DrawHUD(screen *ebiten.Image, l *sim.FireRescueLevel) {
	w := l.Width()
	if s := l.Instruction(); s != "" {
		r.say(screen, s, w/2, 24, instructionScale, textCol, text.AlignCenter)
	}

	out := fmt.Sprintf("Fires out: %d", l.FiresExtinguished())
	r.say(screen, out, 16, 20, captionScale, textCol, text.AlignStart)
	if burning := len(l.Fires()); burning > 0 {
		r.say(screen, fmt.Sprintf("Burning: %d", burning), 16, 48, captionScale, gradeGold, text.AlignStart)
	}

	r.drawCallButton(screen, l)
}

func (r *Renderer) drawCallButton(dst *ebiten.Image, l *sim.FireRescueLevel) {
	b := l.CallButton()
	col := buttonCol
	if !l.InputEnabled() {
		col = buttonOff
	}
	vector.FillRect(dst, f32(b.X), f32(b.Y), f32(b.W), f32(b.H), col, false)
	vector.StrokeRect(dst, f32(b.X), f32(b.Y), f32(b.W), f32(b.H), 2, highlight, false)

	label := "Call Ladder"
	switch h := l.Helper(); {
	case h.Phase == sim.HelperArrived && h.Ladder.Phase == sim.LadderExtended:
		label = "Lower Ladder"
	case h.Phase == sim.HelperArrived:
		label = "Raise Ladder"
	case h.Phase == sim.HelperArriving:
		label = "On the way!"
	}
	cx, cy := b.Center()
	r.say(dst, label, cx, cy-9, 1.4, textCol, text.AlignCenter)
}

// DrawCaption draws the narrator's current line near the bottom edge.
func (r *Renderer) DrawCaption(screen *ebiten.Image, line string, alpha float64) {
	if line == "" || alpha <= 0 {
		return
	}
	b := screen.Bounds()
	lines := wrap(line, captionChars)
	lineH := float64(13 * captionScale)
	h := float64(len(lines))*lineH + 16
	y := float64(b.Dy()) - h - 20
	vector.FillRect(screen, f32(float64(b.Dx())*0.15), f32(y), f32(float64(b.Dx())*0.7), f32(h), fade(panelCol, alpha), false)
	for i, ln := range lines {
		r.say(screen, ln, float64(b.Dx())/2, y+8+float64(i)*lineH, captionScale, fade(textCol, alpha), text.AlignCenter)
	}
}

// wrap breaks s on spaces into lines of at most width runes. Longer words
// are kept whole.
func wrap(s string, width int) []string {
	var out []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// DevLines is the developer overlay text for l.
func DevLines(l *sim.FireRescueLevel, extra ...string) []string {
	h := l.Helper()
	lines := []string{
		fmt.Sprintf("frame %d  stage %s  next %s", l.Frame(), l.Stage(), l.NextTarget()),
		fmt.Sprintf("fires %d  spawned %d  out %d", len(l.Fires()), l.FiresSpawned(), l.FiresExtinguished()),
		fmt.Sprintf("drops %d  mist %d  puddles %d/%d", len(l.Drops()), len(l.Mist()), len(l.Puddles()), sim.MaxPuddles),
		fmt.Sprintf("helper %s  ladder %s", h.Phase, h.Ladder.Phase),
		fmt.Sprintf("truck %s  input %v  complete %v", l.Truck().Style, l.InputEnabled(), l.Complete()),
	}
	return append(lines, extra...)
}

// DrawDevOverlay outlines every hit region and prints level counters.
func (r *Renderer) DrawDevOverlay(screen *ebiten.Image, l *sim.FireRescueLevel, extra ...string) {
	t, hy := l.Truck(), l.Hydrant()
	for _, c := range []sim.Circle{t.HoseCoil, t.Port, hy.Port} {
		vector.StrokeCircle(screen, f32(c.X), f32(c.Y), f32(c.R), 1, devHitCol, true)
	}
	for _, rc := range []sim.Rect{hy.Valve, l.CallButton()} {
		vector.StrokeRect(screen, f32(rc.X), f32(rc.Y), f32(rc.W), f32(rc.H), 1, devHitCol, false)
	}
	for _, b := range l.Buildings() {
		vector.StrokeRect(screen, f32(b.X), f32(b.Y), f32(b.W), f32(b.H), 1, devHitCol, false)
	}
	for _, f := range l.Fires() {
		vector.StrokeCircle(screen, f32(f.X), f32(f.Y), f32(f.Size), 1, devAimCol, true)
	}
	if n := l.Nozzle(); n.Spraying {
		vector.StrokeCircle(screen, f32(n.AimX), f32(n.AimY), 6, 1, devAimCol, true)
	}
	gy := f32(l.GroundY())
	vector.StrokeLine(screen, 0, gy, f32(l.Width()), gy, 1, devAimCol, false)

	lines := DevLines(l, extra...)
	const lineH = 16
	boxH := float32(len(lines)*lineH + 8)
	by := f32(l.Height()) - boxH - 8
	vector.FillRect(screen, 8, by, 340, boxH, panelCol, false)
	vector.StrokeRect(screen, 8, by, 340, boxH, 1, panelEdge, false)
	for i, ln := range lines {
		ebitenutil.DebugPrintAt(screen, ln, 14, int(by)+4+i*lineH)
	}
}

// DrawMenu draws the title screen.
func (r *Renderer) DrawMenu(screen *ebiten.Image, title string, best, sessions int, tick int) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	screen.Fill(color.RGBA{R: 150, G: 30, B: 26, A: 255})
	r.say(screen, title, w/2, h*0.25, 5, textCol, text.AlignCenter)

	prompt := "Tap anywhere to start!"
	if (tick/30)%2 == 0 {
		r.say(screen, prompt, w/2, h*0.55, 2.5, gradeGold, text.AlignCenter)
	}
	if sessions > 0 {
		r.say(screen, fmt.Sprintf("Best score %d   Shifts worked %d", best, sessions), w/2, h*0.7, 1.6, textCol, text.AlignCenter)
	}
	r.say(screen, "T: truck style   D: developer view", w/2, h-40, 1.2, textCol, text.AlignCenter)
}

// DrawResults draws the end-of-level report card.
func (r *Renderer) DrawResults(screen *ebiten.Image, rep score.Report, best int) {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	pw, ph := w*0.6, h*0.75
	px, py := (w-pw)/2, (h-ph)/2
	vector.FillRect(screen, f32(px), f32(py), f32(pw), f32(ph), panelCol, false)
	vector.StrokeRect(screen, f32(px), f32(py), f32(pw), f32(ph), 2, panelEdge, false)

	r.say(screen, "Shift Report", w/2, py+24, 3, textCol, text.AlignCenter)
	r.say(screen, string(rep.Grade), w/2, py+70, 6, gradeGold, text.AlignCenter)

	rows := []string{
		fmt.Sprintf("Score      %d", rep.Total),
		fmt.Sprintf("Fires out  %d", rep.FiresExtinguished),
		fmt.Sprintf("Time       %s", rep.ResponseTime.Round(time.Second)),
		fmt.Sprintf("Accuracy   %d%%", rep.Accuracy()),
		fmt.Sprintf("Water      %.0f", rep.WaterUsed),
	}
	if best > 0 {
		rows = append(rows, fmt.Sprintf("Best       %d", best))
	}
	y := py + 170
	for _, row := range rows {
		r.say(screen, row, px+40, y, 1.8, textCol, text.AlignStart)
		y += 28
	}
	y += 10
	for _, a := range rep.Achievements {
		r.say(screen, "* "+a.Name, px+40, y, 1.8, gradeGold, text.AlignStart)
		y += 26
	}
	r.say(screen, "R: play again   C: copy report   Esc: menu", w/2, py+ph-30, 1.2, textCol, text.AlignCenter)
}
