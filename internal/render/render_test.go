package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/Garsondee/fire-rescue/internal/sim"
)

func TestWrap(t *testing.T) {
	got := wrap("Tap the hose on the fire truck to unroll it!", 16)
	for _, ln := range got {
		if len(ln) > 16 {
			t.Fatalf("line %q longer than 16", ln)
		}
	}
	if strings.Join(got, " ") != "Tap the hose on the fire truck to unroll it!" {
		t.Fatalf("wrap lost words: %q", got)
	}
	if got := wrap("supercalifragilistic", 5); len(got) != 1 {
		t.Fatalf("long word should stay whole, got %q", got)
	}
	if len(wrap("   ", 10)) != 0 {
		t.Fatal("blank input should give no lines")
	}
}

func TestFade(t *testing.T) {
	c := fade(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	if c.R != 100 || c.G != 50 || c.B != 25 || c.A != 127 {
		t.Fatalf("unexpected faded colour %+v", c)
	}
	if fade(c, 2) != c {
		t.Fatal("alpha above 1 should clamp")
	}
	if fade(c, -1) != (color.RGBA{}) {
		t.Fatal("alpha below 0 should clamp to transparent")
	}
}

func TestTruckColors_DistinctPerStyle(t *testing.T) {
	seen := map[color.RGBA]sim.TruckStyle{}
	for _, s := range []sim.TruckStyle{sim.TruckClassic, sim.TruckModern, sim.TruckVintage} {
		body, _ := truckColors(s)
		if prev, ok := seen[body]; ok {
			t.Fatalf("%s and %s share a body colour", prev, s)
		}
		seen[body] = s
	}
	if hydrantColor(sim.HydrantRed) == hydrantColor(sim.HydrantYellow) {
		t.Fatal("hydrant styles should differ")
	}
}

func TestFireLayers_PaleAsLifeDrops(t *testing.T) {
	hot := fireLayers(&sim.Fire{Life: 100})
	weak := fireLayers(&sim.Fire{Life: 10})
	if weak[0].R >= hot[0].R {
		t.Fatalf("weak fire should be less red: %v vs %v", weak[0], hot[0])
	}
}

func TestDevLines(t *testing.T) {
	l := sim.NewFireRescueLevel(nil, sim.WithSeed(1), sim.WithoutEntrance())
	lines := DevLines(l, "fps 60")
	if !strings.Contains(lines[0], "stage start") {
		t.Fatalf("first line should name the stage, got %q", lines[0])
	}
	if lines[len(lines)-1] != "fps 60" {
		t.Fatal("extra lines should be appended")
	}
}
