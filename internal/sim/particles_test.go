package sim

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// segDist is the distance from (px, py) to the segment a-b.
func segDist(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return dist(px, py, ax, ay)
	}
	t := clamp(((px-ax)*dx+(py-ay)*dy)/l2, 0, 1)
	return dist(px, py, ax+t*dx, ay+t*dy)
}

// closestApproach flies a drop from (x0, y0) and returns how close its
// per-frame path comes to (tx, ty).
func closestApproach(x0, y0, tx, ty float64) float64 {
	vx, vy := launchVelocity(x0, y0, tx, ty, spraySpeed, Gravity)
	d := &WaterDrop{X: x0, Y: y0, VX: vx, VY: vy, Life: 1000}
	best := math.Inf(1)
	for i := 0; i < 400; i++ {
		px, py := d.X, d.Y
		d.step()
		best = math.Min(best, segDist(tx, ty, px, py, d.X, d.Y))
	}
	return best
}

func TestLaunchVelocity_PassesThroughTarget(t *testing.T) {
	cases := [][4]float64{
		{576, 504, 800, 400},
		{576, 504, 1200, 260},
		{576, 504, 700, 560},
		{576, 504, 300, 300},
	}
	for _, c := range cases {
		if d := closestApproach(c[0], c[1], c[2], c[3]); d > 1 {
			t.Fatalf("arc from (%.0f,%.0f) misses (%.0f,%.0f) by %.2fpx", c[0], c[1], c[2], c[3], d)
		}
	}
}

func TestLaunchVelocity_UnreachableLobs(t *testing.T) {
	vx, vy := launchVelocity(0, 500, 5000, 0, spraySpeed, Gravity)
	if vx <= 0 || vy >= 0 {
		t.Fatalf("expected an up-and-right lob, got (%.2f, %.2f)", vx, vy)
	}
	if math.Abs(math.Hypot(vx, vy+Gravity/2)-spraySpeed) > 1e-9 {
		t.Fatal("lob should keep spray speed")
	}
}

func TestLaunchVelocityProperty_HitsReachableTargets(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dx := rapid.Float64Range(100, 700).Draw(t, "dx")
		h := rapid.Float64Range(-60, 300).Draw(t, "h")
		if d := closestApproach(0, 500, dx, 500-h); d > 1 {
			t.Fatalf("missed (%.1f, %.1f) by %.2fpx", dx, 500-h, d)
		}
	})
}

func TestDrop_LandsAsPuddleOnGround(t *testing.T) {
	l := newTestLevel(t, nil)
	l.drops = append(l.drops, &WaterDrop{X: 400, Y: l.GroundY() - 1, VY: 2, Life: dropLife})
	l.stepDrops()
	if len(l.Drops()) != 0 || len(l.Puddles()) != 1 {
		t.Fatalf("expected drop turned into puddle, drops=%d puddles=%d", len(l.Drops()), len(l.Puddles()))
	}
	p := l.Puddles()[0]
	if p.Y != l.GroundY() || p.OnBuilding {
		t.Fatalf("ground puddle at y=%.1f onBuilding=%v", p.Y, p.OnBuilding)
	}
}

func TestDrop_ExpiryOnBuildingLeavesFasterFadingPuddle(t *testing.T) {
	l := newTestLevel(t, nil)
	l.drops = append(l.drops, &WaterDrop{X: 800, Y: 400, VY: -Gravity, Life: 1})
	l.stepDrops()
	if len(l.Puddles()) != 1 {
		t.Fatalf("expired drop should leave a puddle, got %d", len(l.Puddles()))
	}
	p := l.Puddles()[0]
	if !p.OnBuilding {
		t.Fatal("puddle should rest on the building")
	}
	if p.FadeRate != 2*puddleGroundFade || p.Opacity != puddleBuildingOpacity {
		t.Fatalf("building puddle fade=%.4f opacity=%.2f", p.FadeRate, p.Opacity)
	}
}

func TestDrop_OffCanvasLeavesNoPuddle(t *testing.T) {
	l := newTestLevel(t, nil)
	l.drops = append(l.drops, &WaterDrop{X: 1, Y: 100, VX: -5, VY: -Gravity, Life: dropLife})
	l.stepDrops()
	if len(l.Drops()) != 0 || len(l.Puddles()) != 0 {
		t.Fatalf("off-canvas drop: drops=%d puddles=%d", len(l.Drops()), len(l.Puddles()))
	}
}

func TestMist_ExpiresSilently(t *testing.T) {
	l := newTestLevel(t, nil)
	l.mist = append(l.mist, newMist(MistHeavy, 400, 300, 0, 0), newMist(MistLight, 400, l.GroundY()-0.01, 0, 1))
	for i := 0; i < mistLife+1; i++ {
		l.stepMist()
	}
	if len(l.Mist()) != 0 {
		t.Fatalf("expected mist gone, %d left", len(l.Mist()))
	}
	if len(l.Puddles()) != 0 {
		t.Fatal("mist must never leave puddles")
	}
}

func TestMist_HeavyFallsFasterThanLight(t *testing.T) {
	light := newMist(MistLight, 0, 0, 5, 0)
	heavy := newMist(MistHeavy, 0, 0, 5, 0)
	for i := 0; i < 20; i++ {
		light.step()
		heavy.step()
	}
	if heavy.Y <= light.Y {
		t.Fatalf("heavy mist y=%.2f should be below light y=%.2f", heavy.Y, light.Y)
	}
	if heavy.X >= light.X {
		t.Fatal("heavy mist should drag to a stop sooner")
	}
}

func TestPuddle_MergeGrowsInsteadOfDuplicating(t *testing.T) {
	l := newTestLevel(t, nil)
	l.landDrop(400, l.GroundY(), false)
	for i := 0; i < 10; i++ {
		l.stepPuddles()
	}
	p := l.Puddles()[0]
	opacity := p.Opacity

	l.landDrop(400+PuddleMergeRadius-1, l.GroundY(), false)
	if len(l.Puddles()) != 1 {
		t.Fatalf("landing within the merge radius created %d puddles", len(l.Puddles()))
	}
	if p.MaxSize != puddleStartMax+puddleMergeGrowth {
		t.Fatalf("expected max size %.0f, got %.0f", puddleStartMax+puddleMergeGrowth, p.MaxSize)
	}
	if p.Opacity <= opacity {
		t.Fatalf("merge should refresh opacity: before %.3f after %.3f", opacity, p.Opacity)
	}

	l.landDrop(400+PuddleMergeRadius+5, l.GroundY(), false)
	if len(l.Puddles()) != 2 {
		t.Fatal("landing outside the merge radius should create a new puddle")
	}
}

func TestPuddle_SizeCapped(t *testing.T) {
	p := newPuddle(0, 0, false)
	for i := 0; i < 100; i++ {
		p.merge()
	}
	if p.MaxSize != puddleSizeCap {
		t.Fatalf("expected max size capped at %.0f, got %.1f", puddleSizeCap, p.MaxSize)
	}
	for i := 0; i < 200; i++ {
		p.step()
	}
	if p.Size > p.MaxSize {
		t.Fatalf("size %.1f exceeds max %.1f", p.Size, p.MaxSize)
	}
}

func TestPuddle_CountCappedOldestEvicted(t *testing.T) {
	l := newTestLevel(t, nil)
	for i := 0; i <= MaxPuddles; i++ {
		x := float64(i%30) * 40
		y := l.GroundY() - float64(i/30)*40
		l.landDrop(x, y, false)
	}
	if len(l.Puddles()) != MaxPuddles {
		t.Fatalf("expected %d puddles, got %d", MaxPuddles, len(l.Puddles()))
	}
	if first := l.Puddles()[0]; first.X != 40 || first.Y != l.GroundY() {
		t.Fatalf("oldest puddle should be evicted, head is at (%.0f,%.0f)", first.X, first.Y)
	}
}

func TestPuddle_DriesUp(t *testing.T) {
	l := newTestLevel(t, nil)
	l.landDrop(400, l.GroundY(), false)
	frames := int(puddleGroundOpacity/puddleGroundFade) + 2
	for i := 0; i < frames; i++ {
		l.stepPuddles()
	}
	if len(l.Puddles()) != 0 {
		t.Fatal("puddle should dry up")
	}
}
