package sim

import (
	"math"
	"testing"
)

func runUntil(l *FireRescueLevel, max int, done func() bool) bool {
	for i := 0; i < max; i++ {
		if done() {
			return true
		}
		l.Update()
	}
	return done()
}

func ladderPhases(l *FireRescueLevel) []string {
	var out []string
	for _, e := range l.Events().Filter("ladder", "phase") {
		out = append(out, e.Value)
	}
	return out
}

func TestHelper_ArrivesAndParks(t *testing.T) {
	l := newTestLevel(t, nil)
	if l.ToggleLadder() {
		t.Fatal("ladder should not move before the truck arrives")
	}
	if !l.CallHelperTruck() {
		t.Fatal("call should start the helper truck")
	}
	if l.CallHelperTruck() {
		t.Fatal("second call should be ignored")
	}
	if l.Helper().Phase != HelperArriving {
		t.Fatalf("expected arriving, got %s", l.Helper().Phase)
	}
	if !runUntil(l, 1000, func() bool { return l.Helper().Phase == HelperArrived }) {
		t.Fatal("helper truck never arrived")
	}
	if l.Helper().X != l.Helper().TargetX {
		t.Fatalf("parked at %.1f, want %.1f", l.Helper().X, l.Helper().TargetX)
	}
	if l.Stage() != StageStart {
		t.Fatal("helper truck must not touch the hose stages")
	}
}

func TestHelper_LadderRaisesAndRetracts(t *testing.T) {
	l := newTestLevel(t, nil)
	l.CallHelperTruck()
	runUntil(l, 1000, func() bool { return l.Helper().Phase == HelperArrived })

	ld := &l.Helper().Ladder
	if !l.ToggleLadder() || ld.Phase != LadderRotating {
		t.Fatalf("toggle should start rotating, got %s", ld.Phase)
	}
	if !runUntil(l, 1000, func() bool { return ld.Phase == LadderExtended }) {
		t.Fatalf("ladder stuck in %s", ld.Phase)
	}
	if ld.Angle != ladderRaiseAngle || ld.Extension != ld.MaxExtension {
		t.Fatalf("extended ladder angle=%.3f ext=%.1f", ld.Angle, ld.Extension)
	}

	l.ToggleLadder()
	if !ld.Retracting || ld.Phase != LadderExtending {
		t.Fatalf("retraction should start by retracting the extension, got %s", ld.Phase)
	}
	if !runUntil(l, 1000, func() bool { return ld.Phase == LadderRetracted }) {
		t.Fatalf("ladder stuck in %s", ld.Phase)
	}
	if ld.Angle != 0 || ld.Extension != 0 || ld.Retracting {
		t.Fatalf("retracted ladder angle=%.3f ext=%.1f retracting=%v", ld.Angle, ld.Extension, ld.Retracting)
	}

	want := []string{"extending", "extended", "rotating", "retracted"}
	got := ladderPhases(l)
	if len(got) != len(want) {
		t.Fatalf("phase sequence %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("phase sequence %v, want %v", got, want)
		}
	}
}

func TestHelper_ToggleMidwayReverses(t *testing.T) {
	l := newTestLevel(t, nil)
	l.CallHelperTruck()
	runUntil(l, 1000, func() bool { return l.Helper().Phase == HelperArrived })
	l.ToggleLadder()
	l.Update()
	l.Update()
	ld := &l.Helper().Ladder
	l.ToggleLadder()
	if !ld.Retracting {
		t.Fatal("toggle while rotating should reverse")
	}
	if !runUntil(l, 200, func() bool { return ld.Phase == LadderRetracted }) {
		t.Fatalf("ladder stuck in %s", ld.Phase)
	}
}

func TestHelper_CallButtonSummonsThenToggles(t *testing.T) {
	l := newTestLevel(t, nil)
	x, y := l.CallButton().Center()
	l.PointerDown(x, y)
	if l.Helper().Phase != HelperArriving {
		t.Fatalf("call button should summon the helper, got %s", l.Helper().Phase)
	}
	if l.Stage() != StageStart {
		t.Fatal("call button press must not feed the hose stages")
	}
	runUntil(l, 1000, func() bool { return l.Helper().Phase == HelperArrived })
	l.PointerDown(x, y)
	if l.Helper().Ladder.Phase != LadderRotating {
		t.Fatalf("second press should raise the ladder, got %s", l.Helper().Ladder.Phase)
	}
}

func TestLadder_TipReachesUpward(t *testing.T) {
	ld := Ladder{PivotX: 100, PivotY: 500, BaseLen: 100, Angle: ladderRaiseAngle}
	x, y := ld.Tip()
	if y >= ld.PivotY || x <= ld.PivotX {
		t.Fatalf("raised tip (%.1f,%.1f) should be up and right of the pivot", x, y)
	}
	if math.Abs(dist(x, y, ld.PivotX, ld.PivotY)-ld.BaseLen) > 1e-9 {
		t.Fatal("tip should sit BaseLen from the pivot")
	}
}
