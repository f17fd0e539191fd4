package sim

import "math"

// HelperPhase is the arrival progress of the helper ladder truck.
type HelperPhase int

const (
	HelperInactive HelperPhase = iota
	HelperArriving
	HelperArrived
)

func (p HelperPhase) String() string {
	switch p {
	case HelperInactive:
		return "inactive"
	case HelperArriving:
		return "arriving"
	case HelperArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// LadderPhase is the position of the helper truck's ladder.
type LadderPhase int

const (
	LadderRetracted LadderPhase = iota
	LadderRotating
	LadderExtending
	LadderExtended
)

func (p LadderPhase) String() string {
	switch p {
	case LadderRetracted:
		return "retracted"
	case LadderRotating:
		return "rotating"
	case LadderExtending:
		return "extending"
	case LadderExtended:
		return "extended"
	default:
		return "unknown"
	}
}

const (
	helperSpeed       = 9.0 // px/frame while driving in
	ladderRaiseAngle  = -math.Pi / 3
	ladderRotateStep  = 0.035 // radians/frame
	ladderExtendStep  = 4.0   // px/frame
	ladderBaseFactor  = 0.9   // retracted length as a fraction of truck width
	ladderReachFactor = 0.55  // extra length as a fraction of canvas height
)

// Ladder is the turntable ladder on the helper truck. Angle 0 lies flat
// along the truck pointing right; negative angles point up toward the
// buildings.
type Ladder struct {
	PivotX, PivotY float64
	Angle          float64
	Extension      float64 // extra length beyond BaseLen
	BaseLen        float64
	MaxExtension   float64
	Phase          LadderPhase
	Retracting     bool
}

// Tip returns the end of the ladder in canvas coordinates.
func (ld *Ladder) Tip() (float64, float64) {
	l := ld.BaseLen + ld.Extension
	return ld.PivotX + l*math.Cos(ld.Angle), ld.PivotY + l*math.Sin(ld.Angle)
}

// step advances the ladder one frame. Raising goes rotate then extend;
// retracting walks the same phases backwards.
func (ld *Ladder) step() (changed bool) {
	before := ld.Phase
	switch {
	case !ld.Retracting && ld.Phase == LadderRotating:
		ld.Angle = math.Max(ld.Angle-ladderRotateStep, ladderRaiseAngle)
		if ld.Angle <= ladderRaiseAngle {
			ld.Phase = LadderExtending
		}
	case !ld.Retracting && ld.Phase == LadderExtending:
		ld.Extension = math.Min(ld.Extension+ladderExtendStep, ld.MaxExtension)
		if ld.Extension >= ld.MaxExtension {
			ld.Phase = LadderExtended
		}
	case ld.Retracting && ld.Phase == LadderExtending:
		ld.Extension = math.Max(ld.Extension-ladderExtendStep, 0)
		if ld.Extension <= 0 {
			ld.Phase = LadderRotating
		}
	case ld.Retracting && ld.Phase == LadderRotating:
		ld.Angle = math.Min(ld.Angle+ladderRotateStep, 0)
		if ld.Angle >= 0 {
			ld.Phase = LadderRetracted
			ld.Retracting = false
		}
	}
	return ld.Phase != before
}

// HelperTruck is the optional second truck that drives in from the right
// and raises its ladder. It runs independently of the hose stages.
type HelperTruck struct {
	Rect
	TargetX float64
	Phase   HelperPhase
	Ladder  Ladder
}

func (h *HelperTruck) placeLadder(canvasH float64) {
	h.Ladder.PivotX = h.X + h.W*0.2
	h.Ladder.PivotY = h.Y + h.H*0.1
	h.Ladder.BaseLen = h.W * ladderBaseFactor
	h.Ladder.MaxExtension = canvasH * ladderReachFactor
	if h.Ladder.Extension > h.Ladder.MaxExtension {
		h.Ladder.Extension = h.Ladder.MaxExtension
	}
}

// CallHelperTruck sends the helper truck in. It reports false when the
// truck is already on its way or parked.
func (l *FireRescueLevel) CallHelperTruck() bool {
	if l.helper.Phase != HelperInactive {
		return false
	}
	l.helper.Phase = HelperArriving
	l.helper.X = l.width + l.helper.W
	l.helper.placeLadder(l.height)
	l.events.Add(l.frame, "helper", "called", "", 0)
	l.tone(toneHelper, toneCue)
	l.say("Here comes the ladder truck!")
	return true
}

// ToggleLadder raises a retracted ladder or lowers a raised one. A ladder
// in motion reverses direction. It reports false until the helper truck
// has parked.
func (l *FireRescueLevel) ToggleLadder() bool {
	if l.helper.Phase != HelperArrived {
		return false
	}
	ld := &l.helper.Ladder
	switch ld.Phase {
	case LadderRetracted:
		ld.Phase = LadderRotating
		ld.Retracting = false
	case LadderExtended:
		ld.Phase = LadderExtending
		ld.Retracting = true
	default:
		ld.Retracting = !ld.Retracting
	}
	l.events.Add(l.frame, "ladder", "toggle", ld.Phase.String(), boolNum(ld.Retracting))
	return true
}

func (l *FireRescueLevel) stepHelper() {
	h := &l.helper
	switch h.Phase {
	case HelperArriving:
		h.X = math.Max(h.X-helperSpeed, h.TargetX)
		h.placeLadder(l.height)
		if h.X <= h.TargetX {
			h.Phase = HelperArrived
			l.events.Add(l.frame, "helper", "arrived", "", 0)
		}
	case HelperArrived:
		if h.Ladder.step() {
			l.events.Add(l.frame, "ladder", "phase", h.Ladder.Phase.String(), 0)
		}
	}
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
