package sim

// Autopilot plays a level the way a child would: it taps each hookup
// target in turn, then holds the spray on the nearest mature fire. It is
// used by tests, the attract loop and the headless report.
type Autopilot struct {
	// Hold is how many frames to keep spraying before releasing and
	// re-aiming. Zero sprays until the target fire is out.
	Hold int

	target int // fire ID being sprayed
	held   int
}

// Step issues this frame's pointer input to l. Call it before l.Update.
func (a *Autopilot) Step(l *FireRescueLevel) {
	if !l.InputEnabled() || l.Complete() {
		return
	}
	switch l.Stage() {
	case StageReadyToSpray:
		f := a.pick(l)
		if f == nil {
			return
		}
		a.target, a.held = f.ID, 0
		l.PointerDown(f.X, f.Y)
	case StageSpraying:
		f := a.find(l)
		a.held++
		if f == nil || (a.Hold > 0 && a.held >= a.Hold) {
			l.PointerUp(l.Nozzle().AimX, l.Nozzle().AimY)
			return
		}
		l.PointerMove(f.X, f.Y)
	default:
		x, y, ok := l.TargetPoint(l.NextTarget())
		if !ok {
			return
		}
		l.PointerDown(x, y)
		l.PointerUp(x, y)
	}
}

// pick returns the mature fire closest to the nozzle.
func (a *Autopilot) pick(l *FireRescueLevel) *Fire {
	var best *Fire
	bestD := 0.0
	n := l.Nozzle()
	for _, f := range l.Fires() {
		if !f.Mature() {
			continue
		}
		if d := dist(n.X, n.Y, f.X, f.Y); best == nil || d < bestD {
			best, bestD = f, d
		}
	}
	return best
}

func (a *Autopilot) find(l *FireRescueLevel) *Fire {
	for _, f := range l.Fires() {
		if f.ID == a.target {
			return f
		}
	}
	return nil
}

// RunFrames drives l for n frames with the autopilot at the controls.
func (a *Autopilot) RunFrames(l *FireRescueLevel, n int) {
	for i := 0; i < n; i++ {
		a.Step(l)
		l.Update()
	}
}

// RunUntil drives l for up to maxFrames, stopping early once pred holds.
// It returns the frame at which pred was satisfied, or -1.
func (a *Autopilot) RunUntil(l *FireRescueLevel, pred func(*FireRescueLevel) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		a.Step(l)
		l.Update()
		if pred(l) {
			return l.Frame()
		}
	}
	return -1
}
