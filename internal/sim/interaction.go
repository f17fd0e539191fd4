package sim

import "time"

// Stage is the hose hookup progress of a fire rescue level. Stages only move
// forward, except SPRAYING which drops back to READY_TO_SPRAY on release.
type Stage int

const (
	StageStart Stage = iota
	StageHoseUncoiled
	StageTruckConnected
	StageHydrantConnected
	StageReadyToSpray
	StageSpraying
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageHoseUncoiled:
		return "hose_uncoiled"
	case StageTruckConnected:
		return "truck_connected"
	case StageHydrantConnected:
		return "hydrant_connected"
	case StageReadyToSpray:
		return "ready_to_spray"
	case StageSpraying:
		return "spraying"
	default:
		return "unknown"
	}
}

// Target names the hit region a stage is waiting for.
type Target int

const (
	TargetNone Target = iota
	TargetHoseCoil
	TargetTruckPort
	TargetHydrantPort
	TargetValve
	TargetAnywhere
)

func (t Target) String() string {
	switch t {
	case TargetHoseCoil:
		return "hose_coil"
	case TargetTruckPort:
		return "truck_port"
	case TargetHydrantPort:
		return "hydrant_port"
	case TargetValve:
		return "valve"
	case TargetAnywhere:
		return "anywhere"
	default:
		return "none"
	}
}

// Cue frequencies, a rising C major run so each step sounds like progress.
const (
	toneHose       = 523.25
	tonePort       = 587.33
	toneHydrant    = 659.25
	toneValve      = 783.99
	toneSpray      = 880.00
	toneExtinguish = 220.00
	toneHelper     = 392.00

	toneShort = 120 * time.Millisecond
	toneCue   = 180 * time.Millisecond
)

// transition is one row of the stage table: the region that advances the
// stage, where it leads and the cue it plays.
type transition struct {
	target Target
	next   Stage
	tone   float64
}

var stageTable = [...]transition{
	StageStart:            {target: TargetHoseCoil, next: StageHoseUncoiled, tone: toneHose},
	StageHoseUncoiled:     {target: TargetTruckPort, next: StageTruckConnected, tone: tonePort},
	StageTruckConnected:   {target: TargetHydrantPort, next: StageHydrantConnected, tone: toneHydrant},
	StageHydrantConnected: {target: TargetValve, next: StageReadyToSpray, tone: toneValve},
	StageReadyToSpray:     {target: TargetAnywhere, next: StageSpraying, tone: toneSpray},
	StageSpraying:         {target: TargetNone, next: StageSpraying},
}

// One row per stage; fails to compile if a stage is added without a row.
var _ = [1]struct{}{}[len(stageTable)-int(stageCount)]

// stagePrompts is the instruction shown while each stage is active.
var stagePrompts = [...]string{
	StageStart:            "Tap the hose reel on the truck to unroll the hose.",
	StageHoseUncoiled:     "Now connect the hose to the water port on the truck.",
	StageTruckConnected:   "Great! Now attach the hose to the fire hydrant.",
	StageHydrantConnected: "Turn the valve on top of the hydrant to start the water.",
	StageReadyToSpray:     "Press and hold to spray water on the fires!",
	StageSpraying:         "Keep spraying until the fire is out!",
}

var _ = [1]struct{}{}[len(stagePrompts)-int(stageCount)]

const (
	promptArriving = "Here comes the fire truck!"
	promptAllOut   = "All the fires are out! Great job, firefighter!"
)

// NextTarget returns the region the current stage is waiting for.
func (l *FireRescueLevel) NextTarget() Target {
	return stageTable[l.stage].target
}

// hits reports whether (x, y) lies in the given target region.
func (l *FireRescueLevel) hits(t Target, x, y float64) bool {
	switch t {
	case TargetHoseCoil:
		return l.truck.HoseCoil.Contains(x, y)
	case TargetTruckPort:
		return l.truck.Port.Contains(x, y)
	case TargetHydrantPort:
		return l.hydrant.Port.Contains(x, y)
	case TargetValve:
		return l.hydrant.Valve.Contains(x, y)
	case TargetAnywhere:
		return true
	default:
		return false
	}
}

// TargetPoint returns the centre of a target region, for scripted input.
func (l *FireRescueLevel) TargetPoint(t Target) (float64, float64, bool) {
	switch t {
	case TargetHoseCoil:
		return l.truck.HoseCoil.X, l.truck.HoseCoil.Y, true
	case TargetTruckPort:
		return l.truck.Port.X, l.truck.Port.Y, true
	case TargetHydrantPort:
		return l.hydrant.Port.X, l.hydrant.Port.Y, true
	case TargetValve:
		x, y := l.hydrant.Valve.Center()
		return x, y, true
	default:
		return 0, 0, false
	}
}

// press runs the stage table for a pointer-down. A press that misses the
// current stage's region does nothing.
func (l *FireRescueLevel) press(x, y float64) {
	row := stageTable[l.stage]
	if row.target == TargetNone || !l.hits(row.target, x, y) {
		return
	}
	l.advance(row)
}

func (l *FireRescueLevel) advance(row transition) {
	from := l.stage
	l.stage = row.next
	l.enter(row.next)
	l.instruction = stagePrompts[row.next]
	l.events.Add(l.frame, "stage", "advance", from.String()+" → "+row.next.String(), float64(row.next))
	l.tone(row.tone, toneCue)
	if row.next != StageSpraying {
		l.say(l.instruction)
	}
}

// enter applies the side effects of arriving in a stage.
func (l *FireRescueLevel) enter(s Stage) {
	switch s {
	case StageHoseUncoiled:
		l.hoseUncoiled = true
	case StageTruckConnected:
		l.nozzle.AttachedToTruck = true
	case StageHydrantConnected:
		l.hydrantLinked = true
	case StageReadyToSpray:
		l.hydrant.Open = true
	case StageSpraying:
		l.nozzle.Spraying = true
		l.beginShot()
	}
	l.syncHose()
}

// release handles pointer-up: spraying stops and the level waits for the
// next press.
func (l *FireRescueLevel) release() {
	if l.stage != StageSpraying {
		return
	}
	l.stage = StageReadyToSpray
	l.nozzle.Spraying = false
	l.instruction = stagePrompts[StageReadyToSpray]
	l.events.Add(l.frame, "stage", "release", "spraying → ready_to_spray", float64(StageReadyToSpray))
	l.endShot()
}

// --- Shot accounting ---

// shotState tracks one press-and-hold until all its drops have resolved.
type shotState struct {
	inFlight int
	drops    int
	hit      bool
	released bool
}

func (l *FireRescueLevel) beginShot() {
	l.nextShotID++
	l.shotID = l.nextShotID
	l.shots[l.shotID] = &shotState{}
}

func (l *FireRescueLevel) endShot() {
	if st := l.shots[l.shotID]; st != nil {
		st.released = true
		l.settleShot(l.shotID)
	}
	l.shotID = 0
}

func (l *FireRescueLevel) dropResolved(id int, hit bool) {
	st := l.shots[id]
	if st == nil {
		return
	}
	st.inFlight--
	if hit {
		st.hit = true
	}
	l.settleShot(id)
}

// settleShot reports a released shot once none of its drops are airborne.
func (l *FireRescueLevel) settleShot(id int) {
	st := l.shots[id]
	if st == nil || !st.released || st.inFlight > 0 {
		return
	}
	delete(l.shots, id)
	l.recordShot(st)
}

// recordShot reports a finished shot. A press released before any water
// left the nozzle is not a shot.
func (l *FireRescueLevel) recordShot(st *shotState) {
	if st.drops == 0 {
		return
	}
	l.rec.RecordShot(st.hit)
}
