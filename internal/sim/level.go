package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// TPS is the frame rate the level is tuned for.
const TPS = 60

const (
	entranceFrames        = 36
	styleTransitionFrames = 30

	groundFraction = 0.82

	windowMinToggle  = 180
	windowToggleSpan = 420
	windowDynamicPct = 0.3
	windowLitPct     = 0.45

	callButtonW = 158
	callButtonH = 40
)

// buildingPlan places one building as fractions of the canvas.
type buildingPlan struct {
	x, w, h    float64
	cols, rows int
}

var buildingPlans = [...]buildingPlan{
	{x: 0.56, w: 0.12, h: 0.42, cols: 3, rows: 4},
	{x: 0.70, w: 0.13, h: 0.50, cols: 3, rows: 5},
	{x: 0.85, w: 0.11, h: 0.36, cols: 2, rows: 3},
}

// FireRescueLevel is the hose hookup and firefighting mini-game. All of its
// entities are owned by the level and only mutated from Update and the
// pointer handlers, which must run on the same goroutine.
type FireRescueLevel struct {
	set      Settings
	log      zerolog.Logger
	sound    Sound
	narrator Narrator
	rec      Recorder
	seedRand *rand.Rand
	rng      *rand.Rand

	events EventLog
	seq    Sequencer

	running bool
	frame   int

	width, height, groundY float64

	buildings []*Building
	truck     Truck
	hydrant   Hydrant
	nozzle    Nozzle
	hose      Hose
	helper    HelperTruck

	fires   []*Fire
	drops   []*WaterDrop
	mist    []*MistParticle
	puddles []*Puddle

	stage         Stage
	instruction   string
	hoseUncoiled  bool
	hydrantLinked bool

	entrance     float64 // 0..1 truck slide-in progress
	entranceDone bool
	styleFrames  int // frames left in a truck style transition
	pendingStyle TruckStyle

	graceLeft    int
	firesStarted bool
	startFrame   int

	nextFireID        int
	firesExtinguished int

	shotID     int
	nextShotID int
	shots      map[int]*shotState

	complete     bool
	responseTime time.Duration
}

// NewFireRescueLevel builds a level wired to the collaborators in ctx. A nil
// ctx behaves like NewContext().
func NewFireRescueLevel(ctx *Context, opts ...Option) *FireRescueLevel {
	if ctx == nil {
		ctx = NewContext()
	}
	set := DefaultSettings()
	for _, o := range opts {
		o(&set)
	}
	if set.Width <= 0 || set.Height <= 0 {
		set.Width, set.Height = DefaultSettings().Width, DefaultSettings().Height
	}
	if set.MaxFires < set.InitialFires {
		set.MaxFires = set.InitialFires
	}

	l := &FireRescueLevel{
		set:      set,
		log:      ctx.Log.With().Str("level", "fire_rescue").Logger(),
		sound:    ctx.Sound,
		narrator: ctx.Narrator,
		rec:      ctx.Recorder,
		seedRand: ctx.Rand,
	}
	if l.rec == nil {
		l.rec = MultiRecorder(nil)
	}
	l.init()
	return l
}

// init puts the level in its pre-start state. It is shared by the
// constructor and Reset.
func (l *FireRescueLevel) init() {
	l.rng = l.newRand()
	l.seq.Cancel()
	l.events.Reset()
	l.frame = 0

	l.width, l.height = l.set.Width, l.set.Height
	l.buildings = nil
	l.fires, l.drops, l.mist, l.puddles = nil, nil, nil, nil
	l.truck = Truck{Style: l.set.TruckStyle, Fade: 1}
	l.hydrant = Hydrant{Style: l.set.HydrantStyle}
	l.nozzle = Nozzle{}
	l.hose = Hose{}
	l.helper = HelperTruck{}

	l.stage = StageStart
	l.hoseUncoiled, l.hydrantLinked = false, false
	l.entrance, l.entranceDone = 0, false
	l.styleFrames = 0
	l.graceLeft, l.firesStarted, l.startFrame = l.set.GraceFrames, false, 0
	l.nextFireID, l.firesExtinguished = 0, 0
	l.shotID, l.nextShotID = 0, 0
	l.shots = make(map[int]*shotState)
	l.complete, l.responseTime = false, 0

	l.layout()
	l.helper.X = l.width + l.helper.W
	l.helper.placeLadder(l.height)
	l.instruction = promptArriving
	if l.set.SkipEntrance {
		l.finishEntrance()
	}
}

func (l *FireRescueLevel) newRand() *rand.Rand {
	seed := l.set.Seed
	switch {
	case seed != 0:
	case l.seedRand != nil:
		seed = l.seedRand.Int63()
	default:
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay randomness
}

// Start begins (or resumes) frame updates.
func (l *FireRescueLevel) Start() {
	if l.running {
		return
	}
	l.running = true
	l.events.Add(l.frame, "level", "start", "", 0)
	if !l.entranceDone {
		l.say(promptArriving)
	}
}

// Stop halts updates, stops spraying and cancels pending cues.
func (l *FireRescueLevel) Stop() {
	if !l.running {
		return
	}
	l.release()
	l.seq.Cancel()
	l.running = false
	l.events.Add(l.frame, "level", "stop", "", 0)
}

// Reset discards all progress and entities. The running state is kept.
func (l *FireRescueLevel) Reset() {
	l.init()
	l.events.Add(l.frame, "level", "reset", "", 0)
}

// Update advances the level one frame. It does nothing while stopped.
func (l *FireRescueLevel) Update() {
	if !l.running {
		return
	}
	l.frame++
	l.seq.Tick()

	// 1. Truck entrance and style transition.
	l.stepEntrance()
	l.stepStyle()

	// 2. Helper truck and background windows.
	l.stepHelper()
	l.stepWindows()

	// 3. Fires: grace period, growth, spread.
	l.stepGrace()
	for _, f := range l.fires {
		f.update()
	}
	l.trySpread()

	// 4. Water.
	if l.nozzle.Spraying {
		l.emitSpray()
	}
	l.stepDrops()
	l.stepMist()
	l.sweepFires()
	l.stepPuddles()

	// 5. Completion.
	l.checkComplete()
}

// Resize moves the level onto a canvas of a new size. Entities keep their
// relative positions, every hit region is recomputed and the stage is
// preserved.
func (l *FireRescueLevel) Resize(w, h float64) {
	if w <= 0 || h <= 0 || (w == l.width && h == l.height) {
		return
	}
	sx, sy := w/l.width, h/l.height
	for _, f := range l.fires {
		f.X, f.Y = f.X*sx, f.Y*sy
	}
	for _, d := range l.drops {
		d.X, d.Y = d.X*sx, d.Y*sy
	}
	for _, m := range l.mist {
		m.X, m.Y = m.X*sx, m.Y*sy
	}
	for _, p := range l.puddles {
		p.X, p.Y = p.X*sx, p.Y*sy
	}
	l.nozzle.AimX, l.nozzle.AimY = l.nozzle.AimX*sx, l.nozzle.AimY*sy
	helperX := l.helper.X * sx
	l.width, l.height = w, h
	l.layout()
	if l.helper.Phase == HelperArriving {
		l.helper.X = math.Max(helperX, l.helper.TargetX)
	} else if l.helper.Phase == HelperInactive {
		l.helper.X = l.width + l.helper.W
	}
	l.helper.placeLadder(l.height)
	l.events.Add(l.frame, "level", "resize", "", w)
}

// layout derives every static rectangle and hit region from the canvas
// size.
func (l *FireRescueLevel) layout() {
	W, H := l.width, l.height
	l.groundY = H * groundFraction

	if l.buildings == nil {
		for _, p := range buildingPlans {
			b := &Building{Cols: p.cols, Rows: p.rows}
			for r := 0; r < p.rows; r++ {
				for c := 0; c < p.cols; c++ {
					w := &Window{Col: c, Row: r, Lit: l.rng.Float64() < windowLitPct}
					if l.rng.Float64() < windowDynamicPct {
						w.Dynamic = true
						w.NextChange = windowMinToggle + l.rng.Intn(windowToggleSpan)
					}
					b.Windows = append(b.Windows, w)
				}
			}
			l.buildings = append(l.buildings, b)
		}
	}
	for i, p := range buildingPlans {
		b := l.buildings[i]
		b.Rect = Rect{X: p.x * W, Y: l.groundY - p.h*H, W: p.w * W, H: p.h * H}
		cw, ch := b.W/float64(b.Cols), b.H/float64(b.Rows)
		for _, w := range b.Windows {
			w.Rect = Rect{
				X: b.X + float64(w.Col)*cw + cw*0.25,
				Y: b.Y + float64(w.Row)*ch + ch*0.25,
				W: cw * 0.5,
				H: ch * 0.5,
			}
		}
	}

	l.truck.W, l.truck.H = W*0.22, H*0.15
	l.truck.Y = l.groundY - l.truck.H
	l.truck.TargetX = W * 0.04
	l.truck.X = lerp(-l.truck.W, l.truck.TargetX, easeOut(l.entrance))
	l.truck.placeRegions()

	l.hydrant.Rect = Rect{X: W * 0.34, W: W * 0.035, H: H * 0.11}
	l.hydrant.Y = l.groundY - l.hydrant.H
	l.hydrant.placeRegions()

	l.nozzle.X, l.nozzle.Y = W*0.45, l.groundY-H*0.12
	if l.nozzle.AimX == 0 && l.nozzle.AimY == 0 {
		l.nozzle.AimX, l.nozzle.AimY = l.buildings[1].Center()
	}

	l.helper.W, l.helper.H = W*0.09, H*0.1
	l.helper.Y = l.groundY - l.helper.H
	l.helper.TargetX = W * 0.47
	if l.helper.Phase == HelperArrived {
		l.helper.X = l.helper.TargetX
	}

	l.syncHose()
}

// syncHose rebuilds the visible hose runs for the current stage.
func (l *FireRescueLevel) syncHose() {
	l.hose.Lines = l.hose.Lines[:0]
	nozzle := Point{l.nozzle.X, l.nozzle.Y}
	truckPort := Point{l.truck.Port.X, l.truck.Port.Y}
	coil := Point{l.truck.HoseCoil.X, l.truck.HoseCoil.Y}
	switch {
	case l.hydrantLinked:
		l.hose.Lines = append(l.hose.Lines,
			Line{From: Point{l.hydrant.Port.X, l.hydrant.Port.Y}, To: truckPort},
			Line{From: truckPort, To: nozzle})
	case l.nozzle.AttachedToTruck:
		l.hose.Lines = append(l.hose.Lines, Line{From: truckPort, To: nozzle})
	case l.hoseUncoiled:
		l.hose.Lines = append(l.hose.Lines, Line{From: coil, To: nozzle})
	}
}

func easeOut(t float64) float64 {
	t = clamp(t, 0, 1)
	return 1 - (1-t)*(1-t)
}

func (l *FireRescueLevel) stepEntrance() {
	if l.entranceDone {
		return
	}
	l.entrance = math.Min(l.entrance+1.0/entranceFrames, 1)
	l.truck.X = lerp(-l.truck.W, l.truck.TargetX, easeOut(l.entrance))
	l.truck.placeRegions()
	l.syncHose()
	if l.entrance >= 1 {
		l.finishEntrance()
	}
}

func (l *FireRescueLevel) finishEntrance() {
	l.entrance, l.entranceDone = 1, true
	l.truck.X = l.truck.TargetX
	l.truck.placeRegions()
	l.syncHose()
	l.instruction = stagePrompts[l.stage]
	l.events.Add(l.frame, "level", "entrance_done", "", 0)
	l.say(l.instruction)
}

// SetTruckStyle starts a fade to a new paint scheme. Input is blocked until
// the fade completes. It reports false while another change is running.
func (l *FireRescueLevel) SetTruckStyle(s TruckStyle) bool {
	if l.styleFrames > 0 || s == l.truck.Style {
		return false
	}
	l.pendingStyle = s
	l.styleFrames = styleTransitionFrames
	l.events.Add(l.frame, "truck", "style", s.String(), float64(s))
	return true
}

// CycleTruckStyle switches to the next paint scheme.
func (l *FireRescueLevel) CycleTruckStyle() bool {
	return l.SetTruckStyle(l.truck.Style.Next())
}

func (l *FireRescueLevel) stepStyle() {
	if l.styleFrames == 0 {
		return
	}
	l.styleFrames--
	t := 1 - float64(l.styleFrames)/styleTransitionFrames
	l.truck.Fade = math.Abs(1 - 2*t)
	if l.styleFrames == styleTransitionFrames/2 {
		l.truck.Style = l.pendingStyle
	}
	if l.styleFrames == 0 {
		l.truck.Style = l.pendingStyle
		l.truck.Fade = 1
	}
}

func (l *FireRescueLevel) stepWindows() {
	for _, b := range l.buildings {
		for _, w := range b.Windows {
			if w.Dynamic && l.frame >= w.NextChange {
				w.Lit = !w.Lit
				w.NextChange = l.frame + windowMinToggle + l.rng.Intn(windowToggleSpan)
			}
		}
	}
}

// stepGrace spawns the opening fires once the quiet period after the
// entrance has elapsed.
func (l *FireRescueLevel) stepGrace() {
	if !l.entranceDone || l.firesStarted {
		return
	}
	if l.graceLeft > 0 {
		l.graceLeft--
		return
	}
	l.firesStarted = true
	l.startFrame = l.frame
	spawned := 0
	for i := 0; i < l.set.InitialFires; i++ {
		if l.spawnFire() != nil {
			spawned++
		}
	}
	if spawned > 0 {
		l.say("Fire! Put it out with the hose!")
	}
}

func (l *FireRescueLevel) checkComplete() {
	if l.complete || !l.firesStarted || l.nextFireID == 0 || len(l.fires) > 0 {
		return
	}
	l.complete = true
	l.release()
	l.flushShots()
	l.responseTime = time.Duration(l.frame-l.startFrame) * time.Second / TPS
	l.instruction = promptAllOut
	l.events.Add(l.frame, "level", "complete", l.responseTime.String(), float64(l.firesExtinguished))
	l.rec.RecordLevelComplete(l.responseTime)
	l.seq.Play(
		Step{Delay: 10, Do: func() { l.tone(523.25, toneShort) }},
		Step{Delay: 8, Do: func() { l.tone(659.25, toneShort) }},
		Step{Delay: 8, Do: func() { l.tone(783.99, toneShort) }},
		Step{Delay: 8, Do: func() { l.tone(1046.50, toneCue) }},
		Step{Delay: 20, Do: func() { l.say(promptAllOut) }},
	)
}

// flushShots settles every open shot; drops still airborne count as misses.
func (l *FireRescueLevel) flushShots() {
	for id, st := range l.shots {
		delete(l.shots, id)
		l.recordShot(st)
	}
}

// --- Input ---

// InputEnabled reports whether pointer presses are currently accepted.
func (l *FireRescueLevel) InputEnabled() bool {
	return l.running && l.entranceDone && l.styleFrames == 0
}

// PointerDown handles a press at canvas position (x, y).
func (l *FireRescueLevel) PointerDown(x, y float64) {
	if !l.InputEnabled() {
		return
	}
	if l.CallButton().Contains(x, y) {
		if !l.CallHelperTruck() {
			l.ToggleLadder()
		}
		return
	}
	l.aim(x, y)
	if l.complete {
		return
	}
	l.press(x, y)
}

// PointerMove updates the aim point.
func (l *FireRescueLevel) PointerMove(x, y float64) {
	if !l.running {
		return
	}
	l.aim(x, y)
}

// PointerUp ends a spray.
func (l *FireRescueLevel) PointerUp(x, y float64) {
	if !l.running {
		return
	}
	l.aim(x, y)
	l.release()
}

func (l *FireRescueLevel) aim(x, y float64) {
	l.nozzle.AimX, l.nozzle.AimY = x, y
}

// --- Collaborator guards ---

// tone plays a cue. Sound failures are logged and never reach gameplay.
func (l *FireRescueLevel) tone(freq float64, d time.Duration) {
	if l.sound == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn().Interface("panic", r).Float64("freq", freq).Msg("tone failed")
		}
	}()
	l.sound.Tone(freq, d)
}

func (l *FireRescueLevel) say(text string) {
	if l.narrator == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Warn().Interface("panic", r).Str("text", text).Msg("narration failed")
		}
	}()
	l.narrator.Say(text)
}

// --- Accessors ---

// SpawnFireAt places a fire at (x, y) without placement checks. It returns
// nil when the concurrent cap is reached.
func (l *FireRescueLevel) SpawnFireAt(x, y float64) *Fire {
	if len(l.fires) >= l.set.MaxFires {
		return nil
	}
	f := l.addFire(x, y)
	if !l.firesStarted {
		l.firesStarted = true
		l.startFrame = l.frame
	}
	l.events.Add(l.frame, "fire", "spawn", "manual", float64(f.ID))
	return f
}

// Visit calls fn for every entity in paint order, back to front.
func (l *FireRescueLevel) Visit(fn func(Entity)) {
	for _, b := range l.buildings {
		fn(b)
		for _, w := range b.Windows {
			fn(w)
		}
	}
	for _, p := range l.puddles {
		fn(p)
	}
	fn(&l.hydrant)
	fn(&l.truck)
	if l.helper.Phase != HelperInactive {
		fn(&l.helper)
	}
	fn(&l.hose)
	fn(&l.nozzle)
	for _, f := range l.fires {
		fn(f)
	}
	for _, m := range l.mist {
		fn(m)
	}
	for _, d := range l.drops {
		fn(d)
	}
}

// CallButton is the on-screen button that summons the helper truck.
func (l *FireRescueLevel) CallButton() Rect {
	return Rect{X: l.width - callButtonW - 12, Y: 12, W: callButtonW, H: callButtonH}
}

func (l *FireRescueLevel) Stage() Stage                { return l.stage }
func (l *FireRescueLevel) Instruction() string         { return l.instruction }
func (l *FireRescueLevel) Fires() []*Fire              { return l.fires }
func (l *FireRescueLevel) Drops() []*WaterDrop         { return l.drops }
func (l *FireRescueLevel) Mist() []*MistParticle       { return l.mist }
func (l *FireRescueLevel) Puddles() []*Puddle          { return l.puddles }
func (l *FireRescueLevel) Buildings() []*Building      { return l.buildings }
func (l *FireRescueLevel) Truck() *Truck               { return &l.truck }
func (l *FireRescueLevel) Hydrant() *Hydrant           { return &l.hydrant }
func (l *FireRescueLevel) Nozzle() *Nozzle             { return &l.nozzle }
func (l *FireRescueLevel) Hose() *Hose                 { return &l.hose }
func (l *FireRescueLevel) Helper() *HelperTruck        { return &l.helper }
func (l *FireRescueLevel) FiresExtinguished() int      { return l.firesExtinguished }
func (l *FireRescueLevel) FiresSpawned() int           { return l.nextFireID }
func (l *FireRescueLevel) Frame() int                  { return l.frame }
func (l *FireRescueLevel) Running() bool               { return l.running }
func (l *FireRescueLevel) Complete() bool              { return l.complete }
func (l *FireRescueLevel) ResponseTime() time.Duration { return l.responseTime }
func (l *FireRescueLevel) Events() *EventLog           { return &l.events }
func (l *FireRescueLevel) Settings() Settings          { return l.set }
func (l *FireRescueLevel) Width() float64              { return l.width }
func (l *FireRescueLevel) Height() float64             { return l.height }
func (l *FireRescueLevel) GroundY() float64            { return l.groundY }
func (l *FireRescueLevel) EntranceDone() bool          { return l.entranceDone }
