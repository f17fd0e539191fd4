package sim

import "math"

const (
	// Gravity is the downward acceleration of water drops in px/frame².
	Gravity = 0.3

	spraySpeed      = 20.0
	sprayJitter     = 0.04 // radians either side of the aim line
	dropsPerFrame   = 3
	mistPerFrame    = 2
	dropLife        = 120
	dropMinSize     = 3.0
	dropMaxSize     = 5.0
	dropVolume      = 1.0 // water units per drop
	mistLife        = 50
	mistSpeedFactor = 0.55
	mistScatter     = 1.2

	// PuddleMergeRadius is the distance within which a landing drop grows an
	// existing puddle instead of creating a new one.
	PuddleMergeRadius = 20.0
	// MaxPuddles caps the number of live puddles; the oldest is evicted.
	MaxPuddles = 60

	puddleStartSize       = 4.0
	puddleStartMax        = 12.0
	puddleMergeGrowth     = 3.0
	puddleSizeCap         = 40.0
	puddleGrowthRate      = 0.25
	puddleGroundOpacity   = 0.6
	puddleBuildingOpacity = 0.4
	puddleMergeOpacity    = 0.1
	puddleGroundFade      = 0.002
)

// WaterDrop is one main-stream droplet in flight.
type WaterDrop struct {
	X, Y   float64
	VX, VY float64
	Life   int // frames left before it falls as a puddle
	Size   float64
	Shot   int // spray press that produced it
}

func (d *WaterDrop) step() {
	d.VY += Gravity
	d.X += d.VX
	d.Y += d.VY
	d.Life--
}

// MistKind selects the physical profile of a mist particle.
type MistKind int

const (
	MistLight MistKind = iota
	MistHeavy
)

func (k MistKind) String() string {
	if k == MistHeavy {
		return "heavy"
	}
	return "light"
}

type mistProfile struct {
	gravity float64
	drag    float64 // horizontal velocity multiplier per frame
	fade    float64 // opacity lost per frame
	opacity float64 // starting opacity
}

var mistProfiles = [...]mistProfile{
	MistLight: {gravity: 0.03, drag: 0.97, fade: 0.025, opacity: 0.55},
	MistHeavy: {gravity: 0.09, drag: 0.93, fade: 0.015, opacity: 0.75},
}

// MistParticle is fine spray drifting off the main stream. It never leaves
// a puddle.
type MistParticle struct {
	X, Y    float64
	VX, VY  float64
	Life    int
	Opacity float64
	Type    MistKind
}

func newMist(kind MistKind, x, y, vx, vy float64) *MistParticle {
	return &MistParticle{
		X: x, Y: y, VX: vx, VY: vy,
		Life:    mistLife,
		Opacity: mistProfiles[kind].opacity,
		Type:    kind,
	}
}

func (m *MistParticle) step() {
	p := mistProfiles[m.Type]
	m.VX *= p.drag
	m.VY += p.gravity
	m.X += m.VX
	m.Y += m.VY
	m.Opacity -= p.fade
	m.Life--
}

// Puddle is a fading patch of water where drops landed.
type Puddle struct {
	X, Y       float64
	Size       float64
	MaxSize    float64
	GrowthRate float64
	Opacity    float64
	FadeRate   float64
	OnBuilding bool
}

func newPuddle(x, y float64, onBuilding bool) *Puddle {
	p := &Puddle{
		X: x, Y: y,
		Size:       puddleStartSize,
		MaxSize:    puddleStartMax,
		GrowthRate: puddleGrowthRate,
		FadeRate:   puddleGroundFade,
		OnBuilding: onBuilding,
	}
	if onBuilding {
		p.FadeRate *= 2
	}
	p.Opacity = p.MaxOpacity()
	return p
}

// MaxOpacity is lower on building faces than on the ground.
func (p *Puddle) MaxOpacity() float64 {
	if p.OnBuilding {
		return puddleBuildingOpacity
	}
	return puddleGroundOpacity
}

// merge absorbs another landing drop.
func (p *Puddle) merge() {
	p.MaxSize = math.Min(p.MaxSize+puddleMergeGrowth, puddleSizeCap)
	p.Opacity = math.Min(p.Opacity+puddleMergeOpacity, p.MaxOpacity())
}

// step grows and fades the puddle; it reports false once it has dried up.
func (p *Puddle) step() bool {
	if p.Size < p.MaxSize {
		p.Size = math.Min(p.Size+p.GrowthRate, p.MaxSize)
	}
	p.Opacity -= p.FadeRate
	return p.Opacity > 0
}

// launchVelocity returns the velocity that carries a drop from (x0, y0)
// through (tx, ty) at the given speed. It picks the flatter of the two
// ballistic solutions and falls back to a 45° lob toward the target when
// the point is out of reach. The vertical component is shifted by half a
// gravity step so the per-frame integration matches the continuous arc.
func launchVelocity(x0, y0, tx, ty, speed, g float64) (float64, float64) {
	dx := tx - x0
	h := y0 - ty // height of the target above the nozzle
	adx := math.Abs(dx)
	dir := 1.0
	if dx < 0 {
		dir = -1
	}
	if adx < 1 {
		if h >= 0 {
			return 0, -speed
		}
		return 0, speed
	}

	s2 := speed * speed
	disc := s2*s2 - g*(g*adx*adx+2*h*s2)
	theta := math.Pi / 4
	if disc >= 0 {
		theta = math.Atan((s2 - math.Sqrt(disc)) / (g * adx))
	} else if h < 0 {
		theta = 0
	}
	vx := dir * speed * math.Cos(theta)
	vy := -speed*math.Sin(theta) - g/2
	return vx, vy
}

// --- Level-side particle handling ---

// emitSpray launches one frame's worth of drops and mist from the nozzle.
func (l *FireRescueLevel) emitSpray() {
	n := &l.nozzle
	vx, vy := launchVelocity(n.X, n.Y, n.AimX, n.AimY, spraySpeed, Gravity)
	for i := 0; i < dropsPerFrame; i++ {
		jvx, jvy := rotate(vx, vy, (l.rng.Float64()*2-1)*sprayJitter)
		l.drops = append(l.drops, &WaterDrop{
			X: n.X, Y: n.Y,
			VX: jvx, VY: jvy,
			Life: dropLife,
			Size: dropMinSize + l.rng.Float64()*(dropMaxSize-dropMinSize),
			Shot: l.shotID,
		})
	}
	if st := l.shots[l.shotID]; st != nil {
		st.inFlight += dropsPerFrame
		st.drops += dropsPerFrame
	}
	for i := 0; i < mistPerFrame; i++ {
		kind := MistLight
		if l.rng.Intn(2) == 0 {
			kind = MistHeavy
		}
		mvx := vx*mistSpeedFactor + (l.rng.Float64()*2-1)*mistScatter
		mvy := vy*mistSpeedFactor + (l.rng.Float64()*2-1)*mistScatter
		l.mist = append(l.mist, newMist(kind, n.X, n.Y, mvx, mvy))
	}
	l.rec.RecordWaterUsed(dropsPerFrame * dropVolume)
}

// stepDrops moves every drop and resolves fire hits, landings and expiry.
func (l *FireRescueLevel) stepDrops() {
	kept := l.drops[:0]
	for _, d := range l.drops {
		d.step()
		if f := l.matureFireAt(d.X, d.Y); f != nil {
			f.Damage(WaterDamage)
			l.dropResolved(d.Shot, true)
			continue
		}
		switch {
		case d.Y >= l.groundY:
			l.landDrop(d.X, l.groundY, false)
		case d.X < 0 || d.X > l.width || d.Y > l.height:
			// off-canvas, no puddle
		case d.Life <= 0:
			l.landDrop(d.X, d.Y, l.onBuilding(d.X, d.Y))
		default:
			kept = append(kept, d)
			continue
		}
		l.dropResolved(d.Shot, false)
	}
	for i := len(kept); i < len(l.drops); i++ {
		l.drops[i] = nil
	}
	l.drops = kept
}

// stepMist moves mist and applies its light damage. Mist never leaves puddles.
func (l *FireRescueLevel) stepMist() {
	kept := l.mist[:0]
	for _, m := range l.mist {
		m.step()
		if f := l.matureFireAt(m.X, m.Y); f != nil {
			f.Damage(MistDamage)
			continue
		}
		if m.Life <= 0 || m.Opacity <= 0 || m.Y >= l.groundY {
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(l.mist); i++ {
		l.mist[i] = nil
	}
	l.mist = kept
}

// landDrop grows a nearby puddle or creates a new one, evicting the oldest
// when the cap is reached.
func (l *FireRescueLevel) landDrop(x, y float64, onBuilding bool) {
	var nearest *Puddle
	best := PuddleMergeRadius
	for _, p := range l.puddles {
		if d := dist(p.X, p.Y, x, y); d <= best {
			nearest, best = p, d
		}
	}
	if nearest != nil {
		nearest.merge()
		return
	}
	if len(l.puddles) >= MaxPuddles {
		copy(l.puddles, l.puddles[1:])
		l.puddles[len(l.puddles)-1] = nil
		l.puddles = l.puddles[:len(l.puddles)-1]
	}
	l.puddles = append(l.puddles, newPuddle(x, y, onBuilding))
}

func (l *FireRescueLevel) stepPuddles() {
	kept := l.puddles[:0]
	for _, p := range l.puddles {
		if p.step() {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(l.puddles); i++ {
		l.puddles[i] = nil
	}
	l.puddles = kept
}

func (l *FireRescueLevel) onBuilding(x, y float64) bool {
	for _, b := range l.buildings {
		if b.Contains(x, y) {
			return true
		}
	}
	return false
}
