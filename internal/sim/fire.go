package sim

import "math"

const (
	fireGrowFrames    = 60 // ~1s at 60 TPS
	fireMinTarget     = 22.0
	fireMaxTarget     = 38.0
	fireMaxLife       = 100.0
	fireMinSeparation = 45.0
	fireSpawnAttempts = 20

	// WaterDamage is the life removed by one main-stream drop.
	WaterDamage = 6.0
	// MistDamage is the life removed by one mist particle.
	MistDamage = 1.0

	spreadChance           = 0.012 // per-frame probability of a spread attempt
	spreadCooldown         = 300   // frames before the same fire may spread again
	spreadAdjacentChance   = 0.7
	spreadHorizontalChance = 0.6
	spreadAdjacentMin      = 40.0
	spreadAdjacentMax      = 70.0
	spreadEmberMin         = 100.0
	spreadEmberMax         = 180.0
)

// Fire burns on a building face. It grows to TargetSize, then burns at a
// steady size until water brings Life to zero.
type Fire struct {
	ID         int
	X, Y       float64
	Size       float64
	TargetSize float64
	GrowthRate float64
	Life       float64
	Flicker    float64 // cosmetic phase
	Growing    bool

	// SpreadFrom is the ID of the fire this one spread from, 0 for a
	// primary spawn. The origin may already be extinguished.
	SpreadFrom int
	Cooldown   int
}

func newFire(id int, x, y, target float64) *Fire {
	return &Fire{
		ID:         id,
		X:          x,
		Y:          y,
		TargetSize: target,
		GrowthRate: target / fireGrowFrames,
		Life:       fireMaxLife,
		Growing:    true,
	}
}

// Mature reports whether the fire has finished growing.
func (f *Fire) Mature() bool {
	return !f.Growing
}

// Touches reports whether a particle at (px, py) is inside the flame.
func (f *Fire) Touches(px, py float64) bool {
	return dist(f.X, f.Y, px, py) < f.Size
}

// Damage removes life from a mature fire. Growing fires are immune and
// report false.
func (f *Fire) Damage(amount float64) bool {
	if f.Growing {
		return false
	}
	f.Life -= amount
	return true
}

// Out reports whether the fire has been extinguished.
func (f *Fire) Out() bool {
	return f.Life <= 0
}

func (f *Fire) update() {
	f.Flicker = math.Mod(f.Flicker+0.21, 2*math.Pi)
	if f.Growing {
		f.Size += f.GrowthRate
		if f.Size >= f.TargetSize {
			f.Size = f.TargetSize
			f.Growing = false
		}
	}
	if f.Cooldown > 0 {
		f.Cooldown--
	}
}

// --- Spawning ---

// addFire places a new fire at (x, y) without any placement checks.
func (l *FireRescueLevel) addFire(x, y float64) *Fire {
	l.nextFireID++
	target := fireMinTarget + l.rng.Float64()*(fireMaxTarget-fireMinTarget)
	f := newFire(l.nextFireID, x, y, target)
	l.fires = append(l.fires, f)
	return f
}

// spawnFire picks a random spot on a random building face. It returns nil
// when the cap is reached or no free spot was found.
func (l *FireRescueLevel) spawnFire() *Fire {
	if len(l.fires) >= l.set.MaxFires || len(l.buildings) == 0 {
		return nil
	}
	for attempt := 0; attempt < fireSpawnAttempts; attempt++ {
		b := l.buildings[l.rng.Intn(len(l.buildings))]
		margin := math.Min(fireMaxTarget*0.8, b.W/3)
		x := b.X + margin + l.rng.Float64()*(b.W-2*margin)
		y := b.Y + margin + l.rng.Float64()*(b.H-2*margin)
		if l.fireNear(x, y, fireMinSeparation) {
			continue
		}
		f := l.addFire(x, y)
		l.events.Add(l.frame, "fire", "spawn", "", float64(f.ID))
		return f
	}
	return nil
}

// trySpread occasionally lets a mature fire ignite a neighbouring spot.
func (l *FireRescueLevel) trySpread() {
	if !l.set.Spread || len(l.fires) >= l.set.MaxFires {
		return
	}
	if l.rng.Float64() >= spreadChance {
		return
	}
	var candidates []*Fire
	for _, f := range l.fires {
		if f.Mature() && f.Cooldown == 0 {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return
	}
	src := candidates[l.rng.Intn(len(candidates))]

	var d float64
	if l.rng.Float64() < spreadAdjacentChance {
		d = spreadAdjacentMin + l.rng.Float64()*(spreadAdjacentMax-spreadAdjacentMin)
	} else {
		d = spreadEmberMin + l.rng.Float64()*(spreadEmberMax-spreadEmberMin)
	}
	sign := 1.0
	if l.rng.Intn(2) == 0 {
		sign = -1
	}
	wobble := (l.rng.Float64()*2 - 1) * d * 0.25
	dx, dy := wobble, sign*d
	if l.rng.Float64() < spreadHorizontalChance {
		dx, dy = sign*d, wobble
	}

	x := clamp(src.X+dx, 0, l.width)
	y := clamp(src.Y+dy, 0, l.height)
	if !l.onBuilding(x, y) || l.fireNear(x, y, fireMinSeparation) {
		return
	}
	f := l.addFire(x, y)
	f.SpreadFrom = src.ID
	src.Cooldown = spreadCooldown
	l.events.Add(l.frame, "fire", "spread", "", float64(f.ID))
}

func (l *FireRescueLevel) fireNear(x, y, radius float64) bool {
	for _, f := range l.fires {
		if dist(f.X, f.Y, x, y) < radius {
			return true
		}
	}
	return false
}

// matureFireAt returns the first mature, still burning fire touched by
// (x, y). Fires put out earlier in the frame wait for sweepFires but no
// longer catch water.
func (l *FireRescueLevel) matureFireAt(x, y float64) *Fire {
	for _, f := range l.fires {
		if f.Mature() && !f.Out() && f.Touches(x, y) {
			return f
		}
	}
	return nil
}

// sweepFires removes extinguished fires and reports each exactly once.
func (l *FireRescueLevel) sweepFires() {
	kept := l.fires[:0]
	for _, f := range l.fires {
		if !f.Out() {
			kept = append(kept, f)
			continue
		}
		l.firesExtinguished++
		l.events.Add(l.frame, "fire", "extinguished", "", float64(f.ID))
		l.tone(toneExtinguish, toneShort)
		l.rec.RecordFireExtinguished()
	}
	for i := len(kept); i < len(l.fires); i++ {
		l.fires[i] = nil
	}
	l.fires = kept
}
