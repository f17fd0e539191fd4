package score

import (
	"time"

	"github.com/Garsondee/fire-rescue/internal/sim"
	"github.com/rs/zerolog"
)

const unlockTone = 1318.51 // E6

// Tracker is the session scoreboard. It implements sim.Recorder and
// announces achievements as soon as they are earned. Badges judged on the
// finished level only qualify once RecordLevelComplete has run, and the
// counters stop moving after that.
type Tracker struct {
	stats    Stats
	unlocked map[string]bool
	order    []Achievement

	sound    sim.Sound
	narrator sim.Narrator
	log      zerolog.Logger
}

// NewTracker builds a tracker. Sound and narrator may be nil.
func NewTracker(sound sim.Sound, narrator sim.Narrator, log zerolog.Logger) *Tracker {
	return &Tracker{
		unlocked: make(map[string]bool),
		sound:    sound,
		narrator: narrator,
		log:      log.With().Str("component", "score").Logger(),
	}
}

// Begin starts a new level's counters. Lifetime fires carry over so Fire
// Chief can be earned across sessions.
func (t *Tracker) Begin(fireGoal, lifetimeFires int) {
	t.stats = Stats{FireGoal: fireGoal, LifetimeFires: lifetimeFires}
	t.unlocked = make(map[string]bool)
	t.order = nil
}

func (t *Tracker) RecordFireExtinguished() {
	if t.stats.Completed {
		return
	}
	t.stats.FiresExtinguished++
	t.check()
}

func (t *Tracker) RecordWaterUsed(amount float64) {
	if t.stats.Completed {
		return
	}
	if amount > 0 {
		t.stats.WaterUsed += amount
	}
}

func (t *Tracker) RecordShot(hit bool) {
	if t.stats.Completed {
		return
	}
	t.stats.WaterShots++
	if hit {
		t.stats.SuccessfulShots++
	}
	t.check()
}

func (t *Tracker) RecordLevelComplete(responseTime time.Duration) {
	if t.stats.Completed {
		return
	}
	t.stats.Completed = true
	t.stats.ResponseTime = responseTime
	t.check()
}

// Stats returns a copy of the running counters.
func (t *Tracker) Stats() Stats {
	return t.stats
}

// Report scores the counters so far.
func (t *Tracker) Report() Report {
	return Evaluate(t.stats)
}

// Unlocked returns achievements earned this level in the order they
// were earned.
func (t *Tracker) Unlocked() []Achievement {
	return t.order
}

func (t *Tracker) check() {
	r := Evaluate(t.stats)
	for _, a := range r.Achievements {
		if t.unlocked[a.ID] {
			continue
		}
		t.unlocked[a.ID] = true
		t.order = append(t.order, a)
		t.log.Info().Str("achievement", a.ID).Msg("achievement unlocked")
		t.celebrate(a)
	}
}

func (t *Tracker) celebrate(a Achievement) {
	if t.sound != nil {
		t.sound.Tone(unlockTone, 150*time.Millisecond)
	}
	if t.narrator != nil {
		t.narrator.Say("Achievement unlocked: " + a.Name + "!")
	}
}
