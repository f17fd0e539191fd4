package sim

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Sound plays short synthesized tones. Calls must return immediately.
type Sound interface {
	Tone(freq float64, d time.Duration)
}

// Narrator voices or captions a guidance line.
type Narrator interface {
	Say(text string)
}

// Recorder observes scoring events emitted by a level.
type Recorder interface {
	RecordFireExtinguished()
	RecordWaterUsed(amount float64)
	RecordShot(hit bool)
	RecordLevelComplete(responseTime time.Duration)
}

// Context carries the collaborators shared by every level of one app
// session. Any collaborator may be nil.
type Context struct {
	Sound    Sound
	Narrator Narrator
	Recorder Recorder
	Log      zerolog.Logger

	// Rand seeds a level's private generator when no explicit seed is set.
	Rand *rand.Rand
}

// NewContext returns a Context with a no-op logger and no collaborators.
func NewContext() *Context {
	return &Context{Log: zerolog.Nop()}
}

// MultiRecorder fans scoring events out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordFireExtinguished() {
	for _, r := range m {
		if r != nil {
			r.RecordFireExtinguished()
		}
	}
}

func (m MultiRecorder) RecordWaterUsed(amount float64) {
	for _, r := range m {
		if r != nil {
			r.RecordWaterUsed(amount)
		}
	}
}

func (m MultiRecorder) RecordShot(hit bool) {
	for _, r := range m {
		if r != nil {
			r.RecordShot(hit)
		}
	}
}

func (m MultiRecorder) RecordLevelComplete(responseTime time.Duration) {
	for _, r := range m {
		if r != nil {
			r.RecordLevelComplete(responseTime)
		}
	}
}
