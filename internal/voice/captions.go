// Package voice shows narration as on-screen captions.
package voice

import (
	"github.com/rs/zerolog"
)

const (
	// CaptionLifetime is how many ticks a caption stays on screen (~3 seconds).
	CaptionLifetime = 180

	historySize = 32
)

// Caption is one narrated line.
type Caption struct {
	Tick int
	Text string
	Age  int
}

// Alpha is the caption's opacity, fading over the last 30% of its life.
func (c Caption) Alpha() float64 {
	p := float64(c.Age) / float64(CaptionLifetime)
	if p <= 0.70 {
		return 1
	}
	a := 1 - (p-0.70)/0.30
	if a < 0 {
		return 0
	}
	return a
}

// Captions is a ring buffer of narrated lines. The newest line is shown as
// the current caption until it expires or a newer one replaces it.
type Captions struct {
	entries []Caption
	head    int
	count   int
	tick    int
	current *Caption
	enabled bool
	log     zerolog.Logger
}

// NewCaptions creates an enabled caption log.
func NewCaptions(log zerolog.Logger) *Captions {
	return &Captions{
		entries: make([]Caption, historySize),
		enabled: true,
		log:     log.With().Str("component", "voice").Logger(),
	}
}

// Say records a line. Disabled captions are still kept in the history
// but never become current.
func (c *Captions) Say(text string) {
	if text == "" {
		return
	}
	c.entries[c.head] = Caption{Tick: c.tick, Text: text}
	c.head = (c.head + 1) % historySize
	if c.count < historySize {
		c.count++
	}
	c.log.Debug().Int("tick", c.tick).Str("line", text).Msg("say")
	if !c.enabled {
		return
	}
	c.current = &Caption{Tick: c.tick, Text: text}
}

// Update ages the current caption by one tick.
func (c *Captions) Update() {
	c.tick++
	if c.current == nil {
		return
	}
	c.current.Age++
	if c.current.Age >= CaptionLifetime {
		c.current = nil
	}
}

// Current returns the caption on screen, if any.
func (c *Captions) Current() (Caption, bool) {
	if c.current == nil {
		return Caption{}, false
	}
	return *c.current, true
}

// Recent returns up to n lines, oldest first.
func (c *Captions) Recent(n int) []Caption {
	if n > c.count {
		n = c.count
	}
	out := make([]Caption, n)
	for i := 0; i < n; i++ {
		idx := (c.head - n + i + historySize) % historySize
		out[i] = c.entries[idx]
	}
	return out
}

// SetEnabled turns the caption banner on or off.
func (c *Captions) SetEnabled(on bool) {
	c.enabled = on
	if !on {
		c.current = nil
	}
}

// Enabled reports whether captions are shown.
func (c *Captions) Enabled() bool { return c.enabled }

// Clear drops the history and the current caption.
func (c *Captions) Clear() {
	c.head, c.count = 0, 0
	c.current = nil
}
