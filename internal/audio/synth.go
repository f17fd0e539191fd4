// Package audio plays the short sine cues the game uses for feedback.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

// fade is the attack and release applied to every tone so it starts and
// stops without a click.
const fade = 8 * time.Millisecond

// Synth mixes tones onto the speaker. The zero-volume and uninitialised
// states are silent, never an error, so the game keeps running on machines
// without an audio device.
type Synth struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	volume  float64
	mixer   *beep.Mixer
	enabled bool
	log     zerolog.Logger
}

// NewSynth creates a silent synthesiser. volume is in powers of two
// relative to full scale, so -1 halves the amplitude.
func NewSynth(sampleRate int, volume float64, log zerolog.Logger) *Synth {
	return &Synth{
		rate:   beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// Init opens the speaker and starts the mixer.
func (s *Synth) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enabled {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.enabled = true
	s.log.Info().Int("rate", int(s.rate)).Float64("volume", s.volume).Msg("audio ready")
	return nil
}

// Enabled reports whether tones reach the speaker.
func (s *Synth) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Tone queues a sine wave of freq Hz for d. It returns immediately.
func (s *Synth) Tone(freq float64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}
	st, err := NewTone(s.rate, freq, d, s.volume)
	if err != nil {
		s.log.Warn().Err(err).Float64("freq", freq).Msg("tone skipped")
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close silences everything still playing.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.enabled = false
}

// NewTone builds a faded sine streamer of exactly rate.N(d) samples.
func NewTone(rate beep.SampleRate, freq float64, d time.Duration, volume float64) (beep.Streamer, error) {
	if d <= 0 {
		return nil, fmt.Errorf("tone duration %v must be positive", d)
	}
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %.2fHz: %w", freq, err)
	}
	n := rate.N(d)
	f := rate.N(fade)
	if 2*f > n {
		f = n / 2
	}
	shaped := &envelope{streamer: beep.Take(n, sine), total: n, ramp: f}
	return &effects.Volume{Streamer: shaped, Base: 2, Volume: volume, Silent: math.IsInf(volume, -1)}, nil
}

// envelope ramps the first and last ramp samples linearly.
type envelope struct {
	streamer beep.Streamer
	pos      int
	total    int
	ramp     int
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if e.ramp > 0 {
			if e.pos < e.ramp {
				g = float64(e.pos) / float64(e.ramp)
			} else if left := e.total - e.pos - 1; left < e.ramp {
				g = float64(left) / float64(e.ramp)
			}
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
