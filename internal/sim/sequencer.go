package sim

// Step is one entry of a sequence. Do runs Delay frames after the previous
// step; the first step counts from the first Tick after Play.
type Step struct {
	Delay int
	Do    func()
}

// Sequencer plays timed sequences off the frame clock. Several sequences
// may run at once; Cancel drops all of them.
type Sequencer struct {
	running []*sequence
	gen     int
}

type sequence struct {
	steps []Step
	wait  int
}

// Play queues a sequence. Nothing runs until the next Tick.
func (s *Sequencer) Play(steps ...Step) {
	if len(steps) == 0 {
		return
	}
	cp := make([]Step, len(steps))
	copy(cp, steps)
	s.running = append(s.running, &sequence{steps: cp, wait: cp[0].Delay})
}

// Tick advances every running sequence by one frame and runs the steps
// that fall due.
func (s *Sequencer) Tick() {
	gen := s.gen
	running := s.running
	s.running = nil
	kept := running[:0]
	for i, sq := range running {
		for len(sq.steps) > 0 && sq.wait <= 0 {
			st := sq.steps[0]
			sq.steps = sq.steps[1:]
			if len(sq.steps) > 0 {
				sq.wait = sq.steps[0].Delay
			}
			if st.Do != nil {
				st.Do()
			}
			if s.gen != gen {
				// Cancelled from inside a step: drop the rest of this
				// tick's sequences but keep anything queued afterwards.
				for j := i; j < len(running); j++ {
					running[j] = nil
				}
				return
			}
		}
		if len(sq.steps) > 0 {
			sq.wait--
			kept = append(kept, sq)
		}
	}
	s.running = append(kept, s.running...)
}

// Cancel drops every pending step.
func (s *Sequencer) Cancel() {
	s.gen++
	s.running = nil
}

// Pending reports how many sequences still have steps to run.
func (s *Sequencer) Pending() int {
	return len(s.running)
}
