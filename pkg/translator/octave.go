package translator

// OctaveTracker holds the engine's current register for one translation run.
// It must not be shared between runs.
type OctaveTracker struct {
	current int
	up      string
	down    string
}

// NewOctaveTracker creates a tracker starting at octave start
func NewOctaveTracker(start int, up, down string) *OctaveTracker {
	return &OctaveTracker{current: start, up: up, down: down}
}

// Current returns the current register
func (o *OctaveTracker) Current() int {
	return o.current
}

// Step returns the shift tokens needed to reach n's octave and moves the
// register there. Control tokens leave the register untouched.
func (o *OctaveTracker) Step(n Note) []string {
	if !n.Pitched() {
		return nil
	}
	diff := n.Octave - o.current
	if diff == 0 {
		return nil
	}

	// engine only has single-step shifts
	token := o.up
	if diff < 0 {
		token = o.down
		diff = -diff
	}
	shifts := make([]string, diff)
	for i := range shifts {
		shifts[i] = token
	}
	o.current = n.Octave
	return shifts
}
