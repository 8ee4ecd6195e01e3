package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOctaveTrackerShiftsUp(t *testing.T) {
	tracker := NewOctaveTracker(ReferenceOctave, OctaveUpToken, OctaveDownToken)

	shifts := tracker.Step(ParseNoteName("C6"))
	assert.Equal(t, []string{"E1", "E1"}, shifts)
	assert.Equal(t, 6, tracker.Current())

	// control tokens never move the register
	assert.Empty(t, tracker.Step(ParseNoteName("REST")))
	assert.Equal(t, 6, tracker.Current())
}

func TestOctaveTrackerShiftsDown(t *testing.T) {
	tracker := NewOctaveTracker(ReferenceOctave, OctaveUpToken, OctaveDownToken)

	assert.Equal(t, []string{"E2", "E2", "E2"}, tracker.Step(ParseNoteName("F1")))
	assert.Equal(t, 1, tracker.Current())
}

func TestOctaveTrackerSameOctave(t *testing.T) {
	tracker := NewOctaveTracker(ReferenceOctave, OctaveUpToken, OctaveDownToken)

	assert.Empty(t, tracker.Step(ParseNoteName("A4")))
	assert.Equal(t, ReferenceOctave, tracker.Current())
}

func TestOctaveTrackerSequence(t *testing.T) {
	tracker := NewOctaveTracker(ReferenceOctave, "up", "down")

	var all []string
	for _, name := range []string{"C5", "D5", "REST", "E3", "C4"} {
		all = append(all, tracker.Step(ParseNoteName(name))...)
	}
	assert.Equal(t, []string{"up", "down", "down", "up"}, all)
	assert.Equal(t, 4, tracker.Current())
}
