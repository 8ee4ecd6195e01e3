package converter

import (
	"bytes"
	"testing"

	"github.com/jacksmedia/midi2hex/pkg/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type rawEvent struct {
	delta uint32
	msg   []byte
}

// buildSMF writes tracks at 480 ticks per quarter (1920 per whole note)
func buildSMF(t *testing.T, tracks ...[]rawEvent) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, events := range tracks {
		var track smf.Track
		for _, e := range events {
			track.Add(e.delta, e.msg)
		}
		track.Close(0)
		require.NoError(t, s.Add(track))
	}
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func noRests() ParseOptions {
	opts := DefaultParseOptions()
	opts.InsertRests = false
	return opts
}

func TestNoteName(t *testing.T) {
	tests := map[uint8]string{
		60:  "C4",
		61:  "C#4",
		69:  "A4",
		70:  "A#4",
		48:  "C3",
		0:   "C-1",
		127: "G9",
	}
	for key, want := range tests {
		assert.Equal(t, want, NoteName(key), "key %d", key)
	}
}

func TestParseEventOrder(t *testing.T) {
	o, err := ParseEventOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderByTrack, o)

	o, err = ParseEventOrder("TIME")
	require.NoError(t, err)
	assert.Equal(t, OrderByTime, o)

	_, err = ParseEventOrder("random")
	assert.Error(t, err)
}

func TestParseEventsSingleTrackWithRests(t *testing.T) {
	data := buildSMF(t, []rawEvent{
		{0, midi.NoteOn(0, 60, 100)},
		{1920, midi.NoteOff(0, 60)},
		{960, midi.NoteOn(0, 62, 90)},
		{480, midi.NoteOff(0, 62)},
	})

	events, err := NewMIDIConverter(DefaultParseOptions()).ParseEvents(data)
	require.NoError(t, err)

	assert.Equal(t, []translator.NoteEvent{
		{Track: 0, Time: 0, Pitch: 60, Duration: 1, Velocity: 100, Name: "C4"},
		{Track: 0, Time: 1, Duration: 0.5, Name: "REST"},
		{Track: 0, Time: 1.5, Pitch: 62, Duration: 0.25, Velocity: 90, Name: "D4"},
	}, events)
}

func TestParseEventsLeadingRest(t *testing.T) {
	data := buildSMF(t, []rawEvent{
		{480, midi.NoteOn(0, 64, 100)},
		{480, midi.NoteOff(0, 64)},
	})

	events, err := NewMIDIConverter(DefaultParseOptions()).ParseEvents(data)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "REST", events[0].Name)
	assert.Equal(t, 0.25, events[0].Duration)
	assert.Equal(t, "E4", events[1].Name)
}

func TestParseEventsNoteOnZeroVelocityEndsNote(t *testing.T) {
	data := buildSMF(t, []rawEvent{
		{0, midi.NoteOn(0, 57, 80)},
		{960, midi.NoteOn(0, 57, 0)},
	})

	events, err := NewMIDIConverter(noRests()).ParseEvents(data)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "A3", events[0].Name)
	assert.Equal(t, 0.5, events[0].Duration)
}

func TestParseEventsUnterminatedNoteEndsWithTrack(t *testing.T) {
	data := buildSMF(t, []rawEvent{
		{0, midi.NoteOn(0, 60, 100)},
		{0, midi.NoteOn(0, 64, 100)},
		{480, midi.NoteOff(0, 64)},
		{480, midi.ControlChange(0, 7, 100)},
	})

	events, err := NewMIDIConverter(noRests()).ParseEvents(data)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "C4", events[0].Name)
	assert.Equal(t, 0.5, events[0].Duration)
	assert.Equal(t, "E4", events[1].Name)
	assert.Equal(t, 0.25, events[1].Duration)
}

func TestParseEventsTrackOrdering(t *testing.T) {
	track0 := []rawEvent{
		{0, midi.NoteOn(0, 60, 100)},
		{1920, midi.NoteOff(0, 60)},
		{0, midi.NoteOn(0, 64, 100)},
		{1920, midi.NoteOff(0, 64)},
	}
	track1 := []rawEvent{
		{960, midi.NoteOn(1, 67, 100)},
		{1920, midi.NoteOff(1, 67)},
	}
	data := buildSMF(t, track0, track1)

	byTrack, err := NewMIDIConverter(noRests()).ParseEvents(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "E4", "G4"}, names(byTrack))

	opts := noRests()
	opts.Order = OrderByTime
	byTime, err := NewMIDIConverter(opts).ParseEvents(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"C4", "G4", "E4"}, names(byTime))
	assert.Equal(t, 1, byTime[1].Track)
}

func TestParseEventsInvalid(t *testing.T) {
	_, err := NewMIDIConverter(DefaultParseOptions()).ParseEvents([]byte("not a midi file"))
	assert.Error(t, err)
}

func TestGenerateMIDIRoundTrip(t *testing.T) {
	original := []translator.NoteEvent{
		{Track: 0, Time: 0, Pitch: 60, Duration: 1, Velocity: 100, Name: "C4"},
		{Track: 0, Time: 1, Pitch: 60, Duration: 0.5, Velocity: 90, Name: "C4"},
		{Track: 0, Time: 1.5, Pitch: 70, Duration: 0.25, Velocity: 80, Name: "A#4"},
		{Track: 1, Time: 0.5, Pitch: 43, Duration: 1.5, Velocity: 64, Name: "G2"},
	}

	conv := NewMIDIConverter(noRests())
	data, err := conv.GenerateMIDI(original)
	require.NoError(t, err)
	assert.Equal(t, FormatMIDI, DetectFormatFromContent(data))

	parsed, err := conv.ParseEvents(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
	assert.InDelta(t, 120.0, conv.Tempo(), 0.01)
}

func TestGenerateMIDISkipsControlEvents(t *testing.T) {
	events := []translator.NoteEvent{
		{Name: "REST", Duration: 1},
		{Time: 1, Name: "D5", Duration: 1},
	}

	conv := NewMIDIConverter(noRests())
	data, err := conv.GenerateMIDI(events)
	require.NoError(t, err)

	parsed, err := conv.ParseEvents(data)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, 74, parsed[0].Pitch)
	assert.Equal(t, 100, parsed[0].Velocity)
}

func TestGenerateMIDIInvalidTrack(t *testing.T) {
	_, err := NewMIDIConverter(noRests()).GenerateMIDI([]translator.NoteEvent{{Track: -1, Name: "C4", Duration: 1}})
	assert.Error(t, err)
}

func TestMIDIToHexEndToEnd(t *testing.T) {
	data := buildSMF(t, []rawEvent{
		{0, midi.NoteOn(0, 60, 100)},
		{1920, midi.NoteOff(0, 60)},
		{960, midi.NoteOn(0, 62, 100)},
		{480, midi.NoteOff(0, 62)},
	})

	result, err := New(newMockEngine()).MIDIToHex(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"d0", "c1", "d1"}, result.Tokens)
	assert.False(t, result.HasPlaceholders())
}

func names(events []translator.NoteEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}
