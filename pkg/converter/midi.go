package converter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jacksmedia/midi2hex/pkg/translator"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// EventOrder decides how events from several tracks are sequenced
type EventOrder string

const (
	// OrderByTrack emits every event of a track before the next track
	OrderByTrack EventOrder = "track"
	// OrderByTime merges all tracks by absolute time, then track index
	OrderByTime EventOrder = "time"
)

// ParseEventOrder parses "track" or "time"; empty means OrderByTrack
func ParseEventOrder(s string) (EventOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(OrderByTrack):
		return OrderByTrack, nil
	case string(OrderByTime):
		return OrderByTime, nil
	default:
		return "", fmt.Errorf("unknown event order %q (want track or time)", s)
	}
}

// ParseOptions controls MIDI parsing
type ParseOptions struct {
	Order         EventOrder
	InsertRests   bool
	RestThreshold float64 // gaps not longer than this are ignored
}

// DefaultParseOptions returns track-sequential order with rests inserted
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Order:         OrderByTrack,
		InsertRests:   true,
		RestThreshold: translator.DefaultTolerance,
	}
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the scientific pitch name of a MIDI key (60 = C4)
func NoteName(key uint8) string {
	return noteNames[key%12] + strconv.Itoa(int(key)/12-1)
}

// MIDIConverter handles MIDI file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
	opts            ParseOptions
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter(opts ParseOptions) *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           120.0,
		opts:            opts,
	}
}

// ParseMIDIFile reads a MIDI file and extracts note events
func (m *MIDIConverter) ParseMIDIFile(filename string) ([]translator.NoteEvent, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseEvents(data)
}

// pending is a sounding note waiting for its note-off
type pending struct {
	tick     int64
	key      uint8
	velocity uint8
	seq      int
}

type timedEvent struct {
	seq int
	evt translator.NoteEvent
}

// ParseEvents parses MIDI data into note events, grouped by track and ordered
// by time within each track. Times and durations are in whole notes.
func (m *MIDIConverter) ParseEvents(data []byte) ([]translator.NoteEvent, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New("unsupported MIDI time format: only metric ticks are supported")
	}
	m.ticksPerQuarter = mt.Resolution()
	if m.ticksPerQuarter == 0 {
		return nil, errors.New("invalid MIDI resolution: 0 ticks per quarter")
	}
	ticksPerWhole := float64(m.ticksPerQuarter) * 4

	var tracks [][]translator.NoteEvent
	for trackIndex, track := range s.Tracks {
		notes := m.trackNotes(trackIndex, track, ticksPerWhole)
		if m.opts.InsertRests {
			notes = insertRests(trackIndex, notes, m.opts.RestThreshold)
		}
		tracks = append(tracks, notes)
	}

	return orderEvents(tracks, m.opts.Order), nil
}

func (m *MIDIConverter) trackNotes(trackIndex int, track smf.Track, ticksPerWhole float64) []translator.NoteEvent {
	open := make(map[uint16][]pending)
	var notes []timedEvent
	var currentTick int64
	seq := 0

	closeNote := func(p pending, endTick int64) {
		notes = append(notes, timedEvent{
			seq: p.seq,
			evt: translator.NoteEvent{
				Track:    trackIndex,
				Time:     float64(p.tick) / ticksPerWhole,
				Pitch:    int(p.key),
				Duration: float64(endTick-p.tick) / ticksPerWhole,
				Velocity: int(p.velocity),
				Name:     NoteName(p.key),
			},
		})
	}

	for _, ev := range track {
		currentTick += int64(ev.Delta)

		msg := midi.Message(ev.Message)

		// Tempo is informational only; durations are in note values
		var bpm float64
		if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
			m.tempo = bpm
		}

		var channel, key, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
			id := uint16(channel)<<8 | uint16(key)
			open[id] = append(open[id], pending{tick: currentTick, key: key, velocity: velocity, seq: seq})
			seq++
		case msg.GetNoteOn(&channel, &key, &velocity), msg.GetNoteOff(&channel, &key, &velocity):
			id := uint16(channel)<<8 | uint16(key)
			queue := open[id]
			if len(queue) == 0 {
				continue
			}
			closeNote(queue[0], currentTick)
			open[id] = queue[1:]
		}
	}

	// Notes left sounding end with the track
	for _, queue := range open {
		for _, p := range queue {
			if currentTick > p.tick {
				closeNote(p, currentTick)
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].seq < notes[j].seq })
	events := make([]translator.NoteEvent, len(notes))
	for i, n := range notes {
		events[i] = n.evt
	}
	return events
}

// insertRests fills silent gaps within a track with REST events
func insertRests(trackIndex int, notes []translator.NoteEvent, threshold float64) []translator.NoteEvent {
	if len(notes) == 0 {
		return notes
	}
	out := make([]translator.NoteEvent, 0, len(notes)*2)
	cursor := 0.0
	for _, n := range notes {
		if gap := n.Time - cursor; gap > threshold {
			out = append(out, translator.NoteEvent{
				Track:    trackIndex,
				Time:     cursor,
				Duration: gap,
				Name:     translator.RestToken,
			})
		}
		out = append(out, n)
		cursor = math.Max(cursor, n.Time+n.Duration)
	}
	return out
}

func orderEvents(tracks [][]translator.NoteEvent, order EventOrder) []translator.NoteEvent {
	var all []translator.NoteEvent
	for _, t := range tracks {
		all = append(all, t...)
	}
	if order == OrderByTime {
		sort.SliceStable(all, func(i, j int) bool {
			if all[i].Time != all[j].Time {
				return all[i].Time < all[j].Time
			}
			return all[i].Track < all[j].Track
		})
	}
	return all
}

// Tempo returns the last tempo seen while parsing, in BPM
func (m *MIDIConverter) Tempo() float64 {
	return m.tempo
}

// GenerateMIDI writes note events back to a standard MIDI file, one SMF track
// per event track. Control events such as rests produce no MIDI messages.
func (m *MIDIConverter) GenerateMIDI(events []translator.NoteEvent) ([]byte, error) {
	if m.tempo <= 0 {
		m.tempo = 120.0
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)
	ticksPerWhole := float64(m.ticksPerQuarter) * 4

	type message struct {
		tick  uint32
		off   bool
		bytes []byte
	}

	maxTrack := 0
	for _, evt := range events {
		if evt.Track < 0 {
			return nil, fmt.Errorf("invalid track index %d", evt.Track)
		}
		if evt.Track > maxTrack {
			maxTrack = evt.Track
		}
	}

	for ti := 0; ti <= maxTrack; ti++ {
		var msgs []message
		for _, evt := range events {
			if evt.Track != ti {
				continue
			}
			note := translator.ParseNoteName(evt.Name)
			if !note.Pitched() || evt.Duration <= 0 || evt.Time < 0 {
				continue
			}
			key := evt.Pitch
			if key <= 0 || key > 127 {
				key = keyFromNote(note)
			}
			velocity := evt.Velocity
			if velocity <= 0 || velocity > 127 {
				velocity = 100
			}
			start := uint32(math.Round(evt.Time * ticksPerWhole))
			end := uint32(math.Round((evt.Time + evt.Duration) * ticksPerWhole))
			msgs = append(msgs,
				message{tick: start, bytes: midi.NoteOn(0, uint8(key), uint8(velocity))},
				message{tick: end, off: true, bytes: midi.NoteOff(0, uint8(key))},
			)
		}

		// note-offs go before note-ons on the same tick
		sort.SliceStable(msgs, func(i, j int) bool {
			if msgs[i].tick != msgs[j].tick {
				return msgs[i].tick < msgs[j].tick
			}
			return msgs[i].off && !msgs[j].off
		})

		var track smf.Track
		if ti == 0 {
			microsecondsPerBeat := uint32(60000000.0 / m.tempo)
			track.Add(0, smf.Message([]byte{
				0xFF, 0x51, 0x03,
				byte(microsecondsPerBeat >> 16),
				byte(microsecondsPerBeat >> 8),
				byte(microsecondsPerBeat),
			}))
			// 4/4
			track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))
		}

		var currentTick uint32
		for _, msg := range msgs {
			track.Add(msg.tick-currentTick, msg.bytes)
			currentTick = msg.tick
		}
		track.Close(0)

		if err := s.Add(track); err != nil {
			return nil, fmt.Errorf("failed to add track: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes note events to a MIDI file
func (m *MIDIConverter) WriteMIDIFile(events []translator.NoteEvent, filename string) error {
	data, err := m.GenerateMIDI(events)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func keyFromNote(n translator.Note) int {
	for i, name := range noteNames {
		if name == n.Token {
			return (n.Octave+1)*12 + i
		}
	}
	return 60
}
