// Package engines provides target sound-engine definitions
package engines

import (
	"fmt"
	"sync"

	"github.com/jacksmedia/midi2hex/pkg/translator"
)

// AKAO engine constants
const (
	AKAOID         = "akao"
	AKAOOctaveUp   = 0xE1 // raise octave by one
	AKAOOctaveDown = 0xE2 // lower octave by one
	AKAOWholeTicks = 192
)

// Row order of the AKAO note table. Each token owns one row of
// len(durations) consecutive opcodes.
var akaoTokens = []string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
	translator.TieToken,
	translator.RestToken,
}

// AKAO implements the Engine interface for SNES AKAO-style sequence drivers.
// A note opcode is token*15 + durationIndex over the default canonical set;
// octave changes are relative single-step commands.
type AKAO struct {
	once   sync.Once
	schema translator.Schema
}

// NewAKAO creates a new AKAO engine
func NewAKAO() *AKAO {
	return &AKAO{}
}

// ID returns the engine ID
func (a *AKAO) ID() string {
	return AKAOID
}

// Name returns the engine name
func (a *AKAO) Name() string {
	return "SNES AKAO"
}

// Description returns a short summary of the engine
func (a *AKAO) Description() string {
	return "SNES AKAO-style driver: 14 note/tie/rest rows x 15 durations, relative octave commands"
}

// Schema returns the generated note table. It is built once and must be
// treated as read-only.
func (a *AKAO) Schema() translator.Schema {
	a.once.Do(func() {
		a.schema = buildAKAOSchema()
	})
	return a.schema
}

// Options returns translator options matching the driver
func (a *AKAO) Options() []translator.Option {
	return []translator.Option{
		translator.WithDurations(translator.DefaultDurations()),
		translator.WithReferenceOctave(translator.ReferenceOctave),
		translator.WithShiftTokens(hexByte(AKAOOctaveUp), hexByte(AKAOOctaveDown)),
	}
}

// Opcode returns the opcode for token at a canonical duration. Pitched tokens
// are given without octave ("C#"), control tokens by name ("TIE").
func (a *AKAO) Opcode(token string, d float64) (byte, error) {
	row := -1
	for i, t := range akaoTokens {
		if t == token {
			row = i
			break
		}
	}
	if row < 0 {
		return 0, fmt.Errorf("unknown AKAO token %q", token)
	}

	durations := translator.DefaultDurations()
	for col, v := range durations {
		if v == d {
			return byte(row*len(durations) + col), nil
		}
	}
	return 0, fmt.Errorf("duration %v is not canonical", d)
}

// Ticks returns the driver tick length of a canonical duration
func Ticks(d float64) int {
	return int(d*AKAOWholeTicks + 0.5)
}

func buildAKAOSchema() translator.Schema {
	durations := translator.DefaultDurations()
	schema := make(translator.Schema, len(akaoTokens)*len(durations))

	for row, token := range akaoTokens {
		keyToken := token
		if translator.ParseNoteName(token+"0").Pitched() {
			keyToken = fmt.Sprintf("%s%d", token, translator.ReferenceOctave)
		}
		for col, d := range durations {
			schema[translator.Key(keyToken, d)] = hexByte(byte(row*len(durations) + col))
		}
	}

	return schema
}

func hexByte(b byte) string {
	return fmt.Sprintf("%02X", b)
}
