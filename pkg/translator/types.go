// Package translator converts parsed note events into flat byte-code token
// sequences for a target sound engine.
package translator

import "errors"

// Placeholder marks an output position where decomposition or lookup failed
const Placeholder = "??"

// ReferenceOctave is the octave the schema is keyed at and the register an
// engine starts in
const ReferenceOctave = 4

// Default register-shift tokens
const (
	OctaveUpToken   = "E1"
	OctaveDownToken = "E2"
)

// Control tokens with special meaning
const (
	RestToken = "REST"
	TieToken  = "TIE"
)

// Sentinel errors
var (
	ErrUndecomposableDuration = errors.New("undecomposable duration")
	ErrUnmatchedSchemaKey     = errors.New("unmatched schema key")
	ErrInvalidDurationSet     = errors.New("invalid duration set")
	ErrInvalidSchemaKey       = errors.New("invalid schema key")
)

// NoteEvent is a single sounding or resting interval produced by a parser
type NoteEvent struct {
	Track    int     `json:"track"`
	Time     float64 `json:"time"`     // absolute, whole notes, per track
	Pitch    int     `json:"midi"`     // informational only
	Duration float64 `json:"duration"` // whole notes
	Velocity int     `json:"velocity"`
	Name     string  `json:"name"` // "A#2" or a control token such as "REST"
}
