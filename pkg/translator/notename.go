package translator

import (
	"regexp"
	"strconv"
)

// NoteKind distinguishes pitched notes from control tokens
type NoteKind int

const (
	KindControl NoteKind = iota
	KindPitched
)

// Note is the classified form of an event name. Pitched notes carry a pitch
// class in Token and an Octave; control tokens carry only Token.
type Note struct {
	Kind   NoteKind
	Token  string
	Octave int
}

// Pitched reports whether n is a pitched note
func (n Note) Pitched() bool {
	return n.Kind == KindPitched
}

func (n Note) String() string {
	if n.Pitched() {
		return n.Token + strconv.Itoa(n.Octave)
	}
	return n.Token
}

var noteNamePattern = regexp.MustCompile(`^([A-G]#?)([0-9])$`)

// ParseNoteName classifies name as a pitched note ("A#2" -> A#, 2) or a
// control token ("REST"). Non-matching input is a control token, never an error.
// An empty name is a rest.
func ParseNoteName(name string) Note {
	if name == "" {
		return Note{Kind: KindControl, Token: RestToken}
	}
	m := noteNamePattern.FindStringSubmatch(name)
	if m == nil {
		return Note{Kind: KindControl, Token: name}
	}
	// single ASCII digit
	octave := int(m[2][0] - '0')
	return Note{Kind: KindPitched, Token: m[1], Octave: octave}
}
