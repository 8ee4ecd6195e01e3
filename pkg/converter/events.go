package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jacksmedia/midi2hex/pkg/translator"
)

// ParseEventsJSON decodes a JSON array of note events
func ParseEventsJSON(data []byte) ([]translator.NoteEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("events JSON must be an array")
	}
	var events []translator.NoteEvent
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events: %w", err)
	}
	return events, nil
}

// EncodeEventsJSON encodes note events as an indented JSON array
func EncodeEventsJSON(events []translator.NoteEvent) ([]byte, error) {
	if events == nil {
		events = []translator.NoteEvent{}
	}
	return json.MarshalIndent(events, "", "  ")
}
