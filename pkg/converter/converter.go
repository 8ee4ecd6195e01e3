package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksmedia/midi2hex/pkg/translator"
)

// Format represents an input file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatEvents  Format = "events"
	FormatUnknown Format = "unknown"
)

// DetectFormat detects the input format of a file based on extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi", ".smf":
		return FormatMIDI
	case ".json":
		return FormatEvents
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects the input format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) >= 4 && string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatEvents
	}

	return FormatUnknown
}

// DetectOutputFormat picks an output encoding from the output file extension
func DetectOutputFormat(filename string) OutputFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return OutputJSON
	case ".bin":
		return OutputBinary
	default:
		return OutputText
	}
}

// Translator builds a translator for the current engine and schema
func (c *Converter) Translator() *translator.Translator {
	opts := append([]translator.Option{}, c.engine.Options()...)
	opts = append(opts, translator.WithLogger(c.logger))
	return translator.New(c.Schema(), opts...)
}

// TranslateEvents translates already-parsed events
func (c *Converter) TranslateEvents(events []translator.NoteEvent) *translator.Result {
	return c.Translator().Translate(events)
}

// ParseMIDI parses MIDI data into events using the converter's parse options
func (c *Converter) ParseMIDI(midiData []byte) ([]translator.NoteEvent, error) {
	return NewMIDIConverter(c.parse).ParseEvents(midiData)
}

// MIDIToHex converts MIDI data to engine byte-code tokens
func (c *Converter) MIDIToHex(midiData []byte) (*translator.Result, error) {
	events, err := c.ParseMIDI(midiData)
	if err != nil {
		return nil, err
	}
	return c.TranslateEvents(events), nil
}

// EventsToHex converts a JSON event list to engine byte-code tokens
func (c *Converter) EventsToHex(eventsData []byte) (*translator.Result, error) {
	events, err := ParseEventsJSON(eventsData)
	if err != nil {
		return nil, err
	}
	return c.TranslateEvents(events), nil
}

// Translate converts input data of the given format. FormatUnknown is
// resolved from the content.
func (c *Converter) Translate(data []byte, format Format) (*translator.Result, error) {
	if format == FormatUnknown {
		format = DetectFormatFromContent(data)
	}
	switch format {
	case FormatMIDI:
		return c.MIDIToHex(data)
	case FormatEvents:
		return c.EventsToHex(data)
	default:
		return nil, errors.New("cannot determine input format")
	}
}

// ConvertFile translates an input file and writes the encoded tokens
func (c *Converter) ConvertFile(inputPath, outputPath, sep string) (*translator.Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	result, err := c.Translate(data, DetectFormat(inputPath))
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	out, err := Encode(result, DetectOutputFormat(outputPath), sep)
	if err != nil {
		return result, fmt.Errorf("encoding failed: %w", err)
	}

	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return result, fmt.Errorf("failed to write output file: %w", err)
	}

	return result, nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"midi -> text",
		"midi -> json",
		"midi -> bin",
		"events -> text",
		"events -> json",
		"events -> bin",
	}
}
