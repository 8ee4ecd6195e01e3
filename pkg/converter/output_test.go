package converter

import (
	"encoding/json"
	"testing"

	"github.com/jacksmedia/midi2hex/pkg/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want OutputFormat
	}{
		{"", OutputText},
		{"text", OutputText},
		{"HEX", OutputText},
		{"json", OutputJSON},
		{" bin ", OutputBinary},
		{"binary", OutputBinary},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOutputFormat("xml")
	assert.Error(t, err)
}

func TestEncodeText(t *testing.T) {
	tokens := []string{"00", "C5", "E1"}
	assert.Equal(t, "00 C5 E1", string(EncodeText(tokens, DefaultSeparator)))
	assert.Equal(t, "00\nC5\nE1", string(EncodeText(tokens, "\n")))
	assert.Equal(t, "00C5E1", string(EncodeText(tokens, "")))
	assert.Empty(t, EncodeText(nil, " "))
}

func TestEncodeJSON(t *testing.T) {
	result := New(newMockEngine()).TranslateEvents([]translator.NoteEvent{
		{Name: "C4", Duration: 1},
		{Name: "G4", Duration: 1},
	})

	data, err := EncodeJSON(result)
	require.NoError(t, err)

	var decoded struct {
		Tokens       []string `json:"tokens"`
		Count        int      `json:"count"`
		Placeholders int      `json:"placeholders"`
		Issues       []struct {
			Event    int    `json:"event"`
			Key      string `json:"key"`
			Position int    `json:"position"`
			Reason   string `json:"reason"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []string{"d0", translator.Placeholder}, decoded.Tokens)
	assert.Equal(t, 2, decoded.Count)
	assert.Equal(t, 1, decoded.Placeholders)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, 1, decoded.Issues[0].Event)
	assert.Equal(t, "G4:1", decoded.Issues[0].Key)
	assert.Equal(t, 1, decoded.Issues[0].Position)
	assert.Contains(t, decoded.Issues[0].Reason, "G4:1")
}

func TestEncodeJSONEmpty(t *testing.T) {
	data, err := EncodeJSON(&translator.Result{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tokens":[],"count":0,"placeholders":0,"issues":[]}`, string(data))
}

func TestEncodeBinary(t *testing.T) {
	out, err := EncodeBinary([]string{"00", "c5", "E1", "E1"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xC5, 0xE1, 0xE1}, out)

	_, err = EncodeBinary([]string{"00", translator.Placeholder})
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	result := &translator.Result{Tokens: []string{"0A", "0B"}}

	text, err := Encode(result, OutputText, "-")
	require.NoError(t, err)
	assert.Equal(t, "0A-0B", string(text))

	bin, err := Encode(result, OutputBinary, "")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x0B}, bin)

	_, err = Encode(result, OutputFormat("wav"), "")
	assert.Error(t, err)
}

func TestParseEventsJSON(t *testing.T) {
	events, err := ParseEventsJSON([]byte(`
		[{"track":1,"time":0.5,"midi":64,"duration":0.25,"velocity":90,"name":"E4"}]`))
	require.NoError(t, err)
	assert.Equal(t, []translator.NoteEvent{
		{Track: 1, Time: 0.5, Pitch: 64, Duration: 0.25, Velocity: 90, Name: "E4"},
	}, events)

	_, err = ParseEventsJSON([]byte(`{"name":"C4"}`))
	assert.Error(t, err)

	_, err = ParseEventsJSON([]byte(`[{"name":`))
	assert.Error(t, err)
}

func TestEncodeEventsJSON(t *testing.T) {
	data, err := EncodeEventsJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	events := []translator.NoteEvent{{Name: "REST", Duration: 0.5}}
	data, err = EncodeEventsJSON(events)
	require.NoError(t, err)

	back, err := ParseEventsJSON(data)
	require.NoError(t, err)
	assert.Equal(t, events, back)
}
