package converter

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jacksmedia/midi2hex/pkg/translator"
)

// DefaultSeparator joins tokens in text output
const DefaultSeparator = " "

// OutputFormat is the wire encoding of a token sequence
type OutputFormat string

const (
	OutputText   OutputFormat = "text"
	OutputJSON   OutputFormat = "json"
	OutputBinary OutputFormat = "bin"
)

// ParseOutputFormat parses "text", "json" or "bin"
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt", "hex":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	case "bin", "binary":
		return OutputBinary, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// jsonOutput is the JSON wire shape of a result
type jsonOutput struct {
	Tokens       []string           `json:"tokens"`
	Count        int                `json:"count"`
	Placeholders int                `json:"placeholders"`
	Issues       []translator.Issue `json:"issues"`
}

// EncodeText joins tokens with sep
func EncodeText(tokens []string, sep string) []byte {
	return []byte(strings.Join(tokens, sep))
}

// EncodeJSON encodes a result with its placeholder diagnostics
func EncodeJSON(result *translator.Result) ([]byte, error) {
	out := jsonOutput{
		Tokens:       result.Tokens,
		Count:        len(result.Tokens),
		Placeholders: result.PlaceholderCount(),
		Issues:       result.Issues,
	}
	if out.Tokens == nil {
		out.Tokens = []string{}
	}
	if out.Issues == nil {
		out.Issues = []translator.Issue{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// EncodeBinary decodes every token as hex and concatenates the bytes.
// Placeholders cannot be encoded, so any degraded position is an error.
func EncodeBinary(tokens []string) ([]byte, error) {
	out := make([]byte, 0, len(tokens))
	for i, token := range tokens {
		b, err := hex.DecodeString(token)
		if err != nil {
			return nil, fmt.Errorf("token %d (%q) is not hex: %w", i, token, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Encode renders result in the given format
func Encode(result *translator.Result, format OutputFormat, sep string) ([]byte, error) {
	switch format {
	case OutputText:
		return EncodeText(result.Tokens, sep), nil
	case OutputJSON:
		return EncodeJSON(result)
	case OutputBinary:
		return EncodeBinary(result.Tokens)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
