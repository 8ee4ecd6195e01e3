package translator

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema maps "<Token>:<Duration>" keys to hex byte-code strings.
// A loaded schema is read-only and may be shared across translation runs.
type Schema map[string]string

// SchemaFormat identifies a schema file encoding
type SchemaFormat string

const (
	SchemaJSON SchemaFormat = "json"
	SchemaYAML SchemaFormat = "yaml"
)

// Key builds the lookup key for token at duration d
func Key(token string, d float64) string {
	return token + ":" + FormatDuration(d)
}

// Resolve looks key up. A miss is a normal outcome, not an error.
func (s Schema) Resolve(key string) (string, bool) {
	hex, ok := s[key]
	if !ok || hex == "" {
		return "", false
	}
	return hex, true
}

// Keys returns the schema keys in sorted order
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every key has the form "<Token>:<Duration>".
// It does not check that the byte codes make musical sense.
func (s Schema) Validate() error {
	for _, key := range s.Keys() {
		if _, _, err := SplitKey(key); err != nil {
			return err
		}
	}
	return nil
}

// SplitKey parses a schema key into its token and duration
func SplitKey(key string) (string, float64, error) {
	idx := strings.LastIndex(key, ":")
	if idx <= 0 || idx == len(key)-1 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidSchemaKey, key)
	}
	token, durStr := key[:idx], key[idx+1:]
	d, err := strconv.ParseFloat(durStr, 64)
	if err != nil || d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
		return "", 0, fmt.Errorf("%w: %q has bad duration %q", ErrInvalidSchemaKey, key, durStr)
	}
	return token, d, nil
}

// DetectSchemaFormat picks a format from a file extension, defaulting to JSON
func DetectSchemaFormat(path string) SchemaFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SchemaYAML
	default:
		return SchemaJSON
	}
}

// LoadSchema reads and validates a schema file
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return ParseSchema(data, DetectSchemaFormat(path))
}

// ParseSchema decodes and validates schema data
func ParseSchema(data []byte, format SchemaFormat) (Schema, error) {
	var s Schema
	var err error
	switch format {
	case SchemaYAML:
		err = yaml.Unmarshal(data, &s)
	case SchemaJSON:
		err = json.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("unsupported schema format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s schema: %w", format, err)
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("schema is empty")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode serialises the schema. JSON output is indented with sorted keys.
func (s Schema) Encode(format SchemaFormat) ([]byte, error) {
	switch format {
	case SchemaYAML:
		return yaml.Marshal(map[string]string(s))
	case SchemaJSON:
		return json.MarshalIndent(map[string]string(s), "", "  ")
	default:
		return nil, fmt.Errorf("unsupported schema format: %s", format)
	}
}
