// Package converter turns music files into byte-code token sequences for a
// target sound engine
package converter

import (
	"github.com/jacksmedia/midi2hex/pkg/translator"
	"go.uber.org/zap"
)

// Engine describes a target sound engine's instruction schema
type Engine interface {
	ID() string
	Name() string
	Description() string
	Schema() translator.Schema
	Options() []translator.Option
}

// Converter handles translations for one engine
type Converter struct {
	engine Engine
	schema translator.Schema // overrides the engine schema when set
	parse  ParseOptions
	logger *zap.Logger
}

// New creates a new Converter with the specified engine
func New(engine Engine) *Converter {
	return &Converter{
		engine: engine,
		parse:  DefaultParseOptions(),
		logger: zap.NewNop(),
	}
}

// GetEngine returns the current engine
func (c *Converter) GetEngine() Engine {
	return c.engine
}

// SetEngine sets the engine for conversion
func (c *Converter) SetEngine(engine Engine) {
	c.engine = engine
}

// SetSchema replaces the engine's built-in schema. A nil schema restores it.
func (c *Converter) SetSchema(schema translator.Schema) {
	c.schema = schema
}

// Schema returns the schema in effect
func (c *Converter) Schema() translator.Schema {
	if c.schema != nil {
		return c.schema
	}
	return c.engine.Schema()
}

// SetParseOptions sets how input files are turned into events
func (c *Converter) SetParseOptions(opts ParseOptions) {
	c.parse = opts
}

// ParseOptions returns the parse options in effect
func (c *Converter) ParseOptions() ParseOptions {
	return c.parse
}

// SetLogger sets the logger passed down to the translator
func (c *Converter) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}
