package translator

import (
	"fmt"

	"go.uber.org/zap"
)

// Options configures a Translator
type Options struct {
	Durations       DurationSet
	Tolerance       float64
	ReferenceOctave int
	OctaveUp        string
	OctaveDown      string
	Placeholder     string
	Logger          *zap.Logger
}

// Option modifies Options
type Option func(*Options)

// WithDurations sets the canonical duration set
func WithDurations(set DurationSet) Option {
	return func(o *Options) { o.Durations = set }
}

// WithTolerance sets the decomposition tolerance
func WithTolerance(tolerance float64) Option {
	return func(o *Options) { o.Tolerance = tolerance }
}

// WithReferenceOctave sets the starting register and the octave pitched
// schema keys are written at
func WithReferenceOctave(octave int) Option {
	return func(o *Options) { o.ReferenceOctave = octave }
}

// WithShiftTokens sets the octave up/down byte codes
func WithShiftTokens(up, down string) Option {
	return func(o *Options) {
		o.OctaveUp = up
		o.OctaveDown = down
	}
}

// WithPlaceholder sets the token emitted for degraded positions
func WithPlaceholder(placeholder string) Option {
	return func(o *Options) { o.Placeholder = placeholder }
}

// WithLogger sets the logger used to report degraded positions
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func defaultOptions() Options {
	return Options{
		Durations:       DefaultDurations(),
		Tolerance:       DefaultTolerance,
		ReferenceOctave: ReferenceOctave,
		OctaveUp:        OctaveUpToken,
		OctaveDown:      OctaveDownToken,
		Placeholder:     Placeholder,
		Logger:          zap.NewNop(),
	}
}

// Issue records a degraded output position
type Issue struct {
	Event    int     `json:"event"`
	Name     string  `json:"name"`
	Key      string  `json:"key,omitempty"`
	Duration float64 `json:"duration"`
	Position int     `json:"position"`
	Reason   string  `json:"reason"`
	Err      error   `json:"-"`
}

// Result holds the output of one translation run
type Result struct {
	Tokens []string `json:"tokens"`
	Issues []Issue  `json:"issues"`
}

// PlaceholderCount returns how many tokens are placeholders
func (r *Result) PlaceholderCount() int {
	return len(r.Issues)
}

// HasPlaceholders reports whether any position is degraded
func (r *Result) HasPlaceholders() bool {
	return len(r.Issues) > 0
}

// Translator folds note events into byte-code tokens using a schema.
// A Translator keeps no per-run state and is safe for concurrent use.
type Translator struct {
	schema Schema
	opts   Options
}

// New creates a Translator for schema
func New(schema Schema, opts ...Option) *Translator {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if len(options.Durations) == 0 {
		options.Durations = DefaultDurations()
	}
	if options.Placeholder == "" {
		options.Placeholder = Placeholder
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &Translator{schema: schema, opts: options}
}

// Schema returns the schema the translator resolves against
func (t *Translator) Schema() Schema {
	return t.schema
}

// Options returns the effective options
func (t *Translator) Options() Options {
	return t.opts
}

// Translate converts events, in order, into a flat token sequence.
//
// Every event contributes at least one token. Undecomposable durations and
// unmatched keys become placeholders and are recorded as issues; neither stops
// the run.
func (t *Translator) Translate(events []NoteEvent) *Result {
	result := &Result{
		Tokens: make([]string, 0, len(events)),
		Issues: []Issue{},
	}
	tracker := NewOctaveTracker(t.opts.ReferenceOctave, t.opts.OctaveUp, t.opts.OctaveDown)

	for i, evt := range events {
		note := ParseNoteName(evt.Name)

		result.Tokens = append(result.Tokens, tracker.Step(note)...)

		chunks, err := t.opts.Durations.Decompose(evt.Duration, t.opts.Tolerance)
		if err != nil {
			t.degrade(result, Issue{Event: i, Name: evt.Name, Duration: evt.Duration, Err: err})
			continue
		}

		head := t.headToken(note)
		for j, d := range chunks {
			token := head
			if j > 0 {
				token = TieToken
			}
			key := Key(token, d)
			hex, ok := t.schema.Resolve(key)
			if !ok {
				t.degrade(result, Issue{
					Event:    i,
					Name:     evt.Name,
					Key:      key,
					Duration: d,
					Err:      fmt.Errorf("%w: %s", ErrUnmatchedSchemaKey, key),
				})
				continue
			}
			result.Tokens = append(result.Tokens, hex)
		}
	}

	return result
}

// headToken is the schema token for the first chunk of an event. Pitched
// notes are looked up at the reference octave since the register has already
// been shifted.
func (t *Translator) headToken(n Note) string {
	if n.Pitched() {
		return fmt.Sprintf("%s%d", n.Token, t.opts.ReferenceOctave)
	}
	return n.Token
}

func (t *Translator) degrade(result *Result, issue Issue) {
	issue.Position = len(result.Tokens)
	issue.Reason = issue.Err.Error()
	result.Tokens = append(result.Tokens, t.opts.Placeholder)
	result.Issues = append(result.Issues, issue)

	t.opts.Logger.Warn("degraded output position",
		zap.Int("event", issue.Event),
		zap.String("name", issue.Name),
		zap.String("key", issue.Key),
		zap.Float64("duration", issue.Duration),
		zap.Int("position", issue.Position),
		zap.Error(issue.Err),
	)
}

// Translate converts events with default options
func Translate(events []NoteEvent, schema Schema) []string {
	return New(schema).Translate(events).Tokens
}
