package engines

import (
	"fmt"
	"strings"

	"github.com/jacksmedia/midi2hex/pkg/converter"
)

// DefaultID is used when no engine is named
const DefaultID = AKAOID

var aliases = map[string]string{
	"":       AKAOID,
	"akao":   AKAOID,
	"snes":   AKAOID,
	"square": AKAOID,
}

// engines are shared; their schemas are read-only
var registered = []converter.Engine{NewAKAO()}

// All returns every registered engine
func All() []converter.Engine {
	out := make([]converter.Engine, len(registered))
	copy(out, registered)
	return out
}

// Lookup finds an engine by ID or alias, case-insensitively
func Lookup(name string) (converter.Engine, error) {
	id, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	for _, e := range registered {
		if e.ID() == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
