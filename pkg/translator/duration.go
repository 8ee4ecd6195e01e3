package translator

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultTolerance is the slack allowed when matching durations
const DefaultTolerance = 0.01

// exactEpsilon absorbs float noise left over by repeated subtraction
const exactEpsilon = 1e-9

// DurationSet is a descending list of canonical durations in whole notes
type DurationSet []float64

// DefaultDurations returns the canonical set understood by the default engine.
// Values are whole-note fractions of a 192-tick whole note.
func DefaultDurations() DurationSet {
	return DurationSet{
		1.0, 0.75, 0.5, 0.375, 0.33, 0.25,
		0.1875, 0.1667, 0.125, 0.083, 0.0625,
		0.0417, 0.0313, 0.0208, 0.0156,
	}
}

// NewDurationSet validates values and returns them as a DurationSet
func NewDurationSet(values []float64) (DurationSet, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDurationSet)
	}
	for i, v := range values {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: value %v at index %d is not positive and finite", ErrInvalidDurationSet, v, i)
		}
		if i > 0 && v >= values[i-1] {
			return nil, fmt.Errorf("%w: value %v at index %d is not below %v", ErrInvalidDurationSet, v, i, values[i-1])
		}
	}
	set := make(DurationSet, len(values))
	copy(set, values)
	return set, nil
}

// Smallest returns the smallest canonical duration
func (s DurationSet) Smallest() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Contains reports whether d is one of the canonical durations
func (s DurationSet) Contains(d float64) bool {
	for _, v := range s {
		if v == d {
			return true
		}
	}
	return false
}

// Decompose splits total into an ordered sequence of canonical durations.
//
// It repeatedly takes the largest duration not exceeding the remainder plus
// tolerance, with no backtracking. A remainder that is exactly canonical is
// taken as is, so a canonical total always yields itself. Totals that cannot
// be covered within tolerance fail with ErrUndecomposableDuration rather than
// being approximated.
func (s DurationSet) Decompose(total, tolerance float64) ([]float64, error) {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: %v", ErrUndecomposableDuration, total)
	}
	// nothing would be emitted for this event
	if total <= tolerance {
		return nil, fmt.Errorf("%w: %v is within tolerance of zero", ErrUndecomposableDuration, total)
	}

	var chunks []float64
	remaining := total
	for remaining > tolerance {
		match, ok := s.exact(remaining)
		if !ok {
			match, ok = s.largestFit(remaining + tolerance)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %v (remainder %v)", ErrUndecomposableDuration, total, remaining)
		}
		chunks = append(chunks, match)
		remaining -= match
	}

	if math.Abs(remaining) > tolerance {
		return nil, fmt.Errorf("%w: %v (remainder %v)", ErrUndecomposableDuration, total, remaining)
	}
	return chunks, nil
}

func (s DurationSet) exact(remaining float64) (float64, bool) {
	for _, d := range s {
		if math.Abs(d-remaining) <= exactEpsilon {
			return d, true
		}
	}
	return 0, false
}

func (s DurationSet) largestFit(limit float64) (float64, bool) {
	for _, d := range s {
		if d <= limit {
			return d, true
		}
	}
	return 0, false
}

// FormatDuration renders d the way schema keys spell it ("1", "0.5", "0.0313")
func FormatDuration(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
