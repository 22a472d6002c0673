// Package scorer holds automated quality metrics applied to generated
// output. A scorer only needs the output text; it runs the same way for
// successful generations and for recorded error messages.
package scorer

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Scorer interface {
	Name() string
	Score(output string) float64
}

// JSONValidity is the baseline metric: 1 if the output parses as a
// self-contained JSON document, 0 otherwise.
type JSONValidity struct{}

func (JSONValidity) Name() string { return "json_validity" }

func (JSONValidity) Score(output string) float64 {
	var v any
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		return 0
	}
	return 1
}

// LengthBounds passes outputs whose rune count lies within [Min, Max].
// Max <= 0 means unbounded above.
type LengthBounds struct {
	Min int
	Max int
}

func (s LengthBounds) Name() string { return "length_bounds" }

func (s LengthBounds) Score(output string) float64 {
	n := len([]rune(output))
	if n < s.Min {
		return 0
	}
	if s.Max > 0 && n > s.Max {
		return 0
	}
	return 1
}

// KeywordPresence returns the fraction of required keywords found in the
// output, matched case-insensitively.
type KeywordPresence struct {
	Keywords []string
}

func (s KeywordPresence) Name() string { return "keyword_presence" }

func (s KeywordPresence) Score(output string) float64 {
	if len(s.Keywords) == 0 {
		return 1
	}
	lower := strings.ToLower(output)
	found := 0
	for _, kw := range s.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return float64(found) / float64(len(s.Keywords))
}

// ForName resolves a configured metric name to its scorer.
func ForName(name string) (Scorer, error) {
	switch name {
	case "", "json_validity":
		return JSONValidity{}, nil
	case "length_bounds":
		return LengthBounds{Min: 1}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}
