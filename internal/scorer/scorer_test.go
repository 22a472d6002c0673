package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONValidity(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected float64
	}{
		{"valid object", `{"a":1}`, 1},
		{"valid array", `[1,2,3]`, 1},
		{"valid scalar", `42`, 1},
		{"plain text", "not json", 0},
		{"truncated", `{"a":`, 0},
		{"empty", "", 0},
		{"error message", "provider groq: connection reset", 0},
	}

	s := JSONValidity{}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, s.Score(test.output))
		})
	}
}

func TestLengthBounds(t *testing.T) {
	s := LengthBounds{Min: 3, Max: 5}
	assert.Equal(t, 0.0, s.Score("ab"))
	assert.Equal(t, 1.0, s.Score("abc"))
	assert.Equal(t, 1.0, s.Score("abcde"))
	assert.Equal(t, 0.0, s.Score("abcdef"))

	unbounded := LengthBounds{Min: 1}
	assert.Equal(t, 1.0, unbounded.Score("any length goes here"))
}

func TestKeywordPresence(t *testing.T) {
	s := KeywordPresence{Keywords: []string{"alpha", "beta"}}
	assert.Equal(t, 1.0, s.Score("Alpha and BETA present"))
	assert.Equal(t, 0.5, s.Score("only alpha"))
	assert.Equal(t, 0.0, s.Score("nothing relevant"))

	empty := KeywordPresence{}
	assert.Equal(t, 1.0, empty.Score("whatever"))
}

func TestForName(t *testing.T) {
	s, err := ForName("")
	require.NoError(t, err)
	assert.Equal(t, "json_validity", s.Name())

	s, err = ForName("json_validity")
	require.NoError(t, err)
	assert.Equal(t, "json_validity", s.Name())

	_, err = ForName("bleu")
	assert.Error(t, err)
}
