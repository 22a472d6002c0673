package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows(t *testing.T) {
	input := "name,city\nAda,London\nGrace,Arlington\n"

	rows, err := decodeRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"name", "city"}, rows[0].Columns)
	assert.Equal(t, "Ada", rows[0].Values["name"])
	assert.Equal(t, "London", rows[0].Values["city"])
	assert.Equal(t, "Grace", rows[1].Values["name"])
}

func TestDecodeRowsHeaderOnly(t *testing.T) {
	rows, err := decodeRows(strings.NewReader("name,city\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeRowsEmptyInput(t *testing.T) {
	rows, err := decodeRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeRowsQuotedFields(t *testing.T) {
	input := "prompt,expected\n\"a, with comma\",\"{\"\"k\"\":1}\"\n"

	rows, err := decodeRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a, with comma", rows[0].Values["prompt"])
	assert.Equal(t, `{"k":1}`, rows[0].Values["expected"])
}

func TestDecodeRowsRaggedRecord(t *testing.T) {
	_, err := decodeRows(strings.NewReader("a,b\n1\n"))
	assert.Error(t, err)
}
