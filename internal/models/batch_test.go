package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowKeepsColumnOrder(t *testing.T) {
	r := NewRow()
	r.Set("zeta", "1")
	r.Set("alpha", "2")
	r.Set("mid", "3")

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`, string(data))

	var back Row
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, back.Columns)
	assert.Equal(t, r.Values, back.Values)
}

func TestRowSetOverwriteKeepsFirstPosition(t *testing.T) {
	r := NewRow()
	r.Set("a", "1")
	r.Set("b", "2")
	r.Set("a", "override")

	assert.Equal(t, []string{"a", "b"}, r.Columns)
	assert.Equal(t, "override", r.Values["a"])
}

func TestRowUnmarshalCoercesValues(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal([]byte(`{"n":3,"f":1.5,"b":true,"x":null,"s":"text"}`), &r))

	assert.Equal(t, "3", r.Values["n"])
	assert.Equal(t, "1.5", r.Values["f"])
	assert.Equal(t, "true", r.Values["b"])
	assert.Equal(t, "", r.Values["x"])
	assert.Equal(t, "text", r.Values["s"])
}
