package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type BatchRun struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PromptID  uuid.UUID `json:"prompt_id" db:"prompt_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// BatchResult records the outcome of one input row within a run. Immutable
// after insert; a failed provider call is a result with Status error, not a
// missing result.
type BatchResult struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	BatchRunID   uuid.UUID    `json:"batch_run_id" db:"batch_run_id"`
	RowIndex     int          `json:"row_index" db:"row_index"`
	Inputs       Row          `json:"inputs" db:"inputs"`
	Output       string       `json:"output" db:"output"`
	Status       ResultStatus `json:"status" db:"status"`
	LatencyMs    int64        `json:"latency_ms" db:"latency_ms"`
	TokenCount   int          `json:"token_count" db:"token_count"`
	Cost         float64      `json:"cost" db:"cost"`
	QualityScore float64      `json:"quality_score" db:"quality_score"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// Row is one set of named input values for template substitution. Go maps do
// not keep insertion order, so the column order of the source table is
// tracked alongside the values and preserved through JSON round-trips.
type Row struct {
	Columns []string
	Values  map[string]string
}

func NewRow() Row {
	return Row{Values: make(map[string]string)}
}

// Set adds a column value, recording the column on first sight.
func (r *Row) Set(column, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	if _, seen := r.Values[column]; !seen {
		r.Columns = append(r.Columns, column)
	}
	r.Values[column] = value
}

func (r Row) Len() int { return len(r.Columns) }

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row: expected JSON object, got %v", tok)
	}

	*r = NewRow()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: non-string key %v", keyTok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		r.Set(key, coerceString(val))
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// coerceString renders a decoded JSON value as the string the template
// engine will substitute. Non-string cell values can appear when rows arrive
// from a JSON body rather than a CSV file.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
