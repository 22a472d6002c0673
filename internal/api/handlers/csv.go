package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/promptforge/promptforge/internal/models"
)

// decodeRows reads a delimited table whose first record supplies the column
// names and returns one row per remaining record, keeping column order.
func decodeRows(r io.Reader) ([]models.Row, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []models.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(rows)+2, err)
		}

		row := models.NewRow()
		for i, col := range header {
			row.Set(col, record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
