package sheets

import (
	"context"
	"strconv"
	"strings"

	"ercsheet/pkg/schema"
)

// CellReader reads individual cells by A1 reference.
type CellReader interface {
	ReadCells(ctx context.Context, cells []string) (schema.CellValues, error)
}

// CellWriter writes formatted values to individual cells.
type CellWriter interface {
	WriteCells(ctx context.Context, writes []schema.Write) error
}

// RangeReader reads a rectangular block such as "A1:K70" in one call.
type RangeReader interface {
	ReadRange(ctx context.Context, rng string) (schema.Grid, error)
}

// CellReadWriter is implemented by SheetClient.
type CellReadWriter interface {
	CellReader
	CellWriter
}

// Ranges per batchGet request; keeps the query string well under URL limits.
const batchSize = 100

// a1 qualifies a cell or range with a quoted sheet name.
func a1(sheetName, ref string) string {
	return "'" + strings.ReplaceAll(sheetName, "'", "''") + "'!" + ref
}

// cellValue is what gets sent for a write. Text is prefixed with a quote so
// USER_ENTERED input keeps it literal. Numbers and booleans go out as JSON
// numbers and booleans so the sheet's locale never reinterprets them.
func cellValue(w schema.Write) interface{} {
	if w.Raw == "" {
		return ""
	}
	switch w.DataType {
	case schema.Text:
		return "'" + w.Raw
	case schema.Number, schema.Percentage:
		if f, err := strconv.ParseFloat(w.Raw, 64); err == nil {
			return f
		}
	case schema.Boolean:
		return w.Raw == "TRUE"
	}
	return w.Raw
}
