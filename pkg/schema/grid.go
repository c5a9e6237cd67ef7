package schema

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Source yields the raw value held by a sheet-relative cell reference.
type Source interface {
	Value(cell string) (any, bool)
}

// CellValues is a Source keyed by cell reference, as produced by batch reads.
type CellValues map[string]any

func (c CellValues) Value(cell string) (any, bool) {
	v, ok := c[cell]
	return v, ok
}

// Grid is a rectangular range read whose first value sits at Anchor.
// Rows may be ragged; trailing empty cells are commonly omitted by range reads.
type Grid struct {
	anchorCol int
	anchorRow int
	rows      [][]any
}

// NewGrid anchors a range read at the given top-left cell.
func NewGrid(anchor string, rows [][]any) (Grid, error) {
	col, row, err := excelize.CellNameToCoordinates(anchor)
	if err != nil {
		return Grid{}, fmt.Errorf("grid anchor %q: %w", anchor, err)
	}
	return Grid{anchorCol: col, anchorRow: row, rows: rows}, nil
}

// Value translates a sheet-relative reference into the grid. Cells above or
// left of the anchor, or beyond the returned rows, are absent.
func (g Grid) Value(cell string) (any, bool) {
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return nil, false
	}
	return g.at(col, row)
}

func (g Grid) at(col, row int) (any, bool) {
	r := row - g.anchorRow
	c := col - g.anchorCol
	if r < 0 || c < 0 || r >= len(g.rows) || c >= len(g.rows[r]) {
		return nil, false
	}
	return g.rows[r][c], true
}

// Anchor returns the top-left cell reference of the grid.
func (g Grid) Anchor() string {
	name, _ := excelize.CoordinatesToCellName(g.anchorCol, g.anchorRow)
	return name
}
