// Package workbook reads and writes schema-mapped cells in local xlsx files.
package workbook

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ercsheet/pkg/schema"

	"github.com/xuri/excelize/v2"
)

// Open opens an xlsx file.
func Open(path string) (*excelize.File, error) {
	return excelize.OpenFile(path)
}

// RenderTemplate creates a workbook holding every label and header caption of
// the schema, with data cells left blank.
func RenderTemplate(s *schema.Schema) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := render(f, s); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func render(f *excelize.File, s *schema.Schema) error {
	if first := f.GetSheetName(0); first != s.SheetName() {
		if err := f.SetSheetName(first, s.SheetName()); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return err
	}
	for _, m := range s.Mappings() {
		switch {
		case m.MappingType == schema.DataValue && m.DataType == schema.Percentage:
			err = f.SetCellStyle(s.SheetName(), m.Cell, m.Cell, pct)
		case m.MappingType == schema.Header:
			if err = f.SetCellStr(s.SheetName(), m.Cell, m.Label); err == nil {
				err = f.SetCellStyle(s.SheetName(), m.Cell, m.Cell, bold)
			}
		case m.MappingType == schema.TemplateLabel:
			err = f.SetCellStr(s.SheetName(), m.Cell, m.Label)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", m.Cell, err)
		}
	}
	return nil
}

// Sheet is one worksheet of an open workbook. It satisfies the same reader and
// writer interfaces as the Sheets API client.
type Sheet struct {
	File *excelize.File
	Name string
}

// ReadCells returns the unformatted value of each non-empty cell, so
// percentages read back as fractions. Boolean cells read as TRUE/FALSE.
func (s Sheet) ReadCells(_ context.Context, cells []string) (schema.CellValues, error) {
	values := make(schema.CellValues, len(cells))
	for _, cell := range cells {
		v, err := s.readCell(cell)
		if err != nil {
			return nil, err
		}
		if v != "" {
			values[cell] = v
		}
	}
	return values, nil
}

// ReadRange reads every cell of a block such as "A1:K70" into a grid.
func (s Sheet) ReadRange(_ context.Context, rng string) (schema.Grid, error) {
	first, last, ok := strings.Cut(rng, ":")
	if !ok {
		last = first
	}
	col1, row1, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return schema.Grid{}, fmt.Errorf("range %s: %w", rng, err)
	}
	col2, row2, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return schema.Grid{}, fmt.Errorf("range %s: %w", rng, err)
	}
	coords := []int{min(col1, col2), min(row1, row2), max(col1, col2), max(row1, row2)}
	rows := make([][]any, 0, coords[3]-coords[1]+1)
	for row := coords[1]; row <= coords[3]; row++ {
		vals := make([]any, 0, coords[2]-coords[0]+1)
		for col := coords[0]; col <= coords[2]; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return schema.Grid{}, err
			}
			v, err := s.readCell(cell)
			if err != nil {
				return schema.Grid{}, err
			}
			vals = append(vals, v)
		}
		rows = append(rows, vals)
	}
	anchor, _ := excelize.CoordinatesToCellName(coords[0], coords[1])
	return schema.NewGrid(anchor, rows)
}

func (s Sheet) readCell(cell string) (string, error) {
	v, err := s.File.GetCellValue(s.Name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("read %s: %w", cell, err)
	}
	if v == "" {
		return "", nil
	}
	typ, err := s.File.GetCellType(s.Name, cell)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", cell, err)
	}
	if typ == excelize.CellTypeBool {
		v = normalizeBool(v)
	}
	return v, nil
}

// Raw boolean cells hold "1"/"0".
func normalizeBool(v string) string {
	switch v {
	case "1":
		return "TRUE"
	case "0":
		return "FALSE"
	}
	return v
}

// WriteCells stores each write with its native cell type. An empty Raw clears
// the cell.
func (s Sheet) WriteCells(_ context.Context, writes []schema.Write) error {
	for _, w := range writes {
		if err := s.setCell(w); err != nil {
			return fmt.Errorf("write %s: %w", w.Cell, err)
		}
	}
	return nil
}

func (s Sheet) setCell(w schema.Write) error {
	if w.Raw == "" {
		return s.File.SetCellValue(s.Name, w.Cell, nil)
	}
	switch w.DataType {
	case schema.Number, schema.Percentage:
		n, err := strconv.ParseFloat(w.Raw, 64)
		if err != nil {
			return err
		}
		return s.File.SetCellFloat(s.Name, w.Cell, n, -1, 64)
	case schema.Boolean:
		return s.File.SetCellBool(s.Name, w.Cell, w.Raw == "TRUE")
	}
	return s.File.SetCellStr(s.Name, w.Cell, w.Raw)
}

// AllCells lists every mapped cell of the schema in declaration order.
func AllCells(s *schema.Schema) []string {
	mappings := s.Mappings()
	cells := make([]string, len(mappings))
	for i, m := range mappings {
		cells[i] = m.Cell
	}
	return cells
}
