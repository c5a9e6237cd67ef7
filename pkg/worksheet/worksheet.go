// Package worksheet moves ERC records between a schema and a live sheet.
package worksheet

import (
	"context"
	"fmt"

	"ercsheet/pkg/schema"
	"ercsheet/pkg/sheets"

	log "github.com/sirupsen/logrus"
)

// Pull reads every data cell of the schema and extracts a record. Per-field
// parse errors are logged and returned in the extraction, not as an error.
func Pull(ctx context.Context, r sheets.CellReader, s *schema.Schema) (*schema.Extraction, error) {
	values, err := r.ReadCells(ctx, s.DataValueCells())
	if err != nil {
		return nil, fmt.Errorf("pull %s: %w", s.SheetName(), err)
	}
	return logExtraction(s, s.Extract(values)), nil
}

// PullRange is Pull for a single block read. Data cells outside rng are left
// unset.
func PullRange(ctx context.Context, r sheets.RangeReader, s *schema.Schema, rng string) (*schema.Extraction, error) {
	grid, err := r.ReadRange(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("pull %s!%s: %w", s.SheetName(), rng, err)
	}
	return logExtraction(s, s.Extract(grid)), nil
}

func logExtraction(s *schema.Schema, ex *schema.Extraction) *schema.Extraction {
	for _, fe := range ex.Errors {
		log.WithFields(log.Fields{"field": fe.FieldName, "cell": fe.Cell}).Warnf("Skipping unparsable value %v: %v", fe.Raw, fe.Err)
	}
	log.Infof("Extracted %d fields from %s (%d errors)", len(ex.Record), s.SheetName(), len(ex.Errors))
	return ex
}

// Push formats rec and writes the resulting cells. Fields that fail to format
// are reported in the population and are not written; unknown fields abort
// before anything is written.
func Push(ctx context.Context, w sheets.CellWriter, s *schema.Schema, rec schema.Record) (*schema.Population, error) {
	pop, err := s.Populate(rec)
	if err != nil {
		return nil, err
	}
	for _, fe := range pop.Errors {
		log.WithFields(log.Fields{"field": fe.FieldName, "cell": fe.Cell}).Warnf("Not writing value %v: %v", fe.Raw, fe.Err)
	}
	if len(pop.Writes) == 0 {
		log.Info("Nothing to write")
		return pop, nil
	}
	if err := w.WriteCells(ctx, pop.Writes); err != nil {
		return pop, fmt.Errorf("push %s: %w", s.SheetName(), err)
	}
	log.Infof("Wrote %d cells to %s", len(pop.Writes), s.SheetName())
	return pop, nil
}

// Verify reads the label and header cells and reports every one that differs
// from the template.
func Verify(ctx context.Context, r sheets.CellReader, s *schema.Schema) ([]schema.Mismatch, error) {
	layout := s.LayoutMappings()
	cells := make([]string, len(layout))
	for i, m := range layout {
		cells[i] = m.Cell
	}
	values, err := r.ReadCells(ctx, cells)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", s.SheetName(), err)
	}
	mismatches := s.VerifyStructure(values)
	for _, m := range mismatches {
		log.Debug("layout mismatch: ", m)
	}
	return mismatches, nil
}
