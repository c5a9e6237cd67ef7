package worksheet

import (
	"context"
	"strings"

	"ercsheet/pkg/schema"
)

type mockSheet struct {
	Cells      schema.CellValues
	Rows       [][]any
	ReadErr    error
	WriteErr   error
	ReadCalls  [][]string
	RangeCalls []string
	WriteCalls [][]schema.Write
}

func (m *mockSheet) ReadCells(ctx context.Context, cells []string) (schema.CellValues, error) {
	m.ReadCalls = append(m.ReadCalls, cells)
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := schema.CellValues{}
	for _, c := range cells {
		if v, ok := m.Cells[c]; ok {
			out[c] = v
		}
	}
	return out, nil
}

func (m *mockSheet) WriteCells(ctx context.Context, writes []schema.Write) error {
	m.WriteCalls = append(m.WriteCalls, writes)
	return m.WriteErr
}

func (m *mockSheet) ReadRange(ctx context.Context, rng string) (schema.Grid, error) {
	m.RangeCalls = append(m.RangeCalls, rng)
	if m.ReadErr != nil {
		return schema.Grid{}, m.ReadErr
	}
	anchor, _, _ := strings.Cut(rng, ":")
	return schema.NewGrid(anchor, m.Rows)
}
