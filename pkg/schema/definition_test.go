package schema

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionRoundTrip(t *testing.T) {
	s := testSchema(t)
	var buf bytes.Buffer
	require.NoError(t, s.WriteDefinition(&buf))
	assert.Contains(t, buf.String(), "sheet_name: Sheet1")
	assert.Contains(t, buf.String(), "data_type: percentage")

	loaded, err := LoadDefinition(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Definition(), loaded.Definition())
	assert.Equal(t, s.DataValueCells(), loaded.DataValueCells())
}

func TestLoadDefinition(t *testing.T) {
	const doc = `
sheet_name: ERC
sections:
  - name: main
    mappings:
      - cell: A1
        type: template_label
        field: title
        label: Worksheet
      - cell: B2
        type: data_value
        data_type: boolean
        field: eligible
`
	s, err := LoadDefinition(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "ERC", s.SheetName())
	m, ok := s.LookupByCell("B2")
	require.True(t, ok)
	assert.Equal(t, Boolean, m.DataType)
	assert.Equal(t, DataValue, m.MappingType)
}

func TestLoadDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "sheet_name: X\nsheetz: []\n"},
		{"bad mapping type", "sheet_name: X\nsections:\n  - name: a\n    mappings:\n      - {cell: A1, type: nope, field: f}\n"},
		{"bad data type", "sheet_name: X\nsections:\n  - name: a\n    mappings:\n      - {cell: A1, type: data_value, data_type: date, field: f}\n"},
		{"duplicate cell", "sheet_name: X\nsections:\n  - name: a\n    mappings:\n      - {cell: A1, type: data_value, field: f}\n      - {cell: A1, type: data_value, field: g}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefinition(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := LoadDefinition(strings.NewReader(tests[3].doc))
	assert.True(t, errors.Is(err, ErrMalformedSchema))
}
