package erc

import (
	"regexp"
	"testing"

	"ercsheet/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateInvariants(t *testing.T) {
	tmpl := Template()
	assert.Equal(t, SheetName, tmpl.SheetName())

	pattern := regexp.MustCompile(`^[A-Z]+[0-9]+$`)
	cells := map[string]bool{}
	fields := map[string]bool{}
	for _, m := range tmpl.Mappings() {
		assert.Regexp(t, pattern, m.Cell)
		assert.False(t, cells[m.Cell], "duplicate cell %s", m.Cell)
		assert.False(t, fields[m.FieldName], "duplicate field %s", m.FieldName)
		cells[m.Cell] = true
		fields[m.FieldName] = true
	}
}

func TestTemplateSections(t *testing.T) {
	assert.Equal(t, []string{
		SectionCompanyInfo,
		SectionEligibility,
		SectionGrossReceipts,
		SectionEmployeeInfo,
		SectionSummary,
		SectionForm941,
	}, Template().Sections())

	roster := Template().SectionMappings(SectionEmployeeInfo)
	var data int
	for _, m := range roster {
		if m.MappingType == schema.DataValue {
			data++
		}
	}
	assert.Equal(t, RosterSize*5, data)
}

func TestDataValueMappingsOrder(t *testing.T) {
	tmpl := Template()
	var want []schema.CellMapping
	for _, m := range tmpl.Mappings() {
		if m.MappingType == schema.DataValue {
			want = append(want, m)
		}
	}
	got := tmpl.DataValueMappings()
	assert.Equal(t, want, got)
	assert.Len(t, got, 160)
	for _, m := range got {
		assert.Equal(t, schema.DataValue, m.MappingType)
	}
}

func TestKnownCells(t *testing.T) {
	tests := []struct {
		cell  string
		field string
		typ   schema.DataType
	}{
		{"B31", "gross_2019_q1", schema.Number},
		{"K57", "ercAmountClaimedLabel", schema.Text},
		{"B63", "form941_2020_q1_employees", schema.Number},
		{"F70", "form941_2021_q4_creditRate", schema.Percentage},
		{"H34", "qualifies_2021_q4", schema.Boolean},
		{"F49", "employee_10_wages_2021", schema.Number},
	}
	for _, tt := range tests {
		m, ok := Template().LookupByCell(tt.cell)
		require.True(t, ok, tt.cell)
		assert.Equal(t, tt.field, m.FieldName)
		assert.Equal(t, tt.typ, m.DataType)
		assert.Equal(t, schema.DataValue, m.MappingType)
	}

	_, ok := Template().LookupByCell("Z999")
	assert.False(t, ok)
}

func TestExtractClaimLabel(t *testing.T) {
	ex := Template().Extract(schema.CellValues{"K57": "Employee Retention Credit"})
	assert.True(t, ex.OK())
	assert.Equal(t, schema.TextValue("Employee Retention Credit"), ex.Record["ercAmountClaimedLabel"])
}

func TestExtractMissingCell(t *testing.T) {
	ex := Template().Extract(schema.CellValues{"B31": float64(1000)})
	_, present := ex.Record["form941_2020_q1_employees"]
	assert.False(t, present)
	assert.Empty(t, ex.Errors)
}

func TestExtractBadNumber(t *testing.T) {
	ex := Template().Extract(schema.CellValues{"B63": "abc"})
	_, present := ex.Record["form941_2020_q1_employees"]
	assert.False(t, present)
	require.Len(t, ex.Errors, 1)
	assert.Equal(t, "form941_2020_q1_employees", ex.Errors[0].FieldName)
	assert.Equal(t, "B63", ex.Errors[0].Cell)
}

func TestPopulateSingleField(t *testing.T) {
	pop, err := Template().Populate(schema.Record{"gross_2019_q1": schema.NumberValue(50000)})
	require.NoError(t, err)
	assert.Equal(t, []schema.Write{{Cell: "B31", Raw: "50000", DataType: schema.Number}}, pop.Writes)
	assert.Empty(t, pop.Errors)
}

func TestRoundTripEveryField(t *testing.T) {
	samples := map[schema.DataType]schema.Value{
		schema.Text:       schema.TextValue("sample"),
		schema.Number:     schema.NumberValue(1234.5),
		schema.Boolean:    schema.BooleanValue(true),
		schema.Percentage: schema.PercentageValue(0.0625),
	}
	rec := schema.Record{}
	for _, m := range Template().DataValueMappings() {
		rec[m.FieldName] = samples[m.DataType]
	}
	pop, err := Template().Populate(rec)
	require.NoError(t, err)
	require.Len(t, pop.Writes, len(rec))

	cells := schema.CellValues{}
	for _, w := range pop.Writes {
		cells[w.Cell] = w.Raw
	}
	ex := Template().Extract(cells)
	assert.Empty(t, ex.Errors)
	assert.Equal(t, rec, ex.Record)
}
