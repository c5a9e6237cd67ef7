package worksheet

import (
	"context"
	"errors"
	"testing"

	"ercsheet/pkg/erc"
	"ercsheet/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPull(t *testing.T) {
	tests := []struct {
		name       string
		sheet      *mockSheet
		wantErr    string
		wantRecord schema.Record
		wantErrors []string
	}{
		{
			name:    "read error",
			sheet:   &mockSheet{ReadErr: errors.New("quota")},
			wantErr: "pull ERC Worksheet: quota",
		},
		{
			name:       "empty sheet",
			sheet:      &mockSheet{},
			wantRecord: schema.Record{},
		},
		{
			name: "values and a bad cell",
			sheet: &mockSheet{Cells: schema.CellValues{
				"A1":  "Employee Retention Credit Worksheet",
				"B31": float64(50000),
				"E32": float64(0.55),
				"K57": "Employee Retention Credit",
				"B63": "abc",
			}},
			wantRecord: schema.Record{
				"gross_2019_q1":         schema.NumberValue(50000),
				"decline_2020_q2":       schema.PercentageValue(0.55),
				"ercAmountClaimedLabel": schema.TextValue("Employee Retention Credit"),
			},
			wantErrors: []string{"form941_2020_q1_employees"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := Pull(context.Background(), tt.sheet, erc.Template())
			require.Len(t, tt.sheet.ReadCalls, 1)
			assert.Equal(t, erc.Template().DataValueCells(), tt.sheet.ReadCalls[0])
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRecord, ex.Record)
			var fields []string
			for _, fe := range ex.Errors {
				fields = append(fields, fe.FieldName)
			}
			assert.Equal(t, tt.wantErrors, fields)
		})
	}
}

func TestPush(t *testing.T) {
	sheet := &mockSheet{}
	pop, err := Push(context.Background(), sheet, erc.Template(), schema.Record{
		"gross_2019_q1": schema.NumberValue(50000),
		"claimFiled":    schema.TextValue("yes"),
	})
	require.NoError(t, err)
	require.Len(t, sheet.WriteCalls, 1)
	assert.Equal(t, []schema.Write{{Cell: "B31", Raw: "50000", DataType: schema.Number}}, sheet.WriteCalls[0])
	require.Len(t, pop.Errors, 1)
	assert.Equal(t, "claimFiled", pop.Errors[0].FieldName)
}

func TestPushUnknownFieldWritesNothing(t *testing.T) {
	sheet := &mockSheet{}
	_, err := Push(context.Background(), sheet, erc.Template(), schema.Record{
		"gross_2019_q1": schema.NumberValue(1),
		"gross_2019_q5": schema.NumberValue(1),
	})
	assert.True(t, errors.Is(err, schema.ErrUnknownField))
	assert.Empty(t, sheet.WriteCalls)
}

func TestPushNothingToWrite(t *testing.T) {
	sheet := &mockSheet{}
	pop, err := Push(context.Background(), sheet, erc.Template(), schema.Record{})
	require.NoError(t, err)
	assert.Empty(t, pop.Writes)
	assert.Empty(t, sheet.WriteCalls)
}

func TestPushWriteError(t *testing.T) {
	sheet := &mockSheet{WriteErr: errors.New("denied")}
	pop, err := Push(context.Background(), sheet, erc.Template(), schema.Record{"ein": schema.TextValue("12-3456789")})
	assert.EqualError(t, err, "push ERC Worksheet: denied")
	require.NotNil(t, pop)
	assert.Len(t, pop.Writes, 1)
}

func TestVerify(t *testing.T) {
	layout := erc.Template().LayoutMappings()
	cells := schema.CellValues{}
	for _, m := range layout {
		cells[m.Cell] = m.Label
	}
	cells["A29"] = "Receipts"
	sheet := &mockSheet{Cells: cells}

	got, err := Verify(context.Background(), sheet, erc.Template())
	require.NoError(t, err)
	assert.Equal(t, []schema.Mismatch{{Cell: "A29", FieldName: "grossReceiptsTitle", Want: "Gross Receipts", Got: "Receipts"}}, got)
	require.Len(t, sheet.ReadCalls, 1)
	assert.Len(t, sheet.ReadCalls[0], len(layout))
}

func TestVerifyReadError(t *testing.T) {
	_, err := Verify(context.Background(), &mockSheet{ReadErr: errors.New("offline")}, erc.Template())
	assert.EqualError(t, err, "verify ERC Worksheet: offline")
}

func TestPullRange(t *testing.T) {
	sheet := &mockSheet{Rows: [][]any{
		{float64(50000), float64(61000), nil, float64(0.1)},
		{"abc"},
	}}
	ex, err := PullRange(context.Background(), sheet, erc.Template(), "B31:E32")
	require.NoError(t, err)
	assert.Equal(t, []string{"B31:E32"}, sheet.RangeCalls)
	assert.Empty(t, sheet.ReadCalls)
	assert.Equal(t, schema.Record{
		"gross_2019_q1":   schema.NumberValue(50000),
		"gross_2020_q1":   schema.NumberValue(61000),
		"decline_2020_q1": schema.PercentageValue(0.1),
	}, ex.Record)
	require.Len(t, ex.Errors, 1)
	assert.Equal(t, "gross_2019_q2", ex.Errors[0].FieldName)
	assert.Equal(t, "B32", ex.Errors[0].Cell)
}

func TestPullRangeReadError(t *testing.T) {
	_, err := PullRange(context.Background(), &mockSheet{ReadErr: errors.New("quota")}, erc.Template(), "A1:K70")
	assert.EqualError(t, err, "pull ERC Worksheet!A1:K70: quota")
}
