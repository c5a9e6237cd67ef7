package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Population is the result of formatting a record against a schema.
type Population struct {
	// Writes are the formatted cells, in schema declaration order.
	Writes []Write
	// Errors lists fields whose value could not be formatted.
	Errors []*FieldError
}

// OK reports whether every supplied field was formatted.
func (p *Population) OK() bool {
	return len(p.Errors) == 0
}

// Populate formats every record field into a cell write. Fields the schema does
// not declare fail the whole call with *UnknownFieldsError. Declared fields
// missing from rec produce no write; an explicit Empty value clears the cell.
func (s *Schema) Populate(rec Record) (*Population, error) {
	if err := s.checkFields(keys(rec)); err != nil {
		return nil, err
	}
	out := &Population{}
	for _, idx := range s.data {
		m := s.flat[idx]
		v, ok := rec[m.FieldName]
		if !ok {
			continue
		}
		raw, err := Format(v, m.DataType)
		if err != nil {
			out.Errors = append(out.Errors, &FieldError{FieldName: m.FieldName, Cell: m.Cell, Raw: v.Interface(), Err: err})
			continue
		}
		out.Writes = append(out.Writes, Write{Cell: m.Cell, Raw: raw, DataType: m.DataType})
	}
	return out, nil
}

// checkFields rejects names that are not DataValue fields of the schema.
func (s *Schema) checkFields(names []string) error {
	var unknown []string
	for _, name := range names {
		idx, ok := s.byField[name]
		if !ok || s.flat[idx].MappingType != DataValue {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownFieldsError{Fields: unknown}
	}
	return nil
}

// DecodeRecord converts a decoded JSON object into a typed record. JSON null
// becomes Empty. Strings are parsed with the field's data type, so "6.25%" is
// accepted for a percentage field. Unknown fields fail the whole call; a value
// that does not decode is reported in Errors and left out of the Record.
func (s *Schema) DecodeRecord(obj map[string]any) (*Extraction, error) {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	if err := s.checkFields(names); err != nil {
		return nil, err
	}
	out := &Extraction{Record: make(Record, len(obj))}
	for _, idx := range s.data {
		m := s.flat[idx]
		raw, ok := obj[m.FieldName]
		if !ok {
			continue
		}
		if raw == nil {
			out.Record[m.FieldName] = Empty()
			continue
		}
		v, err := decodeJSONValue(raw, m.DataType)
		if err != nil {
			out.Errors = append(out.Errors, &FieldError{FieldName: m.FieldName, Cell: m.Cell, Raw: raw, Err: err})
			continue
		}
		out.Record[m.FieldName] = v
	}
	return out, nil
}

func decodeJSONValue(raw any, t DataType) (Value, error) {
	if t == Text {
		if s, ok := raw.(string); ok {
			return TextValue(s), nil
		}
		return Empty(), fmt.Errorf("%w: %T for text field", ErrTypeMismatch, raw)
	}
	if n, ok := raw.(json.Number); ok {
		raw = string(n)
	}
	v, err := Parse(raw, t)
	if err != nil {
		return Empty(), err
	}
	if v.IsEmpty() {
		// An empty string explicitly clears a non-text cell.
		return Empty(), nil
	}
	return v, nil
}

func keys(rec Record) []string {
	out := make([]string, 0, len(rec))
	for k := range rec {
		out = append(out, k)
	}
	return out
}
