package schema

// Extraction is the result of walking a schema over a source or a decoded
// JSON object.
type Extraction struct {
	// Record holds every DataValue field that was present and parsed.
	Record Record
	// Errors lists fields whose raw value could not be parsed, in schema order.
	Errors []*FieldError
}

// OK reports whether every present field parsed.
func (e *Extraction) OK() bool {
	return len(e.Errors) == 0
}

// Extract reads every DataValue cell from src and parses it according to its
// data type. Empty or missing cells leave the field unset and are not errors.
// A bad cell is reported in Errors and does not stop the remaining fields.
func (s *Schema) Extract(src Source) *Extraction {
	out := &Extraction{Record: make(Record, len(s.data))}
	grid, isGrid := src.(Grid)
	for _, idx := range s.data {
		m := s.flat[idx]
		var (
			raw any
			ok  bool
		)
		if isGrid {
			raw, ok = grid.at(m.col, m.row)
		} else {
			raw, ok = src.Value(m.Cell)
		}
		if !ok || isAbsent(raw) {
			continue
		}
		v, err := Parse(raw, m.DataType)
		if err != nil {
			out.Errors = append(out.Errors, &FieldError{FieldName: m.FieldName, Cell: m.Cell, Raw: raw, Err: err})
			continue
		}
		out.Record[m.FieldName] = v
	}
	return out
}
