package schema

import (
	"fmt"
	"strings"
)

// Mismatch is a label or header cell whose content differs from the template.
type Mismatch struct {
	Cell      string
	FieldName string
	Want      string
	Got       string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s (%s): want %q, got %q", m.Cell, m.FieldName, m.Want, m.Got)
}

// LayoutMappings returns the TemplateLabel and Header mappings that declare a
// caption, in declaration order.
func (s *Schema) LayoutMappings() []CellMapping {
	var out []CellMapping
	for _, m := range s.flat {
		if m.MappingType != DataValue && m.Label != "" {
			out = append(out, m)
		}
	}
	return out
}

// VerifyStructure compares every captioned label and header cell in src with
// the template. Surrounding whitespace is ignored; case is not.
func (s *Schema) VerifyStructure(src Source) []Mismatch {
	var out []Mismatch
	for _, m := range s.LayoutMappings() {
		raw, _ := src.Value(m.Cell)
		got := ""
		if !isAbsent(raw) {
			got = strings.TrimSpace(textOf(raw))
		}
		if got != m.Label {
			out = append(out, Mismatch{Cell: m.Cell, FieldName: m.FieldName, Want: m.Label, Got: got})
		}
	}
	return out
}
