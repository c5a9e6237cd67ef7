package schema

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/xuri/excelize/v2"
)

var cellPattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// Schema is a validated, read-only registry of cell mappings for one worksheet.
// It is safe for concurrent use.
type Schema struct {
	sheetName string
	sections  []Section
	byCell    map[string]int
	byField   map[string]int
	flat      []CellMapping
	data      []int
}

// Label declares a static template label cell.
func Label(cell, field, text string) CellMapping {
	return CellMapping{Cell: cell, MappingType: TemplateLabel, DataType: Text, FieldName: field, Label: text}
}

// HeaderCell declares a row or column caption cell.
func HeaderCell(cell, field, text string) CellMapping {
	return CellMapping{Cell: cell, MappingType: Header, DataType: Text, FieldName: field, Label: text}
}

// Data declares a data cell.
func Data(cell, field string, t DataType, description string) CellMapping {
	return CellMapping{Cell: cell, MappingType: DataValue, DataType: t, FieldName: field, Description: description}
}

// New validates the sections and builds a schema. Every violation is reported
// in a single *MalformedError.
func New(sheetName string, sections ...Section) (*Schema, error) {
	s := &Schema{
		sheetName: sheetName,
		byCell:    make(map[string]int),
		byField:   make(map[string]int),
	}
	var problems []string
	if sheetName == "" {
		problems = append(problems, "sheet name is empty")
	}
	seenSection := make(map[string]bool)
	for _, sec := range sections {
		if sec.Name == "" {
			problems = append(problems, "section with empty name")
		} else if seenSection[sec.Name] {
			problems = append(problems, fmt.Sprintf("duplicate section %q", sec.Name))
		}
		seenSection[sec.Name] = true

		copied := Section{Name: sec.Name, Mappings: make([]CellMapping, 0, len(sec.Mappings))}
		for _, m := range sec.Mappings {
			if err := validateMapping(&m); err != nil {
				problems = append(problems, fmt.Sprintf("section %q: %v", sec.Name, err))
			}
			idx := len(s.flat)
			if prev, dup := s.byCell[m.Cell]; dup {
				problems = append(problems, fmt.Sprintf("cell %s mapped by both %q and %q", m.Cell, s.flat[prev].FieldName, m.FieldName))
			} else {
				s.byCell[m.Cell] = idx
			}
			if _, dup := s.byField[m.FieldName]; dup {
				problems = append(problems, fmt.Sprintf("duplicate field name %q", m.FieldName))
			} else if m.FieldName != "" {
				s.byField[m.FieldName] = idx
			}
			s.flat = append(s.flat, m)
			if m.MappingType == DataValue {
				s.data = append(s.data, idx)
			}
			copied.Mappings = append(copied.Mappings, m)
		}
		s.sections = append(s.sections, copied)
	}
	if len(problems) > 0 {
		return nil, &MalformedError{Problems: problems}
	}
	return s, nil
}

// MustNew is like New but panics on a malformed schema. It is intended for
// compiled-in definitions initialised at package load.
func MustNew(sheetName string, sections ...Section) *Schema {
	s, err := New(sheetName, sections...)
	if err != nil {
		panic(err)
	}
	return s
}

func validateMapping(m *CellMapping) error {
	if m.FieldName == "" {
		return fmt.Errorf("cell %s has no field name", m.Cell)
	}
	if _, ok := mappingTypeNames[m.MappingType]; !ok {
		return fmt.Errorf("field %q: invalid mapping type %v", m.FieldName, m.MappingType)
	}
	if _, ok := dataTypeNames[m.DataType]; !ok {
		return fmt.Errorf("field %q: invalid data type %v", m.FieldName, m.DataType)
	}
	if !cellPattern.MatchString(m.Cell) {
		return fmt.Errorf("field %q: malformed cell reference %q", m.FieldName, m.Cell)
	}
	col, row, err := excelize.CellNameToCoordinates(m.Cell)
	if err != nil {
		return fmt.Errorf("field %q: cell %q: %v", m.FieldName, m.Cell, err)
	}
	m.col, m.row = col, row
	return nil
}

// SheetName is the worksheet every cell reference is relative to.
func (s *Schema) SheetName() string {
	return s.sheetName
}

// LookupByCell returns the mapping for an exact, case-sensitive cell reference.
func (s *Schema) LookupByCell(cell string) (CellMapping, bool) {
	idx, ok := s.byCell[cell]
	if !ok {
		return CellMapping{}, false
	}
	return s.flat[idx], true
}

// LookupByField returns the mapping declaring the given field name.
func (s *Schema) LookupByField(name string) (CellMapping, bool) {
	idx, ok := s.byField[name]
	if !ok {
		return CellMapping{}, false
	}
	return s.flat[idx], true
}

// DataValueMappings returns every DataValue mapping in declaration order.
// Callers may zip the result against a batch read of DataValueCells.
func (s *Schema) DataValueMappings() []CellMapping {
	out := make([]CellMapping, len(s.data))
	for i, idx := range s.data {
		out[i] = s.flat[idx]
	}
	return out
}

// DataValueCells returns the cells of DataValueMappings, in the same order.
func (s *Schema) DataValueCells() []string {
	out := make([]string, len(s.data))
	for i, idx := range s.data {
		out[i] = s.flat[idx].Cell
	}
	return out
}

// SectionMappings returns the mappings of one section. An unknown section
// yields an empty slice.
func (s *Schema) SectionMappings(name string) []CellMapping {
	for _, sec := range s.sections {
		if sec.Name == name {
			return slices.Clone(sec.Mappings)
		}
	}
	return []CellMapping{}
}

// Sections returns the section names in declaration order.
func (s *Schema) Sections() []string {
	names := make([]string, len(s.sections))
	for i, sec := range s.sections {
		names[i] = sec.Name
	}
	return names
}

// Mappings returns every mapping in declaration order.
func (s *Schema) Mappings() []CellMapping {
	return slices.Clone(s.flat)
}
