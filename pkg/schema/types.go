// Package schema maps the cells of a fixed worksheet layout to semantic field
// names and converts between raw sheet values and typed records.
package schema

import "fmt"

// MappingType classifies what a mapped cell holds.
type MappingType int

const (
	// TemplateLabel is a static instructional label printed on the template.
	TemplateLabel MappingType = iota
	// DataValue is a cell holding data that is extracted and populated.
	DataValue
	// Header is a row or column caption.
	Header
)

var mappingTypeNames = map[MappingType]string{
	TemplateLabel: "template_label",
	DataValue:     "data_value",
	Header:        "header",
}

func (t MappingType) String() string {
	if name, ok := mappingTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MappingType(%d)", int(t))
}

// ParseMappingType is the inverse of MappingType.String.
func ParseMappingType(s string) (MappingType, error) {
	for t, name := range mappingTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown mapping type %q", s)
}

// DataType governs how a raw cell value is parsed and formatted.
type DataType int

const (
	Text DataType = iota
	Number
	Boolean
	Percentage
)

var dataTypeNames = map[DataType]string{
	Text:       "text",
	Number:     "number",
	Boolean:    "boolean",
	Percentage: "percentage",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(s string) (DataType, error) {
	for t, name := range dataTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// CellMapping is one declared correspondence between a sheet cell and a field.
type CellMapping struct {
	Cell        string
	MappingType MappingType
	DataType    DataType
	FieldName   string
	// Description is a human readable note. Not used by any conversion.
	Description string
	// Label is the caption a TemplateLabel or Header cell is expected to hold.
	Label string

	col, row int
}

// Column returns the 1-based column number of the mapped cell.
func (m CellMapping) Column() int { return m.col }

// Row returns the 1-based row number of the mapped cell.
func (m CellMapping) Row() int { return m.row }

// Section is a named, ordered group of mappings.
type Section struct {
	Name     string
	Mappings []CellMapping
}

// Write is a single formatted value destined for a sheet cell.
type Write struct {
	Cell string
	Raw  string
	// DataType lets writers store the value natively, e.g. quote text so a
	// leading "=" is not read as a formula.
	DataType DataType
}
