package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Definition is the serialisable form of a schema, used for schema files.
type Definition struct {
	SheetName string              `yaml:"sheet_name"`
	Sections  []SectionDefinition `yaml:"sections"`
}

type SectionDefinition struct {
	Name     string              `yaml:"name"`
	Mappings []MappingDefinition `yaml:"mappings"`
}

type MappingDefinition struct {
	Cell        string `yaml:"cell"`
	Type        string `yaml:"type"`
	DataType    string `yaml:"data_type,omitempty"`
	Field       string `yaml:"field"`
	Description string `yaml:"description,omitempty"`
	Label       string `yaml:"label,omitempty"`
}

// Definition exports the schema.
func (s *Schema) Definition() Definition {
	def := Definition{SheetName: s.sheetName}
	for _, sec := range s.sections {
		sd := SectionDefinition{Name: sec.Name}
		for _, m := range sec.Mappings {
			md := MappingDefinition{
				Cell:        m.Cell,
				Type:        m.MappingType.String(),
				Field:       m.FieldName,
				Description: m.Description,
				Label:       m.Label,
			}
			if m.MappingType == DataValue {
				md.DataType = m.DataType.String()
			}
			sd.Mappings = append(sd.Mappings, md)
		}
		def.Sections = append(def.Sections, sd)
	}
	return def
}

// FromDefinition builds and validates a schema from its serialisable form.
// A missing data_type defaults to text.
func FromDefinition(def Definition) (*Schema, error) {
	sections := make([]Section, 0, len(def.Sections))
	for _, sd := range def.Sections {
		sec := Section{Name: sd.Name}
		for _, md := range sd.Mappings {
			mt, err := ParseMappingType(md.Type)
			if err != nil {
				return nil, &MalformedError{Problems: []string{fmt.Sprintf("section %q, cell %s: %v", sd.Name, md.Cell, err)}}
			}
			dt := Text
			if md.DataType != "" {
				if dt, err = ParseDataType(md.DataType); err != nil {
					return nil, &MalformedError{Problems: []string{fmt.Sprintf("section %q, cell %s: %v", sd.Name, md.Cell, err)}}
				}
			}
			sec.Mappings = append(sec.Mappings, CellMapping{
				Cell:        md.Cell,
				MappingType: mt,
				DataType:    dt,
				FieldName:   md.Field,
				Description: md.Description,
				Label:       md.Label,
			})
		}
		sections = append(sections, sec)
	}
	return New(def.SheetName, sections...)
}

// LoadDefinition reads a YAML schema file and builds the schema.
func LoadDefinition(r io.Reader) (*Schema, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("decode schema definition: %w", err)
	}
	return FromDefinition(def)
}

// WriteDefinition encodes the schema as YAML.
func (s *Schema) WriteDefinition(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Definition()); err != nil {
		return err
	}
	return enc.Close()
}
