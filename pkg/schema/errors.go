package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSchema indicates a schema definition violates an invariant.
var ErrMalformedSchema = errors.New("malformed schema")

// ErrParse indicates a raw cell value could not be parsed for its data type.
var ErrParse = errors.New("unparsable cell value")

// ErrTypeMismatch indicates a record value does not match the field's data type.
var ErrTypeMismatch = errors.New("value does not match field data type")

// ErrUnknownField indicates a record names a field the schema does not declare.
var ErrUnknownField = errors.New("unknown field")

// MalformedError lists every invariant violation found while building a schema.
type MalformedError struct {
	Problems []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMalformedSchema, strings.Join(e.Problems, "; "))
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedSchema
}

// FieldError is a per-field failure during extraction or population.
type FieldError struct {
	FieldName string
	Cell      string
	Raw       any
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (cell %s): %v", e.FieldName, e.Cell, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnknownFieldsError names the record fields absent from the schema.
type UnknownFieldsError struct {
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnknownField, strings.Join(e.Fields, ", "))
}

func (e *UnknownFieldsError) Unwrap() error {
	return ErrUnknownField
}
