package schema

import (
	"encoding/json"
	"fmt"
)

// Kind is the variant held by a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBoolean
	KindPercentage
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindPercentage:
		return "percentage"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// kindOf is the value kind a field of the given data type holds.
func kindOf(t DataType) Kind {
	switch t {
	case Text:
		return KindText
	case Number:
		return KindNumber
	case Boolean:
		return KindBoolean
	case Percentage:
		return KindPercentage
	}
	return KindEmpty
}

// Value is a typed cell value. The zero Value is Empty.
//
// Percentages are always held as fractions: 6.25% is Percentage(0.0625).
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

func Empty() Value                    { return Value{} }
func TextValue(s string) Value        { return Value{kind: KindText, text: s} }
func NumberValue(f float64) Value     { return Value{kind: KindNumber, num: f} }
func BooleanValue(b bool) Value       { return Value{kind: KindBoolean, b: b} }
func PercentageValue(f float64) Value { return Value{kind: KindPercentage, num: f} }

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Text returns the string held by a Text value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Number returns the float held by a Number value.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Boolean returns the bool held by a Boolean value.
func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Percentage returns the fraction held by a Percentage value.
func (v Value) Percentage() (float64, bool) {
	return v.num, v.kind == KindPercentage
}

// Interface returns the value as a plain Go value, nil for Empty.
func (v Value) Interface() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber, KindPercentage:
		return v.num
	case KindBoolean:
		return v.b
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindEmpty:
		return "<empty>"
	case KindText:
		return fmt.Sprintf("%q", v.text)
	case KindBoolean:
		return fmt.Sprintf("%t", v.b)
	case KindPercentage:
		return formatFloat(v.num*100) + "%"
	}
	return formatFloat(v.num)
}

// MarshalJSON encodes the value as its plain JSON counterpart.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Record is a flat mapping from field name to typed value. A field missing
// from the map is unset.
type Record map[string]Value
