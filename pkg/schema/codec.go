package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Canonical boolean vocabulary. Matching is case-insensitive after trimming.
var (
	trueWords  = []string{"TRUE", "YES"}
	falseWords = []string{"FALSE", "NO"}
)

const (
	rawTrue  = "TRUE"
	rawFalse = "FALSE"
)

// isAbsent reports whether a raw value means "nothing in the cell".
func isAbsent(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && s == ""
}

// Parse converts a raw, non-empty sheet value to a typed value.
//
// Text is passed through untrimmed. Numbers accept a leading "$", thousands
// separators and accounting style "(1,234)" negatives. Booleans accept
// TRUE/FALSE/YES/NO in any case. Percentages are fractions; a string ending
// in "%" is divided by 100.
func Parse(raw any, t DataType) (Value, error) {
	if isAbsent(raw) {
		return Empty(), nil
	}
	switch t {
	case Text:
		return TextValue(textOf(raw)), nil
	case Number:
		f, err := parseNumber(raw)
		if err != nil {
			return Empty(), err
		}
		return NumberValue(f), nil
	case Boolean:
		b, err := parseBoolean(raw)
		if err != nil {
			return Empty(), err
		}
		return BooleanValue(b), nil
	case Percentage:
		f, err := parsePercentage(raw)
		if err != nil {
			return Empty(), err
		}
		return PercentageValue(f), nil
	}
	return Empty(), fmt.Errorf("%w: unsupported data type %v", ErrParse, t)
}

// Format converts a typed value to its canonical raw form. Empty formats as ""
// which clears the cell.
func Format(v Value, t DataType) (string, error) {
	if v.IsEmpty() {
		return "", nil
	}
	if v.Kind() != kindOf(t) {
		return "", fmt.Errorf("%w: got %v for %v field", ErrTypeMismatch, v.Kind(), t)
	}
	switch v.Kind() {
	case KindText:
		return v.text, nil
	case KindBoolean:
		if v.b {
			return rawTrue, nil
		}
		return rawFalse, nil
	case KindNumber, KindPercentage:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return "", fmt.Errorf("%w: %v is not a finite number", ErrTypeMismatch, v.num)
		}
		return formatFloat(v.num), nil
	}
	return "", fmt.Errorf("%w: unsupported value kind %v", ErrTypeMismatch, v.Kind())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func textOf(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		if v {
			return rawTrue
		}
		return rawFalse
	case float64:
		return formatFloat(v)
	case json.Number:
		return v.String()
	}
	if f, ok := nativeNumber(raw); ok {
		return formatFloat(f)
	}
	return fmt.Sprint(raw)
}

func nativeNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseNumber(raw any) (float64, error) {
	if f, ok := nativeNumber(raw); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %v is not a finite number", ErrParse, f)
		}
		return f, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("%w: %T is not a number", ErrParse, raw)
	}
	return parseNumericString(s)
}

// numericPattern is an unsigned decimal with optional well formed thousands
// groups and exponent.
var numericPattern = regexp.MustCompile(`^(?:(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// parseNumericString accepts an optional sign or enclosing parentheses, then
// an optional "$", then a decimal number.
func parseNumericString(s string) (float64, error) {
	t := strings.TrimSpace(s)
	neg := false
	if inner, ok := strings.CutPrefix(t, "("); ok {
		if inner, ok = strings.CutSuffix(inner, ")"); !ok {
			return 0, fmt.Errorf("%w: %q is not a number", ErrParse, s)
		}
		neg = true
		t = strings.TrimSpace(inner)
	} else if rest, ok := strings.CutPrefix(t, "-"); ok {
		neg = true
		t = rest
	} else {
		t = strings.TrimPrefix(t, "+")
	}
	t = strings.TrimPrefix(t, "$")
	if !numericPattern.MatchString(t) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrParse, s)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrParse, s)
	}
	if neg {
		f = -f
	}
	return f, nil
}

func parseBoolean(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		t := strings.TrimSpace(v)
		for _, w := range trueWords {
			if strings.EqualFold(t, w) {
				return true, nil
			}
		}
		for _, w := range falseWords {
			if strings.EqualFold(t, w) {
				return false, nil
			}
		}
		return false, fmt.Errorf("%w: %q is not one of TRUE, FALSE, YES, NO", ErrParse, v)
	}
	return false, fmt.Errorf("%w: %T is not a boolean", ErrParse, raw)
}

func parsePercentage(raw any) (float64, error) {
	s, ok := raw.(string)
	if !ok {
		return parseNumber(raw)
	}
	t := strings.TrimSpace(s)
	if pct, found := strings.CutSuffix(t, "%"); found {
		f, err := parseNumericString(pct)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a percentage", ErrParse, s)
		}
		return f / 100, nil
	}
	return parseNumericString(t)
}
