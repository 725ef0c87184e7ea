package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one parsed spreadsheet row. Keys follow the export column names
// (factory_code, region, month, year, revenue, ...); absent keys mean null.
// Values arrive as strings from the sheet parser but JSON-sourced batches may
// carry numbers, so accessors coerce both.
type Record map[string]any

func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// StringVal returns the trimmed string form of a field, "" when absent.
func (r Record) StringVal(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

// StringPtr returns the trimmed string form of a field, nil when absent or
// blank.
func (r Record) StringPtr(key string) *string {
	s := r.StringVal(key)
	if s == "" {
		return nil
	}
	return &s
}

// IntVal coerces a field to int. ok is false when the field is absent, blank
// or not an integer.
func (r Record) IntVal(key string) (int, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// FloatPtr coerces a field to a nullable float. Absent or blank fields are
// (nil, true); a non-numeric value is (nil, false).
func (r Record) FloatPtr(key string) (*float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, true
	}
	switch n := v.(type) {
	case float64:
		return &n, true
	case int:
		f := float64(n)
		return &f, true
	case int64:
		f := float64(n)
		return &f, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return &parsed, true
	default:
		return nil, false
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
