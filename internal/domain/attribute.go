package domain

import "reflect"

// NormalizeAttribute returns the canonical form of an attribute lookup
// value: every integer and float kind becomes float64, strings and bools
// are kept. ok is false for any other type, which matches nothing.
func NormalizeAttribute(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return nil, false
}

// AttributeEqual reports whether a stored attribute value matches a lookup
// value. Numbers compare by value regardless of their Go type; a number
// never equals a string or a bool.
func AttributeEqual(stored, value any) bool {
	a, ok := NormalizeAttribute(stored)
	if !ok {
		return false
	}
	b, ok := NormalizeAttribute(value)
	if !ok {
		return false
	}
	return a == b
}
