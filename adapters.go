package goorm

import "github.com/spf13/cast"

// Built-in column adapters/converters, coercing SQLite's dynamically
// typed column values (integers may come back as int64, float64, or
// even []byte depending on the driver's affinity guess) to and from
// the Go type a model actually wants to expose.

// IntConverter reads a column as an int regardless of the driver's
// chosen numeric representation.
func IntConverter(v any) any {
	if v == nil {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil
	}
	return n
}

// BoolAdapter writes a Go bool as SQLite's 0/1 integer convention.
func BoolAdapter(v any) any {
	if v == nil {
		return nil
	}
	if cast.ToBool(v) {
		return 1
	}
	return 0
}

// BoolConverter reads SQLite's 0/1 integer convention back into a Go
// bool.
func BoolConverter(v any) any {
	if v == nil {
		return nil
	}
	return cast.ToInt(v) != 0
}

// StringConverter normalizes a column's value ([]byte, string, or a
// numeric type) to a Go string.
func StringConverter(v any) any {
	if v == nil {
		return nil
	}
	return cast.ToString(v)
}
