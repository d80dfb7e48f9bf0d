// Package enums holds the string-backed status and mode types persisted on
// carts, orders and catalog searches.
package enums

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

type stringEnum interface {
	~string
}

func isKnown[T stringEnum](known []T, v T) bool {
	return slices.Contains(known, v)
}

func parseKnown[T stringEnum](known []T, kind, raw string) (T, error) {
	v := T(raw)
	if isKnown(known, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}

// scanText reads a text column into a string for Scan implementations.
func scanText(kind string, src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("cannot scan %T into %s", src, kind)
	}
}

func knownValue[T stringEnum](known []T, kind string, v T) (driver.Value, error) {
	if !isKnown(known, v) {
		return nil, fmt.Errorf("invalid %s %q", kind, string(v))
	}
	return string(v), nil
}
