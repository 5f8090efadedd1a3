// Package enums holds the string enums persisted in Postgres enum columns.
package enums

import (
	"fmt"
	"slices"
)

func parse[T ~string](allowed []T, raw, kind string) (T, error) {
	v := T(raw)
	if slices.Contains(allowed, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}
