// Package safe converts between integer types with range checks.
package safe

import (
	"fmt"
	"math"
)

type signed interface {
	~int | ~int32 | ~int64
}

// Uint64 rejects negative values.
func Uint64[T signed | ~uint | ~uint32 | ~uint64](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Int64 rejects values above math.MaxInt64.
func Int64[T ~uint | ~uint32 | ~uint64](v T) (int64, error) {
	if uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("value %d out of int64 range", v)
	}
	return int64(v), nil
}
