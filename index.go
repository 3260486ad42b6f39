package jsbind

import (
	"math"
	"strconv"
)

// maxIndex is the largest valid index, as for ECMAScript arrays.
const maxIndex = math.MaxUint32 - 1

// ParseIndex reports whether name is the canonical decimal form of a
// non-negative integer usable as an index, returning its value.
//
// Leading zeros, signs, whitespace and fractions are rejected, so "01", "-1"
// and "1.0" are treated as ordinary names.
func ParseIndex(name string) (uint32, bool) {
	if name == "" || len(name) > 10 {
		return 0, false
	}
	if name[0] == '0' && len(name) > 1 {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(name, 10, 64)
	if err != nil || n > maxIndex {
		return 0, false
	}
	return uint32(n), true
}

// FormatIndex is the inverse of [ParseIndex].
func FormatIndex(index uint32) string {
	return strconv.FormatUint(uint64(index), 10)
}
