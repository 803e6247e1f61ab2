package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// RenderValue converts a cell value to its canonical textual form for hash
// input. Printable ASCII renders as-is, anything else as a 0x-prefixed
// lowercase hex string. This rendering is part of the digest contract: two
// stores that hold the same bytes must produce the same hash input.
func RenderValue(value []byte) string {
	if len(value) == 0 {
		return ""
	}

	if isPrintableASCII(value) {
		return string(value)
	}

	return "0x" + hex.EncodeToString(value)
}

func isPrintableASCII(value []byte) bool {
	for _, b := range value {
		if b < 0x20 || b > 0x7e {
			return false
		}
	}

	return true
}

// SortValues orders cell values byte-wise so the digest is independent of
// the column order the caller supplied. nil values must be removed first.
func SortValues(values [][]byte) {
	sort.Slice(values, func(i, j int) bool {
		return bytes.Compare(values[i], values[j]) < 0
	})
}

// RemoveNilValues drops nil cells, preserving order of the rest.
func RemoveNilValues(values [][]byte) [][]byte {
	result := make([][]byte, 0, len(values))

	for _, v := range values {
		if v != nil {
			result = append(result, v)
		}
	}

	return result
}

// AmountBytes encodes an amount as an 8 byte big-endian cell value.
func AmountBytes(amount int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(amount))

	return b
}

// TimestampBytes encodes a timestamp the same way amounts are encoded, so
// it can take part in signature input.
func TimestampBytes(ts int64) []byte {
	return AmountBytes(ts)
}

// AmountFromBytes decodes a cell written by AmountBytes. A short or empty
// cell decodes to 0.
func AmountFromBytes(value []byte) int64 {
	if len(value) != 8 {
		return 0
	}

	return int64(binary.BigEndian.Uint64(value))
}
