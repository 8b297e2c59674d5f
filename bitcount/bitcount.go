// Package bitcount counts set and clear bits within a single storage unit of a test buffer.
package bitcount

import "math/bits"

// UnitBits is the number of bits in one storage unit (a byte).
const UnitBits = 8

// AllOnes is the storage unit value with every bit set.
const AllOnes byte = 0xFF

// Ones returns the number of bits of v that are set to 1.
func Ones(v byte) int {
	return bits.OnesCount8(v)
}

// Zeros returns the number of bits of v that are set to 0.
func Zeros(v byte) int {
	return UnitBits - Ones(v)
}
