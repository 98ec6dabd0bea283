package flattree

import "math/bits"

// TrailingOnes returns the number of consecutive 1 bits at the low end of num.
func TrailingOnes(num uint64) uint64 {
	return uint64(bits.TrailingZeros64(^num))
}

// Log2Uint64 efficiently computes log base 2 of num
func Log2Uint64(num uint64) uint64 {
	return uint64(bits.Len64(num) - 1)
}
