// Package bitfield provides bit-exact extraction and insertion on 64-bit
// unsigned integers.
package bitfield

// Extract returns the bits right..=left of value, right-justified. Both
// bounds are inclusive and must satisfy 0 <= right <= left <= 63.
func Extract(value uint64, left, right int) uint64 {
	rangeMustBeValid(left, right)

	width := left - right + 1
	return (value >> uint(right)) & mask(width)
}

// Set returns target with the field right..=left replaced by the low
// left-right+1 bits of bits. Bits of target outside the field are preserved.
func Set(bits, target uint64, left, right int) uint64 {
	rangeMustBeValid(left, right)

	width := left - right + 1
	fieldMask := mask(width) << uint(right)

	return (target &^ fieldMask) | ((bits << uint(right)) & fieldMask)
}

// mask returns a mask with the low width bits set. Shifting a uint64 by 64
// is undefined in Go, so the full-width case is handled separately.
func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(width)) - 1
}

func rangeMustBeValid(left, right int) {
	if right < 0 || left > 63 || right > left {
		panic("bit range out of bounds")
	}
}
