// Package common holds byte-level integer helpers shared by the encodium wire
// codec.
package common

import (
	"errors"
	"math/bits"
)

var ErrIntWidth = errors.New("integer payload wider than 8 bytes")

// AppendInt appends v as a minimal big-endian integer. Signed values use
// two's-complement; a positive signed value whose bit length is an exact
// multiple of 8 gets one zero byte prepended so the high bit cannot be
// misread as a sign bit.
func AppendInt(dst []byte, v int64, signed bool) []byte {
	n := intWidth(v, signed)
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(uint64(v)>>(8*i)))
	}
	return dst
}

// IntWidth returns the encoded byte count AppendInt would use.
func IntWidth(v int64, signed bool) int {
	return intWidth(v, signed)
}

func intWidth(v int64, signed bool) int {
	switch {
	case v == 0:
		return 1
	case v > 0:
		n := bits.Len64(uint64(v))
		if signed && n%8 == 0 {
			n++
		}
		return (n + 7) / 8
	default:
		// Smallest n with v >= -(1 << (8n-1)).
		for n := 1; n < 8; n++ {
			if v >= -(int64(1) << (8*n - 1)) {
				return n
			}
		}
		return 8
	}
}

// DecodeInt reads a minimal big-endian integer of len(b) bytes. Signed input
// is sign-extended from the top bit. Fails if the payload is wider than 8
// bytes or, for unsigned input, if the value does not fit in int64.
func DecodeInt(b []byte, signed bool) (int64, error) {
	if len(b) > 8 {
		return 0, ErrIntWidth
	}
	if len(b) == 0 {
		return 0, nil
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	if signed {
		shift := 64 - 8*len(b)
		return int64(u<<shift) >> shift, nil
	}
	if u > 1<<63-1 {
		return 0, ErrIntWidth
	}
	return int64(u), nil
}
