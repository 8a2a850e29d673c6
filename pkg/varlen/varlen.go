// Package varlen implements the variable-width length encoding used to frame
// chunks of the encodium wire format.
//
// Lengths up to 0xF9 (249) are written as a single byte holding the length
// itself. Larger lengths are written as 0xF9+k followed by the length as k
// big-endian bytes, where k is the minimum byte count needed. k is capped at
// 6, so the largest representable length is 2^48-1.
package varlen

import "errors"

const (
	// Inline is the largest length written as a single byte.
	Inline = 0xF9
	// MaxWidth is the largest allowed k (length-of-length byte count).
	MaxWidth = 6
)

var (
	ErrTooLarge  = errors.New("varlen: length needs more than 6 bytes")
	ErrTruncated = errors.New("varlen: truncated input")
	ErrNegative  = errors.New("varlen: negative length")
)

// Append encodes n and appends it to dst.
func Append(dst []byte, n int) ([]byte, error) {
	if n < 0 {
		return dst, ErrNegative
	}
	if n <= Inline {
		return append(dst, byte(n)), nil
	}
	width := byteWidth(uint64(n))
	if width > MaxWidth {
		return dst, ErrTooLarge
	}
	dst = append(dst, byte(Inline+width))
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, byte(uint64(n)>>(8*i)))
	}
	return dst, nil
}

// Decode reads one encoded length from the front of buf, returning the length
// and the number of bytes consumed.
func Decode(buf []byte) (length int, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, ErrTruncated
	}
	b := buf[0]
	if b <= Inline {
		return int(b), 1, nil
	}
	width := int(b) - Inline // 0xFA..0xFF, so 1..6
	if len(buf) < 1+width {
		return 0, 0, ErrTruncated
	}
	var n uint64
	for _, c := range buf[1 : 1+width] {
		n = n<<8 | uint64(c)
	}
	return int(n), 1 + width, nil
}

// EncodedSize returns the number of bytes Append would emit for n.
func EncodedSize(n int) int {
	if n <= Inline {
		return 1
	}
	return 1 + byteWidth(uint64(n))
}

func byteWidth(x uint64) int {
	w := 0
	for x > 0 {
		w++
		x >>= 8
	}
	if w == 0 {
		w = 1
	}
	return w
}
