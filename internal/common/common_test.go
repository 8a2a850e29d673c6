package common

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendIntSigned(t *testing.T) {
	cases := []struct {
		name string
		v    int64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one", 1, []byte{0x01}},
		{"high bit padded", 128, []byte{0x00, 0x80}},
		{"just below pad", 127, []byte{0x7F}},
		{"two byte padded", 1 << 15, []byte{0x00, 0x80, 0x00}},
		{"minus one", -1, []byte{0xFF}},
		{"minus 128", -128, []byte{0x80}},
		{"minus 129", -129, []byte{0xFF, 0x7F}},
		{"min int64", -1 << 63, []byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AppendInt(nil, tc.v, true))
		})
	}
}

func TestAppendIntUnsigned(t *testing.T) {
	assert.Equal(t, []byte{0x80}, AppendInt(nil, 128, false))
	assert.Equal(t, []byte{0xFF}, AppendInt(nil, 255, false))
	assert.Equal(t, []byte{0x01, 0x00}, AppendInt(nil, 256, false))
}

func TestIntRoundTripSigned(t *testing.T) {
	roundTrip := func(v int64) bool {
		got, err := DecodeInt(AppendInt(nil, v, true), true)
		return err == nil && got == v
	}
	require.NoError(t, quick.Check(roundTrip, nil))
}

func TestIntRoundTripUnsigned(t *testing.T) {
	roundTrip := func(v int64) bool {
		if v < 0 {
			v = -v - 1 // unsigned encoding only covers non-negative values
		}
		got, err := DecodeInt(AppendInt(nil, v, false), false)
		return err == nil && got == v
	}
	require.NoError(t, quick.Check(roundTrip, nil))
}

func TestDecodeIntTooWide(t *testing.T) {
	_, err := DecodeInt(make([]byte, 9), true)
	require.ErrorIs(t, err, ErrIntWidth)

	// 8 unsigned bytes with the top bit set exceed int64.
	_, err = DecodeInt([]byte{0x80, 0, 0, 0, 0, 0, 0, 0}, false)
	require.ErrorIs(t, err, ErrIntWidth)
}

func TestDecodeIntEmpty(t *testing.T) {
	v, err := DecodeInt(nil, true)
	require.NoError(t, err)
	assert.Zero(t, v)
}
