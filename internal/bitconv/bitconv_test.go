package bitconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitConv(t *testing.T) {
	test := []struct {
		data []byte
		exp  []byte
	}{
		{data: []byte{0b10101010}, exp: []byte{0b10101010}},
		{data: []byte{0b11110000, 0b00001111}, exp: []byte{0b11110000, 0b00001111}},
		{data: []byte("Hello"), exp: []byte("Hello")},
		{data: []byte("こんにちは"), exp: []byte("こんにちは")},
		{data: []byte{}, exp: []byte{}},
	}
	for _, tt := range test {
		bits := BytesToBools(tt.data)
		assert.Len(t, bits, len(tt.data)*8)
		assert.Equal(t, tt.exp, BoolsToBytes(bits))
	}
}

func TestBoolsToBytesPadding(t *testing.T) {
	assert.Equal(t, []byte{0b10110000}, BoolsToBytes([]bool{true, false, true, true}))
	assert.Equal(t, []byte{0xff, 0b10000000}, BoolsToBytes([]bool{true, true, true, true, true, true, true, true, true}))
	assert.Equal(t, []bool{false, false, false, false, false, false, false, true}, BytesToBools([]byte{1}))
}
