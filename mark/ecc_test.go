package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/watermark_rdwt/internal/bitconv"
)

func TestShuffledGolay(t *testing.T) {
	var sg shuffledgolay = 12345

	t.Run("encode length", func(t *testing.T) {
		for size := range 64 {
			bits := make([]bool, size)
			assert.Len(t, sg.encode(bits), sg.encodedLen(size), size)
		}
	})

	t.Run("encode/decode", func(t *testing.T) {
		bits := bitconv.BytesToBools([]byte{0x12, 0x34, 0x56, 0x78, 0x90, 0xab, 0xcd, 0xef})
		encoded := sg.encode(bits)
		assert.Equal(t, bits, sg.decode(encoded, len(bits)))
	})

	t.Run("corrects a flipped bit", func(t *testing.T) {
		bits := bitconv.BytesToBools([]byte("golay"))
		encoded := sg.encode(bits)
		encoded[3] = !encoded[3]
		assert.Equal(t, bits, sg.decode(encoded, len(bits)))
	})

	t.Run("permutation", func(t *testing.T) {
		a := sg.permutation(100)
		assert.Equal(t, a, sg.permutation(100))
		assert.NotEqual(t, a, shuffledgolay(1).permutation(100))
		seen := make([]bool, 100)
		for _, i := range a {
			require.False(t, seen[i])
			seen[i] = true
		}
	})
}

func TestWithoutECC(t *testing.T) {
	bits := []bool{true, false, true, true}
	var c withoutecc
	encoded := c.encode(bits)
	assert.Equal(t, bits, encoded)
	assert.Equal(t, 4, c.encodedLen(4))
	assert.Equal(t, bits[:3], c.decode(append(encoded, false, false), 3))
}

func TestClassify(t *testing.T) {
	test := []struct {
		name     string
		averages []float64
		want     []bool
	}{
		{"two levels", []float64{3, 250, 240, 12, 255}, []bool{false, true, true, false, true}},
		{"all black", []float64{0, 4, 10, 2}, []bool{false, false, false, false}},
		{"all white", []float64{250, 255, 241}, []bool{true, true, true}},
		{"single", []float64{200}, []bool{true}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.averages))
		})
	}
}
