package swt_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/watermark_rdwt/internal/swt"
)

func TestForward(t *testing.T) {
	t.Run("2x2", func(t *testing.T) {
		s, err := swt.Forward([]float64{1, 2, 3, 4}, 2)
		require.NoError(t, err)

		want := [4][]float64{
			{5, 5, 5, 5},
			{-2, -2, 2, 2},
			{-1, 1, -1, 1},
			{0, 0, 0, 0},
		}
		for b, band := range s.Bands() {
			require.Len(t, band, 4)
			for i := range band {
				assert.InDelta(t, want[b][i], band[i], 1e-9, "band %d[%d]", b, i)
			}
		}
	})

	t.Run("constant", func(t *testing.T) {
		data := make([]float64, 6*4)
		for i := range data {
			data[i] = 128
		}
		s, err := swt.Forward(data, 6)
		require.NoError(t, err)
		for i := range data {
			assert.InDelta(t, 256, s.CA[i], 1e-9)
			assert.InDelta(t, 0, s.CH[i], 1e-9)
			assert.InDelta(t, 0, s.CV[i], 1e-9)
			assert.InDelta(t, 0, s.CD[i], 1e-9)
		}
	})

	t.Run("shape", func(t *testing.T) {
		for _, shape := range [][2]int{{2, 2}, {4, 8}, {256, 258}, {10, 2}} {
			w, h := shape[0], shape[1]
			s, err := swt.Forward(make([]float64, w*h), w)
			require.NoError(t, err)
			assert.Equal(t, w, s.Width)
			assert.Equal(t, h, s.Height)
			for _, band := range s.Bands() {
				assert.Len(t, band, w*h)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		test := []struct {
			name string
			data []float64
			w    int
		}{
			{"odd width", make([]float64, 3*4), 3},
			{"odd height", make([]float64, 4*3), 4},
			{"ragged", make([]float64, 7), 2},
			{"empty", nil, 2},
			{"zero width", make([]float64, 4), 0},
		}
		for _, tt := range test {
			t.Run(tt.name, func(t *testing.T) {
				_, err := swt.Forward(tt.data, tt.w)
				assert.ErrorIs(t, err, swt.ErrShape)
			})
		}
	})
}

func TestInverse(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		rd := rand.New(rand.NewSource(7))
		for _, shape := range [][2]int{{2, 2}, {8, 6}, {32, 32}, {64, 18}} {
			w, h := shape[0], shape[1]
			data := make([]float64, w*h)
			for i := range data {
				data[i] = float64(rd.Intn(256))
			}
			s, err := swt.Forward(data, w)
			require.NoError(t, err)
			got, err := swt.Inverse(s)
			require.NoError(t, err)
			require.Len(t, got, len(data))
			for i := range data {
				assert.InDelta(t, data[i], got[i], 1e-9, "%dx%d at %d", w, h, i)
			}
		}
	})

	t.Run("shift invariance", func(t *testing.T) {
		// Shifting the input by one pixel shifts every band by one pixel.
		w, h := 8, 4
		rd := rand.New(rand.NewSource(3))
		data := make([]float64, w*h)
		for i := range data {
			data[i] = rd.Float64() * 255
		}
		shifted := make([]float64, w*h)
		for y := range h {
			for x := range w {
				shifted[y*w+(x+1)%w] = data[y*w+x]
			}
		}
		a, err := swt.Forward(data, w)
		require.NoError(t, err)
		b, err := swt.Forward(shifted, w)
		require.NoError(t, err)
		for band := range 4 {
			for y := range h {
				for x := range w {
					assert.InDelta(t, a.Bands()[band][y*w+x], b.Bands()[band][y*w+(x+1)%w], 1e-9)
				}
			}
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		s, err := swt.Forward(make([]float64, 16), 4)
		require.NoError(t, err)
		s.CD = s.CD[:8]
		_, err = swt.Inverse(s)
		assert.ErrorIs(t, err, swt.ErrShape)

		_, err = swt.Inverse(&swt.Subbands{Width: 3, Height: 2})
		assert.ErrorIs(t, err, swt.ErrShape)

		_, err = swt.Inverse(nil)
		assert.ErrorIs(t, err, swt.ErrShape)
	})
}

func TestSupported(t *testing.T) {
	assert.True(t, swt.Supported(swt.Haar))
	assert.False(t, swt.Supported("db2"))
	assert.False(t, swt.Supported(""))
}
