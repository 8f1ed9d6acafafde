package mark

import (
	"math/rand"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
)

type codec interface {
	// encode returns the bits painted into the payload for a message.
	encode(bits []bool) []bool
	// decode returns the first size message bits from painted bits.
	decode(bits []bool, size int) []bool
	// encodedLen is the number of painted bits for a message of size bits.
	encodedLen(size int) int
}

var _ codec = (*shuffledgolay)(nil)

type shuffledgolay int64

func (sg shuffledgolay) encode(bits []bool) []bool {
	if len(bits) == 0 {
		return nil
	}
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, b := range bits {
		w.WriteBool(b)
	}
	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	_ = enc.Encode(w.Data(), w.Bits())
	n := enc.Bits()

	// spread each codeword over the whole payload
	index := sg.permutation(n)
	r := bitstream.NewBitReader(encoded, 0, 0)
	out := make([]bool, n)
	for i := range out {
		out[i], _ = r.ReadBitAt(index[i])
	}
	return out
}

func (sg shuffledgolay) decode(bits []bool, size int) []bool {
	if size == 0 {
		return []bool{}
	}
	index := sg.permutation(len(bits))
	w := bitstream.NewBitWriter[uint64](0, 0)
	for i, b := range bits {
		w.WriteBitAt(index[i], b)
	}

	var decoded []uint64
	dec := golay.NewDecoder(w.Data(), w.Bits())
	_ = dec.Decode(&decoded)

	r := bitstream.NewBitReader(decoded, 0, 0)
	r.SetBits(size)
	out := make([]bool, size)
	for i := range out {
		out[i], _ = r.ReadBitAt(i)
	}
	return out
}

func (sg shuffledgolay) encodedLen(size int) int {
	if size == 0 {
		return 0
	}
	return golay.EncodedBits(size)
}

func (sg shuffledgolay) permutation(length int) []int {
	index := make([]int, length)
	for i := range index {
		index[i] = i
	}
	rd := rand.New(rand.NewSource(int64(sg)))
	rd.Shuffle(length, func(i, j int) {
		index[i], index[j] = index[j], index[i]
	})
	return index
}

var _ codec = (*withoutecc)(nil)

type withoutecc struct{}

func (withoutecc) encode(bits []bool) []bool {
	return append([]bool(nil), bits...)
}

func (withoutecc) decode(bits []bool, size int) []bool {
	return append([]bool{}, bits[:size]...)
}

func (withoutecc) encodedLen(size int) int {
	return size
}
