package mark

var (
	DefaultShuffleSeed int64 = 1234567890
	DefaultCellSize          = 4
)

type (
	// Option selects how a message is laid out in a payload image.
	Option func(*layout)
	layout struct {
		c    codec
		cell int
	}
)

func newLayout(opts ...Option) layout {
	l := layout{
		c:    shuffledgolay(DefaultShuffleSeed),
		cell: DefaultCellSize,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// WithoutECC is an option that does not use error correction codes.
// Message bits are painted as-is, in order.
func WithoutECC() Option {
	return func(l *layout) {
		l.c = withoutecc{}
	}
}

// WithGolay is an option that uses Golay code for error correction.
// seed is the seed value for shuffling the encoded bits, so that a damaged
// area of the payload spreads its errors over many codewords.
func WithGolay(seed int64) Option {
	return func(l *layout) {
		l.c = shuffledgolay(seed)
	}
}

// WithCellSize sets the side in pixels of the square painted for each bit.
// Cells of 3 pixels or more are read from their interior only, which the
// wavelet reconstruction leaves unblurred.
func WithCellSize(n int) Option {
	return func(l *layout) {
		l.cell = n
	}
}
