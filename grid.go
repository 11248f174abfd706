package seamcarving

// Channel is the numeric type of a single pixel component.
// Components are at most 32 bits wide so that their differences fit an int64.
type Channel interface {
	~uint8 | ~uint16 | ~uint32
}

// Grid is the read-only pixel source consumed by the carver.
// Every pixel exposes the same number of channels.
type Grid[C Channel] interface {
	Width() int
	Height() int
	// Channels returns the number of components per pixel.
	Channels() int
	// Pixel returns the components of the pixel at (x, y).
	// The returned slice must not be modified by the caller.
	Pixel(x, y int) []C
}

// Buffer is a dense, row-major pixel grid.
type Buffer[C Channel] struct {
	W, H int
	// N is the number of channels per pixel.
	N   int
	Pix []C
}

var _ Grid[uint8] = (*Buffer[uint8])(nil)

// NewBuffer allocates a zeroed buffer of the given dimensions.
func NewBuffer[C Channel](width, height, channels int) *Buffer[C] {
	return &Buffer[C]{
		W:   width,
		H:   height,
		N:   channels,
		Pix: make([]C, width*height*channels),
	}
}

// NewBufferFrom wraps raw row-major pixel data. It panics if the data length
// does not match the dimensions.
func NewBufferFrom[C Channel](width, height, channels int, pix []C) *Buffer[C] {
	if len(pix) != width*height*channels {
		panic("seamcarving: pixel data does not match the buffer dimensions")
	}
	return &Buffer[C]{W: width, H: height, N: channels, Pix: pix}
}

func (b *Buffer[C]) Width() int    { return b.W }
func (b *Buffer[C]) Height() int   { return b.H }
func (b *Buffer[C]) Channels() int { return b.N }

func (b *Buffer[C]) Pixel(x, y int) []C {
	i := (y*b.W + x) * b.N
	return b.Pix[i : i+b.N : i+b.N]
}

// SetPixel copies the components of px into the pixel at (x, y).
func (b *Buffer[C]) SetPixel(x, y int, px []C) {
	i := (y*b.W + x) * b.N
	copy(b.Pix[i:i+b.N], px)
}

// ToBuffer materializes any grid into a freshly allocated dense buffer,
// sampling every pixel through the grid's own Pixel method.
func ToBuffer[C Channel](g Grid[C]) *Buffer[C] {
	w, h := g.Width(), g.Height()
	dst := NewBuffer[C](w, h, g.Channels())
	for p := range Rect(Point{}, Point{X: w, Y: h}) {
		dst.SetPixel(p.X, p.Y, g.Pixel(p.X, p.Y))
	}
	return dst
}

// gridSize returns the grid dimensions as a point.
func gridSize[C Channel](g Grid[C]) Point {
	return Point{X: g.Width(), Y: g.Height()}
}
