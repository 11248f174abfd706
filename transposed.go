package seamcarving

// Transposed is a view of a grid with the x and y coordinates swapped.
// Geometrically it is a 90° rotation followed by a mirror along the Y axis,
// so transposing twice gives back the original pixels.
type Transposed[C Channel] struct {
	Grid Grid[C]
}

var _ Grid[uint8] = Transposed[uint8]{}

// Transpose wraps g without copying any pixel.
func Transpose[C Channel](g Grid[C]) Transposed[C] {
	return Transposed[C]{Grid: g}
}

func (t Transposed[C]) Width() int    { return t.Grid.Height() }
func (t Transposed[C]) Height() int   { return t.Grid.Width() }
func (t Transposed[C]) Channels() int { return t.Grid.Channels() }

func (t Transposed[C]) Pixel(x, y int) []C {
	return t.Grid.Pixel(y, x)
}
