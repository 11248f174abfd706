package seamcarving

// Carved is a read-only view of an image with some vertical seams removed.
// The source image is never modified: the view only keeps, for every row,
// the source column each of its columns refers to.
type Carved[C Channel] struct {
	img     Grid[C]
	removed int
	// aliases is such as self[x, y] = img[aliases[x, y], y].
	aliases *matrix[int32]
}

var _ Grid[uint8] = (*Carved[uint8])(nil)

func newCarved[C Channel](img Grid[C]) *Carved[C] {
	return &Carved[C]{
		img: img,
		aliases: newMatrix(img.Width(), img.Height(), func(x, _ int) int32 {
			return int32(x)
		}),
	}
}

func (c *Carved[C]) removeSeam(seam Seam) {
	c.aliases.removeSeam(seam)
	c.removed++
}

// Source returns the position in the source image of the point p of the view.
func (c *Carved[C]) Source(p Point) Point {
	return Point{X: int(c.aliases.at(p)), Y: p.Y}
}

func (c *Carved[C]) Width() int    { return c.img.Width() - c.removed }
func (c *Carved[C]) Height() int   { return c.img.Height() }
func (c *Carved[C]) Channels() int { return c.img.Channels() }

func (c *Carved[C]) Pixel(x, y int) []C {
	return c.img.Pixel(int(c.aliases.at(Point{X: x, Y: y})), y)
}

// Carvable removes vertical seams from an image one at a time.
// It does not modify the image it was created from.
type Carvable[C Channel] struct {
	carved *Carved[C]
	finder *seamFinder
	energy func(Point) uint32
}

// NewCarvable creates a seam remover over img. The width of the result
// decreases by one on every call to RemoveSeam.
func NewCarvable[C Channel](img Grid[C]) *Carvable[C] {
	c := &Carvable[C]{
		carved: newCarved(img),
		finder: newSeamFinder(gridSize(img)),
	}
	c.energy = func(p Point) uint32 {
		return Energy[C](c.carved, p)
	}
	return c
}

// RemoveSeam removes the vertical seam of lowest energy and returns it,
// expressed in the coordinates of the image as it was before the removal.
// It panics if the image has no column left.
func (c *Carvable[C]) RemoveSeam() Seam {
	seam := c.finder.extractSeam(c.energy)
	c.carved.removeSeam(seam)
	return seam
}

// Result returns the carved view. It reflects every seam removed so far.
func (c *Carvable[C]) Result() *Carved[C] {
	return c.carved
}
