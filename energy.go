package seamcarving

// Energy returns the importance of the pixel at p: the squared difference
// between its top and bottom neighbours plus the squared difference between
// its left and right neighbours, summed over every channel.
// A neighbour falling outside the grid is replaced by the pixel itself.
// Squares and sums wrap modulo 2^32, which only happens with 16 and 32 bit channels.
//
// Energy must be computed against the grid currently being carved, so that
// the seams removed so far are taken into account.
func Energy[C Channel](g Grid[C], p Point) uint32 {
	last := gridSize(g)
	nb := p.Surrounding()

	var e uint32
	for _, pair := range [2][2]Point{{nb[0], nb[1]}, {nb[2], nb[3]}} {
		prev, next := pair[0], pair[1]
		if !next.Before(last) {
			next = p
		}
		a := g.Pixel(next.X, next.Y)
		b := g.Pixel(prev.X, prev.Y)
		for i := range a {
			d := int64(a[i]) - int64(b[i])
			e += uint32(d * d)
		}
	}
	return e
}
