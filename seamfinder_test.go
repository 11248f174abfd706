package seamcarving

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullTable recomputes the cumulative energy table of g from scratch.
func fullTable[C Channel](g Grid[C]) *matrix[seamElem] {
	w, h := g.Width(), g.Height()
	table := newMatrix[seamElem](w, h, nil)
	for p := range Rect(Point{}, Point{X: w, Y: h}) {
		local := Energy(g, p)
		best := seamElem{energy: local, dx: noPredecessor, present: true}
		if p.Y > 0 {
			found := false
			for dx := -1; dx <= 1; dx++ {
				x := p.X + dx
				if x < 0 || x >= w {
					continue
				}
				cost := table.at(Point{X: x, Y: p.Y - 1}).energy + local
				if !found || cost < best.energy {
					best.energy, best.dx, found = cost, int8(dx), true
				}
			}
		}
		table.set(p, best)
	}
	return table
}

// bruteForceSeam finds the lowest energy seam of g without any caching.
func bruteForceSeam[C Channel](g Grid[C]) Seam {
	w, h := g.Width(), g.Height()
	table := fullTable(g)
	seam := make(Seam, h)
	if h == 0 {
		return seam
	}
	p := Point{X: 0, Y: h - 1}
	for x := 1; x < w; x++ {
		if table.at(Point{X: x, Y: h - 1}).energy < table.at(p).energy {
			p = Point{X: x, Y: h - 1}
		}
	}
	for {
		seam[p.Y] = p
		if p.Y == 0 {
			return seam
		}
		p = Point{X: p.X + int(table.at(p).dx), Y: p.Y - 1}
	}
}

func randomBuffer(rnd *rand.Rand, w, h, channels, levels int) *Buffer[uint8] {
	b := NewBuffer[uint8](w, h, channels)
	for i := range b.Pix {
		b.Pix[i] = uint8(rnd.Intn(levels))
	}
	return b
}

func TestSeamFinder_ExtractsCorrectSeam(t *testing.T) {
	finder := newSeamFinder(Point{X: 3, Y: 2})
	// energy matrix:
	// 0  1  2
	// | \  \
	// 0  1  2
	seam := finder.extractSeam(func(p Point) uint32 { return uint32(p.X) })
	assert.Equal(t, Seam{{0, 0}, {0, 1}}, seam)
	assert.Equal(t, 2, finder.size.X)
}

func TestSeamFinder_LowestXWinsTies(t *testing.T) {
	finder := newSeamFinder(Point{X: 4, Y: 3})
	seam := finder.extractSeam(func(Point) uint32 { return 1 })
	assert.Equal(t, Seam{{0, 0}, {0, 1}, {0, 2}}, seam)

	finder = newSeamFinder(Point{X: 4, Y: 2})
	// Both columns 1 and 3 are free on the bottom row, the path to column 1 wins.
	energy := map[Point]uint32{{0, 0}: 5, {1, 0}: 5, {2, 0}: 5, {3, 0}: 5, {0, 1}: 9, {2, 1}: 9}
	seam = finder.extractSeam(func(p Point) uint32 { return energy[p] })
	assert.Equal(t, Seam{{0, 0}, {1, 1}}, seam)
}

func TestSeamFinder_Fills(t *testing.T) {
	finder := newSeamFinder(Point{X: 10, Y: 10})
	assert.False(t, finder.clean())
	assert.Equal(t, 0, finder.dirtyLo)
	assert.Equal(t, 10, finder.dirtyHi)

	finder.fill(func(Point) uint32 { return 42 })
	assert.True(t, finder.clean())
	assert.Equal(t, 10, finder.dirtyLo)

	for p := range Rect(Point{}, finder.size) {
		elem := finder.contents.at(p)
		require.True(t, elem.present, "cell %v", p)
		assert.Equal(t, uint32(42*(p.Y+1)), elem.energy)
	}
}

func TestSeamFinder_CleanCacheIsNotRefilled(t *testing.T) {
	finder := newSeamFinder(Point{X: 4, Y: 3})
	var calls int
	energy := func(Point) uint32 {
		calls++
		return 1
	}

	finder.fill(energy)
	assert.Equal(t, 12, calls)

	finder.fill(energy)
	assert.Equal(t, 12, calls)

	finder.clear(Point{X: 3, Y: 2})
	assert.False(t, finder.clean())
	finder.fill(energy)
	assert.Equal(t, 13, calls)
}

func TestSeamFinder_ClearIsExact(t *testing.T) {
	// energy matrix:
	// 1 5 1
	// 1 1 1
	// 1 1 1
	energy := func(p Point) uint32 {
		if p == (Point{X: 1, Y: 0}) {
			return 5
		}
		return 1
	}
	finder := newSeamFinder(Point{X: 3, Y: 3})
	finder.fill(energy)

	finder.clear(Point{X: 0, Y: 0})

	// Only the cells whose path went through (0, 0) are invalidated.
	// (2, 2) came from (1, 1), which came from (0, 0), while (2, 1) did not.
	absent := map[Point]bool{{0, 0}: true, {0, 1}: true, {1, 1}: true, {0, 2}: true, {1, 2}: true, {2, 2}: true}
	for p := range Rect(Point{}, finder.size) {
		assert.Equal(t, !absent[p], finder.contents.at(p).present, "cell %v", p)
	}
	assert.Equal(t, 0, finder.dirtyLo)
	assert.Equal(t, 3, finder.dirtyHi)

	finder.fill(energy)
	assert.True(t, finder.clean())
	for p := range Rect(Point{}, finder.size) {
		assert.True(t, finder.contents.at(p).present)
	}
}

func TestSeamFinder_MatchesFullRecomputation(t *testing.T) {
	testCases := []struct {
		name          string
		w, h          int
		channels      int
		levels        int
		seed          int64
		seamsToRemove int
	}{
		{"few levels, many ties", 12, 9, 1, 3, 1, 12},
		{"gray", 17, 11, 1, 256, 2, 17},
		{"rgba", 15, 13, 4, 256, 3, 14},
		{"binary", 9, 20, 1, 2, 4, 9},
		{"single row", 8, 1, 3, 256, 5, 8},
		{"single column", 1, 6, 1, 256, 6, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rnd := rand.New(rand.NewSource(tc.seed))
			img := randomBuffer(rnd, tc.w, tc.h, tc.channels, tc.levels)
			c := NewCarvable[uint8](img)

			for i := 0; i < tc.seamsToRemove; i++ {
				want := bruteForceSeam[uint8](c.Result())

				// The cached table must be identical to a from-scratch computation.
				c.finder.fill(c.energy)
				table := fullTable[uint8](c.Result())
				for p := range Rect(Point{}, gridSize[uint8](c.Result())) {
					require.Equal(t, table.at(p), c.finder.contents.at(p), "seam %d, cell %v", i, p)
				}

				got := c.RemoveSeam()
				require.Equal(t, want, got, "seam %d", i)
			}
			assert.Equal(t, tc.w-tc.seamsToRemove, c.Result().Width())
		})
	}
}

func TestSeamFinder_RecomputesFewerCellsThanTheGrid(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	img := randomBuffer(rnd, 60, 40, 1, 256)
	c := NewCarvable[uint8](img)
	c.RemoveSeam()

	var calls int
	c.finder.fill(func(p Point) uint32 {
		calls++
		return Energy[uint8](c.carved, p)
	})
	assert.Greater(t, calls, 0)
	assert.Less(t, calls, 59*40)
}

func TestSeamFinder_EmptyHeight(t *testing.T) {
	finder := newSeamFinder(Point{X: 2, Y: 0})
	seam := finder.extractSeam(func(Point) uint32 { return 0 })
	assert.Empty(t, seam)
	assert.Equal(t, 1, finder.size.X)
}

func TestSeamFinder_PanicsWithoutColumns(t *testing.T) {
	finder := newSeamFinder(Point{X: 0, Y: 3})
	assert.Panics(t, func() {
		finder.extractSeam(func(Point) uint32 { return 0 })
	})
}

func TestSeamFinder_CheckSeam(t *testing.T) {
	assert.NotPanics(t, func() { checkSeam(Seam{{1, 0}, {2, 1}, {1, 2}}, 3) })
	assert.Panics(t, func() { checkSeam(Seam{{0, 0}, {2, 1}}, 3) })
	assert.Panics(t, func() { checkSeam(Seam{{0, 0}, {0, 0}}, 3) })
	assert.Panics(t, func() { checkSeam(Seam{{3, 0}}, 3) })
}
