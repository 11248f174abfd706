package seamcarving

import (
	"fmt"
	"math"
)

// noPredecessor marks the cells of the first row.
const noPredecessor int8 = math.MinInt8

// seamElem is one memoized cell of the cumulative energy table.
// A cell is either present and fully valid, or absent.
type seamElem struct {
	// energy is the cost of the cheapest path from the top row down to this cell,
	// the cell's own energy included.
	energy uint32
	// dx is the horizontal offset of the predecessor in the row above: -1, 0 or +1.
	dx      int8
	present bool
}

// seamFinder finds minimal vertical seams and keeps the cumulative energy table
// between two extractions, recomputing only the cells a removed seam invalidated.
type seamFinder struct {
	size     Point
	contents *matrix[seamElem]

	// dirtyLo and dirtyHi delimit the columns [dirtyLo, dirtyHi)
	// which may hold absent cells.
	dirtyLo, dirtyHi int

	worklist []Point
}

func newSeamFinder(size Point) *seamFinder {
	return &seamFinder{
		size:     size,
		contents: newMatrix[seamElem](size.X, size.Y, nil),
		dirtyLo:  0,
		dirtyHi:  size.X,
	}
}

// clean reports whether every cell of the current grid is present.
func (f *seamFinder) clean() bool {
	return f.dirtyLo >= f.dirtyHi || f.dirtyLo >= f.size.X
}

func (f *seamFinder) widen(x int) {
	f.dirtyLo = min(f.dirtyLo, x)
	f.dirtyHi = max(f.dirtyHi, x+1)
}

// fill computes every absent cell of the dirty columns, row by row.
// The column range is re-read on each row since recomputing a cell may
// invalidate cells further down.
func (f *seamFinder) fill(energy func(Point) uint32) {
	if f.clean() {
		return
	}
	for y := 0; y < f.size.Y; y++ {
		for x := f.dirtyLo; x < min(f.dirtyHi, f.size.X); x++ {
			p := Point{X: x, Y: y}
			if f.contents.at(p).present {
				continue
			}
			elem := f.compute(p, energy(p))
			f.contents.set(p, elem)
			f.reconsider(p, elem)
		}
	}
	f.dirtyLo, f.dirtyHi = f.size.X, 0
}

// compute picks the cheapest present predecessor of p.
// On ties the leftmost predecessor wins.
func (f *seamFinder) compute(p Point, local uint32) seamElem {
	best := seamElem{energy: local, dx: noPredecessor, present: true}
	found := false
	for q := range p.Predecessors(f.size) {
		pe := f.contents.at(q)
		if !pe.present {
			continue
		}
		if cost := pe.energy + local; !found || cost < best.energy {
			best.energy, best.dx = cost, int8(q.X-p.X)
			found = true
		}
	}
	return best
}

// reconsider clears the successors of a freshly computed cell c which would
// now choose c over the predecessor they cached.
func (f *seamFinder) reconsider(c Point, ce seamElem) {
	for s := range c.Successors(f.size) {
		se := f.contents.at(s)
		if !se.present {
			continue
		}
		if se.dx == noPredecessor {
			f.clear(s)
			continue
		}
		q := Point{X: s.X + int(se.dx), Y: c.Y}
		if q == c {
			continue
		}
		qe := f.contents.at(q)
		if !qe.present {
			f.clear(s)
			continue
		}
		local := se.energy - qe.energy
		cand := ce.energy + local
		if cand < se.energy || (cand == se.energy && c.X < q.X) {
			f.clear(s)
		}
	}
}

// clear invalidates p and, transitively, every cell whose cached path goes through p.
func (f *seamFinder) clear(p Point) {
	f.worklist = append(f.worklist[:0], p)
	for len(f.worklist) > 0 {
		n := len(f.worklist) - 1
		cur := f.worklist[n]
		f.worklist = f.worklist[:n]

		f.contents.set(cur, seamElem{})
		f.widen(cur.X)

		for s := range cur.Successors(f.size) {
			se := f.contents.at(s)
			if se.present && se.dx != noPredecessor && s.X+int(se.dx) == cur.X {
				f.worklist = append(f.worklist, s)
			}
		}
	}
}

// extractSeam returns the vertical seam of minimal energy, ordered from the top
// row to the bottom row, and removes it from the table.
func (f *seamFinder) extractSeam(energy func(Point) uint32) Seam {
	w, h := f.size.X, f.size.Y
	if w == 0 {
		panic("seamcarving: no column left to remove")
	}
	f.fill(energy)

	seam := make(Seam, h)
	if h > 0 {
		bottom := h - 1
		start := Point{X: 0, Y: bottom}
		lowest := f.contents.at(start).energy
		for x := 1; x < w; x++ {
			p := Point{X: x, Y: bottom}
			if e := f.contents.at(p).energy; e < lowest {
				start, lowest = p, e
			}
		}

		p := start
		for {
			elem := f.contents.at(p)
			if !elem.present {
				panic(fmt.Sprintf("seamcarving: seam walk reached an uncomputed cell at %v", p))
			}
			seam[p.Y] = p
			f.clear(p)
			if p.Y == 0 {
				break
			}
			if elem.dx == noPredecessor {
				panic(fmt.Sprintf("seamcarving: broken predecessor chain at %v", p))
			}
			p = Point{X: p.X + int(elem.dx), Y: p.Y - 1}
		}
	}
	checkSeam(seam, w)

	f.size.X--
	f.contents.removeSeam(seam)
	f.invalidateAround(seam)
	return seam
}

// invalidateAround clears the cells whose energy or predecessor set changed
// because of the removal of seam. Coordinates are the post-removal ones.
func (f *seamFinder) invalidateAround(seam Seam) {
	for y, p := range seam {
		lo, hi := p.X, p.X
		if y > 0 {
			lo, hi = min(lo, seam[y-1].X), max(hi, seam[y-1].X)
		}
		if y+1 < len(seam) {
			lo, hi = min(lo, seam[y+1].X), max(hi, seam[y+1].X)
		}
		for x := max(lo-2, 0); x <= min(hi+1, f.size.X-1); x++ {
			f.clear(Point{X: x, Y: y})
		}
	}
}

// checkSeam panics unless the seam holds one point per row,
// each within the grid and connected to the previous one.
func checkSeam(seam Seam, width int) {
	for y, p := range seam {
		if p.Y != y || p.X < 0 || p.X >= width {
			panic(fmt.Sprintf("seamcarving: invalid seam point %v on row %d", p, y))
		}
		if y > 0 {
			if d := p.X - seam[y-1].X; d < -1 || d > 1 {
				panic(fmt.Sprintf("seamcarving: disconnected seam between rows %d and %d", y-1, y))
			}
		}
	}
}
