package seamcarving

import "iter"

// Point is a pixel position inside a grid. Both coordinates are non-negative.
type Point struct {
	X int
	Y int
}

// Seam is a connected path holding exactly one point per row.
type Seam []Point

// Add returns the vector p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector p-q, clamping each coordinate at zero.
func (p Point) Sub(q Point) Point {
	return Point{X: subSat(p.X, q.X), Y: subSat(p.Y, q.Y)}
}

// Before reports whether p lies inside the rectangle [0, max).
func (p Point) Before(max Point) bool {
	return p.X < max.X && p.Y < max.Y
}

// Successors yields the cells directly below-left, below and below-right of p
// which fit inside a grid of the given size.
func (p Point) Successors(size Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if p.Y+1 >= size.Y {
			return
		}
		row(p.X, p.Y+1, size.X, yield)
	}
}

// Predecessors yields the cells directly above-left, above and above-right of p
// which fit inside a grid of the given size.
func (p Point) Predecessors(size Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if p.Y == 0 {
			return
		}
		row(p.X, p.Y-1, size.X, yield)
	}
}

// row yields x-1, x and x+1 on line y, skipping the columns outside [0, width).
func row(x, y, width int, yield func(Point) bool) {
	for dx := -1; dx <= 1; dx++ {
		nx := x + dx
		if nx < 0 || nx >= width {
			continue
		}
		if !yield(Point{X: nx, Y: y}) {
			return
		}
	}
}

// Surrounding returns the top, bottom, left and right neighbours, in this order.
// The top and left neighbours are clamped to the grid origin by reusing p itself;
// the bottom and right ones are left to the caller to check against the grid size.
func (p Point) Surrounding() [4]Point {
	return [4]Point{
		{X: p.X, Y: subSat(p.Y, 1)},
		{X: p.X, Y: p.Y + 1},
		{X: subSat(p.X, 1), Y: p.Y},
		{X: p.X + 1, Y: p.Y},
	}
}

// Rect yields every position of the rectangle [start, end) in row-major order.
// The returned sequence can be ranged over any number of times.
func Rect(start, end Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y := start.Y; y < end.Y; y++ {
			for x := start.X; x < end.X; x++ {
				if !yield(Point{X: x, Y: y}) {
					return
				}
			}
		}
	}
}

func subSat(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}
