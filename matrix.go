package seamcarving

import (
	"fmt"
	"strings"
)

// matrix is a dense row-major table sized to the grid it was created for.
// Removing a seam never reallocates: every row keeps its original stride and
// only the first width columns are considered live.
type matrix[T any] struct {
	originalWidth int
	width         int
	height        int
	cells         []T
}

func newMatrix[T any](width, height int, fn func(x, y int) T) *matrix[T] {
	m := &matrix[T]{
		originalWidth: width,
		width:         width,
		height:        height,
		cells:         make([]T, width*height),
	}
	if fn != nil {
		for i := range m.cells {
			m.cells[i] = fn(i%width, i/width)
		}
	}
	return m
}

func (m *matrix[T]) idx(p Point) int {
	return p.X + p.Y*m.originalWidth
}

func (m *matrix[T]) at(p Point) T {
	return m.cells[m.idx(p)]
}

func (m *matrix[T]) set(p Point, v T) {
	m.cells[m.idx(p)] = v
}

// removeSeam drops the seam cell of every row by rotating the row tail one
// step to the left. The removed value ends up in the first dead column.
func (m *matrix[T]) removeSeam(seam Seam) {
	if m.width == 0 {
		return
	}
	w := m.width
	m.width--
	for _, p := range seam {
		line := m.cells[p.Y*m.originalWidth : p.Y*m.originalWidth+w]
		if p.X >= len(line) {
			continue
		}
		removed := line[p.X]
		copy(line[p.X:], line[p.X+1:])
		line[w-1] = removed
	}
}

func (m *matrix[T]) String() string {
	var sb strings.Builder
	sb.WriteString("matrix {\n")
	for y := 0; y < m.height; y++ {
		fmt.Fprintf(&sb, "  %v\n", m.cells[y*m.originalWidth:y*m.originalWidth+m.width])
	}
	sb.WriteString("}")
	return sb.String()
}
