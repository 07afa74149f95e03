// SPDX-License-Identifier: MIT

package grid

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/rulial/gridgraph"
)

// Glyphs used by String and accepted by FromRows.
const (
	AliveGlyph = '#'
	DeadGlyph  = '.'
)

// Grid is an immutable H×W toroidal array of dead (0) / alive (1) cells.
type Grid struct {
	h, w  int
	cells []byte // row-major, len h*w, values 0 or 1
}

func validShape(h, w int) error {
	if h <= 0 || w <= 0 {
		return fmt.Errorf("shape %dx%d: %w", h, w, ErrInvalidShape)
	}

	return nil
}

// New returns an all-dead h×w grid.
func New(h, w int) (Grid, error) {
	if err := validShape(h, w); err != nil {
		return Grid{}, err
	}

	return Grid{h: h, w: w, cells: make([]byte, h*w)}, nil
}

// FromBytes copies a row-major 0/1 buffer into a new grid.
// Errors: ErrInvalidShape, ErrLengthMismatch, ErrInvalidCell.
func FromBytes(h, w int, cells []byte) (Grid, error) {
	if err := validShape(h, w); err != nil {
		return Grid{}, err
	}
	if len(cells) != h*w {
		return Grid{}, fmt.Errorf("FromBytes: %d cells for %dx%d: %w", len(cells), h, w, ErrLengthMismatch)
	}
	buf := make([]byte, len(cells))
	for i, v := range cells {
		if v > 1 {
			return Grid{}, fmt.Errorf("FromBytes: cell %d = %d: %w", i, v, ErrInvalidCell)
		}
		buf[i] = v
	}

	return Grid{h: h, w: w, cells: buf}, nil
}

// FromRows parses text rows. '.', '0' and ' ' are dead; '#', 'X', 'x', 'O',
// 'o', '*' and '1' are alive. All rows must have the same length.
func FromRows(rows ...string) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("FromRows: %w", ErrInvalidShape)
	}
	h, w := len(rows), len(rows[0])
	g, err := New(h, w)
	if err != nil {
		return Grid{}, fmt.Errorf("FromRows: %w", err)
	}
	for r, row := range rows {
		if len(row) != w {
			return Grid{}, fmt.Errorf("FromRows: row %d has %d cells, want %d: %w", r, len(row), w, ErrLengthMismatch)
		}
		for c := 0; c < w; c++ {
			switch row[c] {
			case DeadGlyph, '0', ' ':
			case AliveGlyph, 'X', 'x', 'O', 'o', '*', '1':
				g.cells[r*w+c] = 1
			default:
				return Grid{}, fmt.Errorf("FromRows: %q at (%d,%d): %w", row[c], r, c, ErrInvalidCell)
			}
		}
	}

	return g, nil
}

// Height returns the row count.
func (g Grid) Height() int { return g.h }

// Width returns the column count.
func (g Grid) Width() int { return g.w }

// Len returns the number of cells.
func (g Grid) Len() int { return len(g.cells) }

// At reports whether the cell at (r, c) is alive; coordinates wrap.
func (g Grid) At(r, c int) bool {
	return g.cells[gridgraph.Mod(r, g.h)*g.w+gridgraph.Mod(c, g.w)] == 1
}

// Cell returns the state of the cell at row-major index i (0 ≤ i < Len).
func (g Grid) Cell(i int) byte { return g.cells[i] }

// Bytes returns a copy of the row-major 0/1 cells.
func (g Grid) Bytes() []byte {
	out := make([]byte, len(g.cells))
	copy(out, g.cells)

	return out
}

// Signal returns the cells as float64 values, the activation signal used by
// the Hodge decomposition.
func (g Grid) Signal() []float64 {
	out := make([]float64, len(g.cells))
	for i, v := range g.cells {
		out[i] = float64(v)
	}

	return out
}

// Population returns the number of live cells.
func (g Grid) Population() int {
	n := 0
	for _, v := range g.cells {
		n += int(v)
	}

	return n
}

// Density returns Population / Len, or 0 for the zero Grid.
func (g Grid) Density() float64 {
	if len(g.cells) == 0 {
		return 0
	}

	return float64(g.Population()) / float64(len(g.cells))
}

// Equal reports whether g and o have the same shape and cells.
func (g Grid) Equal(o Grid) bool {
	if g.h != o.h || g.w != o.w {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}

	return true
}

// Translate returns g shifted by (dr, dc) on the torus: the cell at (r, c)
// moves to (r+dr, c+dc).
func (g Grid) Translate(dr, dc int) Grid {
	out := Grid{h: g.h, w: g.w, cells: make([]byte, len(g.cells))}
	for r := 0; r < g.h; r++ {
		nr := gridgraph.Mod(r+dr, g.h)
		for c := 0; c < g.w; c++ {
			out.cells[nr*g.w+gridgraph.Mod(c+dc, g.w)] = g.cells[r*g.w+c]
		}
	}

	return out
}

// Clusters returns the 8-connected components of live cells on the torus,
// each a slice of row-major indices.
// Complexity: O(H·W).
func (g Grid) Clusters() [][]int {
	lat := gridgraph.Lattice{Height: g.h, Width: g.w, Conn: gridgraph.Conn8, Wrap: true}

	return lat.ConnectedComponents(func(i int) bool { return g.cells[i] == 1 })
}

// String renders one text row per grid row using AliveGlyph and DeadGlyph.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(len(g.cells) + g.h)
	for r := 0; r < g.h; r++ {
		for c := 0; c < g.w; c++ {
			if g.cells[r*g.w+c] == 1 {
				sb.WriteByte(AliveGlyph)
			} else {
				sb.WriteByte(DeadGlyph)
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
