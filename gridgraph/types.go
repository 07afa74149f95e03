// SPDX-License-Identifier: MIT

package gridgraph

// Connectivity selects neighbour connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

var (
	offsets4 = [][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}
	offsets8 = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// Offsets returns the (dRow, dCol) neighbour offsets for c in a fixed order.
// The slice is shared; callers must not modify it.
func (c Connectivity) Offsets() [][2]int {
	if c == Conn8 {
		return offsets8
	}

	return offsets4
}

// Lattice describes an H×W grid of cells addressed row-major:
// index(r, c) = r·Width + c.
type Lattice struct {
	Height, Width int
	Conn          Connectivity
	Wrap          bool // toroidal boundary on both axes
}

// Len returns Height·Width.
func (l Lattice) Len() int { return l.Height * l.Width }

// Index maps (r, c) to a row-major index. With Wrap the coordinates are
// reduced modulo the shape first.
// Complexity: O(1).
func (l Lattice) Index(r, c int) int {
	if l.Wrap {
		r, c = Mod(r, l.Height), Mod(c, l.Width)
	}

	return r*l.Width + c
}

// Coordinate converts a row-major index back to (r, c).
// Complexity: O(1).
func (l Lattice) Coordinate(idx int) (r, c int) {
	return idx / l.Width, idx % l.Width
}

// InBounds reports whether (r, c) addresses a cell. Always true with Wrap.
func (l Lattice) InBounds(r, c int) bool {
	if l.Wrap {
		return true
	}

	return r >= 0 && r < l.Height && c >= 0 && c < l.Width
}

// Neighbors calls fn with the index of every neighbour of idx, one call per
// offset. On a wrapped lattice narrower than 3 the same index (or idx
// itself) may be reported more than once.
func (l Lattice) Neighbors(idx int, fn func(n int)) {
	r, c := l.Coordinate(idx)
	for _, d := range l.Conn.Offsets() {
		nr, nc := r+d[0], c+d[1]
		if !l.InBounds(nr, nc) {
			continue
		}
		fn(l.Index(nr, nc))
	}
}

// Mod returns a mod m in [0, m).
func Mod(a, m int) int {
	a %= m
	if a < 0 {
		a += m
	}

	return a
}
