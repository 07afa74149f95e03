// SPDX-License-Identifier: MIT

package gridgraph

import (
	"fmt"

	"github.com/katalvlaran/rulial/sparse"
)

// Structure holds the fixed operators of an H×W 8-connected torus.
// It is immutable once built and safe to share between goroutines.
type Structure struct {
	Height, Width int
	Nodes         int // H·W
	Edges         int // rows of Coboundary

	Adjacency  *sparse.CSR // Nodes×Nodes, entry = number of offsets linking the pair
	Laplacian  *sparse.CSR // Nodes×Nodes, D − A
	Coboundary *sparse.CSR // Edges×Nodes, δ₀
}

// Build constructs the Structure for an h×w torus. It depends on (h, w) only.
//
// Errors:
//   - ErrInvalidShape when h or w is not positive.
//
// Complexity:
//   - Time O(h·w·log(h·w)), Memory O(h·w).
func Build(h, w int) (*Structure, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("Build(%d, %d): %w", h, w, ErrInvalidShape)
	}
	lat := Lattice{Height: h, Width: w, Conn: Conn8, Wrap: true}
	n := lat.Len()

	adj := make([]sparse.Triplet, 0, 8*n)
	lap := make([]sparse.Triplet, 0, 9*n)
	cob := make([]sparse.Triplet, 0, 8*n)
	edges := 0
	for idx := 0; idx < n; idx++ {
		degree := 0
		lat.Neighbors(idx, func(nidx int) {
			if nidx == idx {
				return
			}
			degree++
			adj = append(adj, sparse.Triplet{Row: idx, Col: nidx, Value: 1})
			lap = append(lap, sparse.Triplet{Row: idx, Col: nidx, Value: -1})
			if nidx > idx {
				cob = append(cob,
					sparse.Triplet{Row: edges, Col: idx, Value: -1},
					sparse.Triplet{Row: edges, Col: nidx, Value: 1},
				)
				edges++
			}
		})
		if degree > 0 {
			lap = append(lap, sparse.Triplet{Row: idx, Col: idx, Value: float64(degree)})
		}
	}

	s := &Structure{Height: h, Width: w, Nodes: n, Edges: edges}
	var err error
	if s.Adjacency, err = sparse.NewCSR(n, n, adj); err != nil {
		return nil, fmt.Errorf("Build: adjacency: %w", err)
	}
	if s.Laplacian, err = sparse.NewCSR(n, n, lap); err != nil {
		return nil, fmt.Errorf("Build: laplacian: %w", err)
	}
	if s.Coboundary, err = sparse.NewCSR(edges, n, cob); err != nil {
		return nil, fmt.Errorf("Build: coboundary: %w", err)
	}

	return s, nil
}

// Degrees returns the weighted degree of every node (row sums of A).
func (s *Structure) Degrees() []float64 {
	return s.Adjacency.RowSums()
}
