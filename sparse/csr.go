// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/rulial/matrix"
)

// Triplet is one (row, col, value) entry used to assemble a CSR.
type Triplet struct {
	Row, Col int
	Value    float64
}

// CSR is an immutable compressed-sparse-row matrix.
//   - indptr has rows+1 entries; row i occupies [indptr[i], indptr[i+1]).
//   - column indices are strictly increasing within a row.
//
// Zero-sized shapes are legal (e.g. the coboundary of a single-node grid has
// zero rows).
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	values     []float64
}

// NewCSR assembles a rows×cols CSR from triplets. Duplicate (row, col)
// entries are summed; entries that sum to exactly zero are kept so the
// sparsity pattern reflects the structure that was built.
//
// Errors:
//   - ErrBadShape (negative dims), ErrIndexOutOfRange, ErrNaNInf.
//
// Complexity:
//   - Time O(nnz·log nnz), Space O(nnz + rows).
func NewCSR(rows, cols int, entries []Triplet) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}
	sorted := make([]Triplet, len(entries))
	copy(sorted, entries)
	for i, e := range sorted {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("NewCSR: triplet %d (%d,%d): %w", i, e.Row, e.Col, ErrIndexOutOfRange)
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return nil, fmt.Errorf("NewCSR: triplet %d: %w", i, ErrNaNInf)
		}
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Row != sorted[b].Row {
			return sorted[a].Row < sorted[b].Row
		}
		return sorted[a].Col < sorted[b].Col
	})

	m := &CSR{
		rows:    rows,
		cols:    cols,
		indptr:  make([]int, rows+1),
		indices: make([]int, 0, len(sorted)),
		values:  make([]float64, 0, len(sorted)),
	}
	last := -1
	for _, e := range sorted {
		key := e.Row*cols + e.Col
		if key == last {
			m.values[len(m.values)-1] += e.Value
			continue
		}
		last = key
		m.indices = append(m.indices, e.Col)
		m.values = append(m.values, e.Value)
		m.indptr[e.Row+1]++
	}
	for i := 0; i < rows; i++ {
		m.indptr[i+1] += m.indptr[i]
	}

	return m, nil
}

// Rows returns the row count.
func (m *CSR) Rows() int { return m.rows }

// Cols returns the column count.
func (m *CSR) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.values) }

// At returns the entry at (i, j), zero when it is not stored.
// Complexity: O(log row-nnz).
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("CSR.At(%d,%d): %w", i, j, ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	k := lo + sort.SearchInts(m.indices[lo:hi], j)
	if k < hi && m.indices[k] == j {
		return m.values[k], nil
	}

	return 0, nil
}

// Row calls fn for every stored entry of row i in column order.
func (m *CSR) Row(i int, fn func(j int, v float64)) {
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		fn(m.indices[k], m.values[k])
	}
}

// MulVec returns y = M·x.
// Errors: ErrDimensionMismatch.
// Complexity: O(nnz).
func (m *CSR) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, fmt.Errorf("CSR.MulVec: len(x)=%d, cols=%d: %w", len(x), m.cols, ErrDimensionMismatch)
	}
	y := make([]float64, m.rows)
	m.mulVecInto(y, x)

	return y, nil
}

// MulTransVec returns y = Mᵀ·x.
// Errors: ErrDimensionMismatch.
// Complexity: O(nnz).
func (m *CSR) MulTransVec(x []float64) ([]float64, error) {
	if len(x) != m.rows {
		return nil, fmt.Errorf("CSR.MulTransVec: len(x)=%d, rows=%d: %w", len(x), m.rows, ErrDimensionMismatch)
	}
	y := make([]float64, m.cols)
	m.mulTransVecInto(y, x)

	return y, nil
}

func (m *CSR) mulVecInto(dst, x []float64) {
	var acc float64
	for i := 0; i < m.rows; i++ {
		acc = 0
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			acc += m.values[k] * x[m.indices[k]]
		}
		dst[i] = acc
	}
}

func (m *CSR) mulTransVecInto(dst, x []float64) {
	for j := range dst {
		dst[j] = 0
	}
	for i := 0; i < m.rows; i++ {
		if x[i] == 0 {
			continue
		}
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			dst[m.indices[k]] += m.values[k] * x[i]
		}
	}
}

// RowSums returns Σ_j M[i,j] for every row.
// Complexity: O(nnz).
func (m *CSR) RowSums() []float64 {
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			out[i] += m.values[k]
		}
	}

	return out
}

// Diagonal returns M[i,i] for i < min(rows, cols).
// Complexity: O(min(rows,cols)·log row-nnz).
func (m *CSR) Diagonal() []float64 {
	n := m.rows
	if m.cols < n {
		n = m.cols
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i], _ = m.At(i, i)
	}

	return out
}

// IsSymmetric reports whether M is square and |M[i,j]-M[j,i]| ≤ tol everywhere.
// Complexity: O(nnz·log row-nnz).
func (m *CSR) IsSymmetric(tol float64) bool {
	if m.rows != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			j := m.indices[k]
			vji, _ := m.At(j, i)
			if math.Abs(m.values[k]-vji) > tol {
				return false
			}
		}
	}

	return true
}

// Dense materializes M as a matrix.Dense. Intended for small operators only.
// Errors: matrix.ErrInvalidDimensions for zero-sized shapes.
// Complexity: O(rows·cols).
func (m *CSR) Dense() (*matrix.Dense, error) {
	d, err := matrix.NewDense(m.rows, m.cols)
	if err != nil {
		return nil, fmt.Errorf("CSR.Dense: %w", err)
	}
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if err = d.Set(i, m.indices[k], m.values[k]); err != nil {
				return nil, fmt.Errorf("CSR.Dense: %w", err)
			}
		}
	}

	return d, nil
}
