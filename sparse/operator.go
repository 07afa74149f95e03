// SPDX-License-Identifier: MIT

package sparse

import "fmt"

// Operator is a square linear map on R^Dim().
// Apply writes A·x into dst; both slices have length Dim() and must not alias.
type Operator interface {
	Dim() int
	Apply(dst, x []float64)
}

// symmetricCSR adapts a square CSR to Operator.
type symmetricCSR struct{ m *CSR }

func (s symmetricCSR) Dim() int               { return s.m.rows }
func (s symmetricCSR) Apply(dst, x []float64) { s.m.mulVecInto(dst, x) }

// AsOperator exposes a square CSR as an Operator.
// Errors: ErrNotSquare.
func AsOperator(m *CSR) (Operator, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("AsOperator: %dx%d: %w", m.rows, m.cols, ErrNotSquare)
	}

	return symmetricCSR{m: m}, nil
}

// normalOperator applies AᵀA without forming it.
type normalOperator struct {
	a   *CSR
	tmp []float64
}

// NormalOperator returns the cols×cols operator AᵀA. Its eigenvalues are the
// squared singular values of A. The returned operator keeps a scratch buffer
// and must not be shared across goroutines.
func NormalOperator(a *CSR) Operator {
	return &normalOperator{a: a, tmp: make([]float64, a.rows)}
}

func (n *normalOperator) Dim() int { return n.a.cols }

func (n *normalOperator) Apply(dst, x []float64) {
	n.a.mulVecInto(n.tmp, x)
	n.a.mulTransVecInto(dst, n.tmp)
}
