// SPDX-License-Identifier: MIT

package sheaf

import (
	"math"

	"github.com/katalvlaran/rulial/matrix"
	"github.com/katalvlaran/rulial/sparse"
)

// zeroNorm is the signal norm under which a signal counts as empty.
const zeroNorm = 1e-10

// Hodge is the split of a unit signal f into P·f (projection on the kernel of
// L) and f − P·f. HarmonicOverlap² + GradientNorm² = 1 for any non-zero signal.
type Hodge struct {
	HarmonicOverlap float64 `json:"harmonic_overlap" yaml:"harmonic_overlap" toml:"harmonic_overlap"`
	GradientNorm    float64 `json:"gradient_norm" yaml:"gradient_norm" toml:"gradient_norm"`
}

// unitSignal pads with zeros or truncates signal to n entries and scales it
// to unit norm. ok is false for a (numerically) zero signal.
func unitSignal(signal []float64, n int) (f []float64, ok bool) {
	f = make([]float64, n)
	copy(f, signal)
	nrm := matrix.Norm(f)
	if nrm < zeroNorm {
		return nil, false
	}
	for i := range f {
		f[i] /= nrm
	}

	return f, true
}

// MeanHodge projects the unit signal onto the normalized constant vector,
// the kernel of any connected graph's Laplacian.
func MeanHodge(signal []float64, n int) Hodge {
	if n <= 0 {
		return Hodge{}
	}
	f, ok := unitSignal(signal, n)
	if !ok {
		return Hodge{}
	}
	var sum float64
	for _, v := range f {
		sum += v
	}
	h := math.Min(1, math.Abs(sum)/math.Sqrt(float64(n)))

	return Hodge{HarmonicOverlap: h, GradientNorm: math.Sqrt(math.Max(0, 1-h*h))}
}

// ProjectKernel splits signal against eigenpairs sorted by |λ| ascending.
// The kernel basis is every vector with |λ| < ZeroTol or, when there is
// none, the first (smallest) vector alone.
func ProjectKernel(signal []float64, eig sparse.Eigen) Hodge {
	if len(eig.Vectors) == 0 {
		return MeanHodge(signal, len(signal))
	}
	n := len(eig.Vectors[0])
	f, ok := unitSignal(signal, n)
	if !ok {
		return Hodge{}
	}

	var basis [][]float64
	for i, v := range eig.Values {
		if math.Abs(v) < ZeroTol {
			basis = append(basis, eig.Vectors[i])
		}
	}
	if len(basis) == 0 {
		basis = eig.Vectors[:1]
	}

	harmonic := make([]float64, n)
	var c float64
	var i int
	for _, u := range basis {
		c = 0
		for i = range f {
			c += u[i] * f[i]
		}
		for i = range harmonic {
			harmonic[i] += c * u[i]
		}
	}
	h := matrix.Norm(harmonic)
	if h < zeroNorm {
		return Hodge{HarmonicOverlap: 0, GradientNorm: 1}
	}
	for i = range f {
		f[i] -= harmonic[i]
	}

	return Hodge{HarmonicOverlap: h, GradientNorm: matrix.Norm(f)}
}

// Decompose computes the Hodge split of signal over the Laplacian l using its
// k smallest eigenpairs. Graphs too small for k ≥ 1 (n ≤ 2) use MeanHodge.
//
// Errors: those of SmallestEigenpairs; callers substitute MeanHodge.
func Decompose(signal []float64, l *sparse.CSR, k int, opts sparse.Options) (Hodge, error) {
	if l == nil || l.Rows() == 0 {
		return Hodge{}, ErrNilOperator
	}
	n := l.Rows()
	if _, ok := unitSignal(signal, n); !ok {
		return Hodge{}, nil
	}
	if k > n-2 {
		k = n - 2
	}
	if k < 1 {
		return MeanHodge(signal, n), nil
	}
	eig, err := SmallestEigenpairs(l, k, opts)
	if err != nil {
		return Hodge{}, err
	}

	return ProjectKernel(signal, eig), nil
}
