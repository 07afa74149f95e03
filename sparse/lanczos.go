// SPDX-License-Identifier: MIT

// Package sparse - EigenSym: extreme eigenpairs of a symmetric operator.
//
// Implementation:
//   - Small operators (n ≤ denseThreshold) are materialized column by column
//     and handed to matrix.Eigen.
//   - Larger operators run rounds of Lanczos with full (twice-applied)
//     reorthogonalization. Every round starts from a fresh seeded vector
//     orthogonal to the locked set, so each round explores only the
//     complement of what is already known.
//   - Ritz pairs come from the tridiagonal T via matrix.Eigen. The pair i is
//     converged when |β_last·S[last,i]| ≤ Tol·‖A‖; converged pairs are locked
//     in order from the requested end and the first unconverged one stops it.
//   - A round that locks nothing doubles the Krylov dimension (up to the size
//     of the complement). A round that locks some but fewer than the missing
//     pairs grows it by half, up to max(4k+40, minKrylov); clustered or
//     degenerate ends of the spectrum need the wider subspace to separate.
//   - Once k pairs are locked, a round whose extreme Ritz value does not beat
//     the k-th best locked value ends the iteration.
//
// Determinism:
//   - The start vectors are drawn from rand.NewSource(Seed); identical input
//     and options produce identical output.
package sparse

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/rulial/matrix"
)

// Which selects the end of the spectrum EigenSym returns.
// The operators this package is used with are positive semidefinite, so
// algebraic order and magnitude order coincide.
type Which int

const (
	// SmallestMagnitude returns the k smallest eigenvalues, ascending.
	SmallestMagnitude Which = iota
	// LargestMagnitude returns the k largest eigenvalues, descending.
	LargestMagnitude
)

// String returns "smallest" or "largest".
func (w Which) String() string {
	switch w {
	case SmallestMagnitude:
		return "smallest"
	case LargestMagnitude:
		return "largest"
	default:
		return fmt.Sprintf("Which(%d)", int(w))
	}
}

// Solver defaults.
const (
	DefaultTol               = 1e-8
	DefaultMaxRestarts       = 200
	DefaultSeed        int64 = 42

	denseThreshold = 48
	minKrylov      = 60
	jacobiTol      = 1e-12
	jacobiSweeps   = 200
	breakdownTol   = 1e-13
)

// Options tunes EigenSym. Zero fields take the package defaults.
type Options struct {
	Tol         float64         // relative residual tolerance
	MaxIter     int             // Krylov dimension per round; 0 = max(2k+20, 60)
	MaxRestarts int             // maximum number of Lanczos rounds
	Seed        int64           // start-vector seed; 0 = DefaultSeed
	Ctx         context.Context // cancellation; nil = context.Background()
}

// DefaultOptions returns Options with every field set to its default.
func DefaultOptions() Options {
	return Options{
		Tol:         DefaultTol,
		MaxRestarts: DefaultMaxRestarts,
		Seed:        DefaultSeed,
		Ctx:         context.Background(),
	}
}

func (o Options) withDefaults() Options {
	if o.Tol <= 0 || math.IsNaN(o.Tol) {
		o.Tol = DefaultTol
	}
	if o.MaxRestarts <= 0 {
		o.MaxRestarts = DefaultMaxRestarts
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}

	return o
}

// Eigen holds eigenpairs in the order requested: Vectors[i] is the unit
// eigenvector of Values[i].
type Eigen struct {
	Values  []float64
	Vectors [][]float64
}

// EigenSym computes k extreme eigenpairs of the symmetric operator op.
//
// Errors:
//   - ErrBadShape (nil or empty operator), ErrInvalidK (k ∉ [1, n]), ErrUnknownWhich.
//   - ErrNoConvergence when the round budget runs out, the dense solver fails,
//     or opts.Ctx is done (the context error is wrapped as well).
//
// Complexity:
//   - Dense path: O(n³) per Jacobi sweep.
//   - Lanczos: O(rounds·m·(cost(Apply) + m·n) + rounds·m³) for Krylov dimension m.
func EigenSym(op Operator, k int, which Which, opts Options) (Eigen, error) {
	if op == nil || op.Dim() <= 0 {
		return Eigen{}, fmt.Errorf("EigenSym: %w", ErrBadShape)
	}
	n := op.Dim()
	if k < 1 || k > n {
		return Eigen{}, fmt.Errorf("EigenSym: k=%d, n=%d: %w", k, n, ErrInvalidK)
	}
	if which != SmallestMagnitude && which != LargestMagnitude {
		return Eigen{}, fmt.Errorf("EigenSym: %w", ErrUnknownWhich)
	}
	opts = opts.withDefaults()
	if err := opts.Ctx.Err(); err != nil {
		return Eigen{}, fmt.Errorf("EigenSym: %w: %w", ErrNoConvergence, err)
	}
	if n <= denseThreshold {
		return denseEigen(op, k, which)
	}

	s := &lanczosSolver{
		op:    op,
		n:     n,
		k:     k,
		which: which,
		opts:  opts,
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}

	return s.solve()
}

// denseEigen materializes op and runs Jacobi on it.
func denseEigen(op Operator, k int, which Which) (Eigen, error) {
	n := op.Dim()
	cols := make([][]float64, n)
	e := make([]float64, n)
	for j := 0; j < n; j++ {
		e[j] = 1
		cols[j] = make([]float64, n)
		op.Apply(cols[j], e)
		e[j] = 0
	}
	rows := make([][]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		rows[i] = make([]float64, n)
		for j = 0; j < n; j++ {
			// cols[j][i] is A[i,j]; averaging removes round-off asymmetry.
			rows[i][j] = 0.5 * (cols[j][i] + cols[i][j])
		}
	}
	a, err := matrix.NewFromRows(rows)
	if err != nil {
		return Eigen{}, fmt.Errorf("EigenSym: %w: %w", ErrNaNInf, err)
	}
	vals, vecs, err := matrix.Eigen(a, jacobiTol, jacobiSweeps)
	if err != nil {
		return Eigen{}, fmt.Errorf("EigenSym: %w: %w", ErrNoConvergence, err)
	}

	out := Eigen{Values: make([]float64, k), Vectors: make([][]float64, k)}
	var idx int
	for i = 0; i < k; i++ {
		idx = i
		if which == LargestMagnitude {
			idx = n - 1 - i
		}
		out.Values[i] = vals[idx]
		out.Vectors[i], _ = vecs.Column(idx)
	}

	return out, nil
}

type lanczosSolver struct {
	op    Operator
	n, k  int
	which Which
	opts  Options
	rng   *rand.Rand

	lockedVals []float64
	lockedVecs [][]float64
	anorm      float64 // running estimate of ‖A‖
}

// ritzRound is the outcome of one Lanczos run, ordered from the requested end.
type ritzRound struct {
	values []float64
	resid  []float64
	cols   []int         // column of s for each ordered entry
	s      *matrix.Dense // eigenvectors of T
	basis  [][]float64
}

func (l *lanczosSolver) solve() (Eigen, error) {
	m := l.opts.MaxIter
	if m <= 0 {
		m = max(2*l.k+20, minKrylov)
	}
	maxM := max(4*l.k+40, minKrylov, m)

	var (
		round, free, mr int
		r               ritzRound
		ok              bool
		err             error
	)
	for round = 0; round < l.opts.MaxRestarts; round++ {
		if err = l.opts.Ctx.Err(); err != nil {
			return Eigen{}, fmt.Errorf("EigenSym: round %d: %w: %w", round, ErrNoConvergence, err)
		}
		free = l.n - len(l.lockedVecs)
		if free <= 0 {
			break
		}
		mr = m
		if mr > free {
			mr = free
		}
		if r, ok, err = l.run(mr); err != nil {
			return Eigen{}, err
		}
		if !ok {
			break // locked set already spans the space
		}
		if len(l.lockedVals) >= l.k && !l.beatsKth(r.values[0]) {
			break
		}
		missing := l.k - len(l.lockedVals)
		added := l.lock(r)
		switch {
		case added == 0 && mr < free:
			m = 2 * mr
		case added < missing && m < maxM:
			m = min(m+m/2, maxM)
		}
	}
	if len(l.lockedVals) < l.k {
		return Eigen{}, fmt.Errorf("EigenSym: %d of %d pairs after %d rounds: %w",
			len(l.lockedVals), l.k, round, ErrNoConvergence)
	}

	return l.result(), nil
}

// run performs one Lanczos pass of at most m steps in the complement of the
// locked set. ok is false when no start vector survives deflation.
func (l *lanczosSolver) run(m int) (ritzRound, bool, error) {
	v0 := make([]float64, l.n)
	for i := range v0 {
		v0[i] = l.rng.NormFloat64()
	}
	l.deflate(v0)
	l.deflate(v0)
	nrm := matrix.Norm(v0)
	if nrm <= breakdownTol*math.Sqrt(float64(l.n)) {
		return ritzRound{}, false, nil
	}
	scale(v0, 1/nrm)

	basis := make([][]float64, 1, m)
	basis[0] = v0
	alpha := make([]float64, 0, m)
	beta := make([]float64, 0, m)
	w := make([]float64, l.n)

	var (
		j, pass  int
		a, b, c  float64
		betaLast float64
		u, next  []float64
	)
	for j = 0; j < m; j++ {
		l.op.Apply(w, basis[j])
		a, _ = matrix.Dot(w, basis[j]) // every Krylov vector has length n
		alpha = append(alpha, a)
		axpy(w, -a, basis[j])
		if j > 0 {
			axpy(w, -beta[j-1], basis[j-1])
		}
		for pass = 0; pass < 2; pass++ {
			for _, u = range basis {
				c, _ = matrix.Dot(w, u)
				axpy(w, -c, u)
			}
			l.deflate(w)
		}
		b = matrix.Norm(w)
		if est := math.Abs(a) + b; est > l.anorm {
			l.anorm = est
		}
		if j == m-1 {
			betaLast = b
			break
		}
		if b <= breakdownTol*math.Max(1, l.anorm) {
			betaLast = 0 // invariant subspace: every Ritz pair is exact
			break
		}
		beta = append(beta, b)
		next = make([]float64, l.n)
		for i := range w {
			next[i] = w[i] / b
		}
		basis = append(basis, next)
	}

	size := len(alpha)
	t, err := matrix.NewDense(size, size)
	if err != nil {
		return ritzRound{}, false, fmt.Errorf("EigenSym: %w", err)
	}
	for j = 0; j < size; j++ {
		_ = t.Set(j, j, alpha[j])
		if j+1 < size {
			_ = t.Set(j, j+1, beta[j])
			_ = t.Set(j+1, j, beta[j])
		}
	}
	vals, s, err := matrix.Eigen(t, jacobiTol, jacobiSweeps)
	if err != nil {
		return ritzRound{}, false, fmt.Errorf("EigenSym: tridiagonal: %w: %w", ErrNoConvergence, err)
	}

	r := ritzRound{
		values: make([]float64, size),
		resid:  make([]float64, size),
		cols:   make([]int, size),
		s:      s,
		basis:  basis,
	}
	var col int
	var last float64
	for j = 0; j < size; j++ {
		col = j
		if l.which == LargestMagnitude {
			col = size - 1 - j
		}
		last, _ = s.At(size-1, col)
		r.values[j] = vals[col]
		r.resid[j] = math.Abs(betaLast * last)
		r.cols[j] = col
		if math.Abs(vals[col]) > l.anorm {
			l.anorm = math.Abs(vals[col])
		}
	}

	return r, true, nil
}

// lock appends the converged prefix of r to the locked set and returns how
// many pairs were added.
func (l *lanczosSolver) lock(r ritzRound) int {
	tolAbs := l.opts.Tol * l.anorm
	added := 0
	var (
		p, j int
		y    []float64
		sij  float64
		nrm  float64
	)
	for p = range r.values {
		if r.resid[p] > tolAbs {
			break
		}
		y = make([]float64, l.n)
		for j = range r.basis {
			sij, _ = r.s.At(j, r.cols[p])
			axpy(y, sij, r.basis[j])
		}
		l.deflate(y)
		nrm = matrix.Norm(y)
		if nrm < 0.5 {
			break // direction already represented in the locked set
		}
		scale(y, 1/nrm)
		l.lockedVals = append(l.lockedVals, r.values[p])
		l.lockedVecs = append(l.lockedVecs, y)
		added++
	}

	return added
}

// beatsKth reports whether x lies strictly beyond the k-th best locked value.
func (l *lanczosSolver) beatsKth(x float64) bool {
	order := l.order()
	kth := l.lockedVals[order[l.k-1]]
	margin := l.opts.Tol * math.Max(l.anorm, 1)
	if l.which == LargestMagnitude {
		return x > kth+margin
	}

	return x < kth-margin
}

// order returns locked indices sorted from the requested end.
func (l *lanczosSolver) order() []int {
	idx := make([]int, len(l.lockedVals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if l.which == LargestMagnitude {
			return l.lockedVals[idx[a]] > l.lockedVals[idx[b]]
		}
		return l.lockedVals[idx[a]] < l.lockedVals[idx[b]]
	})

	return idx
}

func (l *lanczosSolver) result() Eigen {
	order := l.order()
	out := Eigen{Values: make([]float64, l.k), Vectors: make([][]float64, l.k)}
	for i := 0; i < l.k; i++ {
		out.Values[i] = l.lockedVals[order[i]]
		out.Vectors[i] = l.lockedVecs[order[i]]
	}

	return out
}

// deflate removes the components of x along every locked vector.
func (l *lanczosSolver) deflate(x []float64) {
	for _, u := range l.lockedVecs {
		c, _ := matrix.Dot(x, u)
		axpy(x, -c, u)
	}
}

// axpy computes y += alpha·x.
func axpy(y []float64, alpha float64, x []float64) {
	if alpha == 0 {
		return
	}
	for i := range y {
		y[i] += alpha * x[i]
	}
}

func scale(x []float64, f float64) {
	for i := range x {
		x[i] *= f
	}
}
