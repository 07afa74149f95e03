// Package sheaf classifies cellular automaton rules by analysing the
// 8-connected toroidal grid graph as a cellular sheaf.
//
// What:
//
//   - EstimateCohomology: approximate dimensions of H⁰ and H¹ from a truncated
//     singular spectrum of the coboundary δ₀.
//   - AnalyzeSpectrum: spectral gap and effective resistance from the smallest
//     Laplacian eigenvalues.
//   - Decompose / ProjectKernel: Hodge split of a grid's activation signal into
//     its projection on ker(L) (harmonic) and the residual (gradient).
//   - EstimateMonodromy: growth ratio of a band wrapped around the torus,
//     mapped to a signed index in (−1, 1).
//   - Classify: the four-way SheafType decision table.
//   - Analyzer: runs the whole pipeline for one rule, owning the operator
//     cache, memoizing shape-only results and substituting fallbacks.
//
// Failure model:
//
//   - Rule strings are the only user input; a malformed one is the only
//     error Analyzer.ClassifyRule returns.
//   - Solver non-convergence (sparse.ErrNoConvergence, including an expired
//     context) is returned by the per-stage functions. The Analyzer replaces
//     the failed stage with EulerCohomology, FallbackSpectrum or MeanHodge and
//     logs the substitution at Warn level.
//   - Degenerate geometry yields sentinels, never errors: a spectral gap of 0
//     and an effective resistance of +Inf when no eigenvalue exceeds ZeroTol.
package sheaf
