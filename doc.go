// Package rulial classifies two-dimensional outer-totalistic cellular
// automata by the sheaf structure of the grids they produce.
//
// 🚀 What is rulial?
//
//	A small pipeline that takes a B/S rule such as B3/S23 and answers
//	"what kind of dynamics is this?":
//		• Engine: toroidal Moore-neighbourhood simulation of any B/S rule
//		• Grid graph: the 8-connected torus as nodes, edges, Laplacian and coboundary
//		• Cohomology: dim H⁰ and dim H¹ from the coboundary rank
//		• Spectrum: spectral gap and effective resistance of the Laplacian
//		• Hodge: harmonic overlap and gradient norm of the final grid
//		• Monodromy: growth or decay of a horizontal band probe
//		• Classifier: resonant-frozen, resonant-active, tense or mixed
//
// ✨ Around the core
//
//   - Sparse Lanczos eigensolver with a dense Jacobi path for small graphs
//   - Solver failures degrade to documented fallbacks, never to errors
//   - Parallel scans of random or condensate rule families
//   - SQLite rule atlas with list, stats, show and import
//   - JSON, YAML and TOML report records
//
// Packages:
//
//	rule/       B/S rule parsing, canonical strings, random rules
//	grid/       immutable 0/1 grids, initializers, clusters
//	engine/     one-step update and multi-step simulation
//	matrix/     dense kernels and the Jacobi eigen decomposition
//	sparse/     CSR matrices, operators and the Lanczos eigensolver
//	gridgraph/  torus graph structure with a shape cache
//	sheaf/      cohomology, spectrum, Hodge, monodromy and the Analyzer
//	pipeline/   simulate, analyze and assign Wolfram class and phase
//	report/     flat records and their encoders
//	atlas/      the SQLite rule atlas
//	scan/       bounded parallel scans with Prometheus metrics
//	config/     viper-backed configuration and logger setup
//	cmd/rulial  the command-line tool
//
// Quick example:
//
//	rulial analyze B3/S23
//	rulial scan --mode condensate --count 100
//	rulial atlas list --type resonant-frozen
//
//	go install github.com/katalvlaran/rulial/cmd/rulial@latest
package rulial
