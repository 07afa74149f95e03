// Package gridgraph treats an H×W toroidal lattice of cells as a graph and
// builds the sparse operators the sheaf analyzer works on.
//
// What:
//
//   - Lattice: row-major indexing, 4- or 8-connectivity with optional
//     wraparound, and BFS connected components over any cell predicate.
//   - Structure: for a given (H, W), the 8-connected toroidal adjacency A,
//     the Laplacian L = D − A and the node-to-edge coboundary δ₀, all as
//     sparse.CSR.
//   - Cache: an explicit, concurrency-safe memo of Structures keyed by shape.
//
// Edge construction:
//
//   - Every cell visits all 8 offsets with wraparound; self-pairs (possible
//     on 1-wide or 1-tall lattices) are skipped, and repeated pairs (2-wide
//     lattices reach the same neighbour twice) keep their multiplicity in A.
//   - δ₀ gets one row per visit whose neighbour index exceeds the source
//     index: −1 at the source, +1 at the neighbour. Hence δ₀ᵀδ₀ = L and, for
//     H, W ≥ 3, the lattice has exactly 4·H·W edges.
//   - A 1×1 lattice has no edges; δ₀ is then 0×1.
//
// Complexity:
//
//   - Build: O(H·W·log(H·W)) (triplet sort), Memory O(H·W).
//   - ConnectedComponents: O(H·W·d), Memory O(H·W), d = 4 or 8.
//
// Errors:
//
//   - ErrInvalidShape: non-positive height or width.
package gridgraph
