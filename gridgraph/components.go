// SPDX-License-Identifier: MIT

package gridgraph

// ConnectedComponents finds every contiguous region of cells for which
// member(idx) is true, according to l.Conn and l.Wrap.
// Returns one slice of row-major indices per component, components ordered
// by their smallest index, cells in BFS order.
//
// Time:   O(H·W·d), where d = 4 or 8.
// Memory: O(H·W) for visited flags and output.
func (l Lattice) ConnectedComponents(member func(idx int) bool) [][]int {
	total := l.Len()
	seen := make([]bool, total)
	var comps [][]int

	for i0 := 0; i0 < total; i0++ {
		if seen[i0] || !member(i0) {
			continue
		}
		queue := []int{i0}
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			l.Neighbors(queue[qi], func(v int) {
				if !seen[v] && member(v) {
					seen[v] = true
					queue = append(queue, v)
				}
			})
		}
		comps = append(comps, queue)
	}

	return comps
}

// Components returns the connected components of the structure's adjacency
// graph, each as a slice of node indices. A well-formed torus has exactly one.
// Complexity: O(n + nnz(A)).
func (s *Structure) Components() [][]int {
	n := s.Nodes
	seen := make([]bool, n)
	var comps [][]int

	for i0 := 0; i0 < n; i0++ {
		if seen[i0] {
			continue
		}
		queue := []int{i0}
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			s.Adjacency.Row(queue[qi], func(v int, _ float64) {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			})
		}
		comps = append(comps, queue)
	}

	return comps
}
