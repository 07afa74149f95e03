// Package engine advances outer-totalistic cellular automata on toroidal
// grids.
//
// Each cell counts its live Moore neighbours (8 offsets, wrapping on both
// axes); a dead cell is born when the count is in the rule's birth set, a
// live cell survives when it is in the survival set, and every other cell is
// dead in the next generation.
//
// Simulate produces steps+1 generations, generation 0 first, from one of
// three initializers selected with options: uniform random at a density
// (default, density 0.5), a single centre seed, or a caller-supplied grid.
// Randomness is explicit and reproducible: WithSeed or WithRand, and a zero
// seed selects a fixed default.
package engine
