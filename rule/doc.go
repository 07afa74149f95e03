// Package rule parses and represents outer-totalistic 2D cellular automaton
// rules in birth/survival notation ("B3/S23").
//
// A Spec is two 9-bit masks, one bit per Moore neighbour count 0..8. It is a
// small comparable value: == is structural equality and a Spec can key a map.
// Spec.String renders the canonical form with digits in ascending order, so
// Parse(s).String() normalizes digit order and letter case.
package rule
