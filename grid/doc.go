// SPDX-License-Identifier: MIT

// Package grid defines the fixed-size toroidal binary grid that cellular
// automaton generations are made of.
//
// A Grid is a persistent snapshot: no method mutates it, and every
// transformation (Translate, the engine's Step) returns a new Grid. Cells are
// addressed (row, col) and wrap on both axes; Bytes exposes the row-major
// 0/1 encoding consumed by the analyzers.
package grid
