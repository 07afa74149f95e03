// SPDX-License-Identifier: MIT
package grid_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/rulial/grid"
	"github.com/stretchr/testify/require"
)

func TestFromRowsAndString(t *testing.T) {
	g, err := grid.FromRows(
		".X.",
		"..#",
		"o1*",
	)
	require.NoError(t, err)
	require.Equal(t, 3, g.Height())
	require.Equal(t, 3, g.Width())
	require.Equal(t, 5, g.Population())
	require.Equal(t, ".#.\n..#\n###\n", g.String())
	require.Equal(t, []byte{0, 1, 0, 0, 0, 1, 1, 1, 1}, g.Bytes())
	require.InDelta(t, 5.0/9.0, g.Density(), 1e-12)

	_, err = grid.FromRows("..", "...")
	require.ErrorIs(t, err, grid.ErrLengthMismatch)
	_, err = grid.FromRows("..?")
	require.ErrorIs(t, err, grid.ErrInvalidCell)
	_, err = grid.FromRows()
	require.ErrorIs(t, err, grid.ErrInvalidShape)
	_, err = grid.FromRows("")
	require.ErrorIs(t, err, grid.ErrInvalidShape)
}

func TestFromBytes(t *testing.T) {
	buf := []byte{1, 0, 0, 1}
	g, err := grid.FromBytes(2, 2, buf)
	require.NoError(t, err)
	buf[0] = 0
	require.True(t, g.At(0, 0), "grid owns its cells")

	_, err = grid.FromBytes(2, 2, []byte{1})
	require.ErrorIs(t, err, grid.ErrLengthMismatch)
	_, err = grid.FromBytes(1, 1, []byte{2})
	require.ErrorIs(t, err, grid.ErrInvalidCell)
	_, err = grid.FromBytes(0, 1, nil)
	require.ErrorIs(t, err, grid.ErrInvalidShape)
}

func TestAtWraps(t *testing.T) {
	g, err := grid.FromRows(
		"#..",
		"...",
		"..#",
	)
	require.NoError(t, err)
	require.True(t, g.At(0, 0))
	require.True(t, g.At(3, 3))
	require.True(t, g.At(-1, -1))
	require.False(t, g.At(-1, 0))
}

func TestBytesIsACopy(t *testing.T) {
	g, err := grid.SingleSeed(3, 3)
	require.NoError(t, err)
	b := g.Bytes()
	b[4] = 0
	require.Equal(t, 1, g.Population())
	require.Equal(t, byte(1), g.Cell(4))
}

func TestTranslate(t *testing.T) {
	g, err := grid.FromRows(
		"#...",
		"....",
		"....",
	)
	require.NoError(t, err)
	moved := g.Translate(1, -1)
	require.True(t, moved.At(1, 3))
	require.Equal(t, 1, moved.Population())
	require.True(t, g.At(0, 0), "translation leaves the source untouched")
	require.True(t, g.Equal(moved.Translate(-1, 1)))
	require.False(t, g.Equal(moved))
}

func TestEqualShape(t *testing.T) {
	a, _ := grid.New(2, 3)
	b, _ := grid.New(3, 2)
	require.False(t, a.Equal(b))
	c, _ := grid.New(2, 3)
	require.True(t, a.Equal(c))
}

func TestInitializers(t *testing.T) {
	seed, err := grid.SingleSeed(5, 4)
	require.NoError(t, err)
	require.Equal(t, 1, seed.Population())
	require.True(t, seed.At(2, 2))

	band, err := grid.HorizontalBand(6, 5, 3)
	require.NoError(t, err)
	require.Equal(t, 5, band.Population())
	for c := 0; c < 5; c++ {
		require.True(t, band.At(3, c))
	}
	wrapped, err := grid.HorizontalBand(6, 5, 9)
	require.NoError(t, err)
	require.True(t, band.Equal(wrapped))

	_, err = grid.SingleSeed(0, 3)
	require.ErrorIs(t, err, grid.ErrInvalidShape)
}

func TestRandom(t *testing.T) {
	a, err := grid.Random(16, 16, 0.3, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	b, err := grid.Random(16, 16, 0.3, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	require.True(t, a.Equal(b))
	require.InDelta(t, 0.3, a.Density(), 0.1)

	empty, err := grid.Random(4, 4, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, 0, empty.Population())
	full, err := grid.Random(4, 4, 1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, 16, full.Population())

	_, err = grid.Random(4, 4, 1.5, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, grid.ErrInvalidDensity)
}

func TestClusters(t *testing.T) {
	g, err := grid.FromRows(
		"##....",
		"......",
		"...#..",
		"....#.",
		"......",
		"#....#",
	)
	require.NoError(t, err)
	// (0,0),(0,1),(5,0),(5,5) meet across both seams; the diagonal pair is separate.
	clusters := g.Clusters()
	require.Len(t, clusters, 2)
	require.Len(t, clusters[0], 4)
	require.Len(t, clusters[1], 2)

	dead, _ := grid.New(3, 3)
	require.Empty(t, dead.Clusters())
}
