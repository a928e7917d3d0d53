package spatial

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeGrid(t *testing.T) {
	grid, err := MakeGrid(Point{Lat: 2, Lon: 4}, Point{Lat: 0, Lon: 0}, 2)
	require.NoError(t, err)
	require.Len(t, grid, 4)

	want := []GridCell{
		{Index: 0, Row: 0, Col: 0, LowerLeft: Point{0, 0}, UpperRight: Point{1, 2}},
		{Index: 1, Row: 0, Col: 1, LowerLeft: Point{0, 2}, UpperRight: Point{1, 4}},
		{Index: 2, Row: 1, Col: 0, LowerLeft: Point{1, 0}, UpperRight: Point{2, 2}},
		{Index: 3, Row: 1, Col: 1, LowerLeft: Point{1, 2}, UpperRight: Point{2, 4}},
	}
	assert.Equal(t, want, grid)

	assert.Equal(t, [][2]float64{{0, 1}, {2, 1}, {2, 0}, {0, 0}, {0, 1}}, grid[0].Ring())
}

func TestMakeGridSingleCell(t *testing.T) {
	grid, err := MakeGrid(Point{Lat: 35.1, Lon: 135.1}, Point{Lat: 35, Lon: 135}, 1)
	require.NoError(t, err)
	require.Len(t, grid, 1)
	assert.Equal(t, Point{Lat: 35, Lon: 135}, grid[0].LowerLeft)
	assert.Equal(t, Point{Lat: 35.1, Lon: 135.1}, grid[0].UpperRight)
}

func TestMakeGridLargestSize(t *testing.T) {
	grid, err := MakeGrid(Point{1, 1}, Point{0, 0}, MaxGridSize)
	require.NoError(t, err)
	assert.Len(t, grid, MaxGridSize*MaxGridSize)
	assert.Equal(t, Point{1, 1}, grid[len(grid)-1].UpperRight)
}

func TestMakeGridErrors(t *testing.T) {
	tests := []struct {
		name                  string
		upperRight, lowerLeft Point
		n                     int
	}{
		{name: "zero size", upperRight: Point{1, 1}, lowerLeft: Point{0, 0}, n: 0},
		{name: "inverted latitude", upperRight: Point{0, 1}, lowerLeft: Point{1, 0}, n: 2},
		{name: "flat box", upperRight: Point{1, 0}, lowerLeft: Point{0, 0}, n: 2},
		{name: "out of range", upperRight: Point{91, 1}, lowerLeft: Point{0, 0}, n: 2},
		{name: "too many cells", upperRight: Point{1, 1}, lowerLeft: Point{0, 0}, n: MaxGridSize + 1},
		{name: "size overflowing n*n", upperRight: Point{1, 1}, lowerLeft: Point{0, 0}, n: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakeGrid(tt.upperRight, tt.lowerLeft, tt.n)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGrid))
		})
	}
}

func TestCountPointsPerCell(t *testing.T) {
	grid, err := MakeGrid(Point{Lat: 2, Lon: 2}, Point{Lat: 0, Lon: 0}, 2)
	require.NoError(t, err)

	points := []Point{
		{0.5, 0.5}, // row 0, col 0
		{0.5, 1.5}, // row 0, col 1
		{1.5, 1.5}, // row 1, col 1
		{1.6, 1.2}, // row 1, col 1
		{1, 1},     // shared corner of all four cells
		{3, 3},     // outside the grid
	}

	assert.Equal(t, []int{2, 2, 1, 3}, CountPointsPerCell(points, grid))
	assert.Equal(t, []int{0, 0, 0, 0}, CountPointsPerCell(nil, grid))
}
