package spatial

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidGrid is returned when grid corners or size cannot form a partition
var ErrInvalidGrid = errors.New("invalid grid")

// MaxGridSize bounds n so an n x n grid stays at a million cells
const MaxGridSize = 1000

// GridCell is one rectangle of an n x n partition of a bounding box
type GridCell struct {
	Index      int
	Row        int // Latitude row, 0 at the lower-left corner
	Col        int // Longitude column, 0 at the lower-left corner
	LowerLeft  Point
	UpperRight Point
}

// Contains reports whether p lies inside the cell; every edge is inclusive
func (c GridCell) Contains(p Point) bool {
	return p.Lat >= c.LowerLeft.Lat && p.Lat <= c.UpperRight.Lat &&
		p.Lon >= c.LowerLeft.Lon && p.Lon <= c.UpperRight.Lon
}

// Ring returns the cell as a closed GeoJSON ring of [lon, lat] pairs:
// upper-left, upper-right, lower-right, lower-left, upper-left
func (c GridCell) Ring() [][2]float64 {
	upperLeft := [2]float64{c.LowerLeft.Lon, c.UpperRight.Lat}
	return [][2]float64{
		upperLeft,
		{c.UpperRight.Lon, c.UpperRight.Lat},
		{c.UpperRight.Lon, c.LowerLeft.Lat},
		{c.LowerLeft.Lon, c.LowerLeft.Lat},
		upperLeft,
	}
}

// MakeGrid partitions the box between lowerLeft and upperRight into n x n cells.
// Cells are ordered row-major: latitude rows ascending from the lower-left corner,
// longitude columns ascending within each row.
func MakeGrid(upperRight, lowerLeft Point, n int) ([]GridCell, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidGrid, n)
	}
	if n > MaxGridSize {
		return nil, fmt.Errorf("%w: size %d exceeds %d", ErrInvalidGrid, n, MaxGridSize)
	}
	if !upperRight.Valid() || !lowerLeft.Valid() {
		return nil, fmt.Errorf("%w: corner out of range", ErrInvalidGrid)
	}
	if upperRight.Lat <= lowerLeft.Lat || upperRight.Lon <= lowerLeft.Lon {
		return nil, fmt.Errorf("%w: upper right %v is not above and right of lower left %v", ErrInvalidGrid, upperRight, lowerLeft)
	}

	latSteps := floats.Span(make([]float64, n+1), lowerLeft.Lat, upperRight.Lat)
	lonSteps := floats.Span(make([]float64, n+1), lowerLeft.Lon, upperRight.Lon)
	// Pin the outer edge so the upper-right corner always lands in the last cell
	latSteps[n], lonSteps[n] = upperRight.Lat, upperRight.Lon

	cells := make([]GridCell, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cells = append(cells, GridCell{
				Index:      len(cells),
				Row:        row,
				Col:        col,
				LowerLeft:  Point{Lat: latSteps[row], Lon: lonSteps[col]},
				UpperRight: Point{Lat: latSteps[row+1], Lon: lonSteps[col+1]},
			})
		}
	}

	return cells, nil
}

// CountPointsPerCell counts the points falling in each cell, aligned with grid order.
// A point on an edge shared by several cells counts for each of them.
func CountPointsPerCell(points []Point, grid []GridCell) []int {
	counts := make([]int, len(grid))
	for i, cell := range grid {
		for _, p := range points {
			if cell.Contains(p) {
				counts[i]++
			}
		}
	}
	return counts
}
