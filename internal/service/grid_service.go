package service

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/spatial"
)

// GridService handles grid occupancy and containment queries
type GridService struct{}

// NewGridService creates a new grid service
func NewGridService() *GridService {
	return &GridService{}
}

// CountOnGrid builds an n x n grid over the box and counts the points in each cell
func (s *GridService) CountOnGrid(req models.GridCountRequest) (*models.GridCountResponse, error) {
	grid, err := spatial.MakeGrid(toPoint(req.UpperRight), toPoint(req.LowerLeft), req.N)
	if err != nil {
		return nil, err
	}

	points := make([]spatial.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = toPoint(p)
	}
	counts := spatial.CountPointsPerCell(points, grid)

	resp := &models.GridCountResponse{Cells: make([]models.GridCellCount, len(grid))}
	weights := make([]float64, len(counts))
	for i, cell := range grid {
		resp.Cells[i] = models.GridCellCount{
			Index:      cell.Index,
			Row:        cell.Row,
			Col:        cell.Col,
			LowerLeft:  models.LatLonPair{cell.LowerLeft.Lat, cell.LowerLeft.Lon},
			UpperRight: models.LatLonPair{cell.UpperRight.Lat, cell.UpperRight.Lon},
			Polygon:    cell.Ring(),
			Count:      counts[i],
		}
		weights[i] = float64(counts[i])
	}
	resp.MaxCount = int(floats.Max(weights))
	resp.Total = int(floats.Sum(weights))

	return resp, nil
}

// Contains reports whether the point lies strictly inside the polygon
func (s *GridService) Contains(req models.ContainsRequest) (bool, error) {
	if len(req.Polygon) < 3 {
		return false, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", spatial.ErrInvalidPolygon, len(req.Polygon))
	}
	ring := make([]spatial.Point, len(req.Polygon))
	for i, p := range req.Polygon {
		ring[i] = toPoint(p)
	}
	return spatial.PointInPolygon(toPoint(req.Point), ring), nil
}

func toPoint(p models.LatLonPair) spatial.Point {
	return spatial.Point{Lat: p[0], Lon: p[1]}
}
