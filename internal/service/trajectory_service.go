package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/repository"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
	"github.com/jengzang/trajectory-mining-go/internal/timeutil"
)

// TrajectoryService handles business logic for stored trajectories
type TrajectoryService struct {
	repo *repository.TrajectoryRepository
}

// NewTrajectoryService creates a new trajectory service
func NewTrajectoryService(repo *repository.TrajectoryRepository) *TrajectoryService {
	return &TrajectoryService{repo: repo}
}

// Create validates ordering and stores a trajectory
func (s *TrajectoryService) Create(ctx context.Context, req models.TrajectoryRequest) (*models.Trajectory, error) {
	if len(req.Points) == 0 {
		return nil, fmt.Errorf("%w: trajectory has no points", staypoint.ErrInvalidInput)
	}

	points := make([]models.TrajectoryPoint, len(req.Points))
	copy(points, req.Points)
	for i := range points {
		if points[i].Timestamp.IsZero() {
			return nil, fmt.Errorf("%w: point %d has no timestamp", staypoint.ErrMalformedTimestamp, i)
		}
		if i > 0 && points[i].Timestamp.Before(points[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: point %d is earlier than point %d", staypoint.ErrInvalidInput, i, i-1)
		}
		if points[i].Date == "" {
			points[i].Date = timeutil.Date(points[i].Timestamp)
		}
	}

	traj, err := s.repo.Create(ctx, req.Name, points)
	if err != nil {
		return nil, fmt.Errorf("failed to create trajectory: %w", err)
	}

	log.Printf("[TrajectoryService] Stored trajectory %d (%d points)", traj.ID, traj.PointCount)
	return traj, nil
}

// GetPoints retrieves a page of points of a stored trajectory
func (s *TrajectoryService) GetPoints(ctx context.Context, id int64, filter models.TrajectoryPointFilter) ([]models.TrajectoryPoint, int64, error) {
	traj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if traj == nil {
		return nil, 0, fmt.Errorf("trajectory %d: %w", id, ErrNotFound)
	}
	return s.repo.GetPoints(ctx, id, filter)
}
