package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/repository"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
)

// StayPointService runs stay point detection and manages stored runs
type StayPointService struct {
	trajectories *repository.TrajectoryRepository
	stays        *repository.StayPointRepository
	defaults     staypoint.Options
}

// NewStayPointService creates a new stay point service. defaults supplies the
// thresholds used when a request leaves them unset.
func NewStayPointService(trajectories *repository.TrajectoryRepository, stays *repository.StayPointRepository, defaults staypoint.Options) *StayPointService {
	return &StayPointService{
		trajectories: trajectories,
		stays:        stays,
		defaults:     defaults,
	}
}

// Options merges request thresholds over the configured defaults
func (s *StayPointService) Options(distanceThreshold, timeThreshold *float64) staypoint.Options {
	opts := s.defaults
	if distanceThreshold != nil {
		opts.DistanceThreshold = *distanceThreshold
	}
	if timeThreshold != nil {
		opts.TimeThreshold = *timeThreshold
	}
	return opts
}

// Detect runs detection over an in-memory trajectory without storing anything
func (s *StayPointService) Detect(req models.DetectRequest) (*models.DetectResponse, error) {
	result, err := staypoint.Detect(req.Points, s.Options(req.DistanceThreshold, req.TimeThreshold))
	if err != nil {
		return nil, err
	}
	return toResponse("", result), nil
}

// Spans returns the consecutive span table of an in-memory trajectory
func (s *StayPointService) Spans(points []models.TrajectoryPoint) []staypoint.Span {
	return staypoint.Spans(points, s.defaults.Distance)
}

// DetectTrajectory runs detection over a stored trajectory and persists the run
func (s *StayPointService) DetectTrajectory(ctx context.Context, trajectoryID int64, distanceThreshold, timeThreshold *float64) (*models.DetectResponse, error) {
	traj, err := s.trajectories.GetByID(ctx, trajectoryID)
	if err != nil {
		return nil, err
	}
	if traj == nil {
		return nil, fmt.Errorf("trajectory %d: %w", trajectoryID, ErrNotFound)
	}

	points, err := s.trajectories.GetAllPoints(ctx, trajectoryID)
	if err != nil {
		return nil, err
	}

	opts := s.Options(distanceThreshold, timeThreshold)
	result, err := staypoint.Detect(points, opts)
	if err != nil {
		return nil, err
	}

	run := models.DetectionRun{
		ID:                uuid.NewString(),
		TrajectoryID:      trajectoryID,
		DistanceThreshold: opts.DistanceThreshold,
		TimeThreshold:     opts.TimeThreshold,
		StayCount:         result.Len(),
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.stays.SaveRun(ctx, run, result.Points()); err != nil {
		return nil, fmt.Errorf("failed to save detection run: %w", err)
	}

	log.Printf("[StayPointService] Run %s on trajectory %d: %d stay points (distance<%.1fm, gap>%.1fmin)",
		run.ID, trajectoryID, run.StayCount, opts.DistanceThreshold, opts.TimeThreshold)
	return toResponse(run.ID, result), nil
}

// GetStayPoints lists the stored stay points of a run
func (s *StayPointService) GetStayPoints(ctx context.Context, runID string, filter models.StayPointFilter) ([]models.StayPoint, int64, error) {
	run, err := s.stays.GetRun(ctx, runID)
	if err != nil {
		return nil, 0, err
	}
	if run == nil {
		return nil, 0, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return s.stays.GetStayPoints(ctx, runID, filter)
}

// Summary aggregates the stay durations and weekdays of a run
func (s *StayPointService) Summary(ctx context.Context, runID string) (*models.RunSummary, error) {
	run, err := s.stays.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}

	stays, err := s.stays.GetAllStayPoints(ctx, runID)
	if err != nil {
		return nil, err
	}

	summary := &models.RunSummary{Run: *run}
	if len(stays) == 0 {
		return summary, nil
	}

	minutes := make([]float64, len(stays))
	for i, st := range stays {
		minutes[i] = st.Duration().Minutes()
		if st.Weekday >= 0 && st.Weekday < len(summary.StaysByWeekday) {
			summary.StaysByWeekday[st.Weekday]++
		}
	}

	// stat.Quantile needs sorted input
	sort.Float64s(minutes)
	summary.TotalStayMinutes = floats.Sum(minutes)
	summary.MeanStayMinutes = stat.Mean(minutes, nil)
	summary.MedianStayMinutes = stat.Quantile(0.5, stat.Empirical, minutes, nil)
	summary.P90StayMinutes = stat.Quantile(0.9, stat.Empirical, minutes, nil)
	summary.LongestStayMinutes = minutes[len(minutes)-1]

	return summary, nil
}

func toResponse(runID string, result staypoint.Result) *models.DetectResponse {
	stays := result.Points()
	if stays == nil {
		stays = []models.StayPoint{}
	}
	return &models.DetectResponse{
		RunID:      runID,
		Found:      result.Found(),
		Count:      result.Len(),
		StayPoints: stays,
	}
}
