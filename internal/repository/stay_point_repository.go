package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/trajectory-mining-go/internal/database"
	"github.com/jengzang/trajectory-mining-go/internal/models"
)

// StayPointRepository handles database operations for detection runs and stay points
type StayPointRepository struct {
	db *sql.DB
}

// NewStayPointRepository creates a new stay point repository
func NewStayPointRepository(db *sql.DB) *StayPointRepository {
	return &StayPointRepository{db: db}
}

// SaveRun stores a detection run together with its stay points
func (r *StayPointRepository) SaveRun(ctx context.Context, run models.DetectionRun, stays []models.StayPoint) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO detection_runs (id, trajectory_id, distance_threshold, time_threshold, stay_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.TrajectoryID, run.DistanceThreshold, run.TimeThreshold, run.StayCount, run.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert detection run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO stay_points (run_id, seq, arrive, arrive_offset, leave, leave_offset, lat, lon, alt, weekday, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, s := range stays {
			_, err := stmt.ExecContext(ctx, run.ID, i, s.Arrive.UnixNano(), utcOffset(s.Arrive), s.Leave.UnixNano(), utcOffset(s.Leave),
				s.Latitude, s.Longitude, s.Altitude, s.Weekday, s.Date)
			if err != nil {
				return fmt.Errorf("failed to insert stay point %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetRun retrieves a detection run, nil when it does not exist
func (r *StayPointRepository) GetRun(ctx context.Context, id string) (*models.DetectionRun, error) {
	var (
		run       models.DetectionRun
		createdNs int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, trajectory_id, distance_threshold, time_threshold, stay_count, created_at
		 FROM detection_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.TrajectoryID, &run.DistanceThreshold, &run.TimeThreshold, &run.StayCount, &createdNs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get detection run: %w", err)
	}

	run.CreatedAt = fromUnixNano(createdNs, 0)
	return &run, nil
}

// GetStayPoints retrieves the stay points of a run in detection order
func (r *StayPointRepository) GetStayPoints(ctx context.Context, runID string, filter models.StayPointFilter) ([]models.StayPoint, int64, error) {
	conditions := []string{"run_id = ?"}
	args := []interface{}{runID}

	if filter.Weekday != nil {
		conditions = append(conditions, "weekday = ?")
		args = append(args, *filter.Weekday)
	}
	if filter.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stay_points"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stay points: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := `SELECT arrive, arrive_offset, leave, leave_offset, lat, lon, alt, weekday, date FROM stay_points` + where +
		` ORDER BY seq LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query stay points: %w", err)
	}
	defer rows.Close()

	stays, err := scanStayPoints(rows)
	if err != nil {
		return nil, 0, err
	}
	return stays, total, nil
}

// GetAllStayPoints retrieves every stay point of a run in detection order
func (r *StayPointRepository) GetAllStayPoints(ctx context.Context, runID string) ([]models.StayPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT arrive, arrive_offset, leave, leave_offset, lat, lon, alt, weekday, date FROM stay_points WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stay points: %w", err)
	}
	defer rows.Close()

	return scanStayPoints(rows)
}

func scanStayPoints(rows *sql.Rows) ([]models.StayPoint, error) {
	var stays []models.StayPoint
	for rows.Next() {
		var (
			s                         models.StayPoint
			arriveNs, leaveNs         int64
			arriveOffset, leaveOffset int
		)
		if err := rows.Scan(&arriveNs, &arriveOffset, &leaveNs, &leaveOffset, &s.Latitude, &s.Longitude, &s.Altitude, &s.Weekday, &s.Date); err != nil {
			return nil, fmt.Errorf("failed to scan stay point: %w", err)
		}
		s.Arrive = fromUnixNano(arriveNs, arriveOffset)
		s.Leave = fromUnixNano(leaveNs, leaveOffset)
		stays = append(stays, s)
	}
	return stays, rows.Err()
}
