package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/trajectory-mining-go/internal/database"
	"github.com/jengzang/trajectory-mining-go/internal/models"
)

// TrajectoryRepository handles database operations for trajectories and their points
type TrajectoryRepository struct {
	db *sql.DB
}

// NewTrajectoryRepository creates a new trajectory repository
func NewTrajectoryRepository(db *sql.DB) *TrajectoryRepository {
	return &TrajectoryRepository{db: db}
}

// Create stores a trajectory and its points in insertion order
func (r *TrajectoryRepository) Create(ctx context.Context, name string, points []models.TrajectoryPoint) (*models.Trajectory, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("trajectory %q has no points", name)
	}

	traj := &models.Trajectory{
		Name:       name,
		PointCount: len(points),
		StartTime:  points[0].Timestamp,
		EndTime:    points[len(points)-1].Timestamp,
		CreatedAt:  time.Now().UTC(),
	}

	err := database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO trajectories (name, point_count, start_time, end_time, created_at) VALUES (?, ?, ?, ?, ?)`,
			traj.Name, traj.PointCount, traj.StartTime.UnixNano(), traj.EndTime.UnixNano(), traj.CreatedAt.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert trajectory: %w", err)
		}
		if traj.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read trajectory id: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO trajectory_points (trajectory_id, seq, ts, utc_offset, date, lat, lon, alt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, p := range points {
			if _, err := stmt.ExecContext(ctx, traj.ID, i, p.Timestamp.UnixNano(), utcOffset(p.Timestamp), p.Date, p.Latitude, p.Longitude, p.Altitude); err != nil {
				return fmt.Errorf("failed to insert point %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return traj, nil
}

// GetByID retrieves a trajectory header, nil when it does not exist
func (r *TrajectoryRepository) GetByID(ctx context.Context, id int64) (*models.Trajectory, error) {
	var (
		t                           models.Trajectory
		startNs, endNs, createdAtNs int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, point_count, start_time, end_time, created_at FROM trajectories WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.PointCount, &startNs, &endNs, &createdAtNs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trajectory: %w", err)
	}

	t.StartTime = fromUnixNano(startNs, 0)
	t.EndTime = fromUnixNano(endNs, 0)
	t.CreatedAt = fromUnixNano(createdAtNs, 0)
	return &t, nil
}

// GetAllPoints returns every point of a trajectory in stored order
func (r *TrajectoryRepository) GetAllPoints(ctx context.Context, id int64) ([]models.TrajectoryPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ts, utc_offset, date, lat, lon, alt FROM trajectory_points WHERE trajectory_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	return scanPoints(rows)
}

// GetPoints retrieves a page of trajectory points with optional time filtering
func (r *TrajectoryRepository) GetPoints(ctx context.Context, id int64, filter models.TrajectoryPointFilter) ([]models.TrajectoryPoint, int64, error) {
	conditions := []string{"trajectory_id = ?"}
	args := []interface{}{id}

	if filter.StartTime > 0 {
		conditions = append(conditions, "ts >= ?")
		args = append(args, time.Unix(filter.StartTime, 0).UnixNano())
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "ts <= ?")
		args = append(args, time.Unix(filter.EndTime, 0).UnixNano())
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trajectory_points"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count points: %w", err)
	}

	page, pageSize := models.NormalizePage(filter.Page, filter.PageSize)
	query := "SELECT ts, utc_offset, date, lat, lon, alt FROM trajectory_points" + where + " ORDER BY seq LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query points: %w", err)
	}
	defer rows.Close()

	points, err := scanPoints(rows)
	if err != nil {
		return nil, 0, err
	}
	return points, total, nil
}

func scanPoints(rows *sql.Rows) ([]models.TrajectoryPoint, error) {
	var points []models.TrajectoryPoint
	for rows.Next() {
		var (
			p      models.TrajectoryPoint
			ts     int64
			offset int
		)
		if err := rows.Scan(&ts, &offset, &p.Date, &p.Latitude, &p.Longitude, &p.Altitude); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		p.Timestamp = fromUnixNano(ts, offset)
		points = append(points, p)
	}
	return points, rows.Err()
}

// utcOffset returns the zone offset of t in seconds east of UTC
func utcOffset(t time.Time) int {
	_, offset := t.Zone()
	return offset
}

// fromUnixNano rebuilds a stored instant in the fixed zone it was recorded in
func fromUnixNano(ns int64, offset int) time.Time {
	t := time.Unix(0, ns).UTC()
	if offset == 0 {
		return t
	}
	return t.In(time.FixedZone("", offset))
}
