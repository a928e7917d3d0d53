package models

import "time"

// TrajectoryPoint represents a single timestamped GPS fix of a trajectory
type TrajectoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"` // Format: 2006-01-02
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
}

// Trajectory is a stored, chronologically ordered sequence of points
type Trajectory struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	PointCount int       `json:"pointCount" db:"point_count"`
	StartTime  time.Time `json:"startTime" db:"start_time"`
	EndTime    time.Time `json:"endTime" db:"end_time"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// TrajectoryRequest is the JSON body used to upload a trajectory
type TrajectoryRequest struct {
	Name   string            `json:"name"`
	Points []TrajectoryPoint `json:"points" binding:"required"`
}
