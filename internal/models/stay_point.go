package models

import "time"

// StayPoint represents one qualifying consecutive span of a trajectory
type StayPoint struct {
	Arrive    time.Time `json:"arrive" db:"arrive"`
	Leave     time.Time `json:"leave" db:"leave"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Altitude  float64   `json:"altitude" db:"altitude"`
	Weekday   int       `json:"weekday" db:"weekday"` // Monday=0 ... Sunday=6
	Date      string    `json:"date" db:"date"`
}

// Duration returns the time spent between arrival and departure
func (s StayPoint) Duration() time.Duration {
	return s.Leave.Sub(s.Arrive)
}

// DetectionRun records one stay point detection over a stored trajectory
type DetectionRun struct {
	ID                string    `json:"id" db:"id"` // UUID
	TrajectoryID      int64     `json:"trajectoryId" db:"trajectory_id"`
	DistanceThreshold float64   `json:"distanceThreshold" db:"distance_threshold"` // Meters
	TimeThreshold     float64   `json:"timeThreshold" db:"time_threshold"`         // Minutes
	StayCount         int       `json:"stayCount" db:"stay_count"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// DetectRequest is the JSON body of an ad-hoc detection request
type DetectRequest struct {
	Points            []TrajectoryPoint `json:"points"`
	DistanceThreshold *float64          `json:"distanceThreshold"`
	TimeThreshold     *float64          `json:"timeThreshold"`
}

// DetectResponse is returned by detection endpoints
type DetectResponse struct {
	RunID      string      `json:"runId,omitempty"`
	Found      bool        `json:"found"`
	Count      int         `json:"count"`
	StayPoints []StayPoint `json:"stayPoints"`
}

// RunSummary aggregates the stay points of a detection run
type RunSummary struct {
	Run                DetectionRun `json:"run"`
	TotalStayMinutes   float64      `json:"totalStayMinutes"`
	MeanStayMinutes    float64      `json:"meanStayMinutes"`
	MedianStayMinutes  float64      `json:"medianStayMinutes"`
	P90StayMinutes     float64      `json:"p90StayMinutes"`
	LongestStayMinutes float64      `json:"longestStayMinutes"`
	StaysByWeekday     [7]int       `json:"staysByWeekday"` // Monday=0
}
