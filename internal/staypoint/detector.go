// Package staypoint derives stay points from an ordered GPS trajectory.
//
// A stay point is emitted for every pair of consecutive fixes that are closer
// than a distance threshold and further apart in time than a time threshold.
// Adjacent qualifying pairs are not merged.
package staypoint

import (
	"fmt"
	"math"
	"time"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/spatial"
	"github.com/jengzang/trajectory-mining-go/internal/timeutil"
)

// DistanceFunc returns the distance in meters between two points
type DistanceFunc func(p0, p1 spatial.Point) float64

// Options configures a detection
type Options struct {
	DistanceThreshold float64 // Meters, strict upper bound
	TimeThreshold     float64 // Minutes, strict lower bound

	// Distance defaults to spatial.GeodesicDistance
	Distance DistanceFunc
}

// Span is the step from point i to point i+1. The last point has a zero span.
type Span struct {
	Index    int
	TimeGap  time.Duration
	Distance float64 // Meters
}

// Result is the outcome of a detection that ran to completion.
// The zero value means no detection has run.
type Result struct {
	ran    bool
	points []models.StayPoint
}

// NoStayPoints is the result of a detection where no span qualified
var NoStayPoints = Result{ran: true}

// Found reports whether at least one stay point was detected
func (r Result) Found() bool {
	return len(r.points) > 0
}

// Ran reports whether the result comes from a completed detection
func (r Result) Ran() bool {
	return r.ran
}

// Points returns a copy of the detected stay points, nil when none were found
func (r Result) Points() []models.StayPoint {
	if len(r.points) == 0 {
		return nil
	}
	out := make([]models.StayPoint, len(r.points))
	copy(out, r.points)
	return out
}

// Len returns the number of detected stay points
func (r Result) Len() int {
	return len(r.points)
}

// Detect scans the trajectory once and emits one stay point per qualifying span.
// Points must already be ordered by timestamp; they are neither sorted nor modified.
func Detect(points []models.TrajectoryPoint, opts Options) (Result, error) {
	if err := validate(points, opts); err != nil {
		return Result{}, err
	}

	distance := opts.Distance
	if distance == nil {
		distance = spatial.GeodesicDistance
	}

	var stays []models.StayPoint
	for _, span := range spans(points, distance) {
		// The last point has no successor and never starts a stay
		if span.Index == len(points)-1 {
			continue
		}
		// Minutes as float64; the threshold may exceed the Duration range
		if span.Distance >= opts.DistanceThreshold || span.TimeGap.Minutes() <= opts.TimeThreshold {
			continue
		}

		from, to := points[span.Index], points[span.Index+1]
		stays = append(stays, models.StayPoint{
			Arrive:    from.Timestamp,
			Leave:     to.Timestamp,
			Latitude:  (from.Latitude + to.Latitude) / 2,
			Longitude: (from.Longitude + to.Longitude) / 2,
			Altitude:  (from.Altitude + to.Altitude) / 2,
			Weekday:   timeutil.Weekday(from.Timestamp),
			Date:      from.Date,
		})
	}

	if len(stays) == 0 {
		return NoStayPoints, nil
	}
	return Result{ran: true, points: stays}, nil
}

// Spans computes the consecutive span table of a trajectory, one entry per point.
// A nil distance uses spatial.GeodesicDistance.
func Spans(points []models.TrajectoryPoint, distance DistanceFunc) []Span {
	if distance == nil {
		distance = spatial.GeodesicDistance
	}
	return spans(points, distance)
}

func spans(points []models.TrajectoryPoint, distance DistanceFunc) []Span {
	out := make([]Span, len(points))
	for i := range points {
		out[i].Index = i
		if i == len(points)-1 {
			break
		}
		out[i].TimeGap = points[i+1].Timestamp.Sub(points[i].Timestamp)
		out[i].Distance = distance(position(points[i]), position(points[i+1]))
	}
	return out
}

func validate(points []models.TrajectoryPoint, opts Options) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: trajectory needs at least 2 points, got %d", ErrInvalidInput, len(points))
	}
	if math.IsNaN(opts.DistanceThreshold) || opts.DistanceThreshold <= 0 {
		return fmt.Errorf("%w: distance threshold must be positive, got %v", ErrInvalidInput, opts.DistanceThreshold)
	}
	if math.IsNaN(opts.TimeThreshold) || math.IsInf(opts.TimeThreshold, 0) || opts.TimeThreshold < 0 {
		return fmt.Errorf("%w: time threshold must be non-negative, got %v", ErrInvalidInput, opts.TimeThreshold)
	}

	for i, p := range points {
		if p.Timestamp.IsZero() {
			return fmt.Errorf("%w: point %d has no timestamp", ErrMalformedTimestamp, i)
		}
		if !position(p).Valid() {
			return fmt.Errorf("%w: point %d at (%v, %v)", ErrMalformedCoordinate, i, p.Latitude, p.Longitude)
		}
		if math.IsNaN(p.Altitude) || math.IsInf(p.Altitude, 0) {
			return fmt.Errorf("%w: point %d has altitude %v", ErrMalformedCoordinate, i, p.Altitude)
		}
	}

	return nil
}

func position(p models.TrajectoryPoint) spatial.Point {
	return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
}
