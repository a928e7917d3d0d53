package staypoint

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/spatial"
)

var base = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) // Monday

func point(offset time.Duration, lat, lon, alt float64) models.TrajectoryPoint {
	ts := base.Add(offset)
	return models.TrajectoryPoint{
		Timestamp: ts,
		Date:      ts.Format("2006-01-02"),
		Latitude:  lat,
		Longitude: lon,
		Altitude:  alt,
	}
}

func constantDistance(meters float64) DistanceFunc {
	return func(spatial.Point, spatial.Point) float64 { return meters }
}

func TestDetectNearbyFixesFormOneStay(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 35.0, 135.0, 0),
		point(12*time.Minute, 35.0001, 135.0001, 0),
		point(25*time.Minute, 40.0, 140.0, 0),
	}

	result, err := Detect(points, Options{DistanceThreshold: 50, TimeThreshold: 10})
	require.NoError(t, err)
	require.True(t, result.Found())
	require.Equal(t, 1, result.Len())

	stay := result.Points()[0]
	assert.True(t, stay.Arrive.Equal(base))
	assert.True(t, stay.Leave.Equal(base.Add(12*time.Minute)))
	assert.InDelta(t, 35.00005, stay.Latitude, 1e-9)
	assert.InDelta(t, 135.00005, stay.Longitude, 1e-9)
	assert.Equal(t, 0, stay.Weekday)
	assert.Equal(t, "2024-01-01", stay.Date)
	assert.Equal(t, 12*time.Minute, stay.Duration())
}

func TestDetectThresholdsAreStrict(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 1, 1, 0),
		point(10*time.Minute, 1, 1, 0),
		point(30*time.Minute, 1, 1, 0),
	}

	tests := []struct {
		name     string
		distance float64
		opts     Options
		want     int
	}{
		{name: "distance equal to threshold", distance: 50, opts: Options{DistanceThreshold: 50, TimeThreshold: 5}, want: 0},
		{name: "distance just below threshold", distance: 49.999, opts: Options{DistanceThreshold: 50, TimeThreshold: 5}, want: 1},
		{name: "gap equal to threshold", distance: 1, opts: Options{DistanceThreshold: 50, TimeThreshold: 10}, want: 0},
		{name: "gap just above threshold", distance: 1, opts: Options{DistanceThreshold: 50, TimeThreshold: 9.99}, want: 1},
		{name: "zero time threshold", distance: 1, opts: Options{DistanceThreshold: 50, TimeThreshold: 0}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Distance = constantDistance(tt.distance)
			result, err := Detect(points[:2], tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Len())
		})
	}
}

func TestDetectHugeTimeThreshold(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 1, 1, 0),
		point(time.Minute, 1, 1, 0),
	}

	// Thresholds past the time.Duration range must still reject a one-minute gap
	for _, minutes := range []float64{1.6e8, 1e9, math.MaxFloat64} {
		result, err := Detect(points, Options{DistanceThreshold: 50, TimeThreshold: minutes, Distance: constantDistance(1)})
		require.NoError(t, err)
		assert.False(t, result.Found(), "threshold %g", minutes)
		assert.True(t, result.Ran())
	}
}

func TestDetectNeverStartsAtLastPoint(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 1, 1, 0),
		point(time.Hour, 1, 1, 0),
		point(2*time.Hour, 1, 1, 0),
		point(3*time.Hour, 1, 1, 0),
	}

	result, err := Detect(points, Options{DistanceThreshold: 10, TimeThreshold: 1})
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())

	last := points[len(points)-1].Timestamp
	for _, s := range result.Points() {
		assert.False(t, s.Arrive.Equal(last), "stay arrives at the final point")
	}
}

func TestDetectDoesNotMergeAdjacentSpans(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 10, 10, 100),
		point(30*time.Minute, 10.00001, 10, 110),
		point(60*time.Minute, 10.00002, 10, 120),
	}

	result, err := Detect(points, Options{DistanceThreshold: 100, TimeThreshold: 20})
	require.NoError(t, err)

	want := []models.StayPoint{
		{
			Arrive:    points[0].Timestamp,
			Leave:     points[1].Timestamp,
			Latitude:  (points[0].Latitude + points[1].Latitude) / 2,
			Longitude: 10,
			Altitude:  105,
			Weekday:   0,
			Date:      "2024-01-01",
		},
		{
			Arrive:    points[1].Timestamp,
			Leave:     points[2].Timestamp,
			Latitude:  (points[1].Latitude + points[2].Latitude) / 2,
			Longitude: 10,
			Altitude:  115,
			Weekday:   0,
			Date:      "2024-01-01",
		},
	}
	if diff := cmp.Diff(want, result.Points()); diff != "" {
		t.Errorf("stay points mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectDateComesFromFirstPoint(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 1, 1, 0),
		point(time.Hour, 1, 1, 0),
	}
	points[0].Date = "2023-12-31"

	result, err := Detect(points, Options{DistanceThreshold: 10, TimeThreshold: 1})
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
	assert.Equal(t, "2023-12-31", result.Points()[0].Date)
	assert.Equal(t, 0, result.Points()[0].Weekday)
}

func TestDetectWeekday(t *testing.T) {
	for day := 0; day < 7; day++ {
		offset := time.Duration(day) * 24 * time.Hour
		points := []models.TrajectoryPoint{
			point(offset, 1, 1, 0),
			point(offset+time.Hour, 1, 1, 0),
		}
		result, err := Detect(points, Options{DistanceThreshold: 10, TimeThreshold: 1})
		require.NoError(t, err)
		require.Equal(t, 1, result.Len())
		assert.Equal(t, day, result.Points()[0].Weekday)
	}
}

func TestDetectNoStayPoints(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 35.0, 135.0, 0),
		point(time.Minute, 35.0, 135.0, 0),
		point(2*time.Minute, 40.0, 140.0, 0),
	}

	result, err := Detect(points, Options{DistanceThreshold: 50, TimeThreshold: 10})
	require.NoError(t, err)
	assert.Equal(t, NoStayPoints, result)
	assert.True(t, result.Ran())
	assert.False(t, result.Found())
	assert.Nil(t, result.Points())

	var notRun Result
	assert.False(t, notRun.Ran())
}

func TestDetectIsDeterministicAndPure(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 35.0, 135.0, 5),
		point(15*time.Minute, 35.00002, 135.00001, 7),
		point(40*time.Minute, 35.00003, 135.00001, 9),
		point(41*time.Minute, 35.1, 135.1, 9),
	}
	snapshot := make([]models.TrajectoryPoint, len(points))
	copy(snapshot, points)

	opts := Options{DistanceThreshold: 30, TimeThreshold: 10}
	first, err := Detect(points, opts)
	require.NoError(t, err)
	second, err := Detect(points, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Points(), second.Points())
	assert.Equal(t, snapshot, points)

	// Mutating the returned slice must not leak into the result
	out := first.Points()
	out[0].Latitude = 0
	assert.NotEqual(t, 0.0, first.Points()[0].Latitude)
}

func TestDetectInvalidInput(t *testing.T) {
	valid := []models.TrajectoryPoint{point(0, 1, 1, 0), point(time.Hour, 1, 1, 0)}

	tests := []struct {
		name   string
		points []models.TrajectoryPoint
		opts   Options
		want   error
	}{
		{name: "empty", points: nil, opts: Options{DistanceThreshold: 1}, want: ErrInvalidInput},
		{name: "single point", points: valid[:1], opts: Options{DistanceThreshold: 1}, want: ErrInvalidInput},
		{name: "zero distance threshold", points: valid, opts: Options{DistanceThreshold: 0}, want: ErrInvalidInput},
		{name: "negative time threshold", points: valid, opts: Options{DistanceThreshold: 1, TimeThreshold: -1}, want: ErrInvalidInput},
		{name: "nan distance threshold", points: valid, opts: Options{DistanceThreshold: math.NaN()}, want: ErrInvalidInput},
		{
			name:   "missing timestamp",
			points: []models.TrajectoryPoint{valid[0], {Latitude: 1, Longitude: 1}},
			opts:   Options{DistanceThreshold: 1},
			want:   ErrMalformedTimestamp,
		},
		{
			name:   "latitude out of range",
			points: []models.TrajectoryPoint{valid[0], point(time.Hour, 91, 1, 0)},
			opts:   Options{DistanceThreshold: 1},
			want:   ErrMalformedCoordinate,
		},
		{
			name:   "nan longitude",
			points: []models.TrajectoryPoint{valid[0], point(time.Hour, 1, math.NaN(), 0)},
			opts:   Options{DistanceThreshold: 1},
			want:   ErrMalformedCoordinate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Detect(tt.points, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.False(t, result.Ran())
		})
	}
}

func TestSpans(t *testing.T) {
	points := []models.TrajectoryPoint{
		point(0, 35.0, 135.0, 0),
		point(12*time.Minute, 35.0001, 135.0001, 0),
		point(25*time.Minute, 40.0, 140.0, 0),
	}

	spans := Spans(points, nil)
	require.Len(t, spans, 3)

	assert.Equal(t, 12*time.Minute, spans[0].TimeGap)
	assert.InDelta(t, 14.4, spans[0].Distance, 0.2)
	assert.Equal(t, 13*time.Minute, spans[1].TimeGap)
	assert.Greater(t, spans[1].Distance, 500_000.0)

	// Sentinel span for the last point
	assert.Equal(t, Span{Index: 2}, spans[2])
}
