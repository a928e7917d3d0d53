// Package ingest loads trajectories from CSV and GPX files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
	"github.com/jengzang/trajectory-mining-go/internal/timeutil"
)

// ErrMissingColumn is returned when a required CSV column is absent from the header
var ErrMissingColumn = errors.New("missing column")

// Columns names the CSV header fields holding each point attribute.
// An empty Alt or Date means the file does not carry that attribute.
type Columns struct {
	DateTime string
	Lat      string
	Lon      string
	Alt      string
	Date     string
}

// DefaultColumns is the layout written by the trajectory preprocessing tools
var DefaultColumns = Columns{
	DateTime: "date_time",
	Lat:      "lat",
	Lon:      "lon",
	Alt:      "alt",
	Date:     "date",
}

// TimestampLayouts are tried in order when parsing the date_time column
var TimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339Nano,
	"2006/01/02 15:04:05",
	"2006/01/02 15:04:05.000",
}

// ReadCSV reads a header-prefixed CSV trajectory. Rows keep file order.
func ReadCSV(r io.Reader, cols Columns) ([]models.TrajectoryPoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty csv", staypoint.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	lookup := func(name string, required bool) (int, error) {
		if name == "" && !required {
			return -1, nil
		}
		i, ok := index[name]
		if !ok {
			return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var idx struct{ dateTime, lat, lon, alt, date int }
	if idx.dateTime, err = lookup(cols.DateTime, true); err != nil {
		return nil, err
	}
	if idx.lat, err = lookup(cols.Lat, true); err != nil {
		return nil, err
	}
	if idx.lon, err = lookup(cols.Lon, true); err != nil {
		return nil, err
	}
	if idx.alt, err = lookup(cols.Alt, false); err != nil {
		return nil, err
	}
	if idx.date, err = lookup(cols.Date, false); err != nil {
		return nil, err
	}

	var points []models.TrajectoryPoint
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		ts, err := ParseTimestamp(record[idx.dateTime])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		p := models.TrajectoryPoint{Timestamp: ts}
		if p.Latitude, err = parseCoordinate(record[idx.lat]); err != nil {
			return nil, fmt.Errorf("line %d: lat: %w", line, err)
		}
		if p.Longitude, err = parseCoordinate(record[idx.lon]); err != nil {
			return nil, fmt.Errorf("line %d: lon: %w", line, err)
		}
		if idx.alt >= 0 {
			if p.Altitude, err = parseCoordinate(record[idx.alt]); err != nil {
				return nil, fmt.Errorf("line %d: alt: %w", line, err)
			}
		}
		if idx.date >= 0 {
			p.Date = strings.TrimSpace(record[idx.date])
		}
		if p.Date == "" {
			p.Date = timeutil.Date(ts)
		}

		points = append(points, p)
	}

	return points, nil
}

// ParseTimestamp parses an absolute timestamp in any of TimestampLayouts
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", staypoint.ErrMalformedTimestamp, value)
}

func parseCoordinate(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", staypoint.ErrMalformedCoordinate, value)
	}
	return v, nil
}
