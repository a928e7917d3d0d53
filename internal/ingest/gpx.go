package ingest

import (
	"fmt"
	"io"

	"github.com/twpayne/go-gpx"

	"github.com/jengzang/trajectory-mining-go/internal/models"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
	"github.com/jengzang/trajectory-mining-go/internal/timeutil"
)

// ReadGPX reads every track segment of a GPX document in document order
func ReadGPX(r io.Reader) ([]models.TrajectoryPoint, error) {
	g, err := gpx.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gpx: %w", err)
	}

	var points []models.TrajectoryPoint
	for _, trk := range g.Trk {
		for _, seg := range trk.TrkSeg {
			for i, pt := range seg.TrkPt {
				if pt.Time.IsZero() {
					return nil, fmt.Errorf("track %q point %d: %w", trk.Name, i, staypoint.ErrMalformedTimestamp)
				}
				points = append(points, models.TrajectoryPoint{
					Timestamp: pt.Time,
					Date:      timeutil.Date(pt.Time),
					Latitude:  pt.Lat,
					Longitude: pt.Lon,
					Altitude:  pt.Ele,
				})
			}
		}
	}

	return points, nil
}
