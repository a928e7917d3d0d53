package spatial

import (
	"errors"
	"math"

	"github.com/golang/geo/s2"
)

const collinearEpsilon = 1e-12

// ErrInvalidPolygon is returned when a polygon has too few vertices
var ErrInvalidPolygon = errors.New("invalid polygon")

// BoundingBox calculates the bounding box of a set of points
// Returns (lowerLeft, upperRight)
func BoundingBox(points []Point) (Point, Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}

	lowerLeft, upperRight := points[0], points[0]
	for _, p := range points[1:] {
		lowerLeft.Lat = math.Min(lowerLeft.Lat, p.Lat)
		lowerLeft.Lon = math.Min(lowerLeft.Lon, p.Lon)
		upperRight.Lat = math.Max(upperRight.Lat, p.Lat)
		upperRight.Lon = math.Max(upperRight.Lon, p.Lon)
	}

	return lowerLeft, upperRight
}

// PointInPolygon checks if a point lies strictly inside a polygon.
// Points on an edge or vertex are outside. The polygon may be open or closed
// (first vertex repeated at the end).
func PointInPolygon(point Point, polygon []Point) bool {
	if len(polygon) > 1 && polygon[0] == polygon[len(polygon)-1] {
		polygon = polygon[:len(polygon)-1]
	}
	if len(polygon) < 3 {
		return false
	}

	// Cheap rejection against the polygon's lat/lng rectangle
	rect := s2.EmptyRect()
	for _, v := range polygon {
		rect = rect.AddPoint(v.LatLng())
	}
	if !rect.ContainsLatLng(point.LatLng()) {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		a, b := polygon[i], polygon[j]
		if onSegment(point, a, b) {
			return false
		}
		if ((a.Lat > point.Lat) != (b.Lat > point.Lat)) &&
			(point.Lon < (b.Lon-a.Lon)*(point.Lat-a.Lat)/(b.Lat-a.Lat)+a.Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// onSegment reports whether p lies on the segment a-b in the lat/lon plane
func onSegment(p, a, b Point) bool {
	cross := (b.Lat-a.Lat)*(p.Lon-a.Lon) - (b.Lon-a.Lon)*(p.Lat-a.Lat)
	if math.Abs(cross) > collinearEpsilon {
		return false
	}
	return p.Lat >= math.Min(a.Lat, b.Lat) && p.Lat <= math.Max(a.Lat, b.Lat) &&
		p.Lon >= math.Min(a.Lon, b.Lon) && p.Lon <= math.Max(a.Lon, b.Lon)
}
