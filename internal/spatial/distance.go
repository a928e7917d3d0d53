package spatial

import (
	"math"

	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusKm     = 6378.137 // Equatorial radius used for all trajectory distances
	EarthRadiusMeters = EarthRadiusKm * 1000
)

// Point represents a 2D point with latitude and longitude in degrees
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point is a finite coordinate inside the lat/lon ranges
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// LatLng converts the point to an s2 LatLng
func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// GeodesicDistance calculates the great-circle distance between two points in meters
func GeodesicDistance(p0, p1 Point) float64 {
	return p0.LatLng().Distance(p1.LatLng()).Radians() * EarthRadiusMeters
}

// DistOnSphere calculates the great-circle distance between two points in kilometers
// using the haversine formula
func DistOnSphere(p0, p1 Point) float64 {
	phi1 := p0.Lat * math.Pi / 180
	phi2 := p1.Lat * math.Pi / 180
	lam1 := p0.Lon * math.Pi / 180
	lam2 := p1.Lon * math.Pi / 180

	term1 := math.Pow(math.Sin((phi2-phi1)/2), 2)
	term2 := math.Cos(phi1) * math.Cos(phi2) * math.Pow(math.Sin((lam2-lam1)/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(term1+term2))
}

// DistManhattan calculates the Manhattan distance in kilometers: the latitude leg
// plus the longitude leg, joined at the corner (p0.Lat, p1.Lon)
func DistManhattan(p0, p1 Point) float64 {
	corner := Point{Lat: p0.Lat, Lon: p1.Lon}
	return DistOnSphere(p0, corner) + DistOnSphere(p1, corner)
}
