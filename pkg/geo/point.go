// Package geo provides the GeoJSON point type shared by accounts and
// projects, plus great-circle distance math for proximity queries.
package geo

import (
	"errors"
	"math"
)

// PointType is the GeoJSON geometry type stored for every location.
const PointType = "Point"

var (
	// ErrInvalidType is returned when a geometry is not a GeoJSON Point.
	ErrInvalidType = errors.New("geo: geometry type must be Point")
	// ErrInvalidCoordinates is returned when coordinates fall outside
	// the valid longitude or latitude range.
	ErrInvalidCoordinates = errors.New("geo: coordinates out of range")
)

// Point is a GeoJSON point. Coordinates are [longitude, latitude], the
// GeoJSON ordering, which MongoDB's 2dsphere indexes also expect.
type Point struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
	Address     string     `json:"address,omitempty" bson:"address,omitempty"`
}

// NewPoint builds a Point from longitude and latitude.
func NewPoint(lng, lat float64) Point {
	return Point{Type: PointType, Coordinates: [2]float64{lng, lat}}
}

// Lng returns the longitude component.
func (p Point) Lng() float64 { return p.Coordinates[0] }

// Lat returns the latitude component.
func (p Point) Lat() float64 { return p.Coordinates[1] }

// Validate checks the geometry type and coordinate ranges.
func (p Point) Validate() error {
	if p.Type != PointType {
		return ErrInvalidType
	}
	if p.Lng() < -180 || p.Lng() > 180 || p.Lat() < -90 || p.Lat() > 90 {
		return ErrInvalidCoordinates
	}
	return nil
}

// earthRadiusKM is the mean Earth radius used for distance calculations.
const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance between two points in
// kilometers.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLng := (b.Lng() - a.Lng()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
