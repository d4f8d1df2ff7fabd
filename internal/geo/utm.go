// Package geo projects WGS84 geographic coordinates onto the Universal
// Transverse Mercator grid.
package geo

import (
	"errors"
	"field-survey-service/internal/domain"
	"fmt"
	"math"
)

// WGS84 ellipsoid and UTM grid constants.
const (
	k0             = 0.9996
	eccSquared     = 0.00669438
	eccPrimeSq     = eccSquared / (1 - eccSquared)
	semiMajorAxis  = 6378137.0
	falseEasting   = 500000.0
	falseNorthing  = 10000000.0
	latitudeBands  = "CDEFGHJKLMNPQRSTUVWXX"
	fallbackBand   = 'X'
	degreesPerZone = 6
)

// Meridional arc series coefficients, fourth order in e².
const (
	m1 = 1 - eccSquared/4 - 3*eccSquared*eccSquared/64 - 5*eccSquared*eccSquared*eccSquared/256
	m2 = 3*eccSquared/8 + 3*eccSquared*eccSquared/32 + 45*eccSquared*eccSquared*eccSquared/1024
	m3 = 15*eccSquared*eccSquared/256 + 45*eccSquared*eccSquared*eccSquared/1024
	m4 = 35 * eccSquared * eccSquared * eccSquared / 3072
)

var ErrInvalidPosition = errors.New("invalid geographic position")

// Zone returns the UTM zone number for a longitude in degrees.
func Zone(lon float64) int {
	return int(math.Floor((lon+180)/degreesPerZone)) + 1
}

// CentralMeridian returns the central meridian of zone in degrees.
func CentralMeridian(zone int) float64 {
	return float64(degreesPerZone*zone - 183)
}

// Band returns the latitude band letter for lat in degrees.
// Indices outside the band table fall back to 'X'.
func Band(lat float64) string {
	idx := math.Floor(lat/8 + 10)
	if math.IsNaN(idx) || idx < 0 || idx >= float64(len(latitudeBands)) {
		return string(fallbackBand)
	}
	return string(latitudeBands[int(idx)])
}

// Project converts a WGS84 latitude/longitude pair to UTM.
//
// Project is total: it never fails, and non-finite input propagates into
// the easting/northing. Callers that need strict rejection use ProjectPosition.
func Project(lat, lon float64) domain.ProjectedCoordinate {
	zone := Zone(lon)

	latRad := toRad(lat)
	lonRad := toRad(lon)
	cmRad := toRad(CentralMeridian(zone))

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := math.Tan(latRad)

	n := semiMajorAxis / math.Sqrt(1-eccSquared*sinLat*sinLat)
	t := tanLat * tanLat
	c := eccPrimeSq * cosLat * cosLat
	a := cosLat * (lonRad - cmRad)

	m := semiMajorAxis * (m1*latRad -
		m2*math.Sin(2*latRad) +
		m3*math.Sin(4*latRad) -
		m4*math.Sin(6*latRad))

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	easting := k0*n*(a+
		(1-t+c)*a3/6+
		(5-18*t+t*t+72*c-58*eccPrimeSq)*a5/120) + falseEasting

	northing := k0 * (m + n*tanLat*(a2/2+
		(5-t+9*c+4*c*c)*a4/24+
		(61-58*t+t*t+600*c-330*eccPrimeSq)*a6/720))

	if lat < 0 {
		northing += falseNorthing
	}

	return domain.ProjectedCoordinate{
		Easting:  roundCentimeters(easting),
		Northing: roundCentimeters(northing),
		Zone:     zone,
		Band:     Band(lat),
	}
}

// Validate rejects non-finite or out-of-range coordinates.
func Validate(lat, lon float64) error {
	switch {
	case math.IsNaN(lat) || math.IsInf(lat, 0):
		return fmt.Errorf("%w: latitude %v is not finite", ErrInvalidPosition, lat)
	case math.IsNaN(lon) || math.IsInf(lon, 0):
		return fmt.Errorf("%w: longitude %v is not finite", ErrInvalidPosition, lon)
	case lat < -90 || lat > 90:
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", ErrInvalidPosition, lat)
	case lon < -180 || lon > 180:
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", ErrInvalidPosition, lon)
	}
	return nil
}

// ProjectPosition validates p before projecting it.
func ProjectPosition(p domain.GeographicPosition) (domain.ProjectedCoordinate, error) {
	if err := Validate(p.Latitude, p.Longitude); err != nil {
		return domain.ProjectedCoordinate{}, err
	}
	if math.IsNaN(p.Accuracy) || p.Accuracy < 0 {
		return domain.ProjectedCoordinate{}, fmt.Errorf("%w: accuracy %v must be >= 0", ErrInvalidPosition, p.Accuracy)
	}
	return Project(p.Latitude, p.Longitude), nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundCentimeters(v float64) float64 {
	return math.Round(v*100) / 100
}
