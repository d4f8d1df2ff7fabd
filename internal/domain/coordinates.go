package domain

// Immutable geographic position (WGS84 degrees) as reported by a location fix.
// Accuracy is the horizontal accuracy radius in meters.
type GeographicPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// UTM projection of a GeographicPosition.
// Easting and northing are in meters, rounded to hundredths.
type ProjectedCoordinate struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
	Zone     int     `json:"zone"`
	Band     string  `json:"band"`
}
