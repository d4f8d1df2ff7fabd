package dto

import (
	"field-survey-service/internal/domain"
	"field-survey-service/internal/services"
)

// Point fields use the same names as the mobile client's stored collection.

type CoordsRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
}

type CapturePointRequest struct {
	Name            string         `json:"name"`
	Type            string         `json:"type"`
	Characteristics string         `json:"characteristics"`
	Observations    string         `json:"observations"`
	PhotoBase64     string         `json:"photoBase64"`
	Coords          *CoordsRequest `json:"coords"`
}

type UTMResponse struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
	Zone     int     `json:"zone"`
	Band     string  `json:"band"`
}

type CoordsResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

type PointResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            string         `json:"type"`
	Characteristics string         `json:"characteristics"`
	Observations    string         `json:"observations"`
	Timestamp       int64          `json:"timestamp"`
	Coords          CoordsResponse `json:"coords"`
	UTM             UTMResponse    `json:"utm"`
	PhotoBase64     string         `json:"photoBase64,omitempty"`
}

type ListPointsResponse struct {
	Points []PointResponse `json:"points"`
}

type NearbyPointResponse struct {
	PointResponse
	DistanceMeters float64 `json:"distance_meters"`
}

type NearbyResponse struct {
	Points []NearbyPointResponse `json:"points"`
}

func NewUTMResponse(p domain.ProjectedCoordinate) UTMResponse {
	return UTMResponse{Easting: p.Easting, Northing: p.Northing, Zone: p.Zone, Band: p.Band}
}

func NewCoordsResponse(p domain.GeographicPosition) CoordsResponse {
	return CoordsResponse{Latitude: p.Latitude, Longitude: p.Longitude, Accuracy: p.Accuracy}
}

// NewPointResponse maps a point; withPhoto controls whether the image is inlined.
func NewPointResponse(p *domain.CapturedPoint, withPhoto bool) PointResponse {
	res := PointResponse{
		ID:              p.ID,
		Name:            p.Name,
		Type:            string(p.Category),
		Characteristics: p.Characteristics,
		Observations:    p.Observations,
		Timestamp:       p.CapturedAtEpochMillis,
		Coords:          NewCoordsResponse(p.Position),
		UTM:             NewUTMResponse(p.Projected),
	}
	if withPhoto {
		res.PhotoBase64 = p.Photo.DataURL()
	}
	return res
}

func NewNearbyResponse(points []services.NearbyPoint) NearbyResponse {
	res := NearbyResponse{Points: make([]NearbyPointResponse, 0, len(points))}
	for i := range points {
		res.Points = append(res.Points, NearbyPointResponse{
			PointResponse:  NewPointResponse(&points[i].Point, false),
			DistanceMeters: points[i].DistanceMeters,
		})
	}
	return res
}
