package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Represents a single surveyed site captured in the field.
// A CapturedPoint is created once, at capture time, and afterwards is only
// ever removed from its collection. Projected always holds the UTM projection
// of Position computed at capture time.
type CapturedPoint struct {
	ID                    string
	Name                  string
	Category              Category
	Characteristics       string
	Observations          string
	CapturedAtEpochMillis int64
	Position              GeographicPosition
	Projected             ProjectedCoordinate
	Photo                 *Photo
}

// User-supplied fields of a point before it is stamped with id, time and location.
type PointDraft struct {
	Name            string
	Category        Category
	Characteristics string
	Observations    string
	Photo           *Photo
}

func NewCapturedPoint(
	id string,
	draft PointDraft,
	position GeographicPosition,
	projected ProjectedCoordinate,
	capturedAt time.Time,
) (*CapturedPoint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("new captured point: id must not be empty")
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("new captured point: name must not be empty")
	}

	return &CapturedPoint{
		ID:                    id,
		Name:                  name,
		Category:              ParseCategory(string(draft.Category)),
		Characteristics:       draft.Characteristics,
		Observations:          draft.Observations,
		CapturedAtEpochMillis: capturedAt.UnixMilli(),
		Position:              position,
		Projected:             projected,
		Photo:                 draft.Photo,
	}, nil
}

// CapturedAt returns the capture timestamp in the given location (UTC when nil).
func (p *CapturedPoint) CapturedAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(p.CapturedAtEpochMillis).In(loc)
}

// pointRecord is the persisted JSON shape of a point. Field names match the
// collections exported by the mobile client, so those files import unchanged.
type pointRecord struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Type            string              `json:"type"`
	Characteristics string              `json:"characteristics"`
	Observations    string              `json:"observations"`
	Timestamp       int64               `json:"timestamp"`
	Coords          GeographicPosition  `json:"coords"`
	UTM             ProjectedCoordinate `json:"utm"`
	PhotoBase64     string              `json:"photoBase64,omitempty"`
}

func (p CapturedPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointRecord{
		ID:              p.ID,
		Name:            p.Name,
		Type:            string(p.Category),
		Characteristics: p.Characteristics,
		Observations:    p.Observations,
		Timestamp:       p.CapturedAtEpochMillis,
		Coords:          p.Position,
		UTM:             p.Projected,
		PhotoBase64:     p.Photo.DataURL(),
	})
}

func (p *CapturedPoint) UnmarshalJSON(b []byte) error {
	var rec pointRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}

	var photo *Photo
	if rec.PhotoBase64 != "" {
		ph, err := ParseDataURL(rec.PhotoBase64)
		if err != nil {
			return fmt.Errorf("point %q: %w", rec.ID, err)
		}
		photo = ph
	}

	*p = CapturedPoint{
		ID:                    rec.ID,
		Name:                  rec.Name,
		Category:              ParseCategory(rec.Type),
		Characteristics:       rec.Characteristics,
		Observations:          rec.Observations,
		CapturedAtEpochMillis: rec.Timestamp,
		Position:              rec.Coords,
		Projected:             rec.UTM,
		Photo:                 photo,
	}
	return nil
}
