package handlers

import (
	"field-survey-service/internal/api/dto"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	Capture *services.CaptureService
}

func (h *PointHandler) Create(c *gin.Context) {
	var req dto.CapturePointRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	draft := domain.PointDraft{
		Name:            req.Name,
		Category:        domain.Category(req.Type),
		Characteristics: req.Characteristics,
		Observations:    req.Observations,
	}
	if strings.TrimSpace(req.PhotoBase64) != "" {
		photo, err := domain.ParseDataURL(req.PhotoBase64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid photoBase64")
			return
		}
		draft.Photo = photo
	}

	capture := services.CaptureRequest{Draft: draft}
	if req.Coords != nil {
		if req.Coords.Latitude == nil || req.Coords.Longitude == nil {
			writeError(c, http.StatusBadRequest, "coords.latitude and coords.longitude are required")
			return
		}
		capture.Position = &domain.GeographicPosition{
			Latitude:  *req.Coords.Latitude,
			Longitude: *req.Coords.Longitude,
			Accuracy:  req.Coords.Accuracy,
		}
	}

	p, err := h.Capture.CapturePoint(c.Request.Context(), capture)
	if err != nil {
		respondError(c, "capture point", err)
		return
	}

	writeJSON(c, http.StatusCreated, dto.NewPointResponse(p, false))
}

// List returns the collection newest first. Photos are inlined only with ?photos=true.
func (h *PointHandler) List(c *gin.Context) {
	withPhotos, _ := strconv.ParseBool(c.Query("photos"))

	points, err := h.Capture.ListPoints(c.Request.Context())
	if err != nil {
		respondError(c, "list points", err)
		return
	}

	res := dto.ListPointsResponse{Points: make([]dto.PointResponse, 0, len(points))}
	for i := range points {
		res.Points = append(res.Points, dto.NewPointResponse(&points[i], withPhotos))
	}

	writeJSON(c, http.StatusOK, res)
}

func (h *PointHandler) Get(c *gin.Context) {
	p, err := h.Capture.GetPoint(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "get point", err)
		return
	}
	writeJSON(c, http.StatusOK, dto.NewPointResponse(p, true))
}

// Photo serves the point's image with its own content type. Anything outside
// the raster allowlist is sent as an opaque download.
func (h *PointHandler) Photo(c *gin.Context) {
	p, err := h.Capture.GetPoint(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "get point photo", err)
		return
	}
	if p.Photo == nil {
		writeError(c, http.StatusNotFound, "point has no photo")
		return
	}

	contentType := p.Photo.MimeType
	if !domain.PhotoMimeTypeAllowed(contentType) {
		contentType = "application/octet-stream"
		c.Header("Content-Disposition", "attachment")
	}
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Security-Policy", "default-src 'none'; sandbox")
	c.Data(http.StatusOK, contentType, p.Photo.Data)
}

func (h *PointHandler) Delete(c *gin.Context) {
	if err := h.Capture.DeletePoint(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "delete point", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Nearby lists points within radius meters (default 100) of lat/lon.
func (h *PointHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(c, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	radius := 100.0
	if v := c.Query("radius"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "radius must be a number")
			return
		}
		radius = r
	}

	points, err := h.Capture.Nearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		respondError(c, "nearby points", err)
		return
	}

	writeJSON(c, http.StatusOK, dto.NewNearbyResponse(points))
}
