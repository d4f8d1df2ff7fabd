package handlers

import (
	"field-survey-service/internal/api/dto"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PositionHandler receives location samples from the device.
type PositionHandler struct {
	Tracker *services.PositionTracker
	MaxAge  time.Duration
}

// Update records a sample and returns its UTM projection.
func (h *PositionHandler) Update(c *gin.Context) {
	var req dto.PositionRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(c, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	fix, err := h.Tracker.Update(domain.GeographicPosition{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Accuracy:  req.Accuracy,
	})
	if err != nil {
		respondError(c, "update position", err)
		return
	}

	writeJSON(c, http.StatusOK, newPositionResponse(fix))
}

// Current returns the latest fix if it is fresh enough.
func (h *PositionHandler) Current(c *gin.Context) {
	fix, err := h.Tracker.Latest(h.MaxAge)
	if err != nil {
		respondError(c, "current position", err)
		return
	}
	writeJSON(c, http.StatusOK, newPositionResponse(fix))
}

func newPositionResponse(fix services.PositionFix) dto.PositionResponse {
	return dto.PositionResponse{
		Coords:     dto.NewCoordsResponse(fix.Position),
		UTM:        dto.NewUTMResponse(fix.Projected),
		ReceivedAt: fix.ReceivedAt.UTC(),
	}
}
