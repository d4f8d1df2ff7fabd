package handlers

import (
	"field-survey-service/internal/api/dto"
	"field-survey-service/internal/domain"
	"field-survey-service/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnalyzeHandler struct {
	Analyze *services.AnalyzeService
}

// Post suggests draft fields for a photo sent as a data URL.
func (h *AnalyzeHandler) Post(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	photo, err := domain.ParseDataURL(req.PhotoBase64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid photoBase64")
		return
	}

	a, err := h.Analyze.Analyze(c.Request.Context(), photo)
	if err != nil {
		respondError(c, "analyze photo", err)
		return
	}

	writeJSON(c, http.StatusOK, dto.AnalyzeResponse{
		SuggestedName:   a.SuggestedName,
		DetectedType:    string(a.Category),
		Characteristics: a.Characteristics,
		Observations:    a.Observations,
	})
}
