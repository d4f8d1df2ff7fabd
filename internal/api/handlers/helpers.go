package handlers

import (
	"encoding/json"
	"errors"
	"field-survey-service/internal/geo"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"field-survey-service/internal/services"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Photos arrive inline as data URLs.
const maxBodyBytes = 12 << 20

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, gin.H{"error": msg})
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(c *gin.Context, v any) error {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// respondError maps domain and service errors to HTTP statuses.
// Anything unrecognized is logged and reported as a 500.
func respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, geo.ErrInvalidPosition),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, ports.ErrInvalidTile):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ports.ErrPointNotFound):
		writeError(c, http.StatusNotFound, "point not found")
	case errors.Is(err, ports.ErrPointExists):
		writeError(c, http.StatusConflict, "point already exists")
	case errors.Is(err, services.ErrNoFix):
		writeError(c, http.StatusConflict, "no recent position fix")
	case errors.Is(err, services.ErrAnalysisFailed):
		writeError(c, http.StatusBadGateway, "image analysis failed")
	case errors.Is(err, ports.ErrClassifierUnavailable):
		writeError(c, http.StatusServiceUnavailable, "image analysis is not configured")
	default:
		obs.Logger(c.Request.Context()).WithError(err).WithField("op", op).Error("request failed")
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
