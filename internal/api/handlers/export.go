package handlers

import (
	"field-survey-service/internal/services"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	Export *services.ExportService
}

func (h *ExportHandler) KML(c *gin.Context) {
	doc, err := h.Export.KML(c.Request.Context())
	if err != nil {
		respondError(c, "export kml", err)
		return
	}
	writeDocument(c, doc)
}

func (h *ExportHandler) GeoJSON(c *gin.Context) {
	doc, err := h.Export.GeoJSON(c.Request.Context())
	if err != nil {
		respondError(c, "export geojson", err)
		return
	}
	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc services.ExportDocument) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("X-Point-Count", fmt.Sprint(doc.Count))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
