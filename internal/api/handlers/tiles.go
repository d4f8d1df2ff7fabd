package handlers

import (
	"errors"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type TileHandler struct {
	Tiles ports.TileSource
}

// Get serves /tiles/:z/:x/:y, with or without an image extension on y.
func (h *TileHandler) Get(c *gin.Context) {
	z, errZ := strconv.Atoi(c.Param("z"))
	x, errX := strconv.Atoi(c.Param("x"))
	yParam, _, _ := strings.Cut(c.Param("y"), ".")
	y, errY := strconv.Atoi(yParam)
	if errZ != nil || errX != nil || errY != nil {
		writeError(c, http.StatusBadRequest, "tile address must be numeric")
		return
	}

	tile, err := h.Tiles.GetTile(c.Request.Context(), z, x, y)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidTile) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		obs.Logger(c.Request.Context()).WithError(err).Warn("tile unavailable")
		writeError(c, http.StatusBadGateway, "tile unavailable")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, tile.ContentType, tile.Data)
}
