package api

import (
	"field-survey-service/internal/api/handlers"
	"field-survey-service/internal/platform/metrics"
	"field-survey-service/internal/ports"
	"field-survey-service/internal/services"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Tracker   *services.PositionTracker
	MaxFixAge time.Duration
	Capture   *services.CaptureService
	Export    *services.ExportService
	Analyze   *services.AnalyzeService
	Tiles     ports.TileSource
}

// NewRouter wires HTTP handlers with their dependencies.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", requestIDHeader},
		AllowOrigins:  []string{"*"},
		MaxAge:        12 * time.Hour,
	}))

	positions := &handlers.PositionHandler{Tracker: d.Tracker, MaxAge: d.MaxFixAge}
	points := &handlers.PointHandler{Capture: d.Capture}
	exports := &handlers.ExportHandler{Export: d.Export}
	analyze := &handlers.AnalyzeHandler{Analyze: d.Analyze}

	router.GET("/health", handlers.Health)
	router.GET("/metrics", metrics.Handler())

	router.POST("/positions", positions.Update)
	router.GET("/positions/current", positions.Current)

	router.POST("/points", points.Create)
	router.GET("/points", points.List)
	router.GET("/points/nearby", points.Nearby)
	router.GET("/points/:id", points.Get)
	router.GET("/points/:id/photo", points.Photo)
	router.DELETE("/points/:id", points.Delete)

	router.GET("/export.kml", exports.KML)
	router.GET("/export.geojson", exports.GeoJSON)

	router.POST("/analyze", analyze.Post)

	if d.Tiles != nil {
		tiles := &handlers.TileHandler{Tiles: d.Tiles}
		router.GET("/tiles/:z/:x/:y", tiles.Get)
	}

	return router
}
