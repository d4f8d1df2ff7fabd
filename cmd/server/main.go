package main

import (
	"context"
	"database/sql"
	"errors"
	"field-survey-service/internal/adapters/cache"
	"field-survey-service/internal/adapters/classifier"
	"field-survey-service/internal/adapters/events"
	"field-survey-service/internal/adapters/repositories"
	"field-survey-service/internal/adapters/tiles"
	"field-survey-service/internal/api"
	"field-survey-service/internal/config"
	"field-survey-service/internal/platform/db"
	"field-survey-service/internal/platform/obs"
	"field-survey-service/internal/ports"
	"field-survey-service/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/apex/log"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	logCloser, err := obs.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.WithError(err).Fatal("setup logging")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, repo, err := openRepository(cfg)
	if err != nil {
		log.WithError(err).Fatal("open repository")
	}
	defer conn.Close()

	if err := seedIfEmpty(ctx, repo, cfg.SeedPath); err != nil {
		log.WithError(err).Fatal("seed points")
	}

	var publisher ports.EventPublisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		nats, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.WithError(err).Fatal("connect nats")
		}
		defer nats.Close()
		publisher = nats
		log.WithField("url", cfg.NATSURL).Info("publishing capture events")
	}

	// Without an API key the analyze endpoint reports 503 and capture stays manual.
	analyze := &services.AnalyzeService{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := classifier.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.WithError(err).Fatal("create gemini client")
		}
		analyze.Classifier = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set; photo analysis disabled")
	}

	source, err := tiles.NewHTTPSource(cfg.TileURL, "field-survey-service/1.0")
	if err != nil {
		log.WithError(err).Fatal("create tile source")
	}
	// Memory cache in front of a persistent table, so tiles stay available offline.
	var store ports.TileSource = cache.NewSqliteTileStore(conn, source, cfg.TileCacheTTL)
	if cfg.DatabaseURL != "" {
		store = cache.NewSQLTileStore(conn, source, cfg.TileCacheTTL)
	}
	tileCache := tiles.NewCache(store, tiles.CacheOptions{
		TTL:      cfg.TileCacheTTL,
		Capacity: cfg.TileCacheCapacity,
	})
	defer tileCache.Close()

	tracker := services.NewPositionTracker(nil)
	router := api.NewRouter(api.Deps{
		Tracker:   tracker,
		MaxFixAge: cfg.FixMaxAge,
		Capture:   services.NewCaptureService(repo, publisher, tracker, cfg.FixMaxAge),
		Export:    services.NewExportService(repo, cfg.ExportLocation()),
		Analyze:   analyze,
		Tiles:     tileCache,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// openRepository picks Postgres when DATABASE_URL is set, SQLite otherwise.
func openRepository(cfg *config.Config) (*sql.DB, ports.PointRepository, error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return conn, repositories.NewSQLPointRepository(conn), nil
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, repositories.NewSqlitePointRepository(conn), nil
}

// seedIfEmpty imports seedPath on first start only, so captured points are never overwritten.
func seedIfEmpty(ctx context.Context, repo ports.PointRepository, seedPath string) error {
	if seedPath == "" {
		return nil
	}

	existing, err := repo.ListPoints(ctx)
	if err != nil {
		return fmt.Errorf("seed if empty: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, repo, seedPath)
	if err != nil {
		return err
	}
	log.WithField("count", n).WithField("path", seedPath).Info("seeded points")
	return nil
}
