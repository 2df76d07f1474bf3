// Package main provides the API router setup.
package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fileforge/fileforge/cmd/fileforge-api/handlers"
	"github.com/fileforge/fileforge/cmd/fileforge-api/middleware"
	"github.com/fileforge/fileforge/internal/artifact"
	"github.com/fileforge/fileforge/internal/compress"
	"github.com/fileforge/fileforge/internal/config"
	"github.com/fileforge/fileforge/internal/convert"
	"github.com/fileforge/fileforge/internal/observability"
)

// NewRouter creates the main API router with all routes configured.
// The returned cleanup stops the registry sweeper and closes the store.
func NewRouter(ctx context.Context, logger *observability.Logger, cfg *config.Config) (http.Handler, func(), error) {
	registry, cleanup, err := newRegistry(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := convert.NewEngine(convert.Config{
		RenderScale:   cfg.Convert.RenderScale,
		JPEGQuality:   cfg.Convert.JPEGQuality,
		SofficePath:   cfg.Convert.SofficePath,
		FFmpegPath:    cfg.Convert.FFmpegPath,
		ToolTimeout:   cfg.Convert.ToolTimeout,
		MaxImageBytes: cfg.Limits.MaxImageBytes,
		MaxPDFBytes:   cfg.Limits.MaxPDFBytes,
		MaxVideoBytes: cfg.Limits.MaxVideoBytes,
	}, logger)

	compressor := compress.NewService(compress.Config{
		FFmpegPath:  cfg.Convert.FFmpegPath,
		ToolTimeout: cfg.Convert.ToolTimeout,
	}, logger)

	convertHandler := handlers.NewConvertHandler(logger, engine, registry)
	compressHandler := handlers.NewCompressHandler(logger, compressor, registry, cfg.Limits.MaxCompressBytes)
	artifactHandler := handlers.NewArtifactHandler(logger, registry)

	limiter := middleware.NewLimiter(cfg.Server.MaxConcurrent)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"fileforge"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/convert", convertHandler.Pairs)

		// Conversion work is long-running and CPU bound; the limiter
		// keeps a spike of uploads from starving everything else.
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit)
			r.Post("/convert/{pair}", convertHandler.Convert)
			r.Post("/compress", compressHandler.Compress)
		})

		r.Get("/artifact/{fileId}", artifactHandler.Get)
	})

	return r, cleanup, nil
}

// newRegistry builds the artifact store named by the config driver and
// starts its eviction lifecycle.
func newRegistry(ctx context.Context, logger *observability.Logger, cfg *config.Config) (artifact.Store, func(), error) {
	switch cfg.Registry.Driver {
	case "redis":
		store, err := artifact.NewRedisStore(artifact.RedisOptions{
			Addr:     cfg.Registry.Redis.Addr,
			Password: cfg.Registry.Redis.Password,
			DB:       cfg.Registry.Redis.DB,
			PoolSize: cfg.Registry.Redis.PoolSize,
			TTL:      cfg.Registry.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store := artifact.NewMemoryStore(cfg.Registry.TTL, logger)
		sweepCtx, cancel := context.WithCancel(ctx)
		store.RunSweeper(sweepCtx, cfg.Registry.SweepInterval)
		return store, func() { cancel() }, nil
	}
}
