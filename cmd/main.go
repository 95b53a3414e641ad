package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/config"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/delivery"
	ws "github.com/BogdanParamon/project-portofolio-management-be/internal/delivery/ws"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/domain"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/infra"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {

	// LOGGER
	zcore, _ := zap.NewProduction()
	defer zcore.Sync()
	zl := logger.NewZapLogger(zcore.Sugar())

	// ENV
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// STORE
	var store ports.Store
	if cfg.DatabaseURL != "" {
		ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := infra.NewPgxPool(ctxPing, cfg.DatabaseURL)
		cancel()
		if err != nil {
			panic(err.Error())
		}
		defer pool.Close()

		if err := infra.Migrate(ctx, pool); err != nil {
			panic("migrate: " + err.Error())
		}
		store = infra.NewPostgresStore(pool)
	} else {
		zl.Log(logger.LogEntry{
			Level:   "warn",
			Message: "DATABASE_URL is not set; state is kept in memory",
		})
		store = infra.NewMemoryStore()
	}

	// BLOBS
	var blobs ports.BlobStore
	switch cfg.BlobBackend {
	case config.BlobMinio:
		blobs, err = infra.NewMinioBlobStore(ctx, infra.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	case config.BlobMemory:
		blobs = infra.NewBillyBlobStore(memfs.New())
	default:
		blobs, err = infra.NewLocalBlobStore(cfg.BlobDir)
	}
	if err != nil {
		panic("blob store: " + err.Error())
	}

	// BROADCAST
	broadcaster := domain.NewBroadcaster(zl)
	defer broadcaster.Close()
	hub := ws.NewHub(broadcaster, zl)

	// SERVICES
	mediaService := domain.NewMediaService(store, blobs, broadcaster, zl)
	requestService := domain.NewRequestService(store, mediaService, broadcaster, zl)
	projectService := domain.NewProjectService(store, mediaService, broadcaster, zl)
	collaboratorService := domain.NewCollaboratorService(store, mediaService, broadcaster, zl)
	linkService := domain.NewLinkService(store, broadcaster)

	// HANDLERS
	hMedia := delivery.NewMediaHandler(mediaService, requestService, zl, cfg.MaxUploadBytes)
	hRequest := delivery.NewRequestHandler(requestService, zl)
	hProject := delivery.NewProjectHandler(projectService, collaboratorService, linkService, zl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(delivery.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	delivery.RegisterRoutes(r, hMedia, hRequest, hProject)

	r.Get("/ws", ws.WSHandler(hub, zl))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		hub.Close()

		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			zl.Log(logger.LogEntry{
				Level:   "error",
				Message: "server shutdown failed",
				Error:   err,
			})
		}
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server started",
		Fields: map[string]any{
			"port":     cfg.Port,
			"postgres": cfg.DatabaseURL != "",
			"blobs":    cfg.BlobBackend,
		},
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
		return
	}
	<-drained
	zl.Log(logger.LogEntry{Level: "info", Message: "server stopped"})
}
