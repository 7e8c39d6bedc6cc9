package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-web-gallery/internal/config"
	"go-web-gallery/internal/database"
	"go-web-gallery/internal/event"
	"go-web-gallery/internal/handler"
	"go-web-gallery/internal/imaging"
	"go-web-gallery/internal/middleware"
	"go-web-gallery/internal/repository"
	"go-web-gallery/internal/router"
	"go-web-gallery/internal/service"
	"go-web-gallery/internal/storage"
	"go-web-gallery/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.UsingFallbackSecret() {
		slog.Warn("JWT_SECRET is not set; using the insecure development fallback. Do not run this configuration outside development.")
	}

	store, err := storage.New(cfg.MediaRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media storage: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	slog.Info("database ready")

	issuer, err := token.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	authService := service.NewAuthService(userRepo, tokenRepo, issuer, cfg.RefreshTTL)
	if err := authService.Bootstrap(context.Background(), cfg.BootstrapUser, cfg.BootstrapPass); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(issuer)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)

	bus := event.NewBus()
	processor := imaging.NewProcessor(store.RootAbs(), cfg.VariantsSubdir)
	worker := imaging.NewWorker(bus, processor)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	galleryService := service.NewGalleryService(photoRepo, cfg.GalleryPageSize)
	galleryHandler := handler.NewGalleryHandler(galleryService)

	uploadService, err := service.NewUploadService(store, photoRepo, bus, cfg.UploadTempDir)
	if err != nil {
		workerCancel()
		db.Close()
		return nil, fmt.Errorf("failed to initialize upload service: %w", err)
	}
	uploadHandler := handler.NewUploadHandler(uploadService, cfg.MaxUploadSize)

	mediaHandler := handler.NewMediaHandler(store)
	systemHandler := handler.NewSystemHandler(db, cfg.AppEnv)

	appRouter := router.New(cfg, authMiddleware, authHandler, userHandler, galleryHandler, uploadHandler, mediaHandler, systemHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			workerCancel,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
