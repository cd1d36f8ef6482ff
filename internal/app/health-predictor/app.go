package healthpredictor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	diabetesadapter "github.com/magabrotheeeer/health-predictor/internal/adapter/diabetes"
	parkinsonsadapter "github.com/magabrotheeeer/health-predictor/internal/adapter/parkinsons"
	pneumoniaadapter "github.com/magabrotheeeer/health-predictor/internal/adapter/pneumonia"
	"github.com/magabrotheeeer/health-predictor/internal/cache"
	"github.com/magabrotheeeer/health-predictor/internal/config"
	"github.com/magabrotheeeer/health-predictor/internal/lib/jwt"
	"github.com/magabrotheeeer/health-predictor/internal/migrations"
	"github.com/magabrotheeeer/health-predictor/internal/services/auth"
	predictionservice "github.com/magabrotheeeer/health-predictor/internal/services/prediction"
	"github.com/magabrotheeeer/health-predictor/internal/session"
	"github.com/magabrotheeeer/health-predictor/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.SessionTTL)
	sessions := session.New(cfg.SessionTTL)
	authService := services.NewAuthService(db, jwtMaker, sessions)

	// Реестр собирается один раз при старте и дальше только читается.
	registry := adapter.NewRegistry(
		diabetesadapter.New(cfg.DiabetesArtifact),
		parkinsonsadapter.New(cfg.ParkinsonsArtifact),
		pneumoniaadapter.New(cfg.PneumoniaArtifact),
	)
	predictionService := predictionservice.NewPredictionService(db, registry, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, predictionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
