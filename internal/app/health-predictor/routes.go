// Package healthpredictor предоставляет маршруты для основного приложения.
package healthpredictor

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/health-predictor/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/health-predictor/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/health-predictor/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/health-predictor/internal/http/handlers/health"
	"github.com/magabrotheeeer/health-predictor/internal/http/handlers/pages"
	diabeteshandler "github.com/magabrotheeeer/health-predictor/internal/http/handlers/prediction/diabetes"
	"github.com/magabrotheeeer/health-predictor/internal/http/handlers/prediction/history"
	parkinsonshandler "github.com/magabrotheeeer/health-predictor/internal/http/handlers/prediction/parkinsons"
	pneumoniahandler "github.com/magabrotheeeer/health-predictor/internal/http/handlers/prediction/pneumonia"
	"github.com/magabrotheeeer/health-predictor/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/health-predictor/internal/services/auth"
	predictionservice "github.com/magabrotheeeer/health-predictor/internal/services/prediction"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Открытые конечные точки: регистрация, вход, информационные страницы,
// health, metrics и docs. Всё, что работает с предсказаниями и историей,
// закрыто шлюзом сессий: неаутентифицированный запрос получает 401
// с адресом страницы входа, адаптеры при этом не вызываются.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, predictionService *predictionservice.PredictionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/pages/{name}", pages.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа со шлюзом сессий
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/predictions/diabetes", diabeteshandler.New(logger, predictionService).ServeHTTP)
			r.Post("/predictions/parkinsons", parkinsonshandler.New(logger, predictionService).ServeHTTP)
			r.Post("/predictions/pneumonia", pneumoniahandler.New(logger, predictionService).ServeHTTP)
			r.Get("/predictions/history", history.New(logger, predictionService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
