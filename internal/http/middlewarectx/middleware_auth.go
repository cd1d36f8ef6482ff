// Package middlewarectx содержит HTTP middleware шлюза доступа.
//
// SessionMiddleware проверяет наличие и валидность токена сессии в заголовке
// Authorization: подпись подтверждает подлинность, таблица сессий — что сессия
// не отозвана и не истекла. В случае успеха в контекст добавляются имя и uid
// пользователя; защищённый обработчик до адаптеров без этого не доходит.
//
// Истечение сессии не является ошибкой сервера: клиент получает 401
// с адресом страницы входа и логинится заново.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/health-predictor/internal/http/response"
	"github.com/magabrotheeeer/health-predictor/internal/lib/sl"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
	// UserUID — ключ для uid пользователя в контексте
	UserUID Key = "user_uid"
)

// LoginPath — адрес страницы входа, возвращаемый неаутентифицированным клиентам.
const LoginPath = "/api/v1/login"

// Service описывает интерфейс сервиса для проверки сессионного токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет токен сессии
// в заголовке Authorization.
//
// Если сессия жива, добавляет имя и uid пользователя в контекст запроса,
// иначе возвращает 401 Unauthorized с адресом страницы входа.
func SessionMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				redirectToLogin(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				redirectToLogin(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", LoginPath)
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("authentication required"))
}
