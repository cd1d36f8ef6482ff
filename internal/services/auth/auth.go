// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/health-predictor/internal/lib/jwt"
	"github.com/magabrotheeeer/health-predictor/internal/lib/password"
	"github.com/magabrotheeeer/health-predictor/internal/models"
	"github.com/magabrotheeeer/health-predictor/internal/session"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, вход, выход и проверку сессий.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	sessions *session.Store
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, sessions *session.Store) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		sessions: sessions,
	}
}

// Register создает нового пользователя с хэшированием пароля и возвращает его UID.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя, регистрирует сессию и возвращает токен.
//
// Неизвестное имя и неверный пароль дают одну и ту же ошибку: по ответу
// нельзя перечислять занятые имена. Для неизвестного имени всё равно
// выполняется одно сравнение хэша, чтобы выровнять время ответа.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			_ = password.CompareHash(password.DummyHash, rawPassword)
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", models.ErrInvalidCredentials
	}

	jti := uuid.NewString()
	token, err := s.jwtMaker.GenerateToken(user.Username, user.UID, jti)
	if err != nil {
		return "", fmt.Errorf("auth.Login: %w", err)
	}
	s.sessions.Put(jti, user.UID, user.Username)
	return token, nil
}

// Logout немедленно отзывает сессию токена независимо от срока действия.
// Неизвестный или уже отозванный токен не считается ошибкой.
func (s *AuthService) Logout(_ context.Context, token string) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return
	}
	s.sessions.Delete(claims.ID)
}

// ValidateToken проверяет подпись токена и наличие живой сессии в таблице.
// Возвращает пользователя сессии или ErrSessionExpired.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, models.ErrSessionExpired
	}
	entry, ok := s.sessions.Get(claims.ID)
	if !ok {
		return nil, models.ErrSessionExpired
	}
	return &models.User{
		UID:      entry.UserUID,
		Username: entry.Username,
	}, nil
}
