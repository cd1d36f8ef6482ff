// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает argon2id-хеш пароля со случайной солью в самоописывающем
// PHC-формате ($argon2id$v=19$m=...,t=...,p=...$salt$digest), поэтому проверка
// продолжает работать после смены параметров алгоритма.
// CompareHash сравнивает сохранённый хеш с введённым паролем за константное время.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры argon2id (рекомендуемый минимум OWASP).
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// ErrInvalidHash возвращается, если сохранённый хеш не соответствует PHC-формату.
var ErrInvalidHash = errors.New("invalid hash format")

// ErrMismatch возвращается, если пароль не соответствует хешу.
var ErrMismatch = errors.New("password mismatch")

// GetHash принимает пароль пользователя и возвращает его argon2id-хэш
// в PHC-формате со случайной солью.
//
// Используется для безопасного хранения паролей в базе данных.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, b64Salt, b64Hash), nil
}

// CompareHash сравнивает argon2id-хэш с введённым паролем.
//
// Параметры алгоритма берутся из самого хеша. Возвращает nil, если пароль
// соответствует хэшу, иначе ErrMismatch или ErrInvalidHash.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"

	parts := strings.Split(originalHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}
	if version != argon2.Version {
		return fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	computed := argon2.IDKey([]byte(externalPassword), salt, time, memory, threads, uint32(len(expected)))
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	return nil
}

// DummyHash — фиксированный хеш для выравнивания времени ответа, когда
// пользователь не найден: проверка неизвестного имени стоит столько же,
// сколько проверка неверного пароля.
var DummyHash = func() string {
	h, err := GetHash("dummy-password-for-timing")
	if err != nil {
		panic(err)
	}
	return h
}()
