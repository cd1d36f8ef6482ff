// Package models содержит доменные модели сервиса: учётную запись пользователя,
// запись журнала предсказаний и перечень поддерживаемых модальностей.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import (
	"errors"
	"time"
)

// Modality определяет категорию медицинского входа и выбирает адаптер модели.
type Modality string

const (
	// ModalityDiabetes — табличные показатели для оценки риска диабета
	ModalityDiabetes Modality = "diabetes"
	// ModalityParkinsons — голосовая запись для выявления болезни Паркинсона
	ModalityParkinsons Modality = "parkinsons"
	// ModalityPneumonia — рентгеновский снимок грудной клетки
	ModalityPneumonia Modality = "pneumonia"
)

// Valid сообщает, входит ли модальность в закрытый набор поддерживаемых.
func (m Modality) Valid() bool {
	switch m {
	case ModalityDiabetes, ModalityParkinsons, ModalityPneumonia:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	Username     string    // Имя пользователя (уникальное без учёта регистра)
	PasswordHash string    // Хэш пароля в самоописывающем PHC-формате
	CreatedAt    time.Time // Дата регистрации
}

// PredictionEntry представляет запись журнала предсказаний.
// Запись неизменяема после создания: журнал только дописывается.
type PredictionEntry struct {
	ID               int64     `json:"id"`
	UserUID          string    `json:"user_uid"`
	Modality         Modality  `json:"modality"`
	InputDigest      string    `json:"input_digest"`
	ResultLabel      string    `json:"result_label"`
	ResultConfidence float64   `json:"result_confidence"`
	CreatedAt        time.Time `json:"created_at"`
}

// Ошибки доменного уровня. Обработчики сопоставляют их с HTTP-статусами,
// всё остальное считается внутренней ошибкой.
var (
	// ErrUserExists возвращается при регистрации занятого имени или email.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound возвращается хранилищем, когда пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials возвращается при неверном пароле или неизвестном
	// имени пользователя. Оба случая неразличимы для клиента.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired возвращается при отсутствующей, отозванной или истёкшей сессии.
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidInput возвращается табличным адаптером при выходе поля за допустимый диапазон.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedFormat возвращается адаптерами аудио и изображений,
	// если вход не декодируется или короче/меньше минимума.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
