// Package session реализует процессную таблицу активных сессий.
//
// Таблица хранится в памяти сервера и не переживает перезапуск процесса.
// Подпись JWT подтверждает подлинность токена, запись в таблице по jti —
// что сессия не была отозвана через logout. Истёкшие записи вычищаются
// лениво при обращении.
package session

import (
	"sync"
	"time"
)

// Entry описывает активную сессию, привязанную к пользователю.
type Entry struct {
	UserUID   string
	Username  string
	ExpiresAt time.Time
}

// Store — таблица сессий, безопасная для конкурентных чтений.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
}

// New создаёт пустую таблицу сессий с заданным временем жизни.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]Entry),
	}
}

// Put регистрирует сессию по jti. Срок действия отсчитывается от момента выдачи.
func (s *Store) Put(jti, userUID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = Entry{
		UserUID:   userUID,
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}
}

// Get возвращает сессию по jti. Истёкшая запись удаляется, как будто её нет.
func (s *Store) Get(jti string) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[jti]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if time.Now().After(e.ExpiresAt) {
		s.mu.Lock()
		delete(s.entries, jti)
		s.mu.Unlock()
		return Entry{}, false
	}
	return e, true
}

// Delete отзывает сессию немедленно, независимо от срока действия.
func (s *Store) Delete(jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jti)
}

// Len возвращает число записей в таблице, включая ещё не вычищенные истёкшие.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
