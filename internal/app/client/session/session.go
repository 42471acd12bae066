package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Data сохраняемое состояние входа.
type Data struct {
	Token   string    `json:"token"`
	UID     string    `json:"uid"`
	Email   string    `json:"email"`
	SavedAt time.Time `json:"saved_at"`
}

// Session текущая сессия клиента, хранится в файле с правами 0600.
type Session struct {
	path string
	mu   sync.RWMutex
	data Data
}

// New пустая сессия, которая будет сохранена в path.
func New(path string) *Session {
	return &Session{path: path}
}

// Load читает файл сессии; отсутствие файла означает пустую сессию.
func Load(path string) (*Session, error) {
	s := New(path)

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("ошибка разбора сессии: %w", err)
	}
	return s, nil
}

// Token возвращает bearer-токен или пустую строку.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// CurrentUID возвращает uid владельца, если пользователь вошел.
func (s *Session) CurrentUID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.UID, s.data.UID != ""
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Email
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Save записывает сессию на диск.
func (s *Session) Save(d Data) error {
	if d.SavedAt.IsZero() {
		d.SavedAt = time.Now().UTC()
	}

	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("ошибка сохранения сессии: %w", err)
	}
	s.data = d
	return nil
}

// Clear удаляет сессию.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = Data{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	return nil
}
