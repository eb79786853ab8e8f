package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Session хранит bearer-токен. Если задан путь — токен переживает перезапуск (аналог localStorage).
type Session struct {
	mu     sync.RWMutex
	token  string
	path   string
	subs   map[int]func(authenticated bool)
	nextID int
}

// NewSession читает сохранённый токен из path; path == "" — только в памяти.
func NewSession(path string) (*Session, error) {
	s := &Session{path: path, subs: map[int]func(bool){}}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	s.token = strings.TrimSpace(string(b))
	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool { return s.Token() != "" }

// SetToken сохраняет токен и оповещает подписчиков.
func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	s.mu.Lock()
	s.token = token
	err := s.persistLocked()
	subs := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(token != "")
	}
	return err
}

// Clear — выход: токен стирается, подписчики получают false.
func (s *Session) Clear() error { return s.SetToken("") }

// Subscribe регистрирует обработчик смены авторизации; возвращает отписку.
func (s *Session) Subscribe(fn func(authenticated bool)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Username — claim sub из токена. Подпись не проверяется: это делает сервер.
func (s *Session) Username() string {
	tok := s.Token()
	if tok == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func (s *Session) persistLocked() error {
	if s.path == "" {
		return nil
	}
	if s.token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove token: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(s.token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
