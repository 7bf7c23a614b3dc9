package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// TokenStore - долговременное хранилище сессии между запусками
type TokenStore interface {
	Load() (string, *models.User, error)
	Save(token string, user *models.User) error
	Clear() error
}

type persistedSession struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

// FileTokenStore хранит токен и профиль в JSON-файле с правами 0600
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load возвращает пустой токен, если файла нет
func (f *FileTokenStore) Load() (string, *models.User, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("client: read session file: %w", err)
	}
	var s persistedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return "", nil, fmt.Errorf("client: decode session file: %w", err)
	}
	return s.Token, s.User, nil
}

func (f *FileTokenStore) Save(token string, user *models.User) error {
	data, err := json.Marshal(persistedSession{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("client: encode session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("client: write session file: %w", err)
	}
	return nil
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("client: remove session file: %w", err)
	}
	return nil
}

// Session - явный объект сессии: токен и текущий сотрудник.
// Передается клиенту и декораторам вместо глобального хранилища.
type Session struct {
	mu     sync.RWMutex
	token  string
	user   *models.User
	store  TokenStore
	logger *logrus.Logger
}

// NewSession восстанавливает сохраненную сессию; store может быть nil
func NewSession(store TokenStore, logger *logrus.Logger) *Session {
	s := &Session{store: store, logger: logger}
	if store == nil {
		return s
	}
	token, user, err := store.Load()
	if err != nil {
		logger.WithError(err).Warn("Failed to restore persisted session")
		return s
	}
	s.token, s.user = token, user
	return s
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set запоминает токен и профиль и сохраняет их в store
func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	s.token, s.user = token, user
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(token, user); err != nil {
			s.logger.WithError(err).Warn("Failed to persist session")
		}
	}
}

// SetUser обновляет профиль, не трогая токен
func (s *Session) SetUser(user *models.User) {
	s.Set(s.Token(), user)
}

// Clear стирает токен и профиль, включая сохраненную копию
func (s *Session) Clear() {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.logger.WithError(err).Warn("Failed to clear persisted session")
		}
	}
}

// RequestDecorator изменяет исходящий запрос перед отправкой
type RequestDecorator func(req *http.Request) error

// BearerToken добавляет Authorization: Bearer, если в сессии есть токен
func BearerToken(s *Session) RequestDecorator {
	return func(req *http.Request) error {
		if token := s.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}
