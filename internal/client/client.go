package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout - фиксированный таймаут запроса к серверу
const DefaultTimeout = 15 * time.Second

// ErrUnauthorized - сервер ответил 401; сессия уже очищена
var ErrUnauthorized = errors.New("client: unauthorized")

// APIError - ответ сервера с кодом вне 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("client: server returned %d: %s", e.StatusCode, e.Message)
}

// IsTimeout сообщает, что запрос не уложился в таймаут
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Options - параметры клиента
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Decorators []RequestDecorator
}

// Client - REST-клиент сервера происшествий. Повторов нет: ошибка возвращается вызывающему.
type Client struct {
	baseURL    string
	http       *http.Client
	session    *Session
	decorators []RequestDecorator
	logger     *logrus.Logger
}

// New создает клиента; к декораторам из opts всегда добавляется BearerToken(session)
func New(opts Options, session *Session, logger *logrus.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	decorators := append([]RequestDecorator{BearerToken(session)}, opts.Decorators...)
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       &http.Client{Timeout: opts.Timeout},
		session:    session,
		decorators: decorators,
		logger:     logger,
	}
}

// Session возвращает сессию клиента
func (c *Client) Session() *Session {
	return c.session
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do выполняет запрос и раскладывает ответ {success, message, data} в out.
// Ответ без конверта (голый массив или объект) разбирается целиком.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, decorate := range c.decorators {
		if err := decorate(req); err != nil {
			return fmt.Errorf("client: decorate request: %w", err)
		}
	}

	log := c.logger.WithFields(logrus.Fields{
		"component": "client",
		"http":      method + " " + path,
	})

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("Request failed")
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	var env envelope
	hasEnvelope := json.Unmarshal(raw, &env) == nil && env.Success != nil

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn("Server rejected credentials, clearing session")
		c.session.Clear()
		return fmt.Errorf("%w: %s", ErrUnauthorized, env.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Warn("Server returned error status")
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if hasEnvelope && !*env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	data := json.RawMessage(raw)
	if hasEnvelope {
		data = env.Data
	}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login входит и сохраняет токен и профиль в сессии
func (c *Client) Login(ctx context.Context, email, senha string) (*models.User, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Senha: senha}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("client: login response without token")
	}
	c.session.Set(resp.Token, resp.User)
	return resp.User, nil
}

// Me обновляет профиль текущего сотрудника
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	c.session.SetUser(&user)
	return &user, nil
}

// Logout уведомляет сервер и очищает сессию даже при ошибке сети
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.session.Clear()
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return err
	}
	return nil
}

// ListOccurrences возвращает полный список происшествий
func (c *Client) ListOccurrences(ctx context.Context) ([]models.Occurrence, error) {
	var list []models.Occurrence
	if err := c.do(ctx, http.MethodGet, "/occurrences", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateOccurrence(ctx context.Context, draft models.Draft) (*models.Occurrence, error) {
	var occ models.Occurrence
	if err := c.do(ctx, http.MethodPost, "/occurrences", draft, &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}

func (c *Client) UpdateOccurrence(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error) {
	var occ models.Occurrence
	if err := c.do(ctx, http.MethodPut, "/occurrences/"+id.String(), patch, &occ); err != nil {
		return nil, err
	}
	return &occ, nil
}

func (c *Client) DeleteOccurrence(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/occurrences/"+id.String(), nil, nil)
}
