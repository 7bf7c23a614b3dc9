package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/models"
)

// Response - общий конверт ответа API
// @Description Общий конверт ответа API
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// LoginRequest DTO для входа сотрудника
// @Description DTO для входа сотрудника
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=3"`
}

// LoginResponse DTO с токеном и профилем
// @Description DTO с токеном и профилем
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateOccurrenceRequest DTO для регистрации происшествия
// @Description DTO для регистрации происшествия
type CreateOccurrenceRequest struct {
	Tipo        string             `json:"tipo" validate:"required,max=100"`
	Local       string             `json:"local" validate:"required,max=255"`
	Endereco    string             `json:"endereco,omitempty" validate:"max=500"`
	Descricao   string             `json:"descricao,omitempty" validate:"max=5000"`
	Prioridade  models.Priority    `json:"prioridade,omitempty" validate:"omitempty,oneof=BAIXA MEDIA ALTA CRITICA"`
	Responsavel string             `json:"responsavel,omitempty" validate:"max=255"`
	Latitude    *float64           `json:"latitude,omitempty" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude   *float64           `json:"longitude,omitempty" validate:"required_with=Latitude,omitempty,longitude"`
	CoordSource models.CoordSource `json:"coordSource,omitempty" validate:"omitempty,oneof=resolved fallback"`
}

// UpdateOccurrenceRequest DTO для частичного обновления; отсутствующее поле не меняется
// @Description DTO для частичного обновления происшествия
type UpdateOccurrenceRequest struct {
	Tipo        *string          `json:"tipo,omitempty" validate:"omitempty,min=1,max=100"`
	Local       *string          `json:"local,omitempty" validate:"omitempty,min=1,max=255"`
	Endereco    *string          `json:"endereco,omitempty" validate:"omitempty,max=500"`
	Descricao   *string          `json:"descricao,omitempty" validate:"omitempty,max=5000"`
	Responsavel *string          `json:"responsavel,omitempty" validate:"omitempty,max=255"`
	Status      *models.Status   `json:"status,omitempty" validate:"omitempty,oneof=NOVO EM_ANALISE EM_ATENDIMENTO CONCLUIDO CANCELADO"`
	Prioridade  *models.Priority `json:"prioridade,omitempty" validate:"omitempty,oneof=BAIXA MEDIA ALTA CRITICA"`
	Latitude    *float64         `json:"latitude,omitempty" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude   *float64         `json:"longitude,omitempty" validate:"required_with=Latitude,omitempty,longitude"`
}

// OccurrenceResponse DTO для ответа с информацией о происшествии
// @Description DTO для ответа с информацией о происшествии
type OccurrenceResponse struct {
	ID          uuid.UUID          `json:"id"`
	Tipo        string             `json:"tipo"`
	Local       string             `json:"local"`
	Endereco    string             `json:"endereco"`
	Latitude    *float64           `json:"latitude"`
	Longitude   *float64           `json:"longitude"`
	CoordSource models.CoordSource `json:"coordSource"`
	Status      models.Status      `json:"status"`
	StatusLabel string             `json:"statusLabel"`
	Prioridade  models.Priority    `json:"prioridade"`
	Descricao   string             `json:"descricao,omitempty"`
	Responsavel string             `json:"responsavel,omitempty"`
	UserID      *uuid.UUID         `json:"userId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// HealthResponse DTO для проверки состояния
// @Description DTO для проверки состояния
type HealthResponse struct {
	Status      string `json:"status"`
	LiveClients int    `json:"liveClients"`
}
