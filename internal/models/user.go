package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus - состояние учетной записи сотрудника
type UserStatus string

const (
	UserAtivo    UserStatus = "ATIVO"
	UserPendente UserStatus = "PENDENTE"
	UserInativo  UserStatus = "INATIVO"
)

// User представляет сотрудника; для клиента модель только для чтения
type User struct {
	ID           uuid.UUID  `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	Cargo        string     `json:"cargo"`
	Departamento string     `json:"departamento"`
	Telefone     string     `json:"telefone"`
	Avatar       string     `json:"avatar,omitempty"`
	Status       UserStatus `json:"status"`
	Permissoes   []string   `json:"permissoes"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UltimoAcesso *time.Time `json:"ultimoAcesso,omitempty"`
}

