package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (*authService, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour}
	svc := NewAuthService(repoMock, logger, cfg)
	return svc.(*authService), repoMock
}

func testUser(t *testing.T, status models.UserStatus) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Nome:         "Administrador",
		Email:        "admin@sisocc.gov.br",
		Status:       status,
		PasswordHash: string(hash),
	}
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()
	user := testUser(t, models.UserAtivo)

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil).Times(1)
	repoMock.EXPECT().TouchLastAccess(ctx, user.ID).Return(nil).Times(1)

	// Действие
	token, got, err := svc.Login(ctx, " admin@sisocc.gov.br ", "admin123")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotNil(t, got.UltimoAcesso)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()
	user := testUser(t, models.UserAtivo)

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil).Times(1)

	// Действие
	_, _, err := svc.Login(ctx, user.Email, "wrong")

	// Проверки
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, "x@y.z").Return(nil, fmt.Errorf("user: %w", models.ErrNotFound)).Times(1)

	// Действие
	_, _, err := svc.Login(ctx, "x@y.z", "admin123")

	// Проверки
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_PendingUser(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()
	user := testUser(t, models.UserPendente)

	// Ожидания
	repoMock.EXPECT().GetByEmail(ctx, user.Email).Return(user, nil).Times(1)

	// Действие
	_, _, err := svc.Login(ctx, user.Email, "admin123")

	// Проверки
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestParseToken_Rejects(t *testing.T) {
	svc, _ := newTestAuthService(t)
	user := testUser(t, models.UserAtivo)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := svc.issue(user)
		svc.now = time.Now
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := &authService{secret: []byte("other"), ttl: time.Hour, now: time.Now}
		token, err := other.issue(user)
		require.NoError(t, err)

		_, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCurrentUser_Inactive(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestAuthService(t)
	ctx := context.Background()
	user := testUser(t, models.UserInativo)

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, user.ID).Return(user, nil).Times(1)

	// Действие
	_, err := svc.CurrentUser(ctx, user.ID)

	// Проверки
	assert.ErrorIs(t, err, ErrInactiveUser)
}
