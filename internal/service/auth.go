package service

//go:generate mockgen -source=auth.go -destination=mocks/mock_auth.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials - неверный e-mail или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveUser - учетная запись не в статусе ATIVO
	ErrInactiveUser = errors.New("user is not active")
	// ErrInvalidToken - токен не прошел проверку
	ErrInvalidToken = errors.New("invalid token")
)

const tokenIssuer = "sisocc"

// UserRepository определяет контракт для работы с бд сотрудников
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	TouchLastAccess(ctx context.Context, id uuid.UUID) error
}

// AuthService - вход сотрудников и проверка JWT
type AuthService interface {
	Login(ctx context.Context, email, senha string) (string, *models.User, error)
	ParseToken(token string) (uuid.UUID, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	repo   UserRepository
	secret []byte
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

func NewAuthService(repo UserRepository, logger *logrus.Logger, cfg *config.Config) AuthService {
	return &authService{
		repo:   repo,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.JWTTTL,
		logger: logger,
		now:    time.Now,
	}
}

// Login проверяет пароль и выдает токен. Отсутствующий e-mail и неверный пароль неразличимы для клиента.
func (s *authService) Login(ctx context.Context, email, senha string) (string, *models.User, error) {
	email = strings.TrimSpace(email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return "", nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to load user")
		return "", nil, fmt.Errorf("service: could not load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(senha)); err != nil {
		log.Warn("Login attempt with wrong password")
		return "", nil, ErrInvalidCredentials
	}
	if user.Status != models.UserAtivo {
		log.WithField("status", user.Status).Warn("Login attempt by inactive user")
		return "", nil, ErrInactiveUser
	}

	token, err := s.issue(user)
	if err != nil {
		log.WithError(err).Error("Failed to sign token")
		return "", nil, fmt.Errorf("service: could not sign token: %w", err)
	}

	if err := s.repo.TouchLastAccess(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last access")
	} else {
		now := s.now()
		user.UltimoAcesso = &now
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return token, user, nil
}

func (s *authService) issue(user *models.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken проверяет подпись и срок действия, возвращает id сотрудника
func (s *authService) ParseToken(token string) (uuid.UUID, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != tokenIssuer {
		return uuid.Nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}

// CurrentUser возвращает профиль владельца токена; неактивный сотрудник теряет доступ сразу
func (s *authService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	if user.Status != models.UserAtivo {
		return nil, ErrInactiveUser
	}
	return user, nil
}
