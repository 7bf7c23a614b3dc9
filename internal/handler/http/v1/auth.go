package v1

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	ctxUserID   = "user_id"
	ctxAuthKind = "auth_kind"
)

// AuthMiddleware - аутентификация по JWT (Authorization: Bearer) или по API-ключу (X-API-Key).
// Браузер не умеет ставить заголовки на WebSocket, поэтому для upgrade-запроса токен принимается из ?token=.
func AuthMiddleware(auth service.AuthService, cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" {
			if !validAPIKey(cfg.APIKeys, apiKey) {
				log.WithField("ip", c.ClientIP()).Warn("Invalid API key provided")
				abortUnauthorized(c, "invalid API key")
				return
			}
			c.Set(ctxAuthKind, "api_key")
			c.Next()
			return
		}

		token := ""
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else if websocket.IsWebSocketUpgrade(c.Request) {
			token = c.Query("token")
		}

		if token == "" {
			log.Warn("Credentials missing from request")
			abortUnauthorized(c, "authentication required")
			return
		}

		userID, err := auth.ParseToken(token)
		if err != nil {
			log.WithError(err).Warn("Rejected bearer token")
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ctxAuthKind, "jwt")
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func validAPIKey(keys []string, candidate string) bool {
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: message})
}

// currentUserID - id сотрудника из JWT; для API-ключа ok = false
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ctxUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
