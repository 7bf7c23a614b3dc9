package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты
	api.POST("/auth/login", h.login)
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("", AuthMiddleware(h.authService, h.cfg, h.logger))
	{
		protected.GET("/auth/me", h.me)
		protected.POST("/auth/logout", h.logout)

		// Маршруты для управления происшествиями (CRUD)
		occurrences := protected.Group("/occurrences")
		{
			occurrences.POST("", h.createOccurrence)
			occurrences.GET("", h.listOccurrences)
			occurrences.GET("/stats", h.getStats)
			occurrences.GET("/:id", h.getOccurrence)
			occurrences.PUT("/:id", h.updateOccurrence)
			occurrences.DELETE("/:id", h.deleteOccurrence)
		}

		// Канал живых обновлений
		protected.GET("/live", h.live)
	}
}
