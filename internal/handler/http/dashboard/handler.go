package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/client"
	"github.com/shenikar/sisocc/internal/geocode"
	"github.com/shenikar/sisocc/internal/intake"
	"github.com/shenikar/sisocc/internal/mapview"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// OccurrenceStore - клиентская коллекция происшествий
type OccurrenceStore interface {
	Snapshot() []models.Occurrence
	Get(id uuid.UUID) (models.Occurrence, bool)
	Stats() models.Stats
	Refresh(ctx context.Context) error
	Update(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// Registrar - регистрация происшествий из форм
type Registrar interface {
	Submit(ctx context.Context, form intake.Form, draft models.Draft) (*models.Occurrence, error)
}

// MapLayer - слой маркеров карты
type MapLayer interface {
	SetFilter(filter models.Filter)
	SetSize(width, height int)
	Scene(zoom int) mapview.Scene
	Focus(id uuid.UUID) (mapview.Viewport, bool)
	Search(ctx context.Context, g geocode.Geocoder, address string) (mapview.SearchResult, error)
}

// LiveStatus - состояние канала живых обновлений
type LiveStatus interface {
	Connected() bool
}

// Response - конверт ответа, как у сервера
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ValidationResponse - ответ на форму, не прошедшую проверку
type ValidationResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Fields  []intake.FieldError `json:"fields"`
}

// HealthResponse - состояние агента
type HealthResponse struct {
	Status        string `json:"status"`
	LiveConnected bool   `json:"liveConnected"`
	Occurrences   int    `json:"occurrences"`
}

type Handler struct {
	store     OccurrenceStore
	registrar Registrar
	layer     MapLayer
	geocoder  geocode.Geocoder
	live      LiveStatus
	logger    *logrus.Logger
}

func NewHandler(
	store OccurrenceStore,
	registrar Registrar,
	layer MapLayer,
	geocoder geocode.Geocoder,
	live LiveStatus,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		store:     store,
		registrar: registrar,
		layer:     layer,
		geocoder:  geocoder,
		live:      live,
		logger:    logger,
	}
}

// RegisterRoutes регистрирует маршруты панели
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/system/health", h.healthCheck)

	occurrences := api.Group("/occurrences")
	{
		occurrences.GET("", h.listOccurrences)
		occurrences.POST("", h.createOccurrence)
		occurrences.POST("/refresh", h.refresh)
		occurrences.GET("/:id", h.getOccurrence)
		occurrences.PUT("/:id", h.updateOccurrence)
		occurrences.DELETE("/:id", h.deleteOccurrence)
	}

	api.GET("/stats", h.getStats)
	api.GET("/map", h.getMap)
	api.GET("/geocode", h.geocode)
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// writeRemoteError переводит ошибки сервера и сети в ответ панели одной строкой
func writeRemoteError(c *gin.Context, log *logrus.Entry, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		log.WithError(err).Warn("Backend session expired")
		respondError(c, http.StatusUnauthorized, "Sessão expirada, faça login novamente")
	case errors.As(err, &apiErr):
		log.WithError(err).Warn("Backend rejected request")
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		respondError(c, apiErr.StatusCode, message)
	case client.IsTimeout(err):
		log.WithError(err).Error("Backend request timed out")
		respondError(c, http.StatusGatewayTimeout, "Tempo de resposta do servidor esgotado")
	default:
		log.WithError(err).Error("Backend request failed")
		respondError(c, http.StatusBadGateway, "Erro ao comunicar com o servidor")
	}
}

func parseFilter(c *gin.Context) (models.Filter, error) {
	var filter models.Filter
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := c.Query("prioridade"); raw != "" {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			return filter, err
		}
		filter.Prioridade = &priority
	}
	return filter, nil
}

func (h *Handler) listOccurrences(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, http.StatusOK, "", mapview.Apply(h.store.Snapshot(), filter))
}

func (h *Handler) getOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid occurrence ID")
		return
	}
	occ, found := h.store.Get(id)
	if !found {
		respondError(c, http.StatusNotFound, "occurrence not found")
		return
	}
	respond(c, http.StatusOK, "", occ)
}

func (h *Handler) createOccurrence(c *gin.Context) {
	log := h.logger.WithField("method", "createOccurrence")

	form, err := intake.ParseForm(c.Query("form"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	occ, err := h.registrar.Submit(c.Request.Context(), form, draft)
	if err != nil {
		var vErr *intake.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, ValidationResponse{
				Success: false,
				Message: "Por favor, preencha os campos obrigatórios!",
				Fields:  vErr.Fields,
			})
			return
		}
		writeRemoteError(c, log, err)
		return
	}

	respond(c, http.StatusCreated, "Ocorrência registrada!", occ)
}

func (h *Handler) updateOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid occurrence ID")
		return
	}
	log := h.logger.WithField("method", "updateOccurrence").WithField("id", id)

	var patch models.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Empty() {
		respondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	occ, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeRemoteError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "occurrence updated", occ)
}

func (h *Handler) deleteOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid occurrence ID")
		return
	}
	log := h.logger.WithField("method", "deleteOccurrence").WithField("id", id)

	if err := h.store.Remove(c.Request.Context(), id); err != nil {
		writeRemoteError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// refresh - ручное обновление; при ошибке коллекция остается прежней
func (h *Handler) refresh(c *gin.Context) {
	log := h.logger.WithField("method", "refresh")
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		writeRemoteError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "", h.store.Stats())
}

func (h *Handler) getStats(c *gin.Context) {
	respond(c, http.StatusOK, "", h.store.Stats())
}

// getMap - сцена карты: фильтр, зум и размер окна -> кластеры, вид, счетчики, тайлы.
// Параметр focus центрирует вид на происшествии.
func (h *Handler) getMap(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	zoom := -1
	if raw := c.Query("zoom"); raw != "" {
		zoom, err = strconv.Atoi(raw)
		if err != nil || zoom < 0 {
			respondError(c, http.StatusBadRequest, "invalid zoom")
			return
		}
	}
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))

	h.layer.SetSize(width, height)
	h.layer.SetFilter(filter)

	if raw := c.Query("focus"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid occurrence ID")
			return
		}
		if _, found := h.layer.Focus(id); !found {
			respondError(c, http.StatusNotFound, "occurrence not on map")
			return
		}
	}

	respond(c, http.StatusOK, "", h.layer.Scene(zoom))
}

func (h *Handler) geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "query parameter q is required")
		return
	}

	result, err := h.layer.Search(c.Request.Context(), h.geocoder, query)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Endereço não encontrado. Tente ser mais específico.")
			return
		}
		h.logger.WithError(err).WithField("query", query).Warn("Address search failed")
		respondError(c, http.StatusBadGateway, "Erro ao buscar endereço")
		return
	}

	message := ""
	if !result.InRegion {
		message = "Endereço encontrado fora de Pernambuco/Recife. Verifique se está correto."
	}
	respond(c, http.StatusOK, message, result)
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:        "ok",
		LiveConnected: h.live.Connected(),
		Occurrences:   len(h.store.Snapshot()),
	})
}
