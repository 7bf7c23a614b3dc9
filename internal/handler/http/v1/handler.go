package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/service"
	"github.com/sirupsen/logrus"
)

// LiveHub - WebSocket hub канала живых обновлений
type LiveHub interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
	ClientCount() int
}

type Handler struct {
	occurrenceService service.OccurrenceService
	authService       service.AuthService
	hub               LiveHub
	logger            *logrus.Logger
	validate          *validator.Validate
	cfg               *config.Config
}

func NewHandler(
	occurrenceService service.OccurrenceService,
	authService service.AuthService,
	hub LiveHub,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		occurrenceService: occurrenceService,
		authService:       authService,
		hub:               hub,
		logger:            logger,
		validate:          validator.New(),
		cfg:               cfg,
	}
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// writeServiceError переводит ошибки сервиса в HTTP-коды
func writeServiceError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		log.WithError(err).Warn("Occurrence not found")
		respondError(c, http.StatusNotFound, "occurrence not found")
	case errors.Is(err, models.ErrInvalidTransition):
		log.WithError(err).Warn("Status transition rejected")
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyPatch):
		respondError(c, http.StatusBadRequest, "nothing to update")
	default:
		log.WithError(err).Error("Service call failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// @Summary Log in
// @Description Authenticate an employee by e-mail and password and issue a JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=LoginResponse}
// @Failure 400 {object} Response "Invalid request body or validation error"
// @Failure 401 {object} Response "Invalid credentials"
// @Failure 403 {object} Response "User is not active"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), input.Email, input.Senha)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid e-mail or password")
		return
	case errors.Is(err, service.ErrInactiveUser):
		respondError(c, http.StatusForbidden, "user is not active")
		return
	case err != nil:
		log.WithError(err).Error("Login failed")
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	respond(c, http.StatusOK, "login successful", LoginResponse{Token: token, User: user})
}

// @Summary Current user
// @Description Return the profile of the token owner.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User}
// @Failure 401 {object} Response "Unauthorized"
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	userID, found := currentUserID(c)
	if !found {
		respondError(c, http.StatusUnauthorized, "user token required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("Token owner rejected")
		respondError(c, http.StatusUnauthorized, "user not available")
		return
	}
	respond(c, http.StatusOK, "", user)
}

// @Summary Log out
// @Description Tokens are stateless; the client discards its token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	if userID, found := currentUserID(c); found {
		h.logger.WithField("user_id", userID).Info("User logged out")
	}
	respond(c, http.StatusOK, "logout successful", nil)
}

// @Summary Create a new occurrence
// @Description Register an occurrence. Status is always NOVO; missing coordinates are geocoded from the address.
// @Tags Occurrences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param occurrence body CreateOccurrenceRequest true "Occurrence creation request"
// @Success 201 {object} Response{data=OccurrenceResponse}
// @Failure 400 {object} Response "Invalid request body or validation error"
// @Failure 401 {object} Response "Unauthorized"
// @Failure 500 {object} Response "Internal server error"
// @Router /occurrences [post]
func (h *Handler) createOccurrence(c *gin.Context) {
	var input CreateOccurrenceRequest
	log := h.logger.WithField("method", "createOccurrence")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var userID *uuid.UUID
	if id, found := currentUserID(c); found {
		userID = &id
	}

	occ, err := h.occurrenceService.CreateOccurrence(c.Request.Context(), DTOToDraft(input), userID)
	if err != nil {
		writeServiceError(c, log, err)
		return
	}
	respond(c, http.StatusCreated, "occurrence created", ModelToOccurrenceResponse(occ))
}

// @Summary Get a list of occurrences
// @Description List occurrences newest first, optionally filtered by status and priority.
// @Tags Occurrences
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param status query string false "Status filter"
// @Param prioridade query string false "Priority filter"
// @Param limit query int false "Max items (0 = all)"
// @Param offset query int false "Items to skip"
// @Success 200 {object} Response{data=[]OccurrenceResponse}
// @Failure 400 {object} Response "Invalid filter"
// @Failure 401 {object} Response "Unauthorized"
// @Failure 500 {object} Response "Internal server error"
// @Router /occurrences [get]
func (h *Handler) listOccurrences(c *gin.Context) {
	log := h.logger.WithField("method", "listOccurrences")

	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	list, err := h.occurrenceService.ListOccurrences(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "", ModelsToOccurrenceResponses(list))
}

func parseFilter(c *gin.Context) (models.Filter, error) {
	var filter models.Filter
	if raw := c.Query("status"); raw != "" {
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
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return filter, nil
}

// @Summary Get occurrence by ID
// @Tags Occurrences
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Occurrence ID"
// @Success 200 {object} Response{data=OccurrenceResponse}
// @Failure 400 {object} Response "Invalid occurrence ID"
// @Failure 401 {object} Response "Unauthorized"
// @Failure 404 {object} Response "Occurrence not found"
// @Router /occurrences/{id} [get]
func (h *Handler) getOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid occurrence ID")
		return
	}
	log := h.logger.WithField("method", "getOccurrence").WithField("id", id)

	occ, err := h.occurrenceService.GetOccurrence(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "", ModelToOccurrenceResponse(occ))
}

// @Summary Update an existing occurrence
// @Description Partial update. Status changes must follow the lifecycle NOVO, EM_ANALISE, EM_ATENDIMENTO, CONCLUIDO; CANCELADO from any open state.
// @Tags Occurrences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Occurrence ID"
// @Param occurrence body UpdateOccurrenceRequest true "Occurrence update request"
// @Success 200 {object} Response{data=OccurrenceResponse}
// @Failure 400 {object} Response "Invalid occurrence ID or request body"
// @Failure 401 {object} Response "Unauthorized"
// @Failure 404 {object} Response "Occurrence not found"
// @Failure 409 {object} Response "Status transition rejected"
// @Router /occurrences/{id} [put]
func (h *Handler) updateOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid occurrence ID")
		return
	}
	log := h.logger.WithField("method", "updateOccurrence").WithField("id", id)

	var input UpdateOccurrenceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	occ, err := h.occurrenceService.UpdateOccurrence(c.Request.Context(), id, DTOToPatch(input))
	if err != nil {
		writeServiceError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "occurrence updated", ModelToOccurrenceResponse(occ))
}

// @Summary Delete an occurrence
// @Tags Occurrences
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param id path string true "Occurrence ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response "Invalid occurrence ID"
// @Failure 401 {object} Response "Unauthorized"
// @Failure 404 {object} Response "Occurrence not found"
// @Router /occurrences/{id} [delete]
func (h *Handler) deleteOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid occurrence ID")
		return
	}
	log := h.logger.WithField("method", "deleteOccurrence").WithField("id", id)

	if err := h.occurrenceService.DeleteOccurrence(c.Request.Context(), id); err != nil {
		writeServiceError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "occurrence deleted", nil)
}

// @Summary Get occurrence statistics
// @Description Totals, pending and resolved counts plus breakdowns by type, status and priority.
// @Tags Occurrences
// @Produce json
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param start query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param end query string false "End date (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} Response{data=models.Report}
// @Failure 400 {object} Response "Invalid date"
// @Failure 401 {object} Response "Unauthorized"
// @Failure 500 {object} Response "Internal server error"
// @Router /occurrences/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	start, err := parseDate(c.Query("start"), false)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := parseDate(c.Query("end"), true)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid end date")
		return
	}

	report, err := h.occurrenceService.GetStats(c.Request.Context(), start, end)
	if err != nil {
		writeServiceError(c, log, err)
		return
	}
	respond(c, http.StatusOK, "", report)
}

// parseDate - дата без времени как конец интервала включает весь день
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// @Summary Live updates
// @Description WebSocket channel. Frames are {"type":"occurrence:new|occurrence:update|occurrence:delete","payload":{...},"timestamp":"..."}.
// @Tags Live
// @Security BearerAuth
// @Security ApiKeyAuth
// @Param token query string false "JWT for browsers that cannot set headers"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} Response "Unauthorized"
// @Router /live [get]
func (h *Handler) live(c *gin.Context) {
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		// Upgrader уже ответил клиенту
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
	}
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", LiveClients: h.hub.ClientCount()})
}
