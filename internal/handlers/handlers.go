package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"walkin_queue/internal/auth"
	"walkin_queue/internal/models"
	"walkin_queue/internal/queue"
	"walkin_queue/internal/response"
	"walkin_queue/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HealthCheck проверяет доступность зависимостей (база, redis).
type HealthCheck func(ctx context.Context) error

type Handler struct {
	svc    *queue.Service
	hub    *ws.Hub
	health HealthCheck
	log    *slog.Logger
}

func New(svc *queue.Service, hub *ws.Hub, health HealthCheck, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, hub: hub, health: health, log: log.With("component", "http")}
}

// Register вешает маршруты гостя, персонала и служебные.
// staffAuth проверяет токен сотрудника.
func (h *Handler) Register(r *gin.Engine, staffAuth gin.HandlerFunc) {
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/outlets/:outletId/queue", h.JoinQueue)
		api.GET("/outlets/:outletId/queue/estimate", h.EstimateWait)
		api.GET("/queue/codes/:code", h.GetEntryByCode)
		api.POST("/queue/codes/:code/cancel", h.CancelByCode)
		api.GET("/queue/codes/:code/ws", h.EntrySocket)
	}

	staff := r.Group("/api", staffAuth)
	{
		staff.GET("/outlets/:outletId/queue", h.ListEntries)
		staff.GET("/outlets/:outletId/queue/search", h.SearchEntries)
		staff.GET("/outlets/:outletId/queue/summary", h.Summary)
		staff.GET("/outlets/:outletId/queue/held", h.HeldEntries)
		staff.GET("/outlets/:outletId/ws", h.OutletSocket)

		staff.GET("/outlets/:outletId/tables/:tableId/recommendation", h.Recommendation)
		staff.POST("/outlets/:outletId/tables/:tableId/call-next", h.CallNext)

		entries := staff.Group("/queue/entries/:id")
		entries.GET("", h.GetEntry)
		entries.PATCH("", h.UpdateEntry)
		entries.GET("/history", h.History)
		entries.POST("/status", h.ChangeStatus)
		entries.POST("/cancel", h.CancelEntry)
		entries.POST("/assign", h.AssignTable)
		entries.POST("/seat", h.Seat)
		entries.POST("/complete", h.Complete)
		entries.POST("/no-show", h.NoShow)
		entries.POST("/hold", h.Hold)
		entries.POST("/release", h.Release)
		entries.POST("/prioritize", h.Prioritize)
	}
}

// Healthz godoc
// @Summary		Проверка готовности
// @Tags			ops
// @Produce		json
// @Success		200	{object}	response.SuccessResponse
// @Failure		503	{object}	response.ErrorResponse	"Хранилище недоступно (STORAGE_UNAVAILABLE)"
// @Router			/healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Хранилище недоступно", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "ok"})
}

// fail переводит ошибку движка в HTTP-ответ.
func (h *Handler) fail(c *gin.Context, err error) {
	status, code, msg := http.StatusInternalServerError, "INTERNAL_ERROR", "Внутренняя ошибка сервера"
	switch {
	case errors.Is(err, queue.ErrNotFound):
		status, code, msg = http.StatusNotFound, "NOT_FOUND", "Запись не найдена"
	case errors.Is(err, queue.ErrValidation):
		status, code, msg = http.StatusBadRequest, "VALIDATION_ERROR", "Ошибка валидации данных"
	case errors.Is(err, queue.ErrInvalidTransition):
		status, code, msg = http.StatusConflict, "INVALID_TRANSITION", "Недопустимая смена статуса"
	case errors.Is(err, queue.ErrTableConflict):
		status, code, msg = http.StatusConflict, "TABLE_CONFLICT", "Стол уже занят"
	case errors.Is(err, queue.ErrEntryAlreadyAssigned):
		status, code, msg = http.StatusConflict, "ENTRY_ALREADY_ASSIGNED", "Запись уже привязана к столу"
	case errors.Is(err, queue.ErrCapacityMismatch):
		status, code, msg = http.StatusUnprocessableEntity, "CAPACITY_MISMATCH", "Стол мал для группы"
	case errors.Is(err, queue.ErrNoEligibleEntry):
		status, code, msg = http.StatusNotFound, "NO_ELIGIBLE_ENTRY", "Нет подходящих гостей"
	case errors.Is(err, queue.ErrTransientStorage):
		status, code, msg = http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Хранилище временно недоступно"
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("ошибка обработки запроса", "path", c.FullPath(), "err", err)
		response.Error(c, status, code, msg, "")
		return
	}
	response.Error(c, status, code, msg, err.Error())
}

func (h *Handler) badRequest(c *gin.Context, details string) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Ошибка валидации данных", details)
}

// uuidParam читает идентификатор из пути. При ошибке ответ уже записан.
func (h *Handler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// statusesQuery разбирает ?status=waiting,called.
func statusesQuery(c *gin.Context) ([]models.QueueStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	var out []models.QueueStatus
	for _, part := range strings.Split(raw, ",") {
		st, err := models.ParseQueueStatus(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func actor(c *gin.Context) *string {
	id := auth.StaffID(c)
	if id == "" {
		return nil
	}
	return &id
}
