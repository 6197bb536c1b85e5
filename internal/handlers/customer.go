package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"walkin_queue/internal/queue"
	"walkin_queue/internal/response"

	"github.com/gin-gonic/gin"
)

type JoinRequest struct {
	CustomerName    string `json:"customer_name" example:"Анна"`
	CustomerPhone   string `json:"customer_phone" example:"+6281234567890"`
	PartySize       int    `json:"party_size" example:"4"`
	SpecialRequests string `json:"special_requests" example:"детский стул"`
}

type CancelRequest struct {
	Reason string `json:"reason" example:"планы изменились"`
}

// JoinQueue godoc
// @Summary		Встать в очередь
// @Description	Создаёт запись в живой очереди точки и возвращает код для отслеживания
// @Tags			customer
// @Accept			json
// @Produce		json
// @Param			outletId	path		string		true	"ID точки"
// @Param			input		body		JoinRequest	true	"Данные гостя"
// @Success		201			{object}	models.QueueEntry
// @Failure		400			{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404			{object}	response.ErrorResponse	"Точка не найдена (NOT_FOUND)"
// @Failure		503			{object}	response.ErrorResponse	"Хранилище недоступно (STORAGE_UNAVAILABLE)"
// @Router			/api/outlets/{outletId}/queue [post]
func (h *Handler) JoinQueue(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	var in JoinRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	e, err := h.svc.CreateQueueEntry(c.Request.Context(), queue.CreateEntryRequest{
		OutletID:        outletID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		PartySize:       in.PartySize,
		SpecialRequests: in.SpecialRequests,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// EstimateWait godoc
// @Summary		Оценка ожидания
// @Description	Сколько минут будет ждать группа указанного размера, если встанет в очередь сейчас
// @Tags			customer
// @Produce		json
// @Param			outletId	path		string	true	"ID точки"
// @Param			party_size	query		int		true	"Размер группы"
// @Success		200			{object}	response.EstimateResponse
// @Failure		400			{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Router			/api/outlets/{outletId}/queue/estimate [get]
func (h *Handler) EstimateWait(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	party, err := strconv.Atoi(c.Query("party_size"))
	if err != nil || party < 1 {
		h.badRequest(c, "party_size must be a positive number")
		return
	}
	minutes, err := h.svc.EstimateWaitTime(c.Request.Context(), outletID, party)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.EstimateResponse{PartySize: party, EstimatedWaitMinutes: minutes})
}

// GetEntryByCode godoc
// @Summary		Запись по коду
// @Tags			customer
// @Produce		json
// @Param			code	path		string	true	"Код записи"
// @Success		200		{object}	models.QueueEntry
// @Failure		404		{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Router			/api/queue/codes/{code} [get]
func (h *Handler) GetEntryByCode(c *gin.Context) {
	e, err := h.svc.GetQueueEntryByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// CancelByCode godoc
// @Summary		Отменить свою запись
// @Tags			customer
// @Accept			json
// @Produce		json
// @Param			code	path		string			true	"Код записи"
// @Param			input	body		CancelRequest	false	"Причина"
// @Success		200		{object}	models.QueueEntry
// @Failure		404		{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409		{object}	response.ErrorResponse	"Запись уже закрыта (INVALID_TRANSITION)"
// @Router			/api/queue/codes/{code}/cancel [post]
func (h *Handler) CancelByCode(c *gin.Context) {
	var in CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			h.badRequest(c, err.Error())
			return
		}
	}
	e, err := h.svc.CancelByCode(c.Request.Context(), c.Param("code"), in.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// EntrySocket godoc
// @Summary		Подписка на изменения записи
// @Description	WebSocket: события статуса, позиции и ожидания по коду записи
// @Tags			customer
// @Param			code	path	string	true	"Код записи"
// @Router			/api/queue/codes/{code}/ws [get]
func (h *Handler) EntrySocket(c *gin.Context) {
	e, err := h.svc.GetQueueEntryByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.hub.Serve(c, queue.EntryTopic(strings.ToUpper(e.Code)))
}
