package handlers

import (
	"net/http"
	"strconv"

	"walkin_queue/internal/auth"
	"walkin_queue/internal/models"
	"walkin_queue/internal/queue"
	"walkin_queue/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StatusRequest struct {
	Status string `json:"status" example:"seated"`
	Reason string `json:"reason" example:"гость подошёл"`
}

type AssignRequest struct {
	TableID             uuid.UUID `json:"table_id"`
	ConfirmedOverflow   bool      `json:"confirmed_overflow"`
	CombineWithExisting bool      `json:"combine_with_existing"`
}

// ListEntries godoc
// @Summary		Очередь точки
// @Description	Записи точки в порядке очереди. По умолчанию: незакрытые (waiting, called, seated)
// @Tags			staff
// @Produce		json
// @Param			outletId	path		string	true	"ID точки"
// @Param			status		query		string	false	"Статусы через запятую"
// @Security		BearerAuth
// @Success		200	{array}		models.QueueEntry
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Router			/api/outlets/{outletId}/queue [get]
func (h *Handler) ListEntries(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	statuses, err := statusesQuery(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	entries, err := h.svc.ListQueueEntries(c.Request.Context(), outletID, statuses)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// SearchEntries godoc
// @Summary		Поиск в очереди
// @Description	Поиск по имени, телефону и коду с постраничной выдачей
// @Tags			staff
// @Produce		json
// @Param			outletId	path		string	true	"ID точки"
// @Param			q			query		string	false	"Строка поиска"
// @Param			status		query		string	false	"Статусы через запятую"
// @Param			page		query		int		false	"Номер страницы"
// @Param			page_size	query		int		false	"Размер страницы (до 100)"
// @Security		BearerAuth
// @Success		200	{object}	queue.Page
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Router			/api/outlets/{outletId}/queue/search [get]
func (h *Handler) SearchEntries(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	statuses, err := statusesQuery(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	res, err := h.svc.SearchQueueEntries(c.Request.Context(), queue.SearchParams{
		OutletID: outletID,
		Query:    c.Query("q"),
		Statuses: statuses,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Summary godoc
// @Summary		Сводка по очереди
// @Tags			staff
// @Produce		json
// @Param			outletId	path	string	true	"ID точки"
// @Security		BearerAuth
// @Success		200	{object}	queue.Summary
// @Router			/api/outlets/{outletId}/queue/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	sum, err := h.svc.GetSummary(c.Request.Context(), outletID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// HeldEntries godoc
// @Summary		Отложенные записи
// @Tags			staff
// @Produce		json
// @Param			outletId	path	string	true	"ID точки"
// @Security		BearerAuth
// @Success		200	{array}	models.QueueEntry
// @Router			/api/outlets/{outletId}/queue/held [get]
func (h *Handler) HeldEntries(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	entries, err := h.svc.GetHeldEntries(c.Request.Context(), outletID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// OutletSocket godoc
// @Summary		Подписка на очередь точки
// @Description	WebSocket: все события очереди точки
// @Tags			staff
// @Param			outletId	path	string	true	"ID точки"
// @Security		BearerAuth
// @Router			/api/outlets/{outletId}/ws [get]
func (h *Handler) OutletSocket(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	h.hub.Serve(c, queue.OutletTopic(outletID))
}

// GetEntry godoc
// @Summary		Запись очереди
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Router			/api/queue/entries/{id} [get]
func (h *Handler) GetEntry(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	e, err := h.svc.GetQueueEntry(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateEntry godoc
// @Summary		Изменить данные гостя
// @Description	Меняет только переданные поля. Закрытые записи не меняются
// @Tags			staff
// @Accept			json
// @Produce		json
// @Param			id		path		string						true	"ID записи"
// @Param			input	body		queue.UpdateEntryRequest	true	"Поля для изменения"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Router			/api/queue/entries/{id} [patch]
func (h *Handler) UpdateEntry(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var in queue.UpdateEntryRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	e, err := h.svc.UpdateQueueEntry(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// History godoc
// @Summary		История статусов записи
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{array}	models.QueueStatusChange
// @Router			/api/queue/entries/{id}/history [get]
func (h *Handler) History(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	changes, err := h.svc.GetStatusHistory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}

// ChangeStatus godoc
// @Summary		Сменить статус
// @Tags			staff
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"ID записи"
// @Param			input	body		StatusRequest	true	"Новый статус"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		400	{object}	response.ErrorResponse	"Неизвестный статус (VALIDATION_ERROR)"
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/entries/{id}/status [post]
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var in StatusRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	to, err := models.ParseQueueStatus(in.Status)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	e, err := h.svc.ChangeStatus(c.Request.Context(), id, to, in.Reason, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// CancelEntry godoc
// @Summary		Отменить запись
// @Description	Отмена сотрудником. Для уже закрытой записи возвращает cancelled=false
// @Tags			staff
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"ID записи"
// @Param			input	body		CancelRequest	false	"Причина"
// @Security		BearerAuth
// @Success		200	{object}	response.CancelResponse
// @Failure		404	{object}	response.ErrorResponse	"Запись не найдена (NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Гость уже за столом (INVALID_TRANSITION)"
// @Router			/api/queue/entries/{id}/cancel [post]
func (h *Handler) CancelEntry(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var in CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			h.badRequest(c, err.Error())
			return
		}
	}
	cancelled, err := h.svc.CancelEntry(c.Request.Context(), id, in.Reason, actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.CancelResponse{Cancelled: cancelled})
}

// AssignTable godoc
// @Summary		Назначить стол
// @Description	Привязывает запись к столу без смены статуса. Привязка приходит событием table_assigned
// @Tags			staff
// @Accept			json
// @Produce		json
// @Param			id		path		string			true	"ID записи"
// @Param			input	body		AssignRequest	true	"Стол"
// @Security		BearerAuth
// @Success		201	{object}	models.QueueEntry
// @Failure		409	{object}	response.ErrorResponse	"Стол занят (TABLE_CONFLICT, ENTRY_ALREADY_ASSIGNED)"
// @Failure		422	{object}	response.ErrorResponse	"Стол мал (CAPACITY_MISMATCH)"
// @Router			/api/queue/entries/{id}/assign [post]
func (h *Handler) AssignTable(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var in AssignRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	e, err := h.svc.AssignTable(c.Request.Context(), queue.AssignRequest{
		EntryID:             id,
		TableID:             in.TableID,
		StaffID:             auth.StaffID(c),
		ConfirmedOverflow:   in.ConfirmedOverflow,
		CombineWithExisting: in.CombineWithExisting,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

type entryFunc func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error)

func (h *Handler) entryAction(c *gin.Context, do entryFunc) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	e, err := do(c, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Seat godoc
// @Summary		Гость сел за стол
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/entries/{id}/seat [post]
func (h *Handler) Seat(c *gin.Context) {
	h.entryAction(c, func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error) {
		return h.svc.MarkSeated(c.Request.Context(), id, auth.StaffID(c))
	})
}

// Complete godoc
// @Summary		Гость ушёл, стол свободен
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/entries/{id}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	h.entryAction(c, func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error) {
		return h.svc.MarkCompleted(c.Request.Context(), id, auth.StaffID(c))
	})
}

// NoShow godoc
// @Summary		Гость не пришёл
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		409	{object}	response.ErrorResponse	"Недопустимый переход (INVALID_TRANSITION)"
// @Router			/api/queue/entries/{id}/no-show [post]
func (h *Handler) NoShow(c *gin.Context) {
	h.entryAction(c, func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error) {
		return h.svc.MarkNoShow(c.Request.Context(), id, auth.StaffID(c))
	})
}

// Hold godoc
// @Summary		Отложить запись
// @Description	Гость отошёл: запись не вызывается и не считается в ожидании других
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Failure		409	{object}	response.ErrorResponse	"Запись не в ожидании (INVALID_TRANSITION)"
// @Router			/api/queue/entries/{id}/hold [post]
func (h *Handler) Hold(c *gin.Context) {
	h.entryAction(c, func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error) {
		return h.svc.HoldEntry(c.Request.Context(), id, auth.StaffID(c))
	})
}

// Release godoc
// @Summary		Вернуть отложенную запись
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Router			/api/queue/entries/{id}/release [post]
func (h *Handler) Release(c *gin.Context) {
	h.entryAction(c, func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error) {
		return h.svc.ReleaseHold(c.Request.Context(), id, auth.StaffID(c))
	})
}

// Prioritize godoc
// @Summary		Поднять в приоритет
// @Description	Снимает отложенность и ставит запись первой в порядке вызова
// @Tags			staff
// @Produce		json
// @Param			id	path	string	true	"ID записи"
// @Security		BearerAuth
// @Success		200	{object}	models.QueueEntry
// @Router			/api/queue/entries/{id}/prioritize [post]
func (h *Handler) Prioritize(c *gin.Context) {
	h.entryAction(c, func(c *gin.Context, id uuid.UUID) (*models.QueueEntry, error) {
		return h.svc.PrioritizeHeldEntry(c.Request.Context(), id, auth.StaffID(c))
	})
}
