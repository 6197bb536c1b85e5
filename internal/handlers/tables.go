package handlers

import (
	"net/http"

	"walkin_queue/internal/auth"

	"github.com/gin-gonic/gin"
)

// Recommendation godoc
// @Summary		Кого посадить за стол
// @Description	Рекомендованная запись и альтернативы для освободившегося стола
// @Tags			tables
// @Produce		json
// @Param			outletId	path	string	true	"ID точки"
// @Param			tableId		path	string	true	"ID стола"
// @Security		BearerAuth
// @Success		200	{object}	queue.Recommendation
// @Failure		404	{object}	response.ErrorResponse	"Стол не найден (NOT_FOUND)"
// @Router			/api/outlets/{outletId}/tables/{tableId}/recommendation [get]
func (h *Handler) Recommendation(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	tableID, ok := h.uuidParam(c, "tableId")
	if !ok {
		return
	}
	rec, err := h.svc.GetTableRecommendation(c.Request.Context(), outletID, tableID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// CallNext godoc
// @Summary		Вызвать следующего гостя
// @Description	Назначает стол лучшей подходящей записи и переводит её в called
// @Tags			tables
// @Produce		json
// @Param			outletId	path	string	true	"ID точки"
// @Param			tableId		path	string	true	"ID стола"
// @Security		BearerAuth
// @Success		200	{object}	queue.CallResult
// @Failure		404	{object}	response.ErrorResponse	"Нет подходящих гостей (NO_ELIGIBLE_ENTRY)"
// @Failure		409	{object}	response.ErrorResponse	"Стол занят (TABLE_CONFLICT)"
// @Failure		422	{object}	response.ErrorResponse	"Стол мал (CAPACITY_MISMATCH)"
// @Router			/api/outlets/{outletId}/tables/{tableId}/call-next [post]
func (h *Handler) CallNext(c *gin.Context) {
	outletID, ok := h.uuidParam(c, "outletId")
	if !ok {
		return
	}
	tableID, ok := h.uuidParam(c, "tableId")
	if !ok {
		return
	}
	res, err := h.svc.CallNextCustomer(c.Request.Context(), outletID, tableID, auth.StaffID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
