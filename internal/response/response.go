package response

import "github.com/gin-gonic/gin"

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Message string `json:"message" example:"Операция успешно выполнена"`
}

// ErrorResponse представляет ответ с ошибкой API
type ErrorResponse struct {
	// Код ошибки для программной обработки
	// example: VALIDATION_ERROR
	Code string `json:"code"`

	// Человекочитаемое сообщение об ошибке
	// example: Ошибка валидации данных
	Message string `json:"message"`

	// Дополнительные детали об ошибке (опционально)
	// example: party size must be between 1 and 20
	Details string `json:"details,omitempty"`
}

// CancelResponse: результат отмены записи
type CancelResponse struct {
	Cancelled bool `json:"cancelled" example:"true"`
}

// EstimateResponse: оценка ожидания для новой группы
type EstimateResponse struct {
	PartySize            int `json:"party_size" example:"4"`
	EstimatedWaitMinutes int `json:"estimated_wait_minutes" example:"25"`
}

// Error пишет ответ с ошибкой и прерывает цепочку обработчиков.
func Error(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}
