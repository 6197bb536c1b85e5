package notify

import (
	"fmt"

	"walkin_queue/internal/models"
)

func confirmationText(e *models.QueueEntry) string {
	msg := fmt.Sprintf("%s, вы в очереди. Ваш код: %s, позиция: %d.", e.CustomerName, e.Code, e.QueuePosition)
	if e.EstimatedWaitMinutes > 0 {
		msg += fmt.Sprintf(" Примерное ожидание: %d мин.", e.EstimatedWaitMinutes)
	}
	return msg
}

func tableReadyText(e *models.QueueEntry, tableNumber string) string {
	if tableNumber == "" {
		return fmt.Sprintf("%s, ваш стол готов. Подойдите к хостес и назовите код %s.", e.CustomerName, e.Code)
	}
	return fmt.Sprintf("%s, ваш стол %s готов. Подойдите к хостес и назовите код %s.", e.CustomerName, tableNumber, e.Code)
}

func updateText(e *models.QueueEntry, message string) string {
	return fmt.Sprintf("Запись %s: %s", e.Code, message)
}

func cancellationText(e *models.QueueEntry) string {
	return fmt.Sprintf("Запись %s в очереди отменена.", e.Code)
}
