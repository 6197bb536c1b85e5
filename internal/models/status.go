package models

import "fmt"

// QueueStatus: статус записи в очереди.
type QueueStatus string

const (
	StatusWaiting   QueueStatus = "waiting"
	StatusCalled    QueueStatus = "called"
	StatusSeated    QueueStatus = "seated"
	StatusCompleted QueueStatus = "completed"
	StatusNoShow    QueueStatus = "no_show"
	StatusCancelled QueueStatus = "cancelled"
)

var allStatuses = []QueueStatus{
	StatusWaiting, StatusCalled, StatusSeated,
	StatusCompleted, StatusNoShow, StatusCancelled,
}

// ParseQueueStatus проверяет, что строка является известным статусом.
func ParseQueueStatus(s string) (QueueStatus, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown queue status %q", s)
}

func (s QueueStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// IsActive: запись занимает позицию в очереди.
func (s QueueStatus) IsActive() bool {
	return s == StatusWaiting || s == StatusCalled
}

// ActiveStatuses: статусы, среди которых позиции уникальны.
func ActiveStatuses() []QueueStatus {
	return []QueueStatus{StatusWaiting, StatusCalled}
}

// OpenStatuses: все нетерминальные статусы.
func OpenStatuses() []QueueStatus {
	return []QueueStatus{StatusWaiting, StatusCalled, StatusSeated}
}

// AssignmentStatus: статус привязки записи к столу.
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentSeated    AssignmentStatus = "seated"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

func ActiveAssignmentStatuses() []AssignmentStatus {
	return []AssignmentStatus{AssignmentAssigned, AssignmentSeated}
}

func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentAssigned || s == AssignmentSeated
}

// AssignmentStatusFor: в какой статус переходит активная привязка к столу
// при переходе записи в статус s.
func AssignmentStatusFor(s QueueStatus) (AssignmentStatus, bool) {
	switch s {
	case StatusSeated:
		return AssignmentSeated, true
	case StatusCompleted:
		return AssignmentCompleted, true
	case StatusCancelled, StatusNoShow:
		return AssignmentCancelled, true
	}
	return "", false
}
