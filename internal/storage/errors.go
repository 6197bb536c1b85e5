package storage

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate: нарушение уникальности, не связанное со столами.
	ErrDuplicate = errors.New("duplicate")
	// ErrTableConflict: у стола уже есть активная привязка.
	ErrTableConflict = errors.New("table already has an active assignment")
	// ErrEntryAssigned: у записи уже есть активная привязка.
	ErrEntryAssigned = errors.New("entry already has an active assignment")
	// ErrActivePhone: у телефона уже есть активная запись в этой точке.
	ErrActivePhone = errors.New("phone already has an active entry")
	// ErrStaleStatus: статус записи изменился между чтением и записью.
	ErrStaleStatus = errors.New("entry status changed concurrently")
	// ErrTransient: база недоступна после всех повторов.
	ErrTransient = errors.New("transient storage error")
)

const (
	idxActivePosition        = "ux_queue_entries_active_position"
	idxActivePhone           = "ux_queue_entries_active_phone"
	idxActiveTable           = "ux_queue_table_assignments_active_table"
	idxActiveEntryAssignment = "ux_queue_table_assignments_active_entry"
)

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTransient) || errors.Is(err, ErrActivePhone) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			switch pgErr.ConstraintName {
			case idxActiveTable:
				return ErrTableConflict
			case idxActiveEntryAssignment:
				return ErrEntryAssigned
			case idxActivePhone:
				return ErrActivePhone
			case idxActivePosition:
				// Параллельная вставка обошла блокировку: повторяем с новой позицией.
				return fmt.Errorf("%w: %v", ErrTransient, err)
			}
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "40001", "40P01", "55P03", "57P01", "57P02", "57P03":
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}

func isTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
