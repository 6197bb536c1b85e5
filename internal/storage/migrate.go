package storage

import (
	"context"
	"embed"
	"fmt"

	"walkin_queue/internal/models"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate создаёт таблицы через AutoMigrate, затем goose накатывает
// частичные уникальные индексы, которые gorm не описывает тегами.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Outlet{},
		&models.Table{},
		&models.QueueEntry{},
		&models.QueueStatusChange{},
		&models.QueueTableAssignment{},
		&models.QueueNotification{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, "migrations")
}
