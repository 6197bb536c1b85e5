package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"walkin_queue/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory читает точки и столы, которыми владеет сервис ресторанов.
// Ответы кэшируются в Redis, если клиент передан.
type Directory struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewDirectory(db *gorm.DB, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}
	return &Directory{db: db, rdb: rdb, ttl: ttl, log: log.With("component", "directory")}
}

// Directory использует реплику: данные справочные.
func (s *Store) Directory(rdb *redis.Client, ttl time.Duration) *Directory {
	return NewDirectory(s.replica, rdb, ttl, s.log)
}

func (d *Directory) GetOutlet(ctx context.Context, id uuid.UUID) (*models.Outlet, error) {
	var o models.Outlet
	err := d.cached(ctx, "directory:outlet:"+id.String(), &o, func() error {
		return d.db.WithContext(ctx).First(&o, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (d *Directory) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var t models.Table
	err := d.cached(ctx, "directory:table:"+id.String(), &t, func() error {
		return d.db.WithContext(ctx).First(&t, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *Directory) CountActiveTables(ctx context.Context, outletID uuid.UUID) (int, error) {
	var n int64
	err := d.cached(ctx, "directory:tables:"+outletID.String(), &n, func() error {
		return d.db.WithContext(ctx).Model(&models.Table{}).
			Where("outlet_id = ? AND is_active = ?", outletID, true).
			Count(&n).Error
	})
	return int(n), err
}

// cached отдаёт значение из Redis или загружает его через load и кладёт в кэш.
// Ошибки Redis не мешают чтению из базы.
func (d *Directory) cached(ctx context.Context, key string, dst any, load func() error) error {
	if d.rdb != nil {
		raw, err := d.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if json.Unmarshal(raw, dst) == nil {
				return nil
			}
		case !errors.Is(err, redis.Nil):
			d.log.Warn("кэш недоступен", "key", key, "err", err)
		}
	}

	if err := classify(load()); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	if d.rdb != nil {
		if raw, err := json.Marshal(dst); err == nil {
			if err := d.rdb.Set(ctx, key, raw, d.ttl).Err(); err != nil {
				d.log.Warn("не удалось записать в кэш", "key", key, "err", err)
			}
		}
	}
	return nil
}
