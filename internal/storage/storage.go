package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"walkin_queue/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ReadMode выбирает, с какой базы читать.
type ReadMode int

const (
	// ReadReplica: для списков, сводок и рекомендаций.
	ReadReplica ReadMode = iota
	// ReadPrimary: перед любой мутацией запись перечитывается с основной базы.
	ReadPrimary
)

// Store: хранилище очереди поверх PostgreSQL: запись в primary, чтение из replica.
type Store struct {
	primary *gorm.DB
	replica *gorm.DB
	log     *slog.Logger

	maxRetries uint64
	baseDelay  time.Duration
}

// New оборачивает уже открытые соединения. replica может быть nil.
func New(primary, replica *gorm.DB, log *slog.Logger) *Store {
	if replica == nil {
		replica = primary
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		primary:    primary,
		replica:    replica,
		log:        log.With("component", "storage"),
		maxRetries: 3,
		baseDelay:  50 * time.Millisecond,
	}
}

// Connect открывает основную базу и, если задана, реплику.
func Connect(cfg config.Database, log *slog.Logger) (*Store, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	primary, err := gorm.Open(postgres.Open(cfg.DSN(cfg.Host, cfg.Port)), gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect primary: %w", err)
	}

	var replica *gorm.DB
	if cfg.ReplicaHost != "" {
		replica, err = gorm.Open(postgres.Open(cfg.DSN(cfg.ReplicaHost, cfg.ReplicaPort)), gcfg)
		if err != nil {
			return nil, fmt.Errorf("connect replica: %w", err)
		}
	}

	s := New(primary, replica, log)
	s.log.Info("подключение к базе данных успешно", "replica", cfg.ReplicaHost != "")
	return s, nil
}

// Primary отдаёт основное соединение (миграции, CLI).
func (s *Store) Primary() *gorm.DB { return s.primary }

func (s *Store) Close() error {
	for _, db := range []*gorm.DB{s.primary, s.replica} {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
		if s.primary == s.replica {
			break
		}
	}
	return nil
}

func (s *Store) reader(mode ReadMode) *gorm.DB {
	if mode == ReadPrimary {
		return s.primary
	}
	return s.replica
}

// do повторяет fn при временных сбоях с экспоненциальной задержкой.
func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(s.maxRetries, retry.WithJitterPercent(20, retry.NewExponential(s.baseDelay)))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := classify(fn(ctx))
		if isTransient(err) {
			s.log.Warn("временная ошибка базы, повтор", "op", op, "attempt", attempt, "err", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// tx выполняет fn в транзакции на primary с повторами.
func (s *Store) tx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return s.do(ctx, op, func(ctx context.Context) error {
		return s.primary.WithContext(ctx).Transaction(fn)
	})
}

// lock берёт транзакционную advisory-блокировку по ключу.
func lock(tx *gorm.DB, key string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// NewRedis создаёт клиента Redis для шины событий и кэша.
func NewRedis(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping проверяет соединение с основной базой.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.primary.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
