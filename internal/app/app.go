// Package app собирает движок очереди и его зависимости по конфигурации.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"walkin_queue/internal/config"
	"walkin_queue/internal/models"
	"walkin_queue/internal/notify"
	"walkin_queue/internal/queue"
	"walkin_queue/internal/storage"
	"walkin_queue/internal/storage/memstore"
	"walkin_queue/internal/ws"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const directoryTTL = 5 * time.Minute

type App struct {
	Config  config.Config
	Service *queue.Service
	Hub     *ws.Hub
	Log     *slog.Logger

	db       *storage.Store
	rdb      *redis.Client
	bus      *ws.Bus
	tasks    *asynq.Client
	notifier *asynq.Server
	worker   *notify.Worker
	closers  []func() error
}

// Build открывает хранилище и собирает сервис. Фоновые циклы запускает Start.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Hub: ws.NewHub(log)}

	var (
		store       queue.Store
		directory   queue.Directory
		notes       notify.Store
		broadcaster queue.Broadcaster
		enqueuer    notify.Enqueuer
	)

	switch cfg.Store {
	case "memory":
		mem := memstore.New()
		seedDemo(mem, log)
		store, directory, notes = mem, mem, mem
		broadcaster = a.Hub
	default:
		db, err := storage.Connect(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		if err := storage.Migrate(ctx, db.Primary()); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}

		a.rdb = storage.NewRedis(cfg.Redis)
		a.closers = append(a.closers, a.rdb.Close)
		a.bus = ws.NewBus(a.rdb, a.Hub, ws.DefaultPrefix, log)

		store, notes, broadcaster = db, db, a.bus
		directory = db.Directory(a.rdb, directoryTTL)

		a.tasks = asynq.NewClient(a.redisOpt())
		a.closers = append(a.closers, a.tasks.Close)
		enqueuer = a.tasks
	}

	a.worker = notify.NewWorker(notes, notify.LogSender{Log: log}, log)
	if enqueuer == nil {
		enqueuer = notify.InlineEnqueuer{Worker: a.worker}
	}
	dispatcher := notify.NewDispatcher(notes, enqueuer, models.NotificationChannel(cfg.NotifyChannel), log)

	a.Service = queue.NewService(store, directory,
		queue.WithNotifier(dispatcher),
		queue.WithBroadcaster(broadcaster),
		queue.WithLogger(log),
		queue.WithConfig(cfg.Engine),
	)
	return a, nil
}

func (a *App) redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: a.Config.Redis.Addr, Password: a.Config.Redis.Password, DB: a.Config.Redis.DB}
}

// Start запускает хаб, подписку на Redis и воркер уведомлений.
func (a *App) Start(ctx context.Context) error {
	go a.Hub.Run(ctx)
	if a.bus != nil {
		go func() {
			if err := a.bus.Listen(ctx); err != nil {
				a.Log.Error("подписка на события остановлена", "err", err)
			}
		}()
	}
	if a.tasks != nil {
		srv, mux := notify.NewServer(a.redisOpt(), a.Config.NotifyConcurrency, a.worker)
		if err := srv.Start(mux); err != nil {
			return fmt.Errorf("start notification worker: %w", err)
		}
		a.notifier = srv
	}
	return nil
}

// Health проверяет базу и Redis.
func (a *App) Health(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.Ping(ctx); err != nil {
			return err
		}
	}
	if a.rdb != nil {
		return a.rdb.Ping(ctx).Err()
	}
	return nil
}

// Migrate накатывает схему, если выбран postgres.
func (a *App) Migrate(ctx context.Context) error {
	if a.db == nil {
		return errors.New("migrations need STORE=postgres")
	}
	return storage.Migrate(ctx, a.db.Primary())
}

// Close дожидается фоновых пересчётов и закрывает соединения.
func (a *App) Close() error {
	if a.notifier != nil {
		a.notifier.Shutdown()
	}
	if a.Service != nil {
		a.Service.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// seedDemo заводит точку с тремя столами, чтобы в памяти было с чем работать.
func seedDemo(mem *memstore.Store, log *slog.Logger) {
	outlet := models.Outlet{ID: uuid.New(), Name: "Demo", QueueEnabled: true}
	mem.AddOutlet(outlet)
	for i, capacity := range []int{2, 4, 6} {
		mem.AddTable(models.Table{
			ID:          uuid.New(),
			OutletID:    outlet.ID,
			TableNumber: fmt.Sprintf("T%d", i+1),
			Capacity:    capacity,
			IsActive:    true,
		})
	}
	log.Info("хранилище в памяти, создана демо-точка", "outlet_id", outlet.ID)
}
