package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	// ReplicaHost пуст: чтение идёт с основной базы.
	ReplicaHost string
	ReplicaPort string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Engine struct {
	OptimalSlack          int
	MaxPartySize          int
	DefaultSeatingMinutes int
	PartySizeWindow       int
	SeatingHistoryWindow  time.Duration
	StaleAfter            time.Duration
	Alternatives          int
}

type Config struct {
	Store     string // postgres | memory
	HTTPAddr  string
	JWTSecret []byte
	LogLevel  slog.Level

	DB    Database
	Redis Redis

	Engine Engine

	CleanupCron       string
	RefreshCron       string
	NotifyChannel     string
	NotifyConcurrency int
}

// Load читает конфигурацию из окружения. .env подгружается в main.
func Load() (Config, error) {
	cfg := Config{
		Store:     get("STORE", "postgres"),
		HTTPAddr:  get("HTTP_ADDR", ":8080"),
		JWTSecret: []byte(os.Getenv("JWT_ACCESS_SECRET")),
		DB: Database{
			Host:        os.Getenv("DB_HOST"),
			Port:        get("DB_PORT", "5432"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        os.Getenv("DB_NAME"),
			ReplicaHost: os.Getenv("DB_REPLICA_HOST"),
			ReplicaPort: get("DB_REPLICA_PORT", get("DB_PORT", "5432")),
		},
		Redis: Redis{
			Addr:     get("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		CleanupCron:   get("CLEANUP_CRON", "0 0 3 * * *"),
		RefreshCron:   get("REFRESH_CRON", "0 */1 * * * *"),
		NotifyChannel: get("NOTIFY_CHANNEL", "whatsapp"),
	}

	var err error
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.NotifyConcurrency, err = getInt("NOTIFY_CONCURRENCY", 5); err != nil {
		return Config{}, err
	}
	if cfg.Engine, err = loadEngine(); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel, err = parseLevel(get("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}

	switch cfg.Store {
	case "memory":
	case "postgres":
		if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
			return Config{}, fmt.Errorf("DB_HOST, DB_USER and DB_NAME are required for postgres store")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE %q", cfg.Store)
	}
	if len(cfg.JWTSecret) == 0 {
		return Config{}, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return cfg, nil
}

func loadEngine() (Engine, error) {
	e := DefaultEngine()
	var err error
	if e.OptimalSlack, err = getInt("OPTIMAL_SLACK", e.OptimalSlack); err != nil {
		return e, err
	}
	if e.MaxPartySize, err = getInt("MAX_PARTY_SIZE", e.MaxPartySize); err != nil {
		return e, err
	}
	if e.DefaultSeatingMinutes, err = getInt("DEFAULT_SEATING_MINUTES", e.DefaultSeatingMinutes); err != nil {
		return e, err
	}
	if e.StaleAfter, err = getDuration("STALE_AFTER", e.StaleAfter); err != nil {
		return e, err
	}
	if e.SeatingHistoryWindow, err = getDuration("SEATING_HISTORY_WINDOW", e.SeatingHistoryWindow); err != nil {
		return e, err
	}
	return e, nil
}

// DefaultEngine: значения по умолчанию для движка очереди.
func DefaultEngine() Engine {
	return Engine{
		OptimalSlack:          2,
		MaxPartySize:          20,
		DefaultSeatingMinutes: 60,
		PartySizeWindow:       2,
		SeatingHistoryWindow:  30 * 24 * time.Hour,
		StaleAfter:            12 * time.Hour,
		Alternatives:          5,
	}
}

// DSN собирает строку подключения так же, как для основной базы, но с указанным хостом.
func (d Database) DSN(host, port string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, d.User, d.Password, d.Name)
}

func get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}
