package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"walkin_queue/internal/app"
	"walkin_queue/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if os.Getenv("ENV_CHECK") == "" {
		_ = godotenv.Load()
	}

	rootCmd := &cobra.Command{
		Use:           "queuectl",
		Short:         "Операции обслуживания живой очереди",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Накатить схему базы данных",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			if err := a.Migrate(ctx); err != nil {
				return err
			}
			fmt.Println("миграции применены")
			return nil
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Закрыть зависшие записи очереди",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			res, err := a.Service.CleanupActiveEntries(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("закрыто: %d, ошибок: %d\n", res.Closed, res.Failed)
			return nil
		}),
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "refresh-waits",
		Short: "Пересчитать время ожидания во всех активных точках",
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			return a.Service.RefreshAllWaitTimes(ctx)
		}),
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		os.Exit(1)
	}
}

func withApp(fn func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, a)
	}
}
