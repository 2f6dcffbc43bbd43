package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/1TapDev/Target-Monitor/internal/config"
	"github.com/1TapDev/Target-Monitor/internal/monitor"
	"github.com/1TapDev/Target-Monitor/internal/notify"
	"github.com/1TapDev/Target-Monitor/internal/store"
	"github.com/1TapDev/Target-Monitor/internal/target"
	"github.com/1TapDev/Target-Monitor/pkg/logger"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Start the monitoring loop and health server",
	RunE:  runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN(),
		store.WithPoolSize(cfg.Database.PoolSize))
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	eng := buildEngine(cfg, st, log)

	sched, err := monitor.NewScheduler(eng, cfg.Monitor.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if err := st.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr,
		"pairs", len(cfg.Monitor.Pairs()), "interval", cfg.Monitor.Interval)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	// Run the first cycle immediately rather than waiting a full interval.
	go func() {
		if err := eng.RunCycle(ctx); err != nil {
			log.Error("initial cycle failed", "error", err)
		}
	}()

	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()

	<-sched.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("stopped")
	return nil
}

func buildEngine(cfg *config.Config, st store.Store, log *slog.Logger) *monitor.Engine {
	limiter := target.NewRateLimiter(
		cfg.Target.RateLimit.PerSecond,
		cfg.Target.RateLimit.Burst,
		cfg.Target.RateLimit.DailyLimit,
	)

	client := target.NewStockClient(
		target.WithStockURL(cfg.Target.StockURL),
		target.WithHTTPClient(&http.Client{Timeout: cfg.Target.Timeout}),
		target.WithRateLimiter(limiter),
		target.WithMaxRetries(cfg.Target.MaxRetries),
		target.WithCacheBusting(cfg.Target.CacheBusting),
	)

	return monitor.NewEngine(client, st, buildPoster(cfg, log), cfg.Monitor.Pairs(),
		monitor.WithLogger(log),
		monitor.WithInitialReports(cfg.Monitor.InitialReports),
	)
}

func buildPoster(cfg *config.Config, log *slog.Logger) notify.Poster {
	if cfg.Notifications.Discord.Enabled {
		return notify.NewDiscordWebhook(
			cfg.Notifications.Discord.WebhookURL,
			notify.WithUsername(cfg.Notifications.Discord.Username),
		)
	}
	return notify.NewNoopPoster(log)
}
