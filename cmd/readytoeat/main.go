// Package main запускает HTTP-сервер сервиса Ready-to-Eat.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/readytoeat/internal/api"
	"github.com/mmeshcher/readytoeat/internal/catalog"
	"github.com/mmeshcher/readytoeat/internal/config"
	"github.com/mmeshcher/readytoeat/internal/handler"
	"github.com/mmeshcher/readytoeat/internal/middleware"
	"github.com/mmeshcher/readytoeat/internal/repository"
	"github.com/mmeshcher/readytoeat/internal/rewards"
	"github.com/mmeshcher/readytoeat/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	loc, err := cfg.Location()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var repo service.Repository
	if cfg.DatabaseURI != "" {
		pg, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		repo = pg
	} else {
		sugar.Info("DATABASE_URI is empty, sessions are kept in memory")
		repo = repository.NewMemoryRepository()
	}

	tiers := rewards.DefaultTiers()
	if cfg.RewardsFile != "" {
		loaded, err := rewards.LoadTiers(cfg.RewardsFile)
		if err != nil {
			sugar.Fatalw("rewards configuration error", "error", err.Error())
		}
		tiers = loaded
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.UpstreamCookie)
	menu := catalog.NewSource(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := menu.Refresh(ctx); err != nil {
		sugar.Warnw("initial menu load failed", "error", err.Error())
	}

	svc := service.NewService(repo, client, menu, rewards.NewEngine(tiers, logger), logger, service.Options{
		Location:   loc,
		SessionTTL: cfg.SessionTTL,
	})
	defer svc.Close()

	metrics := middleware.NewMetrics("readytoeat")
	registerMenuMetrics(metrics, menu)

	authMiddleware := middleware.NewAuthMiddleware(cfg.SecretKey)
	limiter := middleware.NewRateLimiter(middleware.RateLimit{RequestsPerMinute: cfg.CheckoutRate, Burst: 3})
	h := handler.NewHandler(svc, logger, authMiddleware, metrics, limiter)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// Фоновая синхронизация меню и баллов
	g.Go(func() error {
		svc.RunSync(ctx, cfg.SyncInterval)
		return nil
	})

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting readytoeat server", "addr", cfg.RunAddress, "api", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

// registerMenuMetrics публикует размер и возраст снимка меню.
func registerMenuMetrics(m *middleware.Metrics, menu *catalog.Source) {
	m.Registry().MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "readytoeat",
			Name:      "menu_items",
			Help:      "Number of items in the current menu snapshot.",
		}, func() float64 {
			return float64(len(menu.Snapshot().Items()))
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "readytoeat",
			Name:      "menu_age_seconds",
			Help:      "Seconds since the last successful menu refresh.",
		}, func() float64 {
			at := menu.UpdatedAt()
			if at.IsZero() {
				return -1
			}
			return time.Since(at).Seconds()
		}),
	)
}
