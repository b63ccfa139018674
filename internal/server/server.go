// Package server boots the storefront: configuration, logging sinks,
// database, Redis, queue workers, the scheduler, and finally the HTTP
// listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zin-Mg-Nyunt/shopping/app/jobs"
	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/app/routes"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/config"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/cache"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/event"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/logger"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/queue"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/schedule"
)

const queueWorkers = 5

func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		if h, err := logger.NewMongoHandler(uri, "shopping", "logs"); err == nil {
			logger.UseHandler(logger.NewMultiHandler(h, logger.L.Handler()))
		} else {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Redis is optional in development; the cache degrades to a no-op
		// and sessions/queue fall back to in-process storage.
		logger.Warn("redis unavailable, using in-process fallbacks", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startQueue(ctx)
	startScheduler(ctx)
	registerListeners()

	r := router.New()
	routes.Register(r, proofStore())

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startQueue(ctx context.Context) {
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(database.DB)
	jobs.Register()
	queue.StartWorkers(ctx, queueWorkers)
}

func startScheduler(ctx context.Context) {
	RegisterScheduledTasks()
	schedule.Start(ctx)
}

// RegisterScheduledTasks adds every recurring task to the schedule registry.
// Safe to call without a live database; tasks only touch it when they fire.
func RegisterScheduledTasks() {
	tokens := repositories.NewTokenRepository(database.DB)

	schedule.Every(10).Minutes().
		Name("purge-expired-reset-tokens").
		WithoutOverlapping().
		Run(func() {
			purged, err := tokens.PurgeExpired(time.Now())
			if err != nil {
				logger.Error("purge reset tokens", "error", err)
				return
			}
			if purged > 0 {
				logger.Info("purged expired reset tokens", "count", purged)
			}
		})

	schedule.Daily().
		Name("prune-failed-jobs").
		WithoutOverlapping().
		Run(func() {
			pruned, err := queue.PruneFailed(time.Now().AddDate(0, 0, -7))
			if err != nil {
				logger.Error("prune failed jobs", "error", err)
				return
			}
			if pruned > 0 {
				logger.Info("pruned failed jobs", "count", pruned)
			}
		})
}

func registerListeners() {
	event.Listen("order.placed", func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		logger.Info("order placed",
			slog.String("order_number", order.OrderNumber),
			slog.Uint64("user_id", uint64(order.UserID)),
			slog.Float64("total", order.TotalAmount),
		)
	})
}

func proofStore() services.ProofStore {
	if cache.RDB != nil {
		return services.NewRedisProofStore(cache.RDB)
	}
	return services.NewMemoryProofStore()
}
