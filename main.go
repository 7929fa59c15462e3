package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := LoadConfig()
	log := newLogger(cfg.LogLevel, cfg.LogPath)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := newServer(cfg, log, buildLimiter(ctx, cfg, log))
	srv.startWorkers(ctx)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Port),
			zap.Int("workers", cfg.Workers),
			zap.Int("rate_limit", cfg.RateLimit),
			zap.Duration("rate_window", cfg.RateWindow))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	waitForShutdown(httpSrv, cancel, cfg.ShutdownTimeout, log)
}

// buildLimiter picks the admission store. When Redis is requested but not
// reachable the service degrades to in-memory counting instead of refusing to
// start.
func buildLimiter(ctx context.Context, cfg Config, log *zap.Logger) RateLimiter {
	if cfg.RateLimitBackend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis not available, using in-memory rate limiting", zap.Error(err))
		} else {
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			return NewRedisLimiter(client, cfg.RateLimit, cfg.RateWindow)
		}
	}

	limiter := NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
	limiter.StartJanitor(ctx)
	return limiter
}

func waitForShutdown(srv *http.Server, cancel context.CancelFunc, timeout time.Duration, log *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("graceful shutdown initiated")
	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), timeout)
	defer cancelTimeout()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
