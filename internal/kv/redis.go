// Package kv bootstraps the shared Redis client used for flash notices and rate limiting.
package kv

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"blog/internal/middleware"
	"blog/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewClient builds a client for addr, which is either host:port or a redis:// URL.
// It returns nil when addr is empty, unparseable or unreachable.
func NewClient(ctx context.Context, addr string) *redis.Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("Redis connection warning: invalid REDIS_URL, continuing without redis",
				slog.String("error", err.Error()))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(metricsHook{})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection warning, continuing without redis", slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}
	middleware.Logger.Info("Redis connected successfully", slog.String("addr", opts.Addr))
	return rdb
}

// InitRedis initializes the shared client.
func InitRedis(addr string) {
	client = NewClient(context.Background(), addr)
}

// GetClient returns the shared client, or nil when Redis is not available.
func GetClient() *redis.Client {
	return client
}

// Close releases the shared client.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
