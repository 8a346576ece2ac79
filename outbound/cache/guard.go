package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"

	"github.com/redis/go-redis/v9"
)

// RedisGuard holds a SetNX lock per operation and subject across every
// process sharing the redis instance. The lock expires after ttl if the
// holder never releases it.
type RedisGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = constant.TurnoSubmitLockTTL
	}
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisGuard) Acquire(ctx context.Context, op, subject string) (func(), error) {
	key := fmt.Sprintf(constant.TurnoSubmitLock, op, strings.ToUpper(strings.TrimSpace(subject)))
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	locked, err := g.rdb.SetNX(ctx, key, true, g.ttl).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to set submission lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return nil, err
	}

	if !locked {
		slog.DebugContext(ctx, "submission already in progress", traceIdAttr, slog.String(constant.LogFieldPayload, key))
		return nil, errs.ErrBusy
	}

	return func() {
		if err := g.rdb.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to release submission lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		}
	}, nil
}
