package ratelimit

import (
	"context"
	"fmt"
	"time"

	"masterhub_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Policy - правило фиксированного окна
type Policy struct {
	Name     string
	Limit    int64
	Window   time.Duration
	FailOpen bool // при недоступности кэша пропускать запрос
}

// Decision - результат проверки лимита
type Decision struct {
	Allowed    bool
	Count      int64
	Remaining  int64
	RetryAfter time.Duration
	Degraded   bool // решение принято без кэша
}

// Limiter - счетчик с фиксированным окном поверх redis (INCR + EXPIRE)
type Limiter struct {
	client redis.Cmdable
	prefix string
}

func NewLimiter(client redis.Cmdable, prefix string) *Limiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &Limiter{client: client, prefix: prefix}
}

func (l *Limiter) key(policy Policy, key string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, policy.Name, key)
}

// Allow увеличивает счетчик и решает, пропускать ли запрос.
// Ошибка возвращается только для fail-closed политик.
func (l *Limiter) Allow(ctx context.Context, key string, policy Policy) (Decision, error) {
	k := l.key(policy, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return l.degraded(ctx, policy, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, policy.Window).Err(); err != nil {
			// без TTL ключ никогда не сбросится - удаляем, чтобы не заблокировать навсегда
			l.client.Del(ctx, k)
			return l.degraded(ctx, policy, err)
		}
	}

	d := Decision{
		Allowed:   count <= policy.Limit,
		Count:     count,
		Remaining: max(policy.Limit-count, 0),
	}
	if !d.Allowed {
		ttl, err := l.client.TTL(ctx, k).Result()
		if err == nil && ttl > 0 {
			d.RetryAfter = ttl
		} else {
			d.RetryAfter = policy.Window
		}
	}
	return d, nil
}

func (l *Limiter) degraded(ctx context.Context, policy Policy, err error) (Decision, error) {
	if policy.FailOpen {
		logger.CtxWarn(ctx, "rate limiter unavailable, allowing request", "policy", policy.Name, "error", err.Error())
		return Decision{Allowed: true, Remaining: policy.Limit, Degraded: true}, nil
	}
	logger.CtxWarn(ctx, "rate limiter unavailable, denying request", "policy", policy.Name, "error", err.Error())
	return Decision{Allowed: false, RetryAfter: policy.Window, Degraded: true}, fmt.Errorf("rate limiter %s: %w", policy.Name, err)
}
