package cache

import (
	"context"
	"sync"
	"time"
)

// Loader загружает свежее значение из источника
type Loader[T any] func(ctx context.Context) (T, error)

// Value - одно закэшированное значение с TTL и явной инвалидацией.
// Создается при старте и передается по ссылке тем, кто его использует.
type Value[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	value    T
	loadedAt time.Time
	valid    bool
}

type Option[T any] func(*Value[T])

// WithClock подменяет часы (тесты)
func WithClock[T any](now func() time.Time) Option[T] {
	return func(v *Value[T]) {
		v.now = now
	}
}

func NewValue[T any](ttl time.Duration, opts ...Option[T]) *Value[T] {
	v := &Value[T]{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Get возвращает кэш, если он свежий, иначе вызывает load.
// Ошибка загрузки не портит кэш. ttl <= 0 отключает кэширование.
func (v *Value[T]) Get(ctx context.Context, load Loader[T]) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.valid && v.ttl > 0 && v.now().Sub(v.loadedAt) < v.ttl {
		return v.value, nil
	}

	fresh, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	v.value = fresh
	v.loadedAt = v.now()
	v.valid = true
	return fresh, nil
}

// Invalidate сбрасывает значение, следующий Get пойдет в источник
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	v.value = zero
	v.valid = false
}
