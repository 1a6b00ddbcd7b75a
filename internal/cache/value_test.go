package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestValue_TTLAndInvalidate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	v := NewValue[[]string](time.Minute, WithClock[[]string](clock.Now))

	loads := 0
	load := func(ctx context.Context) ([]string, error) {
		loads++
		return []string{"plumbing", "cleaning"}, nil
	}
	ctx := context.Background()

	got, err := v.Get(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"plumbing", "cleaning"}, got)

	_, _ = v.Get(ctx, load)
	assert.Equal(t, 1, loads)

	clock.Advance(59 * time.Second)
	_, _ = v.Get(ctx, load)
	assert.Equal(t, 1, loads)

	clock.Advance(2 * time.Second)
	_, _ = v.Get(ctx, load)
	assert.Equal(t, 2, loads)

	v.Invalidate()
	_, _ = v.Get(ctx, load)
	assert.Equal(t, 3, loads)
}

func TestValue_LoadErrorKeepsPreviousState(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	v := NewValue[int](time.Minute, WithClock[int](clock.Now))
	ctx := context.Background()

	_, err := v.Get(ctx, func(context.Context) (int, error) { return 0, errors.New("db down") })
	assert.Error(t, err)

	n, err := v.Get(ctx, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestValue_ZeroTTLDisablesCaching(t *testing.T) {
	v := NewValue[int](0)
	calls := 0
	load := func(context.Context) (int, error) { calls++; return calls, nil }

	_, _ = v.Get(context.Background(), load)
	_, _ = v.Get(context.Background(), load)
	assert.Equal(t, 2, calls)
}
