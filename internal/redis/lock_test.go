package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocker(t *testing.T) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisSlotLocker(client, 5*time.Second), mr
}

func TestSlotLockRunsCriticalSection(t *testing.T) {
	locker, _ := testLocker(t)

	ran := false
	err := locker.WithSlotLock(context.Background(), "2025-06-01", "14:00", func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestSlotLockBlocksSecondHolder(t *testing.T) {
	locker, _ := testLocker(t)

	err := locker.WithSlotLock(context.Background(), "2025-06-01", "14:00", func(ctx context.Context) error {
		// While held, a second acquisition of the same slot must fail.
		inner := locker.WithSlotLock(ctx, "2025-06-01", "14:00", func(ctx context.Context) error {
			t.Fatal("critical section ran while lock was held")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})

	require.NoError(t, err)
}

func TestSlotLockDifferentSlotsIndependent(t *testing.T) {
	locker, _ := testLocker(t)

	err := locker.WithSlotLock(context.Background(), "2025-06-01", "14:00", func(ctx context.Context) error {
		return locker.WithSlotLock(ctx, "2025-06-01", "14:30", func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
}

func TestSlotLockReleasedAfterRun(t *testing.T) {
	locker, mr := testLocker(t)

	require.NoError(t, locker.WithSlotLock(context.Background(), "2025-06-01", "14:00", func(ctx context.Context) error {
		return nil
	}))

	assert.False(t, mr.Exists("lock:slot:2025-06-01:14:00"))

	// And can be taken again.
	require.NoError(t, locker.WithSlotLock(context.Background(), "2025-06-01", "14:00", func(ctx context.Context) error {
		return nil
	}))
}

func TestSlotLockPropagatesCallbackError(t *testing.T) {
	locker, mr := testLocker(t)

	sentinel := errors.New("insert failed")
	err := locker.WithSlotLock(context.Background(), "2025-06-01", "14:00", func(ctx context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.False(t, mr.Exists("lock:slot:2025-06-01:14:00"), "lock released on error")
}
