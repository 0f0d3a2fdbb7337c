package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepCompletes(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLifetimeCloseCancelsBoundContexts(t *testing.T) {
	lt := NewLifetime()
	ctx, release := lt.Bind(context.Background())
	defer release()

	assert.False(t, lt.Done())
	lt.Close()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("bound context was not cancelled by Close")
	}
	assert.True(t, lt.Done())
}

func TestLifetimeReleaseLeavesLifetimeOpen(t *testing.T) {
	lt := NewLifetime()
	ctx, release := lt.Bind(context.Background())
	release()

	assert.Error(t, ctx.Err())
	assert.False(t, lt.Done())
}

func TestLifetimeErr(t *testing.T) {
	lt := NewLifetime()
	ctx, release := lt.Bind(context.Background())
	defer release()

	assert.NoError(t, lt.Err(ctx))

	lt.Close()
	assert.ErrorIs(t, lt.Err(ctx), context.Canceled)
	assert.ErrorIs(t, lt.Err(context.Background()), context.Canceled)
}
