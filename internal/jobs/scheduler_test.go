package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/modhub-backend/internal/config"
)

type fakeCleaner struct {
	calls int
	err   error
}

func (f *fakeCleaner) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	f.calls++
	return 2, f.err
}

func TestNewSchedulerRegistersCleanup(t *testing.T) {
	cleaner := &fakeCleaner{}
	s, err := NewScheduler(config.JobsConfig{CleanupEnabled: true, CleanupSchedule: "@every 1h"}, cleaner)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s.CleanupUnverified()
	assert.Equal(t, 1, cleaner.calls)

	cleaner.err = errors.New("db down")
	s.CleanupUnverified()
	assert.Equal(t, 2, cleaner.calls)
}

func TestNewSchedulerDisabled(t *testing.T) {
	s, err := NewScheduler(config.JobsConfig{CleanupEnabled: false, CleanupSchedule: "@every 1h"}, &fakeCleaner{})
	require.NoError(t, err)
	assert.Empty(t, s.cron.Entries())

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(config.JobsConfig{CleanupEnabled: true, CleanupSchedule: "every now and then"}, &fakeCleaner{})
	assert.Error(t, err)
}
