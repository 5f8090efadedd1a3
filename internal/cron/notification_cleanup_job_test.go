package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
)

type fakePurger struct {
	lastCutoff time.Time
	deleted    int64
	err        error
	calls      int
}

func (f *fakePurger) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.lastCutoff = cutoff
	return f.deleted, f.err
}

func newCleanupJob(t *testing.T, store *fakePurger, retention time.Duration) *notificationCleanupJob {
	t.Helper()
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Store:     store,
		Retention: retention,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	return job.(*notificationCleanupJob)
}

func TestNotificationCleanupJobUsesRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	store := &fakePurger{deleted: 7}
	job := newCleanupJob(t, store, 7*24*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := time.Date(2026, 3, 24, 12, 0, 0, 0, time.UTC)
	if !store.lastCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, store.lastCutoff)
	}
	if store.calls != 1 {
		t.Fatalf("expected one purge, got %d", store.calls)
	}
}

func TestNotificationCleanupJobDefaultsRetention(t *testing.T) {
	job := newCleanupJob(t, &fakePurger{}, 0)
	if job.retention != defaultNotificationRetention {
		t.Fatalf("expected default retention, got %s", job.retention)
	}
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	job := newCleanupJob(t, &fakePurger{err: errors.New("boom")}, time.Hour)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
