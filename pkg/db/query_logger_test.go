package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/kitchenline-backend/pkg/logger"
)

func newTestQueryLogger(buf *bytes.Buffer, now time.Time) *queryLogger {
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	q := newQueryLogger(logg, 100*time.Millisecond).(*queryLogger)
	q.clockFunc = func() time.Time { return now }
	return q
}

func TestQueryLoggerReportsSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	q := newTestQueryLogger(&buf, now)

	q.Trace(context.Background(), now.Add(-250*time.Millisecond), func() (string, int64) {
		return `UPDATE inventory_items SET stock = stock - 2`, 1
	}, nil)

	out := buf.String()
	assert.Contains(t, out, "db.slow_query")
	assert.Contains(t, out, `"duration_ms":250`)
	assert.Contains(t, out, "inventory_items")
}

func TestQueryLoggerSkipsFastAndNotFound(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	q := newTestQueryLogger(&buf, now)

	q.Trace(context.Background(), now.Add(-5*time.Millisecond), func() (string, int64) { return "SELECT 1", 1 }, nil)
	q.Trace(context.Background(), now.Add(-5*time.Millisecond), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())
}

func TestQueryLoggerReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	q := newTestQueryLogger(&buf, now)

	q.Trace(context.Background(), now, func() (string, int64) { return "INSERT INTO reviews", 0 }, errors.New("constraint"))
	assert.Contains(t, buf.String(), "db.query_failed")
	assert.Contains(t, buf.String(), "constraint")
}

func TestQueryLoggerSilentMode(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	q := newTestQueryLogger(&buf, now).LogMode(gormlogger.Silent)

	q.Trace(context.Background(), now.Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestNewQueryLoggerWithoutLoggerDiscards(t *testing.T) {
	assert.Equal(t, gormlogger.Discard, newQueryLogger(nil, 0))
}
