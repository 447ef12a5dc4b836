package db

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func bg() context.Context {
	return context.Background()
}

// newTestDB opens a migrated SQLite database in a fresh temporary directory.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewSQLiteConnection(filepath.Join(t.TempDir(), "taskboard.db"))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(database))
	t.Cleanup(func() { _ = Close(database) })
	return database
}

// stepClock returns strictly increasing times, one second apart.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func newTestTaskRepository(t *testing.T) (*taskRepository, *gorm.DB) {
	t.Helper()
	database := newTestDB(t)
	return &taskRepository{
		db:   database,
		tags: NewTagRegistry(database),
		now:  newStepClock().Now,
	}, database
}
