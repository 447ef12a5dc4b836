package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newDryRunPostgres builds SQL with the postgres dialector without ever
// connecting; the DSN points at a closed port.
func newDryRunPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=taskboard dbname=taskboard sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return database
}

func TestWhereHasTagPostgresUsesJSONBContainment(t *testing.T) {
	database := newDryRunPostgres(t)
	repo := &taskRepository{db: database}

	sql := database.ToSQL(func(tx *gorm.DB) *gorm.DB {
		q, err := repo.whereHasTag(tx.Model(&domain.Task{}), "bug")
		require.NoError(t, err)
		return q.Find(&[]domain.Task{})
	})

	assert.Contains(t, sql, `tags::jsonb @> '["bug"]'::jsonb`)
}

func TestWhereHasTagSQLiteUsesJSONEach(t *testing.T) {
	database := newTestDB(t)
	repo := &taskRepository{db: database}

	sql := database.ToSQL(func(tx *gorm.DB) *gorm.DB {
		q, err := repo.whereHasTag(tx.Model(&domain.Task{}), "bug")
		require.NoError(t, err)
		return q.Find(&[]domain.Task{})
	})

	assert.Contains(t, sql, "json_each(tasks.tags)")
}

func TestRowLockingOnlyOnPostgres(t *testing.T) {
	assert.True(t, (&taskRepository{db: newDryRunPostgres(t)}).lockRows())
	assert.False(t, (&taskRepository{db: newTestDB(t)}).lockRows())
}

func TestTaskQueryLocksRowForUpdate(t *testing.T) {
	database := newDryRunPostgres(t)

	locked := database.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return taskQuery(tx, "t1", true).First(&domain.Task{})
	})
	plain := database.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return taskQuery(tx, "t1", false).First(&domain.Task{})
	})

	assert.Contains(t, locked, "FOR UPDATE")
	assert.NotContains(t, plain, "FOR UPDATE")
}
