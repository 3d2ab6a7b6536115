package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthReportsPoolAndMigrationState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT version, dirty FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).
			AddRow(int64(20260301000001), false))

	status, err := NewClientFromDB(db).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, uint(20260301000001), status.MigrationVersion)
	assert.False(t, status.MigrationDirty)
	assert.GreaterOrEqual(t, status.Pool.OpenConnections, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthDirtyMigrationDegrades(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT version, dirty FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version", "dirty"}).
			AddRow(int64(20260301000001), true))

	status, err := NewClientFromDB(db).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "degraded", status.Status)
	assert.True(t, status.MigrationDirty)
}

func TestHealthWithoutMigrationTableStaysHealthy(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	status, err := NewClientFromDB(db).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Zero(t, status.MigrationVersion)
}

func TestHealthUnreachableDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	status, err := NewClientFromDB(db).Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, "unhealthy", status.Status)
}
