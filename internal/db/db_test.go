package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})
	return gdb, mock
}

func TestSeedCategories_Empty(t *testing.T) {
	gdb, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	rows := sqlmock.NewRows([]string{"id"})
	for i := range DefaultCategories {
		rows.AddRow(i + 1)
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "categories"`).WillReturnRows(rows)
	mock.ExpectCommit()

	require.NoError(t, SeedCategories(context.Background(), gdb))
	assert.Zero(t, DefaultCategories[0].ID, "seed source must stay untouched")
}

func TestSeedCategories_AlreadySeeded(t *testing.T) {
	gdb, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	require.NoError(t, SeedCategories(context.Background(), gdb))
}
