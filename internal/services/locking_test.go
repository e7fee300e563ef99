package services

import (
	"testing"

	"codeask/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRowLockMatchesDialect(t *testing.T) {
	f := newFixture(t)

	// SQLite rejects FOR UPDATE, and its single-writer model makes it moot.
	tx := lockForUpdate(f.db.Session(&gorm.Session{DryRun: true})).Find(&models.Question{})
	require.NoError(t, tx.Error)
	assert.NotContains(t, tx.Statement.SQL.String(), "FOR UPDATE")

	// DryRun only renders SQL, so no Postgres server is needed here.
	pg, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=codeask dbname=codeask",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	tx = lockForUpdate(pg.Session(&gorm.Session{DryRun: true})).Find(&models.Question{})
	require.NoError(t, tx.Error)
	assert.Contains(t, tx.Statement.SQL.String(), "FOR UPDATE")
}
