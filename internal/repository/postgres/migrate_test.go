package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@localhost:5432/ledger?sslmode=disable", migrateURL("postgres://u:p@localhost:5432/ledger?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/ledger", migrateURL("postgresql://u@db/ledger"))
	assert.Equal(t, "pgx5://u@db/ledger", migrateURL("pgx5://u@db/ledger"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int32(0), totalPages(0, 10))
	assert.Equal(t, int32(1), totalPages(10, 10))
	assert.Equal(t, int32(2), totalPages(11, 10))
	assert.Equal(t, int32(0), totalPages(5, 0))
}
