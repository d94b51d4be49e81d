package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimmigupta/bus25-FridgeVision/config"
	"github.com/nimmigupta/bus25-FridgeVision/internal/model"
)

func TestConnectSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	t.Run("schema is migrated", func(t *testing.T) {
		assert.True(t, db.Migrator().HasTable(&model.Favorite{}))
	})

	t.Run("health check passes", func(t *testing.T) {
		assert.NoError(t, HealthCheck(context.Background(), db))
	})
}
