package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"example.com/ferramentas/config"
	"example.com/ferramentas/internal/database"
	"example.com/ferramentas/internal/models"
)

// setupTestDB opens an in-memory sqlite database with a single
// connection so concurrent transactions serialize the way the
// production backend does.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	require.NoError(t, models.SetupModels(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

func createRequester(t *testing.T, db *gorm.DB, name string) *models.Requester {
	t.Helper()
	requester := &models.Requester{Name: name}
	require.NoError(t, NewRequesterRepository(db).Create(context.Background(), requester))
	return requester
}

func createTool(t *testing.T, db *gorm.DB, name string, total int) *models.Tool {
	t.Helper()
	tool := &models.Tool{Name: name, TotalQuantity: total}
	require.NoError(t, NewToolRepository(db).Create(context.Background(), tool))
	return tool
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
