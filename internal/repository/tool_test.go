package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/ferramentas/internal/models"
)

func TestToolCreateStartsFullyAvailable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewToolRepository(db)

	tool := &models.Tool{Name: "Serra Circular", TotalQuantity: 5}
	require.NoError(t, repo.Create(context.Background(), tool))

	stored, err := repo.GetByID(context.Background(), tool.ID)
	require.NoError(t, err)
	require.Equal(t, 5, stored.TotalQuantity)
	require.Equal(t, 5, stored.AvailableQuantity)
}

func TestToolListOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewToolRepository(db)

	createTool(t, db, "Trena", 1)
	createTool(t, db, "Alicate", 1)

	tools, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	require.Equal(t, "Alicate", tools[0].Name)
	require.Equal(t, "Trena", tools[1].Name)
}

func TestToolTotalChangeMovesAvailabilityByDelta(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tools := NewToolRepository(db)
	movements := NewMovementRepository(db)

	requester := createRequester(t, db, "Operador")
	tool := createTool(t, db, "Parafusadeira", 4)

	// Two units out on loan, two still on the shelf.
	require.NoError(t, movements.Create(ctx, checkout(requester.ID, tool.ID)))
	require.NoError(t, movements.Create(ctx, checkout(requester.ID, tool.ID)))

	found, err := tools.Update(ctx, tool.ID, ToolPatch{TotalQuantity: intPtr(6)})
	require.NoError(t, err)
	require.True(t, found)

	updated := reloadTool(t, db, tool.ID)
	require.Equal(t, 6, updated.TotalQuantity)
	require.Equal(t, 4, updated.AvailableQuantity)

	// Shrinking down to exactly the loaned count leaves zero available.
	found, err = tools.Update(ctx, tool.ID, ToolPatch{TotalQuantity: intPtr(2)})
	require.NoError(t, err)
	require.True(t, found)

	updated = reloadTool(t, db, tool.ID)
	require.Equal(t, 2, updated.TotalQuantity)
	require.Equal(t, 0, updated.AvailableQuantity)
}

func TestToolTotalBelowLoanedRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tools := NewToolRepository(db)
	movements := NewMovementRepository(db)

	requester := createRequester(t, db, "Operador")
	tool := createTool(t, db, "Esmerilhadeira", 3)

	require.NoError(t, movements.Create(ctx, checkout(requester.ID, tool.ID)))
	require.NoError(t, movements.Create(ctx, checkout(requester.ID, tool.ID)))

	found, err := tools.Update(ctx, tool.ID, ToolPatch{TotalQuantity: intPtr(1)})
	require.ErrorIs(t, err, ErrTotalBelowLoaned)
	require.True(t, found)

	unchanged := reloadTool(t, db, tool.ID)
	require.Equal(t, 3, unchanged.TotalQuantity)
	require.Equal(t, 1, unchanged.AvailableQuantity)
}

func TestToolRenameKeepsQuantities(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	tools := NewToolRepository(db)
	movements := NewMovementRepository(db)

	requester := createRequester(t, db, "Operador")
	tool := createTool(t, db, "Martelo", 2)
	require.NoError(t, movements.Create(ctx, checkout(requester.ID, tool.ID)))

	found, err := tools.Update(ctx, tool.ID, ToolPatch{Name: strPtr("Marreta")})
	require.NoError(t, err)
	require.True(t, found)

	updated := reloadTool(t, db, tool.ID)
	require.Equal(t, "Marreta", updated.Name)
	require.Equal(t, 2, updated.TotalQuantity)
	require.Equal(t, 1, updated.AvailableQuantity)
}

func TestToolEmptyPatchReturnsFalse(t *testing.T) {
	db := setupTestDB(t)
	tools := NewToolRepository(db)

	tool := createTool(t, db, "Nível", 1)

	found, err := tools.Update(context.Background(), tool.ID, ToolPatch{})
	require.NoError(t, err)
	require.False(t, found)
}

func TestToolUpdateMissingReturnsFalse(t *testing.T) {
	db := setupTestDB(t)
	tools := NewToolRepository(db)

	found, err := tools.Update(context.Background(), 4242, ToolPatch{TotalQuantity: intPtr(10)})
	require.NoError(t, err)
	require.False(t, found)
}

func TestToolDelete(t *testing.T) {
	db := setupTestDB(t)
	tools := NewToolRepository(db)

	tool := createTool(t, db, "Descartável", 1)

	found, err := tools.Delete(context.Background(), tool.ID)
	require.NoError(t, err)
	require.True(t, found)

	_, err = tools.GetByID(context.Background(), tool.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
