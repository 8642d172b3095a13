package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"example.com/ferramentas/internal/models"
)

func checkout(requesterID, toolID uint) *models.Movement {
	return &models.Movement{
		Type:        models.TypeCheckout,
		RequesterID: requesterID,
		ToolID:      toolID,
		HasReturn:   true,
	}
}

// reloadTool fetches the current tool row
func reloadTool(t *testing.T, db *gorm.DB, id uint) *models.Tool {
	t.Helper()
	tool, err := NewToolRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return tool
}

// requireLedgerConsistent checks the incremental bookkeeping against a
// full recount of open checkouts
func requireLedgerConsistent(t *testing.T, db *gorm.DB, toolID uint) {
	t.Helper()
	tool := reloadTool(t, db, toolID)
	open, err := NewMovementRepository(db).CountOpenCheckouts(context.Background(), toolID)
	require.NoError(t, err)
	require.Equal(t, tool.TotalQuantity-int(open), tool.AvailableQuantity)
	require.GreaterOrEqual(t, tool.AvailableQuantity, 0)
	require.LessOrEqual(t, tool.AvailableQuantity, tool.TotalQuantity)
}

func TestCheckoutLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "João")
	tool := createTool(t, db, "Furadeira", 2)
	require.Equal(t, 2, tool.AvailableQuantity)

	// Two checkouts consume both units
	first := checkout(requester.ID, tool.ID)
	require.NoError(t, repo.Create(ctx, first))
	second := checkout(requester.ID, tool.ID)
	require.NoError(t, repo.Create(ctx, second))

	require.Equal(t, 0, reloadTool(t, db, tool.ID).AvailableQuantity)
	requireLedgerConsistent(t, db, tool.ID)

	active, err := repo.List(ctx, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// Third checkout fails with no partial insert
	third := checkout(requester.ID, tool.ID)
	err = repo.Create(ctx, third)
	require.ErrorIs(t, err, ErrToolUnavailable)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, 0, reloadTool(t, db, tool.ID).AvailableQuantity)

	// Completing the first movement returns one unit
	completed, err := repo.Complete(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, completed)
	require.Equal(t, 1, reloadTool(t, db, tool.ID).AvailableQuantity)
	requireLedgerConsistent(t, db, tool.ID)

	movement, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, movement.Status)
}

func TestCheckoutThenCompleteRestoresAvailability(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Maria")
	tool := createTool(t, db, "Martelo", 3)

	movement := checkout(requester.ID, tool.ID)
	require.NoError(t, repo.Create(ctx, movement))
	require.Equal(t, 2, reloadTool(t, db, tool.ID).AvailableQuantity)

	completed, err := repo.Complete(ctx, movement.ID)
	require.NoError(t, err)
	require.True(t, completed)
	require.Equal(t, 3, reloadTool(t, db, tool.ID).AvailableQuantity)
}

func TestCheckoutUnavailableLeavesRowsUnchanged(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Ana")
	tool := createTool(t, db, "Serra", 1)

	require.NoError(t, repo.Create(ctx, checkout(requester.ID, tool.ID)))
	require.Equal(t, 0, reloadTool(t, db, tool.ID).AvailableQuantity)

	err := repo.Create(ctx, checkout(requester.ID, tool.ID))
	require.ErrorIs(t, err, ErrToolUnavailable)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, 0, reloadTool(t, db, tool.ID).AvailableQuantity)
}

func TestReturnMovementDoesNotDecrement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Pedro")
	tool := createTool(t, db, "Chave de Fenda", 1)

	movement := &models.Movement{
		Type:        models.TypeReturn,
		RequesterID: requester.ID,
		ToolID:      tool.ID,
	}
	require.NoError(t, repo.Create(ctx, movement))
	require.Equal(t, 1, reloadTool(t, db, tool.ID).AvailableQuantity)

	// Completing a non-checkout movement does not increment either
	completed, err := repo.Complete(ctx, movement.ID)
	require.NoError(t, err)
	require.True(t, completed)
	require.Equal(t, 1, reloadTool(t, db, tool.ID).AvailableQuantity)
}

func TestCompleteTwiceReturnsFalseAndDoesNotDoubleIncrement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Carlos")
	tool := createTool(t, db, "Alicate", 1)

	movement := checkout(requester.ID, tool.ID)
	require.NoError(t, repo.Create(ctx, movement))

	completed, err := repo.Complete(ctx, movement.ID)
	require.NoError(t, err)
	require.True(t, completed)
	require.Equal(t, 1, reloadTool(t, db, tool.ID).AvailableQuantity)

	completed, err = repo.Complete(ctx, movement.ID)
	require.NoError(t, err)
	require.False(t, completed)
	require.Equal(t, 1, reloadTool(t, db, tool.ID).AvailableQuantity)
	requireLedgerConsistent(t, db, tool.ID)
}

func TestCompleteMissingMovementReturnsFalse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMovementRepository(db)

	completed, err := repo.Complete(context.Background(), 9999)
	require.NoError(t, err)
	require.False(t, completed)
}

func TestConcurrentCheckoutsConsumeExactlyAvailableUnits(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Equipe")
	tool := createTool(t, db, "Parafusadeira", 3)

	const attempts = 8
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.Create(ctx, checkout(requester.ID, tool.ID))
		}(i)
	}
	wg.Wait()

	successes, unavailable := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrToolUnavailable)
			unavailable++
		}
	}

	require.Equal(t, 3, successes)
	require.Equal(t, attempts-3, unavailable)
	require.Equal(t, 0, reloadTool(t, db, tool.ID).AvailableQuantity)
	requireLedgerConsistent(t, db, tool.ID)
}

func TestListMovementsOrderAndFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Rita")
	tool := createTool(t, db, "Nível", 5)

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	var ids []uint
	for i := 0; i < 3; i++ {
		movement := checkout(requester.ID, tool.ID)
		movement.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, movement))
		ids = append(ids, movement.ID)
	}

	completed, err := repo.Complete(ctx, ids[0])
	require.NoError(t, err)
	require.True(t, completed)

	// Newest first, joined with names
	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ids[2], all[0].ID)
	require.Equal(t, ids[0], all[2].ID)
	require.Equal(t, "Rita", all[0].RequesterName)
	require.Equal(t, "Nível", all[0].ToolName)

	active, err := repo.List(ctx, models.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)

	done, err := repo.List(ctx, models.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	require.Equal(t, ids[0], done[0].ID)
}

func TestUpdateMovementPatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requester := createRequester(t, db, "Laura")
	tool := createTool(t, db, "Esmerilhadeira", 1)

	movement := checkout(requester.ID, tool.ID)
	movement.Notes = strPtr("uso na obra 12")
	require.NoError(t, repo.Create(ctx, movement))

	// Empty patch mutates nothing and reports false
	found, err := repo.Update(ctx, movement.ID, MovementPatch{})
	require.NoError(t, err)
	require.False(t, found)

	found, err = repo.Update(ctx, movement.ID, MovementPatch{
		ExpectedReturnDate: strPtr("2024-04-01"),
		ReturnTime:         strPtr("17:30"),
	})
	require.NoError(t, err)
	require.True(t, found)

	updated, err := repo.GetByID(ctx, movement.ID)
	require.NoError(t, err)
	require.Equal(t, "2024-04-01", *updated.ExpectedReturnDate)
	require.Equal(t, "17:30", *updated.ReturnTime)
	// Omitted fields keep their value
	require.Equal(t, "uso na obra 12", *updated.Notes)

	found, err = repo.Update(ctx, 9999, MovementPatch{Notes: strPtr("x")})
	require.NoError(t, err)
	require.False(t, found)
}

func TestStatistics(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMovementRepository(db)

	requesterA := createRequester(t, db, "A")
	createRequester(t, db, "B")
	loaned := createTool(t, db, "Trena", 1)
	createTool(t, db, "Lixadeira", 2)

	require.NoError(t, repo.Create(ctx, checkout(requesterA.ID, loaned.ID)))

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalTools)
	require.Equal(t, int64(1), stats.AvailableTools)
	require.Equal(t, int64(1), stats.ActiveMovements)
	require.Equal(t, int64(2), stats.TotalRequesters)
}

func TestDeleteReferencedRecordsRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	requester := createRequester(t, db, "Referenciado")
	tool := createTool(t, db, "Compressor", 1)
	require.NoError(t, NewMovementRepository(db).Create(ctx, checkout(requester.ID, tool.ID)))

	// The foreign keys are declared RESTRICT: the backend rejects both
	// deletes while the movement exists
	_, err := NewToolRepository(db).Delete(ctx, tool.ID)
	require.Error(t, err)
	require.True(t, IsStorageError(err))

	_, err = NewRequesterRepository(db).Delete(ctx, requester.ID)
	require.Error(t, err)
	require.True(t, IsStorageError(err))
}
