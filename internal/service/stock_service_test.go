package service

import (
	"errors"
	"sync"
	"testing"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStockChange_AddAndRemove(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	user := createTestUser(t, db, "alice")
	product := createTestProduct(t, db, "Paracetamol 500mg", 50, 10)

	newQty, err := svc.ApplyStockChange(product.ID, 10, OpAdd, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, newQty)

	newQty, err = svc.ApplyStockChange(product.ID, 20, OpRemove, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, newQty)

	assert.Equal(t, 40, reloadProduct(t, db, product).Quantity)

	var entries []model.Transaction
	require.NoError(t, db.Order("created_at ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, model.TxIn, entries[0].Type)
	assert.Equal(t, 10, entries[0].Quantity)
	assert.Equal(t, model.TxOut, entries[1].Type)
	assert.Equal(t, 20, entries[1].Quantity)
	assert.Equal(t, user.ID, entries[0].UserID)
}

func TestApplyStockChange_InsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	user := createTestUser(t, db, "alice")
	product := createTestProduct(t, db, "Amoxicillin 500mg", 5, 2)

	_, err := svc.ApplyStockChange(product.ID, 10, OpRemove, user.ID)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// A rejected mutation leaves no trace: quantity and ledger untouched.
	assert.Equal(t, 5, reloadProduct(t, db, product).Quantity)
	assert.Equal(t, int64(0), countTransactions(t, db))
}

func TestApplyStockChange_InvalidInput(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	user := createTestUser(t, db, "alice")
	product := createTestProduct(t, db, "Omeprazole 20mg", 30, 10)

	var verr *apperr.ValidationError

	_, err := svc.ApplyStockChange(product.ID, 0, OpAdd, user.ID)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	_, err = svc.ApplyStockChange(product.ID, -3, OpRemove, user.ID)
	require.ErrorAs(t, err, &verr)

	_, err = svc.ApplyStockChange(product.ID, 5, "destroy", user.ID)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "operation", verr.Field)

	assert.Equal(t, int64(0), countTransactions(t, db))
}

func TestApplyStockChange_UnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	user := createTestUser(t, db, "alice")

	var nferr *apperr.NotFoundError
	_, err := svc.ApplyStockChange(uuid.New(), 5, OpAdd, user.ID)
	require.ErrorAs(t, err, &nferr)
}

func TestApplyStockChange_ConcurrentRemovals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStockService(db)
	user := createTestUser(t, db, "alice")

	const workers = 4
	const each = 5
	// Stock covers exactly workers-1 removals.
	product := createTestProduct(t, db, "Metformin 500mg", (workers-1)*each, 0)

	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyStockChange(product.ID, each, OpRemove, user.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperr.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, workers-1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, reloadProduct(t, db, product).Quantity)
	assert.Equal(t, int64(workers-1), countTransactions(t, db))
}
