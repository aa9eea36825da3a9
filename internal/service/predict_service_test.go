package service

import (
	"testing"
	"time"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/model"
	"go-pharmacy-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPredictService(db *gorm.DB) PredictService {
	return NewPredictService(repository.NewProductRepo(db), repository.NewTransactionRepo(db))
}

func TestPredictRestock_LinearModel(t *testing.T) {
	db := setupTestDB(t)
	svc := newPredictService(db)
	user := createTestUser(t, db, "dave")
	product := createTestProduct(t, db, "Paracetamol 500mg", 100, 20)

	// 30 outbound entries of 10 units inside the trailing window:
	// 300 units over 30 days, 10/day.
	now := time.Now()
	for i := 0; i < 30; i++ {
		createTestTransaction(t, db, product, user, 10, model.TxOut, now.Add(-time.Duration(i)*12*time.Hour))
	}

	prediction, err := svc.PredictRestock(product.ID)
	require.NoError(t, err)

	assert.False(t, prediction.InsufficientData)
	assert.Equal(t, 10.0, prediction.DailyAverage)
	assert.Equal(t, 8, prediction.DaysUntilReorder)
	assert.Equal(t, 300, prediction.SuggestedOrder)
}

func TestPredictRestock_IgnoresInboundAndStaleEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := newPredictService(db)
	user := createTestUser(t, db, "dave")
	product := createTestProduct(t, db, "Amoxicillin 500mg", 90, 15)

	now := time.Now()
	createTestTransaction(t, db, product, user, 30, model.TxOut, now.Add(-24*time.Hour))
	createTestTransaction(t, db, product, user, 500, model.TxIn, now.Add(-24*time.Hour))
	createTestTransaction(t, db, product, user, 900, model.TxOut, now.AddDate(0, 0, -45))

	prediction, err := svc.PredictRestock(product.ID)
	require.NoError(t, err)

	// Only the 30 units inside the window count: 1/day.
	assert.Equal(t, 1.0, prediction.DailyAverage)
	assert.Equal(t, 75, prediction.DaysUntilReorder)
	assert.Equal(t, 30, prediction.SuggestedOrder)
}

func TestPredictRestock_NegativeWhenBelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	svc := newPredictService(db)
	user := createTestUser(t, db, "dave")
	product := createTestProduct(t, db, "Omeprazole 20mg", 10, 20)

	createTestTransaction(t, db, product, user, 300, model.TxOut, time.Now().Add(-48*time.Hour))

	prediction, err := svc.PredictRestock(product.ID)
	require.NoError(t, err)

	assert.Equal(t, -1, prediction.DaysUntilReorder, "already below the reorder level")
	assert.Equal(t, 10.0, prediction.DailyAverage)
}

func TestPredictRestock_InsufficientData(t *testing.T) {
	db := setupTestDB(t)
	svc := newPredictService(db)
	user := createTestUser(t, db, "dave")
	product := createTestProduct(t, db, "Cetirizine 10mg", 50, 10)

	// Inbound-only history says nothing about consumption.
	createTestTransaction(t, db, product, user, 25, model.TxIn, time.Now().Add(-24*time.Hour))

	prediction, err := svc.PredictRestock(product.ID)
	require.NoError(t, err)
	assert.True(t, prediction.InsufficientData)
}

func TestPredictRestock_UnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := newPredictService(db)

	var nferr *apperr.NotFoundError
	_, err := svc.PredictRestock(uuid.New())
	require.ErrorAs(t, err, &nferr)
}
