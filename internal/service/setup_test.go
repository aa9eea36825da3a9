package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go-pharmacy-inventory/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a test-scoped in-memory sqlite database. The pool is
// pinned to one connection so the memory database survives for the whole
// test and concurrent transactions serialize instead of tripping over
// sqlite's table locks.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{Username: username, Role: model.RoleStaff}
	require.NoError(t, user.SetPassword("secret"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, quantity, reorderLevel int) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:         name,
		Category:     "Test",
		UnitPrice:    9.99,
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestTransaction(t *testing.T, db *gorm.DB, product *model.Product, user *model.User, quantity int, txType model.TransactionType, at time.Time) *model.Transaction {
	t.Helper()

	tx := &model.Transaction{
		BaseModel: model.BaseModel{CreatedAt: at},
		ProductID: product.ID,
		UserID:    user.ID,
		Quantity:  quantity,
		Type:      txType,
	}
	require.NoError(t, db.Create(tx).Error)
	return tx
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	return count
}

func reloadProduct(t *testing.T, db *gorm.DB, product *model.Product) *model.Product {
	t.Helper()

	var fresh model.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	return &fresh
}
