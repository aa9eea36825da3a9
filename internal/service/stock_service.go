package service

import (
	"errors"
	"fmt"
	"strings"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock operations accepted by ApplyStockChange.
const (
	OpAdd    = "add"
	OpRemove = "remove"
)

// maxMutationAttempts bounds the transparent retry on lock contention.
const maxMutationAttempts = 3

type StockService interface {
	ApplyStockChange(productID uuid.UUID, quantity int, operation string, actorID uuid.UUID) (int, error)
}

type stockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) StockService {
	return &stockService{db: db}
}

// ApplyStockChange updates a product's quantity and writes the matching
// ledger entry as one atomic unit. The decrement is a single conditional
// UPDATE guarded by `quantity >= ?`, so two concurrent removes can never
// both spend the same stock: the second one affects zero rows and is
// rejected with ErrInsufficientStock.
func (s *stockService) ApplyStockChange(productID uuid.UUID, quantity int, operation string, actorID uuid.UUID) (int, error) {
	if quantity <= 0 {
		return 0, apperr.Validation("quantity", "Quantity must be greater than 0")
	}

	op := strings.ToLower(strings.TrimSpace(operation))
	if op != OpAdd && op != OpRemove {
		return 0, apperr.Validation("operation", `Invalid operation. Use "add" or "remove"`)
	}

	var newQuantity int
	var lastErr error

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var product model.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("product")
				}
				return err
			}

			txType := model.TxIn
			var res *gorm.DB
			if op == OpAdd {
				res = tx.Model(&model.Product{}).
					Where("id = ?", productID).
					Update("quantity", gorm.Expr("quantity + ?", quantity))
			} else {
				txType = model.TxOut
				res = tx.Model(&model.Product{}).
					Where("id = ? AND quantity >= ?", productID, quantity).
					Update("quantity", gorm.Expr("quantity - ?", quantity))
			}
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if op == OpRemove {
					return apperr.ErrInsufficientStock
				}
				return apperr.NotFound("product")
			}

			entry := &model.Transaction{
				ProductID: productID,
				UserID:    actorID,
				Type:      txType,
				Quantity:  quantity,
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}

			var updated model.Product
			if err := tx.First(&updated, "id = ?", productID).Error; err != nil {
				return err
			}
			newQuantity = updated.Quantity
			return nil
		})

		if err == nil {
			return newQuantity, nil
		}
		if !apperr.IsTransient(err) {
			return 0, err
		}
		lastErr = err
	}

	return 0, fmt.Errorf("%w: %v", apperr.ErrTransientStore, lastErr)
}
