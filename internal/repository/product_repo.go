package repository

import (
	"time"

	"go-pharmacy-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
	UpdateMetadata(product *model.Product) error
	DeleteCascade(id uuid.UUID) error
	Count() (int64, error)
	FindLowStock() ([]model.Product, error)
	CountExpiringBetween(after, until time.Time) (int64, error)
	CategoryCounts() ([]CategoryCount, error)
}

// CategoryCount is one bucket of the catalog histogram. Products without
// a category land in the empty-string bucket.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(barcode string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "barcode = ?", barcode).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateMetadata persists the catalog columns of a product. Quantity is
// deliberately absent: it belongs to the stock mutation path, and a
// full-row save here would overwrite a quantity committed after this
// product was read.
func (r *productRepo) UpdateMetadata(product *model.Product) error {
	return r.db.Model(product).Updates(map[string]any{
		"name":          product.Name,
		"category":      product.Category,
		"description":   product.Description,
		"unit_price":    product.UnitPrice,
		"reorder_level": product.ReorderLevel,
		"barcode":       product.Barcode,
		"expiry_date":   product.ExpiryDate,
	}).Error
}

// DeleteCascade removes the product's ledger entries first, then the
// product itself, inside one transaction.
func (r *productRepo) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Count(&count).Error
	return count, err
}

// FindLowStock returns products at or below their reorder level. The
// boundary is inclusive: quantity == reorder_level counts as low.
func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("quantity <= reorder_level").Find(&products).Error
	return products, err
}

func (r *productRepo) CountExpiringBetween(after, until time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("expiry_date > ? AND expiry_date <= ?", after, until).
		Count(&count).Error
	return count, err
}

func (r *productRepo) CategoryCounts() ([]CategoryCount, error) {
	var results []CategoryCount
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(category, '') as category, COUNT(*) as count").
		Group("category").
		Order("category ASC").
		Scan(&results).Error
	return results, err
}
