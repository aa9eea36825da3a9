package service

import (
	"errors"
	"strings"
	"time"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/model"
	"go-pharmacy-inventory/internal/repository"
	"go-pharmacy-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// CreateProductRequest is the intake payload. Numeric fields are typed
// `any` because clients send them either as JSON numbers or as strings;
// a single validation pass coerces and checks them.
type CreateProductRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	UnitPrice    any    `json:"unit_price"`
	Quantity     any    `json:"quantity"`
	ReorderLevel any    `json:"reorder_level"`
	Barcode      string `json:"barcode"`
	ExpiryDate   string `json:"expiry_date"`
}

// UpdateProductRequest is a partial patch: nil fields stay untouched.
// Quantity is absent on purpose, the stock endpoint owns it.
type UpdateProductRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
	UnitPrice    any     `json:"unit_price"`
	ReorderLevel any     `json:"reorder_level"`
	Barcode      *string `json:"barcode"`
	ExpiryDate   *string `json:"expiry_date"`
}

// productInput is the validated shape both create and update converge on.
type productInput struct {
	Name         string  `validate:"required"`
	Category     string  `validate:"required"`
	UnitPrice    float64 `validate:"gt=0"`
	Quantity     int     `validate:"gte=0"`
	ReorderLevel int     `validate:"gte=0"`
}

type CatalogService interface {
	CreateProduct(req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) CreateProduct(req *CreateProductRequest) (*model.Product, error) {
	for _, field := range []struct {
		name, label string
		value       any
	}{
		{"name", "Name", req.Name},
		{"category", "Category", req.Category},
		{"unit_price", "Unit price", req.UnitPrice},
		{"quantity", "Quantity", req.Quantity},
		{"reorder_level", "Reorder level", req.ReorderLevel},
	} {
		if fieldMissing(field.value) {
			return nil, apperr.Validation(field.name, field.label+" is required")
		}
	}

	unitPrice, err := cast.ToFloat64E(req.UnitPrice)
	if err != nil {
		return nil, apperr.Validation("unit_price", "Invalid numeric values provided")
	}
	quantity, err := cast.ToIntE(req.Quantity)
	if err != nil {
		return nil, apperr.Validation("quantity", "Invalid numeric values provided")
	}
	reorderLevel, err := cast.ToIntE(req.ReorderLevel)
	if err != nil {
		return nil, apperr.Validation("reorder_level", "Invalid numeric values provided")
	}

	input := productInput{
		Name:         strings.TrimSpace(req.Name),
		Category:     strings.TrimSpace(req.Category),
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var expiry *time.Time
	if strings.TrimSpace(req.ExpiryDate) != "" {
		expiry, err = parseExpiryDate(strings.TrimSpace(req.ExpiryDate))
		if err != nil {
			return nil, err
		}
	}

	var barcode *string
	if code := strings.TrimSpace(req.Barcode); code != "" {
		if err := s.checkBarcodeFree(code, uuid.Nil); err != nil {
			return nil, err
		}
		barcode = &code
	}

	product := &model.Product{
		Name:         input.Name,
		Category:     input.Category,
		Description:  req.Description,
		UnitPrice:    input.UnitPrice,
		Quantity:     input.Quantity,
		ReorderLevel: input.ReorderLevel,
		Barcode:      barcode,
		ExpiryDate:   expiry,
	}
	if err := s.productRepo.Create(product); err != nil {
		if barcodeConflict(err) {
			return nil, apperr.ErrDuplicateBarcode
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.UnitPrice != nil {
		price, err := cast.ToFloat64E(req.UnitPrice)
		if err != nil {
			return nil, apperr.Validation("unit_price", "Invalid numeric values provided")
		}
		product.UnitPrice = price
	}
	if req.ReorderLevel != nil {
		level, err := cast.ToIntE(req.ReorderLevel)
		if err != nil {
			return nil, apperr.Validation("reorder_level", "Invalid numeric values provided")
		}
		product.ReorderLevel = level
	}

	// Re-validate the patched fields with the same rules as create.
	input := productInput{
		Name:         product.Name,
		Category:     product.Category,
		UnitPrice:    product.UnitPrice,
		Quantity:     product.Quantity,
		ReorderLevel: product.ReorderLevel,
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	if req.ExpiryDate != nil {
		if value := strings.TrimSpace(*req.ExpiryDate); value == "" {
			product.ExpiryDate = nil
		} else {
			expiry, err := parseExpiryDate(value)
			if err != nil {
				return nil, err
			}
			product.ExpiryDate = expiry
		}
	}

	if req.Barcode != nil {
		if code := strings.TrimSpace(*req.Barcode); code == "" {
			product.Barcode = nil
		} else {
			if err := s.checkBarcodeFree(code, product.ID); err != nil {
				return nil, err
			}
			product.Barcode = &code
		}
	}

	if err := s.productRepo.UpdateMetadata(product); err != nil {
		if barcodeConflict(err) {
			return nil, apperr.ErrDuplicateBarcode
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product")
		}
		return err
	}
	return s.productRepo.DeleteCascade(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

// checkBarcodeFree fails when the barcode already belongs to a different
// product. selfID excludes the product being patched.
func (s *catalogService) checkBarcodeFree(code string, selfID uuid.UUID) error {
	existing, err := s.productRepo.FindByBarcode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperr.ErrDuplicateBarcode
	}
	return nil
}

// barcodeConflict recognizes the unique-index violation raised when two
// writers pass checkBarcodeFree with the same code; the index is the
// backstop for that race.
func barcodeConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	if !strings.Contains(msg, "barcode") {
		return false
	}
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func validateProductInput(input productInput) error {
	for _, verr := range validator.ValidateStruct(input) {
		switch verr.FailedField {
		case "Name":
			return apperr.Validation("name", "Name is required")
		case "Category":
			return apperr.Validation("category", "Category is required")
		case "UnitPrice":
			return apperr.Validation("unit_price", "Unit price must be greater than 0")
		case "Quantity":
			return apperr.Validation("quantity", "Quantity cannot be negative")
		case "ReorderLevel":
			return apperr.Validation("reorder_level", "Reorder level cannot be negative")
		}
	}
	return nil
}

func parseExpiryDate(value string) (*time.Time, error) {
	expiry, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperr.Validation("expiry_date", "Invalid expiry date format. Use YYYY-MM-DD")
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if expiry.Before(today) {
		return nil, apperr.Validation("expiry_date", "Expiry date cannot be in the past")
	}
	return &expiry, nil
}

// fieldMissing treats nil and blank strings as absent; numeric zero is a
// legitimate value (quantity 0 is allowed on intake).
func fieldMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
