package service

import (
	"errors"
	"fmt"
	"time"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/model"
	"go-pharmacy-inventory/internal/repository"

	"github.com/guonaihong/gout"
	"gorm.io/gorm"
)

// externalLookupTimeout caps the metadata provider round-trip. A slow or
// dead provider must never block a catalog or stock mutation.
const externalLookupTimeout = 5 * time.Second

// ExternalProductInfo is the metadata passthrough shape.
type ExternalProductInfo struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	ImageURL    string `json:"image_url"`
}

// openFoodFactsResponse mirrors the provider's wire format.
type openFoodFactsResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Categories  string `json:"categories"`
		GenericName string `json:"generic_name"`
		Brands      string `json:"brands"`
		ImageURL    string `json:"image_url"`
	} `json:"product"`
}

type BarcodeService interface {
	Lookup(code string) (*model.Product, error)
	FetchExternalInfo(code string) (*ExternalProductInfo, error)
}

type barcodeService struct {
	productRepo repository.ProductRepository
	baseURL     string
}

func NewBarcodeService(productRepo repository.ProductRepository, baseURL string) BarcodeService {
	return &barcodeService{productRepo: productRepo, baseURL: baseURL}
}

// Lookup resolves a barcode against the local catalog. A miss is not an
// error: it returns (nil, nil).
func (s *barcodeService) Lookup(code string) (*model.Product, error) {
	product, err := s.productRepo.FindByBarcode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// FetchExternalInfo asks the metadata provider about a barcode. Failures
// wrap ErrExternalService so the handler can degrade to a soft
// {success:false} response; an upstream miss returns (nil, nil).
func (s *barcodeService) FetchExternalInfo(code string) (*ExternalProductInfo, error) {
	var rsp openFoodFactsResponse
	url := fmt.Sprintf("%s/api/v0/product/%s.json", s.baseURL, code)

	if err := gout.GET(url).SetTimeout(externalLookupTimeout).BindJSON(&rsp).Do(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrExternalService, err)
	}

	if rsp.Status != 1 {
		return nil, nil
	}

	return &ExternalProductInfo{
		Name:        rsp.Product.ProductName,
		Category:    rsp.Product.Categories,
		Description: rsp.Product.GenericName,
		Brand:       rsp.Product.Brands,
		ImageURL:    rsp.Product.ImageURL,
	}, nil
}
