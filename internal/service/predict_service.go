package service

import (
	"errors"
	"math"
	"time"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// consumptionWindowDays is the trailing window the predictor averages
// over, and also the supply horizon of the suggested order.
const consumptionWindowDays = 30

// RestockPrediction is a tagged union: when InsufficientData is set the
// remaining fields are meaningless and the API returns the short
// message shape instead.
type RestockPrediction struct {
	InsufficientData bool
	DaysUntilReorder int
	SuggestedOrder   int
	DailyAverage     float64
}

type PredictService interface {
	PredictRestock(productID uuid.UUID) (*RestockPrediction, error)
}

type predictService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
}

func NewPredictService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) PredictService {
	return &predictService{productRepo: productRepo, txRepo: txRepo}
}

// PredictRestock projects days until the reorder level from the average
// outbound quantity over the last 30 days. Deliberately a naive linear
// model: no seasonality or trend adjustment.
func (s *predictService) PredictRestock(productID uuid.UUID) (*RestockPrediction, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -consumptionWindowDays)
	totalOut, err := s.txRepo.SumOutboundSince(productID, since)
	if err != nil {
		return nil, err
	}

	dailyAverage := float64(totalOut) / consumptionWindowDays
	if dailyAverage == 0 {
		return &RestockPrediction{InsufficientData: true}, nil
	}

	// Negative when the product is already at or below its reorder level.
	daysUntilReorder := int(math.Round(float64(product.Quantity-product.ReorderLevel) / dailyAverage))

	return &RestockPrediction{
		DaysUntilReorder: daysUntilReorder,
		SuggestedOrder:   int(math.Ceil(dailyAverage * consumptionWindowDays)),
		DailyAverage:     math.Round(dailyAverage*100) / 100,
	}, nil
}
