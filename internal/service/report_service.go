package service

import (
	"time"

	"go-pharmacy-inventory/internal/apperr"
	"go-pharmacy-inventory/internal/model"
	"go-pharmacy-inventory/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// expiryHorizonDays and historyWindowDays fix the dashboard windows.
const (
	expiryHorizonDays = 30
	historyWindowDays = 30
)

// DashboardSummary is the aggregate view over a point-in-time snapshot
// of the store.
type DashboardSummary struct {
	TotalProducts      int64                      `json:"total_products"`
	LowStockCount      int                        `json:"low_stock_count"`
	LowStockProducts   []model.Product            `json:"low_stock_products"`
	ExpiringSoonCount  int64                      `json:"expiring_soon_count"`
	TodaysTransactions int64                      `json:"todays_transactions"`
	Categories         []repository.CategoryCount `json:"categories"`
	TransactionSeries  []repository.DailyCount    `json:"transaction_history"`
}

type transactionExportRow struct {
	Date     string `csv:"Date"`
	Product  string `csv:"Product"`
	Quantity int    `csv:"Quantity"`
	Type     string `csv:"Type"`
	User     string `csv:"User"`
}

type ReportService interface {
	DashboardSummary() (*DashboardSummary, error)
	ListTransactions(dateRange, txType, productID string) ([]model.Transaction, error)
	ExportTransactionsCSV(dateRange, txType, productID string) ([]byte, error)
}

type reportService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
}

func NewReportService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) ReportService {
	return &reportService{productRepo: productRepo, txRepo: txRepo}
}

func (s *reportService) DashboardSummary() (*DashboardSummary, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totalProducts, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}
	expiringSoon, err := s.productRepo.CountExpiringBetween(startOfDay, startOfDay.AddDate(0, 0, expiryHorizonDays))
	if err != nil {
		return nil, err
	}
	todaysTransactions, err := s.txRepo.CountSince(startOfDay)
	if err != nil {
		return nil, err
	}
	categories, err := s.productRepo.CategoryCounts()
	if err != nil {
		return nil, err
	}
	series, err := s.txRepo.DailyCounts(now.AddDate(0, 0, -historyWindowDays))
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalProducts:      totalProducts,
		LowStockCount:      len(lowStock),
		LowStockProducts:   lowStock,
		ExpiringSoonCount:  expiringSoon,
		TodaysTransactions: todaysTransactions,
		Categories:         categories,
		TransactionSeries:  series,
	}, nil
}

// ListTransactions resolves the query-string filter (defaults: last
// month, all types, all products) and returns the matching ledger slice,
// most recent first.
func (s *reportService) ListTransactions(dateRange, txType, productID string) ([]model.Transaction, error) {
	filter, err := resolveFilter(dateRange, txType, productID)
	if err != nil {
		return nil, err
	}
	return s.txRepo.FindFiltered(filter)
}

// ExportTransactionsCSV renders the same filtered view as
// ListTransactions, one row per transaction, header row first.
func (s *reportService) ExportTransactionsCSV(dateRange, txType, productID string) ([]byte, error) {
	transactions, err := s.ListTransactions(dateRange, txType, productID)
	if err != nil {
		return nil, err
	}

	rows := make([]transactionExportRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, transactionExportRow{
			Date:     tx.CreatedAt.Format("2006-01-02 15:04:05"),
			Product:  tx.Product.Name,
			Quantity: tx.Quantity,
			Type:     string(tx.Type),
			User:     tx.User.Username,
		})
	}

	return gocsv.MarshalBytes(&rows)
}

func resolveFilter(dateRange, txType, productID string) (repository.TransactionFilter, error) {
	filter := repository.TransactionFilter{DateRange: repository.RangeMonth}

	switch dateRange {
	case "":
		// keep the month default
	case repository.RangeToday, repository.RangeWeek, repository.RangeMonth, repository.RangeAll:
		filter.DateRange = dateRange
	default:
		return filter, apperr.Validation("date", "Invalid date range filter")
	}

	switch txType {
	case "", repository.RangeAll:
		// no type constraint
	case string(model.TxIn), string(model.TxOut):
		filter.Type = model.TransactionType(txType)
	default:
		return filter, apperr.Validation("type", "Invalid transaction type filter")
	}

	if productID != "" && productID != repository.RangeAll {
		id, err := uuid.Parse(productID)
		if err != nil {
			return filter, apperr.Validation("product", "Invalid product filter")
		}
		filter.ProductID = &id
	}

	return filter, nil
}
