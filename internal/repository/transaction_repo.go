package repository

import (
	"time"

	"go-pharmacy-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Date range tags accepted by the transaction filter.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeAll   = "all"
)

// TransactionFilter narrows the ledger view. Zero values mean "all";
// filters compose with AND.
type TransactionFilter struct {
	DateRange string
	Type      model.TransactionType
	ProductID *uuid.UUID
}

// DailyCount is one point of the transaction-history series. Days with
// no transactions are simply absent.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type TransactionRepository interface {
	FindFiltered(filter TransactionFilter) ([]model.Transaction, error)
	DailyCounts(since time.Time) ([]DailyCount, error)
	CountSince(t time.Time) (int64, error)
	SumOutboundSince(productID uuid.UUID, since time.Time) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindFiltered(filter TransactionFilter) ([]model.Transaction, error) {
	query := r.db.Model(&model.Transaction{}).
		Preload("Product").
		Preload("User")

	now := time.Now()
	switch filter.DateRange {
	case RangeToday:
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		query = query.Where("created_at >= ?", startOfDay)
	case RangeWeek:
		query = query.Where("created_at >= ?", now.AddDate(0, 0, -7))
	case RangeMonth:
		query = query.Where("created_at >= ?", now.AddDate(0, 0, -30))
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	var transactions []model.Transaction
	err := query.Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

// DailyCounts aggregates transactions per calendar day since the given
// instant. The date label is cast to text so both postgres and sqlite
// hand back a plain YYYY-MM-DD string rather than a driver-dependent
// date value.
func (r *transactionRepo) DailyCounts(since time.Time) ([]DailyCount, error) {
	var results []DailyCount

	rows, err := r.db.Model(&model.Transaction{}).
		Select("CAST(DATE(created_at) AS TEXT) as date, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyCount
		if err := rows.Scan(&data.Date, &data.Count); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *transactionRepo) CountSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).Where("created_at >= ?", t).Count(&count).Error
	return count, err
}

func (r *transactionRepo) SumOutboundSince(productID uuid.UUID, since time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Transaction{}).
		Where("product_id = ? AND type = ? AND created_at >= ?", productID, model.TxOut, since).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
