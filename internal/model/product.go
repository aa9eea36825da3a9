package model

import "time"

type Product struct {
	BaseModel
	Name         string  `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Description  string  `gorm:"type:text" json:"description"`
	Quantity     int     `gorm:"default:0" json:"quantity"`
	UnitPrice    float64 `gorm:"not null" json:"unit_price"`
	ReorderLevel int     `gorm:"default:10" json:"reorder_level"`
	Category     string  `gorm:"type:varchar(50)" json:"category"`

	// Nullable so the unique index ignores products without a barcode
	Barcode    *string    `gorm:"type:varchar(50);uniqueIndex" json:"barcode,omitempty"`
	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`

	Transactions []Transaction `json:"transactions,omitempty"`
}
