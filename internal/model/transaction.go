package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxIn  TransactionType = "in"
	TxOut TransactionType = "out"
)

// Transaction is an immutable ledger entry. Rows are only ever created by
// a stock mutation and only removed by the product-delete cascade; its
// CreatedAt doubles as the ledger timestamp.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product         `json:"product,omitempty" validate:"-"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User      User            `json:"user,omitempty" validate:"-"`
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=in out"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
}
