package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is a billable unit under a contract. Paid goes false to true exactly
// once, together with PaymentDate.
type Job struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Description string          `gorm:"not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Paid        bool            `gorm:"not null;default:false;index" json:"paid"`
	PaymentDate *time.Time      `gorm:"index" json:"paymentDate"`
	ContractID  uint            `gorm:"not null;index" json:"contractId"`
	Contract    *Contract       `json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
