package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer kinds
const (
	TransferKindJobPayment = "job_payment"
	TransferKindDeposit    = "deposit"
)

// Transfer is the audit record written alongside every balance movement.
// FromProfileID is nil for deposits, JobID is nil for anything but job
// payments.
type Transfer struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Reference     string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Kind          string          `gorm:"type:varchar(16);not null;index" json:"kind"`
	FromProfileID *uint           `gorm:"index" json:"fromProfileId,omitempty"`
	ToProfileID   uint            `gorm:"not null;index" json:"toProfileId"`
	JobID         *uint           `gorm:"uniqueIndex" json:"jobId,omitempty"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}
