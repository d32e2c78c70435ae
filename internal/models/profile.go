package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile types
const (
	ProfileTypeClient     = "client"
	ProfileTypeContractor = "contractor"
)

// Profile is a party to contracts. Balance is only ever changed through the
// profile repository's Credit and Debit primitives.
type Profile struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	FirstName  string          `gorm:"not null" json:"firstName"`
	LastName   string          `gorm:"not null" json:"lastName"`
	Profession string          `gorm:"not null" json:"profession"`
	Balance    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	Type       string          `gorm:"type:varchar(16);not null;index" json:"type"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// IsClient reports whether the profile may pay jobs and deposit funds.
func (p *Profile) IsClient() bool {
	return p != nil && p.Type == ProfileTypeClient
}
