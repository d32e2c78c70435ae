package models

import "github.com/shopspring/decimal"

// ProfessionEarnings is one row of the best-profession report.
type ProfessionEarnings struct {
	Profession string          `json:"profession"`
	Total      decimal.Decimal `json:"total"`
}

// ClientSpend is one row of the best-clients report. Profession is carried
// from the client's profile row.
type ClientSpend struct {
	ID         uint            `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Profession string          `json:"profession"`
	Total      decimal.Decimal `json:"paid"`
}

// FullName joins first and last name.
func (c ClientSpend) FullName() string {
	return c.FirstName + " " + c.LastName
}
