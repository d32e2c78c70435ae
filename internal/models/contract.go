package models

import "time"

// Contract statuses
const (
	ContractStatusNew        = "new"
	ContractStatusInProgress = "in_progress"
	ContractStatusTerminated = "terminated"
)

// Contract binds one client and one contractor and owns their jobs.
type Contract struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Terms        string    `gorm:"not null" json:"terms"`
	Status       string    `gorm:"type:varchar(16);not null;default:'new';index" json:"status"`
	ClientID     uint      `gorm:"not null;index" json:"clientId"`
	Client       *Profile  `gorm:"foreignKey:ClientID" json:"-"`
	ContractorID uint      `gorm:"not null;index" json:"contractorId"`
	Contractor   *Profile  `gorm:"foreignKey:ContractorID" json:"-"`
	Jobs         []Job     `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
