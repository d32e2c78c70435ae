package repositories

import (
	"context"
	"fmt"

	"contractpay/internal/models"

	"gorm.io/gorm"
)

// TransferRepository records the audit trail of balance movements.
type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}
