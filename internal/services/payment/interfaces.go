package payment

import (
	"context"

	"contractpay/internal/models"
)

// Service pays jobs on behalf of their client.
type Service interface {
	// PayJob moves the job's price from payer to the contract's contractor and
	// marks the job paid, all in one unit of work. payer must be the
	// authenticated client profile; its balance snapshot is not trusted and is
	// re-read under lock.
	PayJob(ctx context.Context, jobID uint, payer *models.Profile) (*models.Transfer, error)
}
