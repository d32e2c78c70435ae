package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperr "contractpay/internal/errors"
	"contractpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobRepository is the job ledger.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	// GetForClientForUpdate returns the job only when its contract's client is
	// clientID, locking the job row. A missing job and a job owned by another
	// client both yield ErrJobNotFound.
	GetForClientForUpdate(ctx context.Context, jobID, clientID uint) (*models.Job, error)
	// MarkPaid flips paid to true and stamps paidAt, only if the job is still
	// unpaid. It returns ErrJobAlreadyPaid when no unpaid row matched.
	MarkPaid(ctx context.Context, jobID uint, paidAt time.Time) error
	// SumOutstanding totals the prices of unpaid jobs under the client's
	// in-progress contracts. No rows sums to zero.
	SumOutstanding(ctx context.Context, clientID uint) (decimal.Decimal, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) GetForClientForUpdate(ctx context.Context, jobID, clientID uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("jobs.id = ? AND contracts.client_id = ?", jobID, clientID).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "jobs"}}).
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job %d: %w", jobID, err)
	}
	return &job, nil
}

func (r *jobRepository) MarkPaid(ctx context.Context, jobID uint, paidAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND paid = ?", jobID, false).
		Updates(map[string]interface{}{
			"paid":         true,
			"payment_date": paidAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark job %d paid: %w", jobID, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrJobAlreadyPaid
	}
	return nil
}

func (r *jobRepository) SumOutstanding(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Select("COALESCE(SUM(jobs.price), 0)").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("contracts.client_id = ? AND contracts.status = ? AND jobs.paid = ?",
			clientID, models.ContractStatusInProgress, false).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding jobs: %w", err)
	}
	return total, nil
}
