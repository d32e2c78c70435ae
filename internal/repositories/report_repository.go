package repositories

import (
	"context"
	"fmt"
	"time"

	"contractpay/internal/models"

	"gorm.io/gorm"
)

// ReportRepository aggregates paid jobs for administrative reporting. Both
// queries only count jobs whose payment date lies strictly between start and
// end.
type ReportRepository interface {
	// EarningsByProfession returns per-profession totals, largest first, ties
	// ordered by profession name.
	EarningsByProfession(ctx context.Context, start, end time.Time, limit int) ([]models.ProfessionEarnings, error)
	// SpendByClient returns per-client totals, largest first, ties ordered by
	// client id.
	SpendByClient(ctx context.Context, start, end time.Time, limit int) ([]models.ClientSpend, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) paidJobs(ctx context.Context, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Job{}).
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("jobs.paid = ? AND jobs.payment_date > ? AND jobs.payment_date < ?", true, start, end)
}

func (r *reportRepository) EarningsByProfession(ctx context.Context, start, end time.Time, limit int) ([]models.ProfessionEarnings, error) {
	var rows []models.ProfessionEarnings
	err := r.paidJobs(ctx, start, end).
		Select("contractor.profession AS profession, SUM(jobs.price) AS total").
		Joins("JOIN profiles contractor ON contractor.id = contracts.contractor_id").
		Group("contractor.profession").
		Order("total DESC, contractor.profession ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate earnings by profession: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) SpendByClient(ctx context.Context, start, end time.Time, limit int) ([]models.ClientSpend, error) {
	var rows []models.ClientSpend
	err := r.paidJobs(ctx, start, end).
		Select(`client.id AS id,
			client.first_name AS first_name,
			client.last_name AS last_name,
			client.profession AS profession,
			SUM(jobs.price) AS total`).
		Joins("JOIN profiles client ON client.id = contracts.client_id").
		Group("client.id, client.first_name, client.last_name, client.profession").
		Order("total DESC, client.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate spend by client: %w", err)
	}
	return rows, nil
}
