package repositories

import (
	"context"
	"errors"
	"fmt"

	apperr "contractpay/internal/errors"
	"contractpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository is the balance store: one balance per profile, changed
// only through atomic increments.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	// GetForUpdate reads the profile and holds a row lock on it until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uint) (*models.Profile, error)
	// Credit adds amount to the balance.
	Credit(ctx context.Context, id uint, amount decimal.Decimal) error
	// Debit subtracts amount from the balance, failing with
	// ErrInsufficientFunds rather than letting the balance go negative.
	Debit(ctx context.Context, id uint, amount decimal.Decimal) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *profileRepository) GetForUpdate(ctx context.Context, id uint) (*models.Profile, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *profileRepository) get(q *gorm.DB, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := q.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) Credit(ctx context.Context, id uint, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit profile %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) Debit(ctx context.Context, id uint, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit profile %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrInsufficientFunds
	}
	return nil
}
