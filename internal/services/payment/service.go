package payment

import (
	"context"
	"fmt"
	"time"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"

	"github.com/google/uuid"
)

type service struct {
	uow repositories.UnitOfWork
	log *logger.Logger
	now func() time.Time
}

// Option customizes the service.
type Option func(*service)

// WithClock overrides the clock used for payment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// NewService creates a new payment service
func NewService(uow repositories.UnitOfWork, log *logger.Logger, opts ...Option) Service {
	if uow == nil {
		panic("unit of work is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &service{
		uow: uow,
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) PayJob(ctx context.Context, jobID uint, payer *models.Profile) (*models.Transfer, error) {
	if !payer.IsClient() {
		return nil, apperr.ErrNotClient
	}
	payerID := payer.ID

	var transfer *models.Transfer
	err := s.uow.WithinTx(ctx, func(r repositories.Repos) error {
		// Lock order: job, then client, then contractor.
		job, err := r.Jobs.GetForClientForUpdate(ctx, jobID, payerID)
		if err != nil {
			return err
		}
		if job.Paid {
			return apperr.ErrJobAlreadyPaid
		}

		client, err := r.Profiles.GetForUpdate(ctx, payerID)
		if err != nil {
			return err
		}
		if client.Balance.LessThan(job.Price) {
			return apperr.ErrInsufficientFunds
		}

		contract, err := r.Contracts.GetByID(ctx, job.ContractID)
		if err != nil {
			return apperr.Internal(fmt.Errorf("contract %d of job %d: %w", job.ContractID, job.ID, err))
		}

		if err := r.Profiles.Credit(ctx, contract.ContractorID, job.Price); err != nil {
			return apperr.Internal(fmt.Errorf("credit contractor %d: %w", contract.ContractorID, err))
		}
		if err := r.Profiles.Debit(ctx, payerID, job.Price); err != nil {
			return err
		}
		if err := r.Jobs.MarkPaid(ctx, job.ID, s.now().UTC()); err != nil {
			return err
		}

		jobRef := job.ID
		transfer = &models.Transfer{
			Reference:     uuid.NewString(),
			Kind:          models.TransferKindJobPayment,
			FromProfileID: &payerID,
			ToProfileID:   contract.ContractorID,
			JobID:         &jobRef,
			Amount:        job.Price,
		}
		return r.Transfers.Create(ctx, transfer)
	})
	if err != nil {
		return nil, s.fail(jobID, payerID, err)
	}

	s.log.Info("job paid",
		"job_id", jobID,
		"client_id", payerID,
		"contractor_id", transfer.ToProfileID,
		"amount", transfer.Amount.String(),
		"reference", transfer.Reference,
	)
	return transfer, nil
}

// fail logs err and guarantees the caller only ever sees a DomainError.
func (s *service) fail(jobID, payerID uint, err error) error {
	err = apperr.Ensure(err)
	if kind := apperr.KindOf(err); kind != apperr.KindInternal {
		s.log.Info("job payment rejected", "job_id", jobID, "client_id", payerID, "reason", kind)
		return err
	}
	s.log.Error("job payment failed", "job_id", jobID, "client_id", payerID, "error", err, "fatal", apperr.IsFatal(err))
	return err
}
