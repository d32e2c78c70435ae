package deposit

import (
	"context"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"
	"contractpay/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CapRatio is the share of outstanding obligations a client may deposit.
// A client with nothing outstanding has a cap of zero.
var CapRatio = decimal.RequireFromString("0.25")

type service struct {
	uow repositories.UnitOfWork
	log *logger.Logger
}

// NewService creates a new deposit service
func NewService(uow repositories.UnitOfWork, log *logger.Logger) Service {
	if uow == nil {
		panic("unit of work is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &service{uow: uow, log: log}
}

// Cap returns the deposit cap for an outstanding total.
func Cap(outstanding decimal.Decimal) decimal.Decimal {
	return outstanding.Mul(CapRatio)
}

func (s *service) Deposit(ctx context.Context, amount decimal.Decimal, depositor *models.Profile) (*models.Transfer, error) {
	if err := validation.Amount(amount); err != nil {
		return nil, err
	}
	if !depositor.IsClient() {
		return nil, apperr.ErrNotClient
	}
	clientID := depositor.ID

	var transfer *models.Transfer
	err := s.uow.WithinTx(ctx, func(r repositories.Repos) error {
		// The profile lock serializes this client's deposits and payments.
		if _, err := r.Profiles.GetForUpdate(ctx, clientID); err != nil {
			return err
		}

		outstanding, err := r.Jobs.SumOutstanding(ctx, clientID)
		if err != nil {
			return err
		}
		limit := Cap(outstanding)
		if amount.GreaterThan(limit) {
			return apperr.New(apperr.KindDepositLimitExceeded,
				"%s exceeds the allowable deposit amount of %s", amount.StringFixed(2), limit.StringFixed(2))
		}

		if err := r.Profiles.Credit(ctx, clientID, amount); err != nil {
			return err
		}

		transfer = &models.Transfer{
			Reference:   uuid.NewString(),
			Kind:        models.TransferKindDeposit,
			ToProfileID: clientID,
			Amount:      amount,
		}
		return r.Transfers.Create(ctx, transfer)
	})
	if err != nil {
		err = apperr.Ensure(err)
		if kind := apperr.KindOf(err); kind != apperr.KindInternal {
			s.log.Info("deposit rejected", "client_id", clientID, "amount", amount.String(), "reason", kind)
		} else {
			s.log.Error("deposit failed", "client_id", clientID, "error", err, "fatal", apperr.IsFatal(err))
		}
		return nil, err
	}

	s.log.Info("deposit credited",
		"client_id", clientID,
		"amount", amount.String(),
		"reference", transfer.Reference,
	)
	return transfer, nil
}

func (s *service) MaxDeposit(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	var limit decimal.Decimal
	err := s.uow.WithinTx(ctx, func(r repositories.Repos) error {
		profile, err := r.Profiles.GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		if !profile.IsClient() {
			return apperr.ErrNotClient
		}
		outstanding, err := r.Jobs.SumOutstanding(ctx, clientID)
		if err != nil {
			return err
		}
		limit = Cap(outstanding)
		return nil
	})
	if err != nil {
		return decimal.Zero, apperr.Ensure(err)
	}
	return limit, nil
}
