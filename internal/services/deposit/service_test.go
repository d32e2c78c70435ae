package deposit

import (
	"context"
	"sync"
	"testing"
	"time"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fx         *testutil.Fixtures
	svc        Service
	client     *models.Profile
	contractor *models.Profile
}

func newFixture(t *testing.T, outstanding ...string) *fixture {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	f := &fixture{
		fx:         fx,
		svc:        NewService(testutil.NewUnitOfWork(db), logger.NewNop()),
		client:     fx.Client("Ash", "Pokemon master", "10"),
		contractor: fx.Contractor("Aragorn", "Fighter", "0"),
	}
	if len(outstanding) > 0 {
		contract := fx.Contract(f.client, f.contractor, models.ContractStatusInProgress)
		for _, price := range outstanding {
			fx.Job(contract, price)
		}
	}
	return f
}

func TestCap(t *testing.T) {
	assert.True(t, Cap(testutil.Dec("200")).Equal(testutil.Dec("50")))
	assert.True(t, Cap(testutil.Dec("0")).IsZero())
	assert.True(t, Cap(testutil.Dec("0.04")).Equal(testutil.Dec("0.01")))
}

func TestDepositService_Deposit(t *testing.T) {
	tests := []struct {
		name        string
		outstanding []string
		amount      string
		wantErr     error
		wantBalance string
	}{
		{
			name:        "no outstanding obligations",
			amount:      "1",
			wantErr:     apperr.ErrDepositLimitExceeded,
			wantBalance: "10",
		},
		{
			name:        "exactly at cap",
			outstanding: []string{"120", "80"},
			amount:      "50",
			wantBalance: "60",
		},
		{
			name:        "one cent over cap",
			outstanding: []string{"120", "80"},
			amount:      "50.01",
			wantErr:     apperr.ErrDepositLimitExceeded,
			wantBalance: "10",
		},
		{
			name:        "zero amount",
			outstanding: []string{"200"},
			amount:      "0",
			wantErr:     apperr.ErrInvalidAmount,
			wantBalance: "10",
		},
		{
			name:        "negative amount",
			outstanding: []string{"200"},
			amount:      "-5",
			wantErr:     apperr.ErrInvalidAmount,
			wantBalance: "10",
		},
		{
			name:        "sub-cent amount",
			outstanding: []string{"200"},
			amount:      "1.001",
			wantErr:     apperr.New(apperr.KindValidation, ""),
			wantBalance: "10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.outstanding...)

			transfer, err := f.svc.Deposit(context.Background(), testutil.Dec(tt.amount), f.client)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, transfer)
				assert.Equal(t, int64(0), f.fx.CountTransfers())
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.TransferKindDeposit, transfer.Kind)
				assert.Nil(t, transfer.FromProfileID)
				assert.Equal(t, f.client.ID, transfer.ToProfileID)
				assert.Equal(t, int64(1), f.fx.CountTransfers())
			}
			assert.True(t, f.fx.Reload(f.client).Balance.Equal(testutil.Dec(tt.wantBalance)))
		})
	}
}

func TestDepositService_IgnoresPaidAndInactiveWork(t *testing.T) {
	f := newFixture(t, "100")
	active := f.fx.Contract(f.client, f.contractor, models.ContractStatusInProgress)
	f.fx.PaidJob(active, "400", time.Now())
	f.fx.Job(f.fx.Contract(f.client, f.contractor, models.ContractStatusNew), "400")
	f.fx.Job(f.fx.Contract(f.client, f.contractor, models.ContractStatusTerminated), "400")

	limit, err := f.svc.MaxDeposit(context.Background(), f.client.ID)
	require.NoError(t, err)
	assert.True(t, limit.Equal(testutil.Dec("25")), "got %s", limit)

	_, err = f.svc.Deposit(context.Background(), testutil.Dec("25.01"), f.client)
	assert.ErrorIs(t, err, apperr.ErrDepositLimitExceeded)
}

func TestDepositService_RejectsContractor(t *testing.T) {
	f := newFixture(t, "200")

	_, err := f.svc.Deposit(context.Background(), testutil.Dec("10"), f.contractor)
	assert.ErrorIs(t, err, apperr.ErrNotClient)

	_, err = f.svc.MaxDeposit(context.Background(), f.contractor.ID)
	assert.ErrorIs(t, err, apperr.ErrNotClient)
	assert.True(t, f.fx.Reload(f.contractor).Balance.IsZero())
}

func TestDepositService_UnknownClient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.MaxDeposit(context.Background(), 999)
	assert.ErrorIs(t, err, apperr.ErrProfileNotFound)

	ghost := &models.Profile{ID: 999, Type: models.ProfileTypeClient}
	_, err = f.svc.Deposit(context.Background(), testutil.Dec("1"), ghost)
	assert.ErrorIs(t, err, apperr.ErrProfileNotFound)
}

func TestDepositService_ConcurrentDepositsSerialize(t *testing.T) {
	f := newFixture(t, "200")

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Deposit(context.Background(), testutil.Dec("50"), f.client)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, f.fx.Reload(f.client).Balance.Equal(testutil.Dec("110")))
	assert.Equal(t, int64(attempts), f.fx.CountTransfers())
}
