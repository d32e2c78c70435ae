package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"
	"contractpay/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) EarningsByProfession(ctx context.Context, start, end time.Time, limit int) ([]models.ProfessionEarnings, error) {
	args := m.Called(ctx, start, end, limit)
	rows, _ := args.Get(0).([]models.ProfessionEarnings)
	return rows, args.Error(1)
}

func (m *MockReportRepository) SpendByClient(ctx context.Context, start, end time.Time, limit int) ([]models.ClientSpend, error) {
	args := m.Called(ctx, start, end, limit)
	rows, _ := args.Get(0).([]models.ClientSpend)
	return rows, args.Error(1)
}

var (
	windowStart = time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2020, 8, 20, 0, 0, 0, 0, time.UTC)
	inWindow    = time.Date(2020, 8, 15, 19, 11, 26, 0, time.UTC)
)

type history struct {
	svc                  Service
	ann, bob, cid        *models.Profile
	programmer, musician *models.Profile
}

// newHistory seeds paid work in and around the window:
//
//	Ann -> Programmer: 200 in window, 1000 paid exactly at the window end
//	Bob -> Musician:   500 in window
//	Cid -> Programmer: 100 in window, 700 before the window
//
// Programmers earned 300 and musicians 500; Bob, Ann, Cid spent 500, 200, 100.
func newHistory(t *testing.T) *history {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	h := &history{
		ann:        fx.Client("Ann", "Designer", "0"),
		bob:        fx.Client("Bob", "Writer", "0"),
		cid:        fx.Client("Cid", "Pilot", "0"),
		programmer: fx.Contractor("Linus", "Programmer", "0"),
		musician:   fx.Contractor("John", "Musician", "0"),
	}

	annContract := fx.Contract(h.ann, h.programmer, models.ContractStatusInProgress)
	fx.PaidJob(annContract, "200", inWindow)
	fx.PaidJob(annContract, "1000", windowEnd)
	fx.Job(annContract, "5000")

	fx.PaidJob(fx.Contract(h.bob, h.musician, models.ContractStatusTerminated), "500", inWindow)

	cidContract := fx.Contract(h.cid, h.programmer, models.ContractStatusInProgress)
	fx.PaidJob(cidContract, "100", inWindow)
	fx.PaidJob(cidContract, "700", windowStart.Add(-time.Hour))

	h.svc = NewService(repositories.NewReportRepository(db), nil, logger.NewNop())
	return h
}

func TestReportService_BestProfession(t *testing.T) {
	h := newHistory(t)

	best, err := h.svc.BestProfession(context.Background(), windowStart, windowEnd)

	require.NoError(t, err)
	assert.Equal(t, "Musician", best.Profession)
	assert.True(t, best.Total.Equal(decimal.NewFromInt(500)), "got %s", best.Total)
}

func TestReportService_BestProfessionWindowIsExclusive(t *testing.T) {
	h := newHistory(t)

	best, err := h.svc.BestProfession(context.Background(), windowStart.Add(-2*time.Hour), windowEnd.Add(time.Second))

	require.NoError(t, err)
	assert.Equal(t, "Programmer", best.Profession)
	assert.True(t, best.Total.Equal(decimal.NewFromInt(2000)), "got %s", best.Total)
}

func TestReportService_BestProfessionNoData(t *testing.T) {
	h := newHistory(t)

	_, err := h.svc.BestProfession(context.Background(), windowEnd.Add(time.Hour), windowEnd.Add(48*time.Hour))

	assert.ErrorIs(t, err, apperr.ErrNoReportData)
}

func TestReportService_BestClients(t *testing.T) {
	h := newHistory(t)

	tests := []struct {
		name    string
		limit   int
		wantIDs []uint
	}{
		{name: "default limit", limit: 0, wantIDs: []uint{h.bob.ID, h.ann.ID}},
		{name: "explicit limit", limit: 3, wantIDs: []uint{h.bob.ID, h.ann.ID, h.cid.ID}},
		{name: "single", limit: 1, wantIDs: []uint{h.bob.ID}},
		{name: "clamped", limit: 5000, wantIDs: []uint{h.bob.ID, h.ann.ID, h.cid.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := h.svc.BestClients(context.Background(), windowStart, windowEnd, tt.limit)
			require.NoError(t, err)

			ids := make([]uint, len(rows))
			for i, row := range rows {
				ids[i] = row.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	rows, err := h.svc.BestClients(context.Background(), windowStart, windowEnd, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob Tester", rows[0].FullName())
	assert.Equal(t, "Writer", rows[0].Profession)
	assert.True(t, rows[0].Total.Equal(decimal.NewFromInt(500)))
}

func TestReportService_BestClientsEmptyWindow(t *testing.T) {
	h := newHistory(t)

	rows, err := h.svc.BestClients(context.Background(), windowEnd.Add(time.Hour), windowEnd.Add(48*time.Hour), 0)

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestReportService_TiesAreStable(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	first := fx.Client("First", "Designer", "0")
	second := fx.Client("Second", "Designer", "0")
	zoologist := fx.Contractor("Zed", "Zoologist", "0")
	artist := fx.Contractor("Art", "Artist", "0")
	fx.PaidJob(fx.Contract(second, zoologist, models.ContractStatusInProgress), "100", inWindow)
	fx.PaidJob(fx.Contract(first, artist, models.ContractStatusInProgress), "100", inWindow)

	svc := NewService(repositories.NewReportRepository(db), nil, logger.NewNop())

	best, err := svc.BestProfession(context.Background(), windowStart, windowEnd)
	require.NoError(t, err)
	assert.Equal(t, "Artist", best.Profession)

	rows, err := svc.BestClients(context.Background(), windowStart, windowEnd, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestReportService_RejectsBadInput(t *testing.T) {
	svc := NewService(new(MockReportRepository), nil, logger.NewNop())

	_, err := svc.BestProfession(context.Background(), windowEnd, windowStart)
	assert.ErrorIs(t, err, apperr.ErrInvalidPeriod)

	_, err = svc.BestClients(context.Background(), windowStart, windowStart, 2)
	assert.ErrorIs(t, err, apperr.ErrInvalidPeriod)

	_, err = svc.BestClients(context.Background(), windowStart, windowEnd, -1)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReportService_CacheHitSkipsQuery(t *testing.T) {
	repo := new(MockReportRepository)
	cache := new(MockCache)
	cached := []models.ProfessionEarnings{{Profession: "Musician", Total: decimal.NewFromInt(500)}}
	cache.On("Get", mock.Anything, "report:best-profession:2020-08-10T00:00:00Z/2020-08-20T00:00:00Z", mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*[]models.ProfessionEarnings) = cached
		}).
		Return(true, nil)

	svc := NewService(repo, cache, logger.NewNop())
	best, err := svc.BestProfession(context.Background(), windowStart, windowEnd)

	require.NoError(t, err)
	assert.Equal(t, "Musician", best.Profession)
	repo.AssertNotCalled(t, "EarningsByProfession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestReportService_CacheMissStoresResult(t *testing.T) {
	repo := new(MockReportRepository)
	cache := new(MockCache)
	rows := []models.ClientSpend{{ID: 2, FirstName: "Bob", Total: decimal.NewFromInt(500)}}
	key := "report:best-clients:2020-08-10T00:00:00Z/2020-08-20T00:00:00Z/2"

	cache.On("Get", mock.Anything, key, mock.Anything).Return(false, nil)
	cache.On("Set", mock.Anything, key, rows).Return(nil)
	repo.On("SpendByClient", mock.Anything, windowStart, windowEnd, 2).Return(rows, nil)

	svc := NewService(repo, cache, logger.NewNop())
	got, err := svc.BestClients(context.Background(), windowStart, windowEnd, 0)

	require.NoError(t, err)
	assert.Equal(t, rows, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestReportService_CacheFailureIsBypassed(t *testing.T) {
	repo := new(MockReportRepository)
	cache := new(MockCache)
	rows := []models.ProfessionEarnings{{Profession: "Programmer", Total: decimal.NewFromInt(300)}}

	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis: connection refused"))
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis: connection refused"))
	repo.On("EarningsByProfession", mock.Anything, windowStart, windowEnd, 1).Return(rows, nil)

	svc := NewService(repo, cache, logger.NewNop())
	best, err := svc.BestProfession(context.Background(), windowStart, windowEnd)

	require.NoError(t, err)
	assert.Equal(t, "Programmer", best.Profession)
}

func TestReportService_QueryFailureIsInternal(t *testing.T) {
	repo := new(MockReportRepository)
	repo.On("EarningsByProfession", mock.Anything, windowStart, windowEnd, 1).Return(nil, errors.New("relation \"jobs\" does not exist"))

	svc := NewService(repo, nil, logger.NewNop())
	_, err := svc.BestProfession(context.Background(), windowStart, windowEnd)

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "internal server error", apperr.Message(err))
}

func TestReportService_ConcurrentReportsAgree(t *testing.T) {
	h := newHistory(t)

	const readers = 4
	results := make([]string, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			best, err := h.svc.BestProfession(context.Background(), windowStart, windowEnd)
			if err == nil {
				results[i] = best.Profession
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "Musician", got)
	}
}

func TestReportService_QuerySurvivesCallerCancellation(t *testing.T) {
	repo := new(MockReportRepository)
	cache := new(MockCache)
	rows := []models.ProfessionEarnings{{Profession: "Musician", Total: decimal.NewFromInt(500)}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	cache.On("Set", live, mock.Anything, rows).Return(nil)
	repo.On("EarningsByProfession", mock.Anything, windowStart, windowEnd, 1).
		Run(func(args mock.Arguments) {
			cancel()
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).
		Return(rows, nil)

	svc := NewService(repo, cache, logger.NewNop())
	best, err := svc.BestProfession(ctx, windowStart, windowEnd)

	require.NoError(t, err)
	assert.Equal(t, "Musician", best.Profession)
	require.Error(t, ctx.Err())
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
