// Package testutil provides a throwaway SQLite store and fixtures for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private SQLite database under t.TempDir with the ledger
// schema. The pool holds a single connection, so units of work run one at a
// time. The file outlives any connection database/sql discards, such as one
// whose transaction was interrupted by a cancelled context.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.Migrate(db))
	return db
}

// NewUnitOfWork wraps db in a UnitOfWork suitable for SQLite.
func NewUnitOfWork(db *gorm.DB) repositories.UnitOfWork {
	return repositories.NewUnitOfWork(db, repositories.TxOptions{Isolation: sql.LevelDefault}, logger.NewNop())
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Fixtures creates ledger rows directly, bypassing the engines.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) Client(first, profession, balance string) *models.Profile {
	return f.profile(first, profession, balance, models.ProfileTypeClient)
}

func (f *Fixtures) Contractor(first, profession, balance string) *models.Profile {
	return f.profile(first, profession, balance, models.ProfileTypeContractor)
}

func (f *Fixtures) profile(first, profession, balance, typ string) *models.Profile {
	f.t.Helper()
	p := &models.Profile{
		FirstName:  first,
		LastName:   "Tester",
		Profession: profession,
		Balance:    Dec(balance),
		Type:       typ,
	}
	require.NoError(f.t, repositories.NewProfileRepository(f.db).Create(context.Background(), p))
	return p
}

func (f *Fixtures) Contract(client, contractor *models.Profile, status string) *models.Contract {
	f.t.Helper()
	c := &models.Contract{
		Terms:        "terms",
		Status:       status,
		ClientID:     client.ID,
		ContractorID: contractor.ID,
	}
	require.NoError(f.t, repositories.NewContractRepository(f.db).Create(context.Background(), c))
	return c
}

func (f *Fixtures) Job(contract *models.Contract, price string) *models.Job {
	f.t.Helper()
	j := &models.Job{
		Description: "work",
		Price:       Dec(price),
		ContractID:  contract.ID,
	}
	require.NoError(f.t, repositories.NewJobRepository(f.db).Create(context.Background(), j))
	return j
}

// PaidJob creates a job already paid at paidAt.
func (f *Fixtures) PaidJob(contract *models.Contract, price string, paidAt time.Time) *models.Job {
	f.t.Helper()
	j := f.Job(contract, price)
	require.NoError(f.t, repositories.NewJobRepository(f.db).MarkPaid(context.Background(), j.ID, paidAt.UTC()))
	j.Paid = true
	j.PaymentDate = &paidAt
	return j
}

// Reload fetches the current row for a profile.
func (f *Fixtures) Reload(p *models.Profile) *models.Profile {
	f.t.Helper()
	fresh, err := repositories.NewProfileRepository(f.db).GetByID(context.Background(), p.ID)
	require.NoError(f.t, err)
	return fresh
}

// ReloadJob fetches the current row for a job.
func (f *Fixtures) ReloadJob(j *models.Job) *models.Job {
	f.t.Helper()
	fresh, err := repositories.NewJobRepository(f.db).GetByID(context.Background(), j.ID)
	require.NoError(f.t, err)
	return fresh
}

// CountTransfers returns the number of audit rows.
func (f *Fixtures) CountTransfers() int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(&models.Transfer{}).Count(&n).Error)
	return n
}
