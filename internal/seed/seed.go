// Package seed loads a small demonstration ledger.
package seed

import (
	"context"
	"fmt"
	"time"

	"contractpay/internal/models"
	"contractpay/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result counts the rows Run created.
type Result struct {
	Profiles  int
	Contracts int
	Jobs      int
	Skipped   bool
}

type profileRow struct {
	first, last, profession, balance, typ string
}

type contractRow struct {
	client, contractor int
	status             string
	jobs               []jobRow
}

type jobRow struct {
	description, price string
	paidAt             string
}

var profiles = []profileRow{
	{"Maya", "Okafor", "Architect", "1150", models.ProfileTypeClient},
	{"Tomas", "Reyes", "Analyst", "231.11", models.ProfileTypeClient},
	{"Ines", "Larsen", "Producer", "451.30", models.ProfileTypeClient},
	{"Kofi", "Mensah", "Student", "1.30", models.ProfileTypeClient},
	{"Lena", "Novak", "Programmer", "64", models.ProfileTypeContractor},
	{"Arjun", "Patel", "Programmer", "22", models.ProfileTypeContractor},
	{"Sofia", "Romano", "Musician", "314", models.ProfileTypeContractor},
	{"Noah", "Fischer", "Illustrator", "0", models.ProfileTypeContractor},
}

var contracts = []contractRow{
	{0, 4, models.ContractStatusTerminated, []jobRow{{"work", "200", ""}}},
	{0, 5, models.ContractStatusInProgress, []jobRow{{"work", "201", ""}}},
	{1, 5, models.ContractStatusInProgress, []jobRow{{"work", "202", ""}, {"work", "2020", "2020-08-15T19:11:26Z"}}},
	{1, 6, models.ContractStatusInProgress, []jobRow{{"work", "200", ""}, {"work", "200", "2020-08-15T19:11:26Z"}}},
	{2, 6, models.ContractStatusNew, []jobRow{{"work", "200", "2020-08-17T19:11:26Z"}}},
	{2, 7, models.ContractStatusInProgress, []jobRow{{"work", "21", "2020-08-10T19:11:26Z"}, {"work", "121", "2020-08-15T19:11:26Z"}}},
	{3, 7, models.ContractStatusInProgress, []jobRow{{"work", "121", "2020-08-14T23:11:26Z"}}},
	{3, 4, models.ContractStatusInProgress, []jobRow{{"work", "21", ""}}},
}

// Run inserts the demonstration ledger in one transaction. It does nothing
// when any profile already exists.
func Run(ctx context.Context, db *gorm.DB) (Result, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.Profile{}).Count(&existing).Error; err != nil {
		return Result{}, fmt.Errorf("failed to count profiles: %w", err)
	}
	if existing > 0 {
		return Result{Skipped: true}, nil
	}

	var res Result
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repositories.NewRepos(tx)

		created := make([]*models.Profile, len(profiles))
		for i, p := range profiles {
			created[i] = &models.Profile{
				FirstName:  p.first,
				LastName:   p.last,
				Profession: p.profession,
				Balance:    decimal.RequireFromString(p.balance),
				Type:       p.typ,
			}
			if err := r.Profiles.Create(ctx, created[i]); err != nil {
				return err
			}
			res.Profiles++
		}

		for _, c := range contracts {
			contract := &models.Contract{
				Terms:        "demonstration terms",
				Status:       c.status,
				ClientID:     created[c.client].ID,
				ContractorID: created[c.contractor].ID,
			}
			if err := r.Contracts.Create(ctx, contract); err != nil {
				return err
			}
			res.Contracts++

			for _, j := range c.jobs {
				job := &models.Job{
					Description: j.description,
					Price:       decimal.RequireFromString(j.price),
					ContractID:  contract.ID,
				}
				if err := r.Jobs.Create(ctx, job); err != nil {
					return err
				}
				res.Jobs++
				if j.paidAt == "" {
					continue
				}
				paidAt, err := time.Parse(time.RFC3339, j.paidAt)
				if err != nil {
					return fmt.Errorf("bad seed payment date %q: %w", j.paidAt, err)
				}
				if err := r.Jobs.MarkPaid(ctx, job.ID, paidAt.UTC()); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
