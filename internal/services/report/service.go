// Package report aggregates paid jobs into administrative reports. Results
// are read-through cached; a cache failure never fails a report.
package report

import (
	"context"
	"time"

	apperr "contractpay/internal/errors"
	"contractpay/internal/logger"
	"contractpay/internal/models"
	"contractpay/internal/repositories"
	cachekeys "contractpay/internal/utils/cache"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultClientLimit = 2
	MaxClientLimit     = 100
)

// Cache is the subset of cache.CacheService the reports need.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Service answers the reporting queries. Both only consider jobs paid
// strictly between start and end.
type Service interface {
	// BestProfession returns the contractor profession that earned the most.
	// It returns ErrNoReportData when nothing was paid in the window.
	BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error)
	// BestClients returns the clients that paid the most, largest first. A
	// zero limit means DefaultClientLimit; limits above MaxClientLimit are
	// clamped.
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.ClientSpend, error)
}

type service struct {
	repo  repositories.ReportRepository
	cache Cache
	log   *logger.Logger
	group singleflight.Group
}

// NewService creates a new report service. cache may be nil.
func NewService(repo repositories.ReportRepository, cache Cache, log *logger.Logger) Service {
	if repo == nil {
		panic("report repository is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &service{repo: repo, cache: cache, log: log}
}

func (s *service) BestProfession(ctx context.Context, start, end time.Time) (*models.ProfessionEarnings, error) {
	if !start.Before(end) {
		return nil, apperr.ErrInvalidPeriod
	}

	key := cachekeys.ReportKey(cachekeys.KeyBestProfession, start, end, 0)
	rows, err := load(ctx, s, key, func(ctx context.Context) ([]models.ProfessionEarnings, error) {
		return s.repo.EarningsByProfession(ctx, start, end, 1)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.ErrNoReportData
	}
	return &rows[0], nil
}

func (s *service) BestClients(ctx context.Context, start, end time.Time, limit int) ([]models.ClientSpend, error) {
	if !start.Before(end) {
		return nil, apperr.ErrInvalidPeriod
	}
	switch {
	case limit < 0:
		return nil, apperr.New(apperr.KindValidation, "limit must not be negative")
	case limit == 0:
		limit = DefaultClientLimit
	case limit > MaxClientLimit:
		limit = MaxClientLimit
	}

	key := cachekeys.ReportKey(cachekeys.KeyBestClients, start, end, limit)
	return load(ctx, s, key, func(ctx context.Context) ([]models.ClientSpend, error) {
		return s.repo.SpendByClient(ctx, start, end, limit)
	})
}

// load returns the rows cached under key, or runs query on a miss.
// Concurrent misses on one key share a single query, which runs detached
// from any one caller's cancellation.
func load[T any](ctx context.Context, s *service, key string, query func(ctx context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var cached []T
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("report cache read failed", "key", key, "error", err)
		} else if found {
			return cached, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		qctx := context.WithoutCancel(ctx)
		rows, err := query(qctx)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []T{}
		}
		if s.cache != nil {
			if err := s.cache.Set(qctx, key, rows); err != nil {
				s.log.Warn("report cache write failed", "key", key, "error", err)
			}
		}
		return rows, nil
	})
	if err != nil {
		s.log.Error("report query failed", "key", key, "error", err)
		return nil, apperr.Internal(err)
	}
	if shared {
		s.log.Debug("report query shared", "key", key)
	}
	return v.([]T), nil
}
