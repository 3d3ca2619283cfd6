package app

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"voyage_backoffice/internal/domain"
)

// RefDataService serves the slow-moving reference lists the dialogs
// lazy-load on open (country and requirement dropdowns, cancellation
// reasons) through a read-through cache. The lists are read-only copies and
// independent from the entity stores.
type RefDataService struct {
	client domain.BackofficeClient
	cache  domain.Cache
	ttl    time.Duration
}

const (
	keyRefCountries    = "ref:pays"
	keyRefRequirements = "ref:exigences"
	keyRefReasons      = "ref:motifs-annulation"
)

func NewRefDataService(c domain.BackofficeClient, cache domain.Cache, ttl time.Duration) *RefDataService {
	return &RefDataService{client: c, cache: cache, ttl: ttl}
}

func (s *RefDataService) Countries(ctx context.Context) ([]domain.Country, error) {
	return refList(ctx, s, keyRefCountries, s.client.ListCountries)
}

func (s *RefDataService) Requirements(ctx context.Context) ([]domain.Requirement, error) {
	return refList(ctx, s, keyRefRequirements, s.client.ListRequirements)
}

func (s *RefDataService) CancellationReasons(ctx context.Context) ([]domain.CancellationReason, error) {
	return refList(ctx, s, keyRefReasons, s.client.ListCancellationReasons)
}

func refList[T any](ctx context.Context, s *RefDataService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.ttl.Seconds()))
	return out, nil
}

// Warm loads every reference list concurrently under a bounded worker
// pool; used by the prefetch binary at deploy time. The first error wins
// but the remaining loads still run.
func (s *RefDataService) Warm(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = 2
	}
	sem := semaphore.NewWeighted(int64(workers))
	loads := []func(context.Context) error{
		func(ctx context.Context) error { _, err := s.Countries(ctx); return err },
		func(ctx context.Context) error { _, err := s.Requirements(ctx); return err },
		func(ctx context.Context) error { _, err := s.CancellationReasons(ctx); return err },
	}

	errc := make(chan error, len(loads))
	for _, load := range loads {
		load := load
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		go func() {
			defer sem.Release(1)
			errc <- load(ctx)
		}()
	}

	var first error
	for range loads {
		if err := <-errc; err != nil && first == nil {
			first = err
		}
	}
	return first
}
