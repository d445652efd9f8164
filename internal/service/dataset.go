package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	"github.com/novahq/nova-dashboard/internal/ports"
)

// DatasetServiceOptions groups dependencies for DatasetService.
type DatasetServiceOptions struct {
	Fetcher    ports.DatasetFetcher
	Cache      ports.CacheRepository // Optional: warm snapshots survive restarts when set
	StaleAfter time.Duration         // Age past which a snapshot is served but refetched in the background
	EvictAfter time.Duration         // Age past which a snapshot is discarded entirely
	Logger     *slog.Logger          // Optional: structured logger
	Now        func() time.Time      // Optional: clock override for tests
}

// DatasetStatus describes one dataset's snapshot for dashboard reporting.
type DatasetStatus struct {
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetchedAt"`
	Stale     bool      `json:"stale"`
	Error     string    `json:"error,omitempty"`
}

// datasetState is one dataset's in-memory snapshot. Guarded by
// DatasetService.mu.
type datasetState struct {
	records    []dataset.Record
	fetchedAt  time.Time
	generation uint64
	lastErr    error
}

// DatasetService owns one cached snapshot per dataset mode, each with an
// independent lifetime. A snapshot younger than StaleAfter is served as-is;
// between StaleAfter and EvictAfter it is served immediately while a
// background refetch runs; past EvictAfter the caller blocks on a fetch.
// Concurrent refetches of the same dataset collapse into one upstream call,
// and a refetch that resolves after a forced refresh superseded it is
// discarded rather than applied.
type DatasetService struct {
	fetcher    ports.DatasetFetcher
	cache      ports.CacheRepository
	staleAfter time.Duration
	evictAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu     sync.Mutex
	states map[dataset.Mode]*datasetState
	group  singleflight.Group
}

// NewDatasetService constructs a new DatasetService.
func NewDatasetService(opts DatasetServiceOptions) *DatasetService {
	if opts.Fetcher == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("DatasetFetcher is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DatasetService{
		fetcher:    opts.Fetcher,
		cache:      opts.Cache,
		staleAfter: opts.StaleAfter,
		evictAfter: opts.EvictAfter,
		logger:     opts.Logger,
		now:        now,
		states:     make(map[dataset.Mode]*datasetState),
	}
}

// Records returns the current snapshot for mode, fetching if no usable
// snapshot exists. A stale-but-present snapshot is returned immediately and
// refreshed in the background. The returned slice must not be mutated.
func (s *DatasetService) Records(ctx context.Context, mode dataset.Mode) ([]dataset.Record, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown dataset mode: %q", mode)
	}

	s.mu.Lock()
	st := s.state(mode)
	records, fetchedAt := st.records, st.fetchedAt
	s.mu.Unlock()

	if records == nil {
		if cached, ok := s.loadFromCache(ctx, mode); ok {
			records, fetchedAt = cached.Records, cached.FetchedAt
		}
	}

	if records == nil || s.age(fetchedAt) >= s.evictAfter {
		return s.refresh(ctx, mode)
	}
	if s.age(fetchedAt) >= s.staleAfter {
		s.backgroundRefresh(ctx, mode)
	}
	return records, nil
}

// Refresh forces a refetch of mode, superseding any refetch already in
// flight. The previous snapshot is kept if the fetch fails.
func (s *DatasetService) Refresh(ctx context.Context, mode dataset.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown dataset mode: %q", mode)
	}

	s.mu.Lock()
	s.state(mode).generation++
	s.mu.Unlock()

	// Detach from any collapsed in-flight fetch so the forced refresh
	// really hits upstream.
	s.group.Forget(string(mode))

	_, err := s.refresh(ctx, mode)
	return err
}

// Status reports the snapshot state for mode without triggering a fetch.
func (s *DatasetService) Status(mode dataset.Mode) DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(mode)
	status := DatasetStatus{
		Count:     len(st.records),
		FetchedAt: st.fetchedAt,
		Stale:     st.records != nil && s.age(st.fetchedAt) >= s.staleAfter,
	}
	if st.lastErr != nil {
		status.Error = st.lastErr.Error()
	}
	return status
}

// state returns the entry for mode, creating it if needed. Caller holds mu.
func (s *DatasetService) state(mode dataset.Mode) *datasetState {
	st, ok := s.states[mode]
	if !ok {
		st = &datasetState{}
		s.states[mode] = st
	}
	return st
}

func (s *DatasetService) age(fetchedAt time.Time) time.Duration {
	if fetchedAt.IsZero() {
		return s.evictAfter
	}
	return s.now().Sub(fetchedAt)
}

// refresh fetches mode once, collapsing concurrent callers. The result is
// applied only if the dataset's generation is unchanged when the fetch
// resolves; a fetch superseded by a forced refresh is discarded.
func (s *DatasetService) refresh(ctx context.Context, mode dataset.Mode) ([]dataset.Record, error) {
	result, err, _ := s.group.Do(string(mode), func() (any, error) {
		s.mu.Lock()
		gen := s.state(mode).generation
		s.mu.Unlock()

		records, fetchErr := s.fetcher.Fetch(ctx, mode)

		s.mu.Lock()
		defer s.mu.Unlock()
		st := s.state(mode)
		if st.generation != gen {
			if s.logger != nil {
				s.logger.DebugContext(ctx, "discarding superseded fetch", "mode", mode, "generation", gen)
			}
			return st.records, st.lastErr
		}
		if fetchErr != nil {
			// The previous snapshot, if any, stays usable.
			st.lastErr = fetchErr
			if st.records != nil {
				return st.records, nil
			}
			return nil, fetchErr
		}

		st.records = records
		st.fetchedAt = s.now()
		st.lastErr = nil
		s.writeCache(ctx, mode, records, st.fetchedAt)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records, _ := result.([]dataset.Record)
	return records, nil
}

// backgroundRefresh refetches mode without blocking the caller. The refetch
// outlives the triggering request.
func (s *DatasetService) backgroundRefresh(ctx context.Context, mode dataset.Mode) {
	detached := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.refresh(detached, mode); err != nil && s.logger != nil {
			s.logger.WarnContext(detached, "background dataset refresh failed", "mode", mode, "error", err)
		}
	}()
}

// cacheEnvelope is the persisted form of a dataset snapshot.
type cacheEnvelope struct {
	FetchedAt time.Time        `json:"fetched_at"`
	Records   []dataset.Record `json:"records"`
}

func cacheKey(mode dataset.Mode) string {
	return "dataset:" + string(mode)
}

// loadFromCache adopts a persisted snapshot into memory when one exists and
// is within its eviction window. Corrupt entries are deleted and treated as
// a miss.
func (s *DatasetService) loadFromCache(ctx context.Context, mode dataset.Mode) (cacheEnvelope, bool) {
	if s.cache == nil {
		return cacheEnvelope{}, false
	}

	raw, err := s.cache.Get(ctx, cacheKey(mode))
	if err != nil || raw == nil {
		if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "dataset cache read failed", "mode", mode, "error", err)
		}
		return cacheEnvelope{}, false
	}

	var env cacheEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Records == nil {
		if _, delErr := s.cache.Delete(ctx, cacheKey(mode)); delErr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "dataset cache cleanup failed", "mode", mode, "error", delErr)
		}
		return cacheEnvelope{}, false
	}
	if s.age(env.FetchedAt) >= s.evictAfter {
		return cacheEnvelope{}, false
	}

	s.mu.Lock()
	st := s.state(mode)
	if st.records == nil {
		st.records = env.Records
		st.fetchedAt = env.FetchedAt
	}
	s.mu.Unlock()
	return env, true
}

// writeCache persists a fresh snapshot. Cache failures are logged, not
// surfaced. Caller holds mu.
func (s *DatasetService) writeCache(ctx context.Context, mode dataset.Mode, records []dataset.Record, fetchedAt time.Time) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(cacheEnvelope{FetchedAt: fetchedAt, Records: records})
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "dataset cache encode failed", "mode", mode, "error", err)
		}
		return
	}
	if err := s.cache.Set(ctx, cacheKey(mode), raw, s.evictAfter); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "dataset cache write failed", "mode", mode, "error", err)
	}
}
