package datasets

// Package datasets contains hand-written test doubles for the dataset ports.

import (
	"context"
	"sync"
	"time"

	"github.com/novahq/nova-dashboard/internal/domain/dataset"
	"github.com/novahq/nova-dashboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.DatasetFetcher  = (*StubFetcher)(nil)
	_ ports.CacheRepository = (*MemoryCacheRepo)(nil)
)

// StubFetcher serves canned records per mode, or delegates to FetchFunc
// when set. Calls counts fetches per mode for assertions.
type StubFetcher struct {
	mu        sync.Mutex
	Records   map[dataset.Mode][]dataset.Record
	Err       error
	FetchFunc func(ctx context.Context, mode dataset.Mode) ([]dataset.Record, error)
	calls     map[dataset.Mode]int
}

// NewStubFetcher creates an empty StubFetcher.
func NewStubFetcher() *StubFetcher {
	return &StubFetcher{
		Records: make(map[dataset.Mode][]dataset.Record),
		calls:   make(map[dataset.Mode]int),
	}
}

func (f *StubFetcher) Fetch(ctx context.Context, mode dataset.Mode) ([]dataset.Record, error) {
	f.mu.Lock()
	f.calls[mode]++
	f.mu.Unlock()

	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, mode)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records[mode], nil
}

// Calls reports how many times mode was fetched.
func (f *StubFetcher) Calls(mode dataset.Mode) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[mode]
}

// MemoryCacheRepo is an in-memory CacheRepository. TTLs are recorded but
// not enforced; tests drive expiry explicitly.
type MemoryCacheRepo struct {
	mu      sync.Mutex
	values  map[string][]byte
	ttls    map[string]time.Duration
	GetErr  error
	SetErr  error
	deletes []string
}

// NewMemoryCacheRepo creates an empty MemoryCacheRepo.
func NewMemoryCacheRepo() *MemoryCacheRepo {
	return &MemoryCacheRepo{
		values: make(map[string][]byte),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *MemoryCacheRepo) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MemoryCacheRepo) Get(_ context.Context, key string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryCacheRepo) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	delete(m.values, key)
	delete(m.ttls, key)
	m.deletes = append(m.deletes, key)
	return ok, nil
}

// TTL reports the TTL recorded for key by the last Set.
func (m *MemoryCacheRepo) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// Deleted reports the keys deleted so far, in order.
func (m *MemoryCacheRepo) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}
