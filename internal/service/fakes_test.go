package service

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type fakeSectionRepo struct {
	sections []models.SectionAvailability
	err      error
	calls    int
	filters  []models.SectionFilter
}

func (f *fakeSectionRepo) List(ctx context.Context, filter models.SectionFilter) ([]models.SectionAvailability, error) {
	f.calls++
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	if len(filter.IDs) == 0 {
		return f.sections, nil
	}
	var out []models.SectionAvailability
	for _, s := range f.sections {
		for _, id := range filter.IDs {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

type fakeDayCounter struct {
	rows []models.DayCount
	err  error
}

func (f *fakeDayCounter) CountByDay(ctx context.Context, session models.Session) ([]models.DayCount, error) {
	return f.rows, f.err
}

type fakeSettings struct {
	session models.Session
	open    bool
	err     error
}

func (f *fakeSettings) ActiveSession(ctx context.Context) (models.Session, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.session, nil
}

func (f *fakeSettings) RegistrationOpen(ctx context.Context) (bool, error) {
	return f.open, f.err
}

// memoryCache stores JSON the way the Redis repository does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	// counters hold Incr values apart from entries, as Redis keeps them under
	// keys that purge patterns never match.
	counters map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, counters: map[string]int64{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.counters[key]; ok {
		raw, _ := json.Marshal(n)
		return json.Unmarshal(raw, dest)
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}
	return nil
}

func availableSection(id string, loc models.Location, day models.Day, label string, capacity, active, price int) models.SectionAvailability {
	s := models.SectionAvailability{
		ClassSection: models.ClassSection{
			ID: id, Location: loc, Day: day, Label: label, Session: models.SessionFall2025,
			Capacity: capacity, PriceCents: price, IsActive: true,
		},
		ActiveCount: active,
	}
	s.ComputeSeats()
	return s
}
