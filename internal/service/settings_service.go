package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

// DefaultSettingsWindow is how long a fetched setting is served without re-reading.
const DefaultSettingsWindow = time.Minute

type settingsReader interface {
	Get(ctx context.Context, key string) (*models.Configuration, error)
}

// settingEntry is a cached value; fresh iff now-fetchedAt < window.
type settingEntry struct {
	value     string
	found     bool
	fetchedAt time.Time
}

func (e settingEntry) fresh(now time.Time, window time.Duration) bool {
	return !e.fetchedAt.IsZero() && now.Sub(e.fetchedAt) < window
}

// SettingsService serves app_config values from a per-key in-process cache.
// Entries expire by time only. Writes through ConfigurationService are not
// visible here until the window elapses.
type SettingsService struct {
	repo   settingsReader
	window time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]settingEntry
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsReader, window time.Duration, logger *zap.Logger) *SettingsService {
	if window <= 0 {
		window = DefaultSettingsWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:    repo,
		window:  window,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]settingEntry),
	}
}

// ActiveSession returns the configured registration term.
func (s *SettingsService) ActiveSession(ctx context.Context) (models.Session, error) {
	entry, err := s.lookup(ctx, models.ConfigKeyActiveSession)
	if err != nil {
		return "", err
	}
	if !entry.found || entry.value == "" {
		return "", appErrors.Internal(errors.New("ACTIVE_SESSION not configured"), "ACTIVE_SESSION not configured")
	}
	session, ok := models.ParseSession(entry.value)
	if !ok {
		msg := fmt.Sprintf("Invalid ACTIVE_SESSION: %s", entry.value)
		return "", appErrors.Internal(errors.New(msg), msg)
	}
	return session, nil
}

// RegistrationOpen reports whether REGISTRATION_OPEN is exactly "true". A missing row means closed.
func (s *SettingsService) RegistrationOpen(ctx context.Context) (bool, error) {
	entry, err := s.lookup(ctx, models.ConfigKeyRegistrationOpen)
	if err != nil {
		return false, err
	}
	return entry.found && entry.value == "true", nil
}

func (s *SettingsService) lookup(ctx context.Context, key string) (settingEntry, error) {
	now := s.now()
	s.mu.Lock()
	entry, ok := s.entries[key]
	s.mu.Unlock()
	if ok && entry.fresh(now, s.window) {
		return entry, nil
	}

	cfg, err := s.repo.Get(ctx, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		entry = settingEntry{fetchedAt: now}
	case err != nil:
		s.logger.Error("read setting", zap.String("key", key), zap.Error(err))
		return settingEntry{}, appErrors.Internal(err, "failed to read settings")
	default:
		entry = settingEntry{value: cfg.Value, found: true, fetchedAt: now}
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return entry, nil
}
