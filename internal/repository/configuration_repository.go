package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bailakids/registration-api/internal/models"
)

// ConfigurationRepository persists app_config rows.
type ConfigurationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListByKeys returns the stored rows among keys, ordered by key. Unset keys are absent.
func (r *ConfigurationRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	const query = `SELECT key, value, updated_by, updated_at FROM app_config WHERE key = ANY($1) ORDER BY key`
	var rows []models.Configuration
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(keys)); err != nil {
		return nil, fmt.Errorf("list app_config: %w", err)
	}
	return rows, nil
}

// Get fetches one setting. sql.ErrNoRows means the key is unset.
func (r *ConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	const query = `SELECT key, value, updated_by, updated_at FROM app_config WHERE key = $1`
	var row models.Configuration
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert stores cfg and returns the value it replaced, or nil when the key was unset.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) (*string, error) {
	const query = `WITH prior AS (SELECT value FROM app_config WHERE key = $1)
INSERT INTO app_config (key, value, updated_by, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
RETURNING (SELECT value FROM prior)`
	cfg.UpdatedAt = r.now()
	var previous *string
	if err := r.db.QueryRowxContext(ctx, query, cfg.Key, cfg.Value, cfg.UpdatedBy, cfg.UpdatedAt).Scan(&previous); err != nil {
		return nil, fmt.Errorf("upsert app_config %s: %w", cfg.Key, err)
	}
	return previous, nil
}
