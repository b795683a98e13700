package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

type configurationRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) (*string, error)
}

type allowedConfiguration struct {
	Key         string
	Type        models.ConfigurationType
	Description string
}

var allowedConfigurationKeys = []string{
	models.ConfigKeyActiveSession,
	models.ConfigKeyRegistrationOpen,
}

var allowedConfigurations = map[string]allowedConfiguration{
	models.ConfigKeyActiveSession: {
		Key:         models.ConfigKeyActiveSession,
		Type:        models.ConfigurationTypeSession,
		Description: "Session new registrations are filed under",
	},
	models.ConfigKeyRegistrationOpen: {
		Key:         models.ConfigKeyRegistrationOpen,
		Type:        models.ConfigurationTypeBoolean,
		Description: "Whether the public registration form accepts submissions",
	},
}

var builtinConfigurationDefaults = map[string]string{
	models.ConfigKeyRegistrationOpen: "false",
}

// ConfigurationService is the admin view of app_config.
type ConfigurationService struct {
	repo   configurationRepository
	logger *zap.Logger
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(repo configurationRepository, logger *zap.Logger) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{repo: repo, logger: logger}
}

// List returns every allowed key, falling back to defaults for unset keys.
func (s *ConfigurationService) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	rows, err := s.repo.ListByKeys(ctx, allowedConfigurationKeys)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list configurations")
	}
	existing := make(map[string]models.Configuration, len(rows))
	for _, row := range rows {
		existing[row.Key] = row
	}

	items := make([]dto.ConfigurationItem, 0, len(allowedConfigurationKeys))
	for _, key := range allowedConfigurationKeys {
		meta := allowedConfigurations[key]
		item := itemFor(meta, builtinConfigurationDefaults[key])
		if row, ok := existing[key]; ok {
			item.Value = row.Value
		}
		items = append(items, item)
	}
	return items, nil
}

// Get retrieves a single configuration.
func (s *ConfigurationService) Get(ctx context.Context, key string) (*dto.ConfigurationItem, error) {
	meta, err := requireAllowedKey(key)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.Get(ctx, meta.Key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if def, ok := builtinConfigurationDefaults[meta.Key]; ok {
				item := itemFor(meta, def)
				return &item, nil
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
		}
		return nil, appErrors.Internal(err, "failed to get configuration")
	}
	item := itemFor(meta, cfg.Value)
	return &item, nil
}

// Update validates and stores a value. The settings cache picks it up when its window expires.
func (s *ConfigurationService) Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.ConfigurationItem, error) {
	meta, err := requireAllowedKey(key)
	if err != nil {
		return nil, err
	}
	value, err = validateConfigurationValue(meta, value)
	if err != nil {
		return nil, err
	}

	cfg := &models.Configuration{Key: meta.Key, Value: value, Type: meta.Type}
	if actor != nil && actor.Email != "" {
		email := actor.Email
		cfg.UpdatedBy = &email
	}
	previous, err := s.repo.Upsert(ctx, cfg)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to update configuration")
	}
	fields := []zap.Field{zap.String("key", meta.Key), zap.String("value", value)}
	if previous != nil {
		fields = append(fields, zap.String("previous", *previous))
	}
	s.logger.Info("configuration updated", fields...)

	item := itemFor(meta, value)
	item.Previous = previous
	return &item, nil
}

func requireAllowedKey(key string) (allowedConfiguration, error) {
	meta, ok := allowedConfigurations[strings.ToUpper(strings.TrimSpace(key))]
	if !ok {
		return allowedConfiguration{}, appErrors.Clone(appErrors.ErrValidation, "unsupported configuration key")
	}
	return meta, nil
}

func validateConfigurationValue(meta allowedConfiguration, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch meta.Type {
	case models.ConfigurationTypeBoolean:
		switch strings.ToLower(value) {
		case "true":
			return "true", nil
		case "false":
			return "false", nil
		}
		return "", appErrors.Clonef(appErrors.ErrValidation, "%s expects boolean value", meta.Key)
	case models.ConfigurationTypeSession:
		session, ok := models.ParseSession(strings.ToUpper(value))
		if !ok {
			return "", appErrors.Clonef(appErrors.ErrValidation, "%s must be one of %v", meta.Key, models.Sessions)
		}
		return string(session), nil
	}
	return value, nil
}

func itemFor(meta allowedConfiguration, value string) dto.ConfigurationItem {
	return dto.ConfigurationItem{
		Key:         meta.Key,
		Value:       value,
		Type:        string(meta.Type),
		Description: meta.Description,
	}
}
