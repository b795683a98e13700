package models

import "time"

// ConfigurationType defines supported types for configuration values.
type ConfigurationType string

const (
	ConfigurationTypeString  ConfigurationType = "STRING"
	ConfigurationTypeBoolean ConfigurationType = "BOOLEAN"
	ConfigurationTypeSession ConfigurationType = "SESSION"
)

// Application setting keys.
const (
	ConfigKeyActiveSession    = "ACTIVE_SESSION"
	ConfigKeyRegistrationOpen = "REGISTRATION_OPEN"
)

// Configuration is one app_config row.
type Configuration struct {
	Key       string            `db:"key" json:"key"`
	Value     string            `db:"value" json:"value"`
	Type      ConfigurationType `db:"-" json:"type"`
	UpdatedBy *string           `db:"updated_by" json:"updatedBy,omitempty"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}
