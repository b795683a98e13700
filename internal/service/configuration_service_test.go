package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

func TestConfigurationServiceListFallsBackToDefaults(t *testing.T) {
	repo := &fakeSettingsRepo{values: map[string]string{models.ConfigKeyActiveSession: "FALL_2025"}}
	svc := NewConfigurationService(repo, nil)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "FALL_2025", items[0].Value)
	assert.Equal(t, "SESSION", items[0].Type)
	assert.Equal(t, "false", items[1].Value)
}

func TestConfigurationServiceGet(t *testing.T) {
	svc := NewConfigurationService(&fakeSettingsRepo{}, nil)

	item, err := svc.Get(context.Background(), "registration_open")
	require.NoError(t, err)
	assert.Equal(t, "false", item.Value)

	_, err = svc.Get(context.Background(), models.ConfigKeyActiveSession)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Get(context.Background(), "THEME")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestConfigurationServiceUpdate(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewConfigurationService(repo, nil)
	actor := &models.JWTClaims{Email: "owner@bailakids.com"}

	item, err := svc.Update(context.Background(), models.ConfigKeyActiveSession, " spring_2026 ", actor)
	require.NoError(t, err)
	assert.Equal(t, "SPRING_2026", item.Value)
	assert.Equal(t, "SPRING_2026", repo.values[models.ConfigKeyActiveSession])
	assert.Nil(t, item.Previous)

	item, err = svc.Update(context.Background(), models.ConfigKeyActiveSession, "FALL_2025", actor)
	require.NoError(t, err)
	require.NotNil(t, item.Previous)
	assert.Equal(t, "SPRING_2026", *item.Previous)

	item, err = svc.Update(context.Background(), models.ConfigKeyRegistrationOpen, "TRUE", actor)
	require.NoError(t, err)
	assert.Equal(t, "true", item.Value)

	_, err = svc.Update(context.Background(), models.ConfigKeyRegistrationOpen, "yes", actor)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Update(context.Background(), models.ConfigKeyActiveSession, "WINTER_2020", actor)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	repo.err = errors.New("db down")
	_, err = svc.Update(context.Background(), models.ConfigKeyRegistrationOpen, "false", actor)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}
