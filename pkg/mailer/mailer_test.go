package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bailakids/registration-api/pkg/config"
)

func TestNewWithoutKeyReturnsNoop(t *testing.T) {
	sender := New(config.MailConfig{}, nil)
	_, ok := sender.(*NoopSender)
	assert.True(t, ok)
	assert.False(t, sender.Enabled())
}

func TestNewWithKeyReturnsResend(t *testing.T) {
	sender := New(config.MailConfig{ResendAPIKey: "re_test", From: "Baila Kids <registration@bailakids.org>"}, nil)
	_, ok := sender.(*ResendSender)
	assert.True(t, ok)
	assert.True(t, sender.Enabled())
}

func TestNoopSenderLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewNoopSender(zap.New(core))

	require.NoError(t, sender.Send(context.Background(), Message{To: []string{"maria@example.com"}, Subject: "Your Baila Kids Registration"}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "email skipped", logs.All()[0].Message)

	assert.Error(t, sender.Send(context.Background(), Message{}))
}
