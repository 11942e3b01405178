package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eion/userstore/internal/config"
	"github.com/eion/userstore/internal/users"
)

func TestNewAppStateMemoryDriver(t *testing.T) {
	config.LoadDefault()
	config.Get().Common.Storage.Driver = config.StorageDriverMemory

	as, err := newAppState(context.Background(), "api", zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, as.Mongo)
	require.NotNil(t, as.Store)
	assert.NoError(t, as.Health.StartupHealthCheck(context.Background()))

	rec, err := users.NewRecord(map[string]any{"id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, users.OutcomeCreated, as.Store.Create(context.Background(), rec).Outcome)
}

func TestNewAppStateUnknownDeployment(t *testing.T) {
	config.LoadDefault()

	_, err := newAppState(context.Background(), "billing", zap.NewNop())
	assert.Error(t, err)
}

func TestNewAppStateUnreachableMongo(t *testing.T) {
	config.LoadDefault()
	cfg := config.Get()
	cfg.Common.Mongo.Host = "127.0.0.1"
	cfg.Common.Mongo.Port = 1
	cfg.Common.Mongo.ConnectTimeout = "300ms"

	_, err := newAppState(context.Background(), "account", zap.NewNop())
	require.Error(t, err)
	assert.True(t, users.IsConnectionFailure(err))
}

func TestServeCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "account")
	assert.Contains(t, names, "api")
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
