package kernel

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth:             config.AuthConfig{JWTSecret: "secret"},
		TrendingCacheTTL: 30 * time.Second,
	}
}

func TestValidateReportsMissingDB(t *testing.T) {
	err := New(testConfig()).Wire()
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrMissingDependency)

	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"database"}, missing.Deps)
	assert.EqualError(t, err, "kernel: missing database")
}

func TestValidateReportsMissingSecret(t *testing.T) {
	err := New(&config.Config{}).WithDB(testutil.NewTestDB(t)).Validate()

	var missing *MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"auth secret"}, missing.Deps)
}

func TestWireBuildsServices(t *testing.T) {
	k := New(testConfig()).WithDB(testutil.NewTestDB(t))
	require.NoError(t, k.Wire())

	assert.NotNil(t, k.Resolver())
	assert.NotNil(t, k.Engagement())
	assert.NotNil(t, k.Handlers())
}

func TestShutdownRunsCleanupsInReverse(t *testing.T) {
	var order []string
	k := New(testConfig()).
		OnShutdown(func(context.Context) error { order = append(order, "first"); return nil }).
		OnShutdown(func(context.Context) error { order = append(order, "second"); return stderrors.New("boom") })

	err := k.Shutdown(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"second", "first"}, order)

	assert.NoError(t, k.Shutdown(context.Background()), "cleanups run once")
}
