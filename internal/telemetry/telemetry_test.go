package telemetry

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/models"
	"github.com/zfogg/inkwell/backend/internal/testutil"
)

func TestInitTracerDisabled(t *testing.T) {
	tp, err := InitTracer(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.NoError(t, Shutdown(context.Background(), tp))
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1.5).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.op")
	assert.NotNil(t, ctx)
	EndSpan(span, nil)
}

func TestGORMPluginRecordsQueries(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Use(GORMPlugin("sqlite")))

	m := metrics.Get()
	m.DatabaseQueriesTotal.Reset()

	var users []models.User
	require.NoError(t, db.WithContext(context.Background()).Find(&users).Error)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.DatabaseQueriesTotal.WithLabelValues("SELECT", "users", "success")))
}
