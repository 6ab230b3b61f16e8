package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTrigger(ctx, &domain.SlotEvent{PersonaID: "freud"})
	hooks.OnTrigger(ctx, &domain.SlotEvent{PersonaID: "freud"})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InFlight.WithLabelValues("freud")))

	hooks.OnSettle(ctx, &domain.SlotEvent{PersonaID: "freud", State: domain.Success("x"), Duration: time.Second})
	hooks.OnDiscard(ctx, &domain.SlotEvent{PersonaID: "freud", State: domain.Success("late")})
	hooks.OnReject(ctx, &domain.SlotEvent{PersonaID: "jung", State: domain.Failure(domain.ErrorKindValidation, "input required")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Triggers.WithLabelValues("freud")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight.WithLabelValues("freud")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("freud", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("jung", "validation_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Discarded.WithLabelValues("freud")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestNewMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}
