package metric

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuggerone/comako/errors"
)

func TestNewMetricsRegistry_ExposesCoreMetrics(t *testing.T) {
	registry := NewMetricsRegistry()
	m := registry.CoreMetrics()

	m.RecordInterchangeReceived("UTILMD")
	m.RecordInterchangeReceived("UTILMD")
	m.RecordParseFailure()
	m.RecordValidationReport("UTILMD", true)
	m.RecordValidationIssues("warning", 3)
	m.RecordDocumentConverted("UTILMD")
	m.RecordAperakGenerated("accepted")
	m.RecordProcessingDuration("tokenize", 5*time.Millisecond)
	m.RecordMessagePublished("edi.utilmd.received")
	m.RecordError("pipeline", "transient")
	m.RecordNATSStatus(true)
	m.RecordNATSRTT(2 * time.Millisecond)
	m.RecordNATSReconnect()

	assert.InDelta(t, 2, testutil.ToFloat64(m.InterchangesReceived.WithLabelValues("UTILMD")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ParseFailures), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.ValidationIssues.WithLabelValues("warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NATSConnected), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.NATSRTT), 0)
}

func TestRecordValidationIssues_SkipsZero(t *testing.T) {
	m := NewMetrics()

	m.RecordValidationIssues("error", 0)

	// No label combination is created for a zero count.
	assert.Equal(t, 0, testutil.CollectAndCount(m.ValidationIssues))
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	registry := NewMetricsRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "comako_test_gauge"})

	require.NoError(t, registry.Register("pipeline", "test_gauge", gauge))

	err := registry.Register("pipeline", "test_gauge", gauge)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestRegister_PrometheusConflict(t *testing.T) {
	registry := NewMetricsRegistry()
	first := prometheus.NewGauge(prometheus.GaugeOpts{Name: "comako_conflict_gauge"})
	second := prometheus.NewGauge(prometheus.GaugeOpts{Name: "comako_conflict_gauge"})

	require.NoError(t, registry.Register("a", "conflict_gauge", first))

	err := registry.Register("b", "conflict_gauge", second)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestUnregister(t *testing.T) {
	registry := NewMetricsRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "comako_removable_gauge"})
	require.NoError(t, registry.Register("pipeline", "removable", gauge))

	assert.True(t, registry.Unregister("pipeline", "removable"))
	assert.False(t, registry.Unregister("pipeline", "removable"))

	// The name is free again after unregistering.
	require.NoError(t, registry.Register("pipeline", "removable", gauge))
}

func TestServer_Defaults(t *testing.T) {
	s := NewServer(0, "", NewMetricsRegistry())

	assert.Equal(t, "http://localhost:9090/metrics", s.Address())
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := NewServer(9090, "/metrics", NewMetricsRegistry())

	assert.NoError(t, s.Stop(context.Background()))
}
