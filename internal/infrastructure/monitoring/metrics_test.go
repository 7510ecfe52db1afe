package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCommand(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCommand("standardize", nil, 5*time.Millisecond)
	m.ObserveCommand("standardize", errors.New("pipe closed"), time.Millisecond)
	m.ObserveCommand("sync_license", nil, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("standardize", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("standardize", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("sync_license", "ok")))
}

func TestObserveSegment(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSegment(1200)
	m.ObserveSegment(400)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SegmentsCreated))
	assert.Equal(t, 1600.0, testutil.ToFloat64(m.SegmentBytes))
}

func TestSeparateRegistries(t *testing.T) {
	// Two collectors must be registrable side by side for independent
	// clients in one process.
	a := New(prometheus.NewRegistry())
	b := New(prometheus.NewRegistry())

	a.EngineStarts.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.EngineStarts))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.EngineStarts))
}
