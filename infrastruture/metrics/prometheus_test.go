package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.MoveApplied(true)
	p.MoveApplied(true)
	p.MoveApplied(false)
	assert.Equal(t, 2.0, testutil.ToFloat64(p.movesTotal.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.movesTotal.WithLabelValues("rejected")))

	p.PathSearched(10, true, time.Millisecond)
	p.PathSearched(10, false, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.searchTotal.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.searchTotal.WithLabelValues("not_found")))

	p.RunFinished(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.runsTotal.WithLabelValues("true")))

	p.SessionsActive(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(p.sessionsActive))

	p.MazeGenerated(35, 2*time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(p.generateDuration))

	// A second set of collectors on the same registry is a programming error.
	assert.Panics(t, func() { NewPrometheus(reg) })
}
