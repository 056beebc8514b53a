package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordHistoryLookup("static", true)
	r.RecordHistoryLookup("static", true)
	r.RecordHistoryLookup("primary", false)
	r.RecordCache("crypto", false)
	r.RecordUpstream("crypto", "ok", 0.12)
	r.RecordError("calendar_generate")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.historyLookups.WithLabelValues("static", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.historyLookups.WithLabelValues("primary", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cache.WithLabelValues("crypto", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstream.WithLabelValues("crypto", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("calendar_generate")))
}

func TestRecorderBoundsPeriodLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordGeneration("weekly", 6)
	r.RecordGeneration("yearly", 10)
	r.RecordGeneration("<script>", 10)

	assert.Equal(t, 2, testutil.CollectAndCount(r.generated))
}
