package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *capturePublisher) entries() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestCollectorAggregatesDuplicateErrors(t *testing.T) {
	pub := &capturePublisher{}
	l := NewNop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 100, Topic: "findash.logs", Publisher: pub})

	for i := 0; i < 3; i++ {
		l.Error("upstream failed", String("feed", "crypto"), Error(errors.New("timeout")))
	}
	l.Warn("not collected")
	l.RemoveCollector()

	got := pub.entries()
	require.Len(t, got, 1)
	assert.Equal(t, "findash.logs", pub.topic)
	assert.Equal(t, "error", got[0].Level)
	assert.Equal(t, 3, got[0].Count)
	assert.Equal(t, "crypto", got[0].Fields["feed"])
	assert.Equal(t, "timeout", got[0].Fields["error"])
	assert.Contains(t, got[0].Caller, "logger/collector_test.go:")
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &capturePublisher{}
	l := NewNop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Publisher: pub, IncludeWarn: true})

	l.Warn("a")
	l.Error("b")
	l.Error("c")
	l.RemoveCollector()

	assert.Len(t, pub.entries(), 3)
	assert.GreaterOrEqual(t, len(pub.batches), 2)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)

	l, err := New(&Config{Level: "info", Format: "json", Output: "stderr", Service: "findash"})
	require.NoError(t, err)
	l.Info("ready", Float64("price", 1.5), Strings("feeds", []string{"crypto", "news"}))
}
