package llm

import (
	"sync"
	"time"
)

// maxLatencySamples bounds the latency window kept per operation.
const maxLatencySamples = 100

// MetricsCollector collects metrics for upstream model calls
type MetricsCollector struct {
	requests  map[string]int64
	errors    map[string]int64
	timeouts  map[string]int64
	tokens    map[string]int64
	fallbacks map[string]int64
	latencies map[string][]time.Duration
	mu        sync.RWMutex
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{}
	mc.Reset()
	return mc
}

// RecordRequest records one upstream round-trip for an operation
func (mc *MetricsCollector) RecordRequest(provider, operation string, err error, timedOut bool, latency time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := provider + ":" + operation
	mc.requests[key]++

	if err != nil {
		mc.errors[key]++
	}
	if timedOut {
		mc.timeouts[key]++
	}

	mc.latencies[key] = append(mc.latencies[key], latency)
	if len(mc.latencies[key]) > maxLatencySamples {
		mc.latencies[key] = mc.latencies[key][1:]
	}
}

// RecordTokens records token usage
func (mc *MetricsCollector) RecordTokens(provider string, tokens int) {
	if tokens <= 0 {
		return
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.tokens[provider] += int64(tokens)
}

// RecordFallback records a reply the normalizer could not parse, keyed by outcome
func (mc *MetricsCollector) RecordFallback(outcome string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.fallbacks[outcome]++
}

// GetSnapshot returns a snapshot of current metrics
func (mc *MetricsCollector) GetSnapshot() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	avgLatencies := make(map[string]float64)
	for k, latencies := range mc.latencies {
		if len(latencies) > 0 {
			var total time.Duration
			for _, l := range latencies {
				total += l
			}
			avgLatencies[k] = float64(total.Milliseconds()) / float64(len(latencies))
		}
	}

	return map[string]interface{}{
		"requests":       copyCounts(mc.requests),
		"errors":         copyCounts(mc.errors),
		"timeouts":       copyCounts(mc.timeouts),
		"tokens":         copyCounts(mc.tokens),
		"parse_fallback": copyCounts(mc.fallbacks),
		"avg_latency_ms": avgLatencies,
	}
}

// Reset resets all metrics
func (mc *MetricsCollector) Reset() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requests = make(map[string]int64)
	mc.errors = make(map[string]int64)
	mc.timeouts = make(map[string]int64)
	mc.tokens = make(map[string]int64)
	mc.fallbacks = make(map[string]int64)
	mc.latencies = make(map[string][]time.Duration)
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
