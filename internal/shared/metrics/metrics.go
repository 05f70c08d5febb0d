package metrics

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Per-operation counters for the workflow: extract, analyze, export,
// history. Rendered in Prometheus text format for diagnostics.

var (
	mu        sync.Mutex
	started   = map[string]uint64{}
	completed = map[string]uint64{}
	failed    = map[string]uint64{}

	operationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncStarted increments the started counter for an operation.
func IncStarted(op string) {
	mu.Lock()
	defer mu.Unlock()
	started[op]++
}

// IncCompleted increments the completed counter for an operation.
func IncCompleted(op string) {
	mu.Lock()
	defer mu.Unlock()
	completed[op]++
}

// IncFailed increments the failed counter for an operation.
func IncFailed(op string) {
	mu.Lock()
	defer mu.Unlock()
	failed[op]++
}

// ObserveDurationMs records an operation duration in milliseconds.
func ObserveDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	operationDuration.Observe(value)
}

// Render renders all counters and the duration histogram in Prometheus
// text format.
func Render() string {
	mu.Lock()
	startedCopy := copyCounts(started)
	completedCopy := copyCounts(completed)
	failedCopy := copyCounts(failed)
	mu.Unlock()

	var buf bytes.Buffer
	writeCounter(&buf, "workflow_started_total", "Total workflow operations started", startedCopy)
	writeCounter(&buf, "workflow_completed_total", "Total workflow operations completed", completedCopy)
	writeCounter(&buf, "workflow_failed_total", "Total workflow operations failed", failedCopy)
	writeHistogram(&buf, "workflow_operation_duration_ms", "Workflow operation duration in milliseconds", operationDuration.Snapshot())
	return buf.String()
}

// Reset zeroes all counters. Test helper.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	started = map[string]uint64{}
	completed = map[string]uint64{}
	failed = map[string]uint64{}
	operationDuration = newHistogram(operationDuration.buckets)
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	ops := make([]string, 0, len(values))
	for op := range values {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		fmt.Fprintf(buf, "%s{op=%q} %d\n", name, op, values[op])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
