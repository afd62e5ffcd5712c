package logger

import (
	"context"
	"sort"
	"sync"
	"time"
)

type stageCounters struct {
	total   int64
	failed  int64
	elapsed time.Duration
}

type Metrics struct {
	mu     sync.Mutex
	stages map[string]*stageCounters
}

var globalMetrics = &Metrics{stages: make(map[string]*stageCounters)}

type OperationStats struct {
	Total        int64
	Failed       int64
	AvgLatencyMs float64
}

func RecordOperation(operation string, err error, duration time.Duration) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	c, ok := globalMetrics.stages[operation]
	if !ok {
		c = &stageCounters{}
		globalMetrics.stages[operation] = c
	}
	c.total++
	c.elapsed += duration
	if err != nil {
		c.failed++
	}
}

func GetMetrics() map[string]OperationStats {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	result := make(map[string]OperationStats, len(globalMetrics.stages))
	for op, c := range globalMetrics.stages {
		stats := OperationStats{Total: c.total, Failed: c.failed}
		if c.total > 0 {
			stats.AvgLatencyMs = float64(c.elapsed.Nanoseconds()) / float64(c.total) / 1e6
		}
		result[op] = stats
	}
	return result
}

// TimedOperation runs fn with an operation-scoped logger in its context and
// records its outcome.
func TimedOperation(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx = WithOperation(ctx, operation)
	log := FromContext(ctx)
	start := time.Now()
	log.Debug("starting operation")

	err := fn(ctx)
	duration := time.Since(start)

	RecordOperation(operation, err, duration)

	if err != nil {
		log.Debug("operation failed", "error", err, "duration", duration)
	} else {
		log.Debug("operation completed", "duration", duration)
	}

	return err
}

// LogSummary writes one debug record per recorded operation, sorted by name.
func LogSummary(ctx context.Context) {
	stats := GetMetrics()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	log := FromContext(ctx)
	for _, name := range names {
		s := stats[name]
		log.Debug("operation stats", "operation", name, "total", s.Total, "failed", s.Failed, "avg_ms", s.AvgLatencyMs)
	}
}

func ResetMetrics() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.stages = make(map[string]*stageCounters)
}
