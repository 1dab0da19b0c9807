// Package monitoring keeps in-process counters for the prediction service.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"scorecast/ml"
)

// Outcome classifies how a prediction request ended.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeCacheHit Outcome = "cache_hit"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
)

// ModelStat counts how often one ensemble member answered or failed.
type ModelStat struct {
	Name        string `json:"name"`
	Predictions int64  `json:"predictions"`
	Failures    int64  `json:"failures"`
	LastError   string `json:"last_error,omitempty"`
}

type LatencyStat struct {
	Count int64   `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MaxMs float64 `json:"max_ms"`
}

// Snapshot is the JSON body served by /api/metrics.
type Snapshot struct {
	Uptime   string                 `json:"uptime"`
	Requests map[Outcome]int64      `json:"requests"`
	Latency  LatencyStat            `json:"latency"`
	Models   []ModelStat            `json:"models"`
	System   map[string]interface{} `json:"system"`
}

// PredictionMetrics is safe for concurrent use.
type PredictionMetrics struct {
	mu sync.Mutex

	startTime  time.Time
	requests   map[Outcome]int64
	latencyN   int64
	latencySum time.Duration
	latencyMax time.Duration
	models     map[string]*ModelStat
}

func NewPredictionMetrics() *PredictionMetrics {
	return &PredictionMetrics{
		startTime: time.Now(),
		requests:  make(map[Outcome]int64),
		models:    make(map[string]*ModelStat),
	}
}

// RecordRequest counts one request and, unless it was served from cache,
// its pipeline latency.
func (pm *PredictionMetrics) RecordRequest(outcome Outcome, elapsed time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.requests[outcome]++
	if outcome == OutcomeCacheHit {
		return
	}
	pm.latencyN++
	pm.latencySum += elapsed
	if elapsed > pm.latencyMax {
		pm.latencyMax = elapsed
	}
}

// RecordResult updates the per-model counters from a computed result.
func (pm *PredictionMetrics) RecordResult(res *ml.Result) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, name := range res.Order {
		stat := pm.model(name)
		if msg, failed := res.Failures[name]; failed {
			stat.Failures++
			stat.LastError = msg
			continue
		}
		stat.Predictions++
	}
}

func (pm *PredictionMetrics) model(name string) *ModelStat {
	stat, ok := pm.models[name]
	if !ok {
		stat = &ModelStat{Name: name}
		pm.models[name] = stat
	}
	return stat
}

// Snapshot returns a copy of the counters with models in display order.
func (pm *PredictionMetrics) Snapshot() Snapshot {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	s := Snapshot{
		Uptime:   time.Since(pm.startTime).Round(time.Second).String(),
		Requests: make(map[Outcome]int64, len(pm.requests)),
		Models:   make([]ModelStat, 0, len(pm.models)),
		System:   SystemStats(),
	}
	for k, v := range pm.requests {
		s.Requests[k] = v
	}
	if pm.latencyN > 0 {
		s.Latency = LatencyStat{
			Count: pm.latencyN,
			AvgMs: float64(pm.latencySum) / float64(pm.latencyN) / float64(time.Millisecond),
			MaxMs: float64(pm.latencyMax) / float64(time.Millisecond),
		}
	}
	seen := make(map[string]bool, len(pm.models))
	for _, name := range ml.ModelNames() {
		if stat, ok := pm.models[name]; ok {
			s.Models = append(s.Models, *stat)
			seen[name] = true
		}
	}
	for name, stat := range pm.models {
		if !seen[name] {
			s.Models = append(s.Models, *stat)
		}
	}
	return s
}

func SystemStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"goroutines": runtime.NumGoroutine(),
		"num_cpu":    runtime.NumCPU(),
		"memory": map[string]interface{}{
			"alloc":      m.Alloc,
			"heap_inuse": m.HeapInuse,
			"gc_count":   m.NumGC,
		},
	}
}
