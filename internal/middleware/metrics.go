package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	"github.com/bryanwahyu/textlens/internal/domain/analysis"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsInProgress atomic.Int64
	RequestsSuccess    atomic.Uint64
	RequestsFailed     atomic.Uint64
	InferenceSuccess   atomic.Uint64
	// inferenceFailures is filled once in NewMetrics and only read after.
	inferenceFailures map[domai.ErrorKind]*atomic.Uint64
	StartTime         time.Time
}

func NewMetrics() *Metrics {
	m := &Metrics{
		StartTime:         time.Now(),
		inferenceFailures: make(map[domai.ErrorKind]*atomic.Uint64),
	}
	for _, k := range domai.Kinds() {
		m.inferenceFailures[k] = new(atomic.Uint64)
	}
	return m
}

// RecordOutcome counts one inference result. It matches the analysis
// service's outcome hook.
func (m *Metrics) RecordOutcome(_ analysis.Area, o domai.Outcome) {
	f := o.Failure()
	if f == nil {
		m.InferenceSuccess.Add(1)
		return
	}
	if c, ok := m.inferenceFailures[f.Kind]; ok {
		c.Add(1)
	}
}

func (m *Metrics) InferenceFailures(kind domai.ErrorKind) uint64 {
	if c, ok := m.inferenceFailures[kind]; ok {
		return c.Load()
	}
	return 0
}

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	failures := make(map[string]uint64, len(m.inferenceFailures))
	for k, c := range m.inferenceFailures {
		failures[string(k)] = c.Load()
	}

	return map[string]interface{}{
		"requests_total":       m.RequestsTotal.Load(),
		"requests_in_progress": m.RequestsInProgress.Load(),
		"requests_success":     m.RequestsSuccess.Load(),
		"requests_failed":      m.RequestsFailed.Load(),
		"inference_success":    m.InferenceSuccess.Load(),
		"inference_failures":   failures,
		"uptime_seconds":       time.Since(m.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.RequestsTotal.Add(1)
		m.RequestsInProgress.Add(1)
		defer m.RequestsInProgress.Add(-1)

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.RequestsSuccess.Add(1)
		} else {
			m.RequestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Snapshot())
}
