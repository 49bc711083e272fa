package server

import (
	"errors"
	"sync"

	"table-admin/internal/schema"
)

// Operation outcomes tracked per schema operation.
const (
	ResultSuccess   = "success"
	ResultRejected  = "rejected"
	ResultForbidden = "forbidden"
	ResultFailed    = "failed"
)

// Metrics holds application metrics
type Metrics struct {
	mu sync.RWMutex

	// Schema operation outcomes: op -> result -> count
	operations map[string]map[string]int64

	// System metrics
	requestsTotal    int64
	requestErrors5xx int64
	requestErrors4xx int64
}

var globalMetrics = newMetrics()

func newMetrics() *Metrics {
	return &Metrics{operations: make(map[string]map[string]int64)}
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// operationResult classifies the error returned by a schema operation.
func operationResult(err error) string {
	var (
		ve *schema.ValidationError
		fe *schema.ForbiddenError
	)
	switch {
	case err == nil:
		return ResultSuccess
	case errors.As(err, &ve):
		return ResultRejected
	case errors.As(err, &fe):
		return ResultForbidden
	default:
		return ResultFailed
	}
}

// RecordOperation records the outcome of one schema operation
func (m *Metrics) RecordOperation(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byResult := m.operations[op]
	if byResult == nil {
		byResult = make(map[string]int64)
		m.operations[op] = byResult
	}
	byResult[operationResult(err)]++
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++

	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ops := make(map[string]map[string]int64, len(m.operations))
	for op, byResult := range m.operations {
		copied := make(map[string]int64, len(byResult))
		for result, n := range byResult {
			copied[result] = n
		}
		ops[op] = copied
	}

	return MetricsSnapshot{
		Operations:       ops,
		RequestsTotal:    m.requestsTotal,
		RequestErrors5xx: m.requestErrors5xx,
		RequestErrors4xx: m.requestErrors4xx,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Operations map[string]map[string]int64 `json:"operations"`

	RequestsTotal    int64 `json:"requests_total"`
	RequestErrors5xx int64 `json:"request_errors_5xx"`
	RequestErrors4xx int64 `json:"request_errors_4xx"`
}
