// prometheus.go - Prometheus metrics exporter
package server

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"table-admin/internal/schema"
)

// PrometheusExporter converts internal metrics to Prometheus format
type PrometheusExporter struct {
	connector *schema.Connector
}

// NewPrometheusExporter creates a new Prometheus exporter
func NewPrometheusExporter(connector *schema.Connector) *PrometheusExporter {
	return &PrometheusExporter{connector: connector}
}

// Handler returns an HTTP handler for the /metrics endpoint
func (p *PrometheusExporter) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := GetMetrics().Snapshot()

		var output strings.Builder

		output.WriteString("# HELP tbl_requests_total Total number of HTTP requests\n")
		output.WriteString("# TYPE tbl_requests_total counter\n")
		output.WriteString(fmt.Sprintf("tbl_requests_total %d\n\n", snapshot.RequestsTotal))

		output.WriteString("# HELP tbl_request_errors_total HTTP requests answered with an error status\n")
		output.WriteString("# TYPE tbl_request_errors_total counter\n")
		output.WriteString(fmt.Sprintf("tbl_request_errors_total{class=\"4xx\"} %d\n", snapshot.RequestErrors4xx))
		output.WriteString(fmt.Sprintf("tbl_request_errors_total{class=\"5xx\"} %d\n\n", snapshot.RequestErrors5xx))

		output.WriteString("# HELP tbl_operations_total Schema operations by outcome\n")
		output.WriteString("# TYPE tbl_operations_total counter\n")
		ops := make([]string, 0, len(snapshot.Operations))
		for op := range snapshot.Operations {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		for _, op := range ops {
			results := make([]string, 0, len(snapshot.Operations[op]))
			for result := range snapshot.Operations[op] {
				results = append(results, result)
			}
			sort.Strings(results)
			for _, result := range results {
				output.WriteString(fmt.Sprintf("tbl_operations_total{op=\"%s\",result=\"%s\"} %d\n",
					prometheusLabel(op), prometheusLabel(result), snapshot.Operations[op][result]))
			}
		}
		output.WriteString("\n")

		if p.connector != nil {
			stats := p.connector.Stats()
			output.WriteString("# HELP tbl_connections_opened_total Database connections opened\n")
			output.WriteString("# TYPE tbl_connections_opened_total counter\n")
			output.WriteString(fmt.Sprintf("tbl_connections_opened_total %d\n\n", stats.OpenedTotal))

			output.WriteString("# HELP tbl_connections_in_use Database connections currently open\n")
			output.WriteString("# TYPE tbl_connections_in_use gauge\n")
			output.WriteString(fmt.Sprintf("tbl_connections_in_use %d\n\n", stats.InUse))
		}

		output.WriteString("# HELP tbl_request_duration_ms Request duration percentiles by route\n")
		output.WriteString("# TYPE tbl_request_duration_ms summary\n")
		for _, route := range durationRoutes() {
			p50, p95, p99 := GetRequestDurationPercentiles(route)
			label := prometheusLabel(route)
			output.WriteString(fmt.Sprintf("tbl_request_duration_ms{route=\"%s\",quantile=\"0.5\"} %.2f\n", label, p50))
			output.WriteString(fmt.Sprintf("tbl_request_duration_ms{route=\"%s\",quantile=\"0.95\"} %.2f\n", label, p95))
			output.WriteString(fmt.Sprintf("tbl_request_duration_ms{route=\"%s\",quantile=\"0.99\"} %.2f\n", label, p99))
		}
		output.WriteString("\n")

		output.WriteString("# HELP tbl_uptime_seconds Application uptime in seconds\n")
		output.WriteString("# TYPE tbl_uptime_seconds counter\n")
		uptime := time.Since(serverStartTime).Seconds()
		output.WriteString(fmt.Sprintf("tbl_uptime_seconds %.0f\n", uptime))

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.String()))
	}
}

// PrometheusMetricsHandler creates a handler that exports metrics in Prometheus format
func PrometheusMetricsHandler(connector *schema.Connector) http.Handler {
	return NewPrometheusExporter(connector).Handler()
}

// Helper function to format label safely for Prometheus
func prometheusLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// MetricsSummary keeps recent request durations per route
type MetricsSummary struct {
	mu               sync.RWMutex
	requestDurations map[string][]float64 // route -> durations in ms
}

var (
	metricsSummary = &MetricsSummary{
		requestDurations: make(map[string][]float64),
	}
	serverStartTime = time.Now()
)

// maxDurationSamples bounds the samples kept per route.
const maxDurationSamples = 1000

// RecordRequestDuration records the duration of a request for summary metrics
func RecordRequestDuration(route string, durationMs float64) {
	metricsSummary.mu.Lock()
	defer metricsSummary.mu.Unlock()

	durations := append(metricsSummary.requestDurations[route], durationMs)
	if len(durations) > maxDurationSamples {
		durations = durations[len(durations)-maxDurationSamples:]
	}
	metricsSummary.requestDurations[route] = durations
}

// GetRequestDurationPercentiles returns percentile data for request durations
func GetRequestDurationPercentiles(route string) (p50, p95, p99 float64) {
	metricsSummary.mu.RLock()
	defer metricsSummary.mu.RUnlock()

	durations := metricsSummary.requestDurations[route]
	if len(durations) == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	sort.Float64s(sorted)

	p50 = sorted[len(sorted)*50/100]
	p95 = sorted[len(sorted)*95/100]
	p99 = sorted[len(sorted)*99/100]
	return
}

func durationRoutes() []string {
	metricsSummary.mu.RLock()
	defer metricsSummary.mu.RUnlock()

	routes := make([]string, 0, len(metricsSummary.requestDurations))
	for route := range metricsSummary.requestDurations {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}
