// internal/observability/metrics.go

// Package observability 提供 Prometheus 指標與 OpenTelemetry 追蹤的初始化。
//
// 指標註冊在獨立的 *prometheus.Registry 上，而非全域預設 registry，
// 因此同一個行程（例如測試）可以建立多組互不衝突的 Metrics。
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "autoshop"

// Metrics 持有服務的所有指標。
//
//   - Operations：registry 操作次數，labels: op, result (ok|miss|error)
//   - Vehicles：目前現存車輛數
//   - RequestDuration：HTTP 請求耗時，labels: method, route, status
type Metrics struct {
	reg *prometheus.Registry

	Operations      *prometheus.CounterVec
	Vehicles        prometheus.Gauge
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics 建立並註冊所有指標，另含 Go runtime 與 process collector。
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "registry",
				Name:      "operations_total",
				Help:      "Registry operations by operation and result",
			},
			[]string{"op", "result"},
		),
		Vehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "registry",
			Name:      "vehicles",
			Help:      "Number of vehicles currently registered",
		}),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by method, route and status",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
	reg.MustRegister(
		m.Operations,
		m.Vehicles,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation 實作 registry.Observer。
// 失敗的查找記為 "miss"：對 registry 而言不存在的 ID 是正常結果，不是錯誤。
// create 失敗只會來自不合法的車型，記為 "error"。
func (m *Metrics) ObserveOperation(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "miss"
		if op == "create" {
			result = "error"
		}
	}
	m.Operations.WithLabelValues(op, result).Inc()
}

// ObserveVehicles 實作 registry.Observer。
func (m *Metrics) ObserveVehicles(n int) {
	m.Vehicles.Set(float64(n))
}

// ObserveRequest 記錄一次 HTTP 請求的耗時。
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler 回傳 /metrics 端點。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Gatherer 供測試直接讀取指標。
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}
