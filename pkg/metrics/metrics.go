package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"booth-service/pkg/profiling"

	"github.com/labstack/echo/v4"
)

// Metrics holds request counters for one server. Safe for concurrent use.
type Metrics struct {
	totalRequests  atomic.Int64
	activeRequests atomic.Int64
	totalErrors    atomic.Int64
	totalLatencyMs atomic.Int64
	maxLatencyMs   atomic.Int64

	mu                sync.Mutex
	startTime         time.Time
	endpointCounts    map[string]int64
	endpointLatencies map[string]int64
	statusCodes       map[int]int64
	now               func() time.Time
}

func New() *Metrics {
	m := &Metrics{now: time.Now}
	m.Reset()
	return m
}

// Middleware tracks request count, latency, in-flight requests and error
// rate. Endpoints are keyed by route pattern so tokens in paths never
// become map keys.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Add(1)
			defer m.activeRequests.Add(-1)
			start := m.now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latencyMs := m.now().Sub(start).Milliseconds()
			m.totalRequests.Add(1)
			m.totalLatencyMs.Add(latencyMs)
			for {
				current := m.maxLatencyMs.Load()
				if latencyMs <= current || m.maxLatencyMs.CompareAndSwap(current, latencyMs) {
					break
				}
			}

			status := c.Response().Status
			endpoint := c.Request().Method + " " + routeOf(c)

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.endpointLatencies[endpoint] += latencyMs
			m.statusCodes[status]++
			m.mu.Unlock()
			if status >= http.StatusBadRequest {
				m.totalErrors.Add(1)
			}
			return nil
		}
	}
}

func routeOf(c echo.Context) string {
	if path := c.Path(); path != "" {
		return path
	}
	return "unmatched"
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	TotalRequests  int64                 `json:"total_requests"`
	ActiveRequests int64                 `json:"active_requests"`
	TotalErrors    int64                 `json:"total_errors"`
	ErrorRate      float64               `json:"error_rate_pct"`
	AvgLatencyMs   float64               `json:"avg_latency_ms"`
	MaxLatencyMs   int64                 `json:"max_latency_ms"`
	RequestsPerSec float64               `json:"requests_per_sec"`
	UptimeSeconds  float64               `json:"uptime_seconds"`
	EndpointCounts map[string]int64      `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64      `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64         `json:"status_codes"`
	Memory         profiling.MemoryStats `json:"memory"`
}

func (m *Metrics) Snapshot() Snapshot {
	total := m.totalRequests.Load()
	errs := m.totalErrors.Load()

	m.mu.Lock()
	uptime := m.now().Sub(m.startTime).Seconds()
	counts := make(map[string]int64, len(m.endpointCounts))
	avg := make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		counts[k] = v
		if v > 0 {
			avg[k] = m.endpointLatencies[k] / v
		}
	}
	codes := make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		codes[k] = v
	}
	m.mu.Unlock()

	s := Snapshot{
		TotalRequests:  total,
		ActiveRequests: m.activeRequests.Load(),
		TotalErrors:    errs,
		MaxLatencyMs:   m.maxLatencyMs.Load(),
		UptimeSeconds:  uptime,
		EndpointCounts: counts,
		EndpointAvgMs:  avg,
		StatusCodes:    codes,
		Memory:         profiling.GetMemoryStats(),
	}
	if total > 0 {
		s.AvgLatencyMs = float64(m.totalLatencyMs.Load()) / float64(total)
		s.ErrorRate = float64(errs) / float64(total) * 100
	}
	if uptime > 0 {
		s.RequestsPerSec = float64(total) / uptime
	}
	return s
}

func (m *Metrics) Reset() {
	m.totalRequests.Store(0)
	m.totalErrors.Store(0)
	m.totalLatencyMs.Store(0)
	m.maxLatencyMs.Store(0)

	m.mu.Lock()
	m.startTime = m.now()
	m.endpointCounts = make(map[string]int64)
	m.endpointLatencies = make(map[string]int64)
	m.statusCodes = make(map[int]int64)
	m.mu.Unlock()
}

func (m *Metrics) Handler(c echo.Context) error {
	return c.JSON(http.StatusOK, m.Snapshot())
}

func (m *Metrics) ResetHandler(c echo.Context) error {
	m.Reset()
	return c.JSON(http.StatusOK, map[string]string{"status": "metrics_reset"})
}
