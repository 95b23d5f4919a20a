// Package metrics métricas Prometheus del BFF: HTTP entrante, llamadas al backend y
// eventos de la terminal de ventas.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de las peticiones HTTP al BFF",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Peticiones HTTP atendidas por el BFF",
	}, []string{"method", "path", "status"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Latencia de las llamadas al backend de inventario",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	StaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_stale_responses_total",
		Help: "Respuestas del backend descartadas porque la selección ya había cambiado",
	}, []string{"kind"})

	SaleSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_submissions_total",
		Help: "Intentos de envío de venta por resultado",
	}, []string{"outcome"})
)

// ObserveHTTP registra una petición entrante.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, path, s).Inc()
}

// ObserveBackend registra una llamada al backend. status 0 = sin respuesta (red o timeout).
func ObserveBackend(operation string, status int, d time.Duration) {
	s := "error"
	if status > 0 {
		s = strconv.Itoa(status)
	}
	BackendRequestDuration.WithLabelValues(operation, s).Observe(d.Seconds())
}

// SalesObserver publica los eventos de la terminal de ventas como contadores.
type SalesObserver struct{}

// StaleResponse cuenta una respuesta tardía descartada.
func (SalesObserver) StaleResponse(kind string) {
	StaleResponsesTotal.WithLabelValues(kind).Inc()
}

// SubmitOutcome cuenta un intento de envío.
func (SalesObserver) SubmitOutcome(outcome string) {
	SaleSubmissionsTotal.WithLabelValues(outcome).Inc()
}
