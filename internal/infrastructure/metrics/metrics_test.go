package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ventas/internal/infrastructure/metrics"
)

// counterValue suma el contador name filtrando por una etiqueta.
func counterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestSalesObserver_CuentaEventos(t *testing.T) {
	obs := metrics.SalesObserver{}
	beforeStale := counterValue(t, "sales_stale_responses_total", "kind", "stock")
	beforeOK := counterValue(t, "sales_submissions_total", "outcome", "submitted")

	obs.StaleResponse("stock")
	obs.StaleResponse("stock")
	obs.SubmitOutcome("submitted")

	assert.Equal(t, beforeStale+2, counterValue(t, "sales_stale_responses_total", "kind", "stock"))
	assert.Equal(t, beforeOK+1, counterValue(t, "sales_submissions_total", "outcome", "submitted"))
}

func TestObserveHTTP_CuentaPorRutaYEstado(t *testing.T) {
	before := counterValue(t, "http_requests_total", "path", "/api/test-metricas")

	metrics.ObserveHTTP("GET", "/api/test-metricas", 200, 15*time.Millisecond)

	assert.Equal(t, before+1, counterValue(t, "http_requests_total", "path", "/api/test-metricas"))
}
