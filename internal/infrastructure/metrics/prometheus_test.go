package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drb-alger/gestion-magasin/internal/infrastructure/metrics"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.MovementCommitted("SORTIE", 3)
	c.MovementCommitted("SORTIE", 5)
	c.MovementCommitted("ENTREE", 10)
	c.MovementRejected("SORTIE", "insufficient_stock")
	c.MovementRejected("", "validation")
	c.LowStockObserved(4)
	c.ObserveRequest("GET", "/api/products", 200, 15*time.Millisecond)

	expected := `
# HELP magasin_movements_committed_total Movimientos confirmados por tipo
# TYPE magasin_movements_committed_total counter
magasin_movements_committed_total{type="ENTREE"} 1
magasin_movements_committed_total{type="SORTIE"} 2
# HELP magasin_quantity_moved_total Unidades movidas por tipo de movimiento
# TYPE magasin_quantity_moved_total counter
magasin_quantity_moved_total{type="ENTREE"} 10
magasin_quantity_moved_total{type="SORTIE"} 8
# HELP magasin_movements_rejected_total Movimientos rechazados por tipo y motivo
# TYPE magasin_movements_rejected_total counter
magasin_movements_rejected_total{reason="insufficient_stock",type="SORTIE"} 1
magasin_movements_rejected_total{reason="validation",type="unknown"} 1
# HELP magasin_low_stock_products Productos en stock bajo en el último conteo
# TYPE magasin_low_stock_products gauge
magasin_low_stock_products 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"magasin_movements_committed_total",
		"magasin_quantity_moved_total",
		"magasin_movements_rejected_total",
		"magasin_low_stock_products",
	))

	n, err := testutil.GatherAndCount(reg, "magasin_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
