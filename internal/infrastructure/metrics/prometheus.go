// Package metrics expone contadores Prometheus del motor de movimientos y de la API HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
)

// Collector agrupa las métricas de la aplicación.
type Collector struct {
	movementsCommitted *prometheus.CounterVec
	quantityMoved      *prometheus.CounterVec
	movementsRejected  *prometheus.CounterVec
	lowStockProducts   prometheus.Gauge
	requestCounter     *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
}

var _ inventory.Metrics = (*Collector)(nil)

// New crea y registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		movementsCommitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magasin_movements_committed_total",
				Help: "Movimientos confirmados por tipo",
			},
			[]string{"type"},
		),
		quantityMoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magasin_quantity_moved_total",
				Help: "Unidades movidas por tipo de movimiento",
			},
			[]string{"type"},
		),
		movementsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magasin_movements_rejected_total",
				Help: "Movimientos rechazados por tipo y motivo",
			},
			[]string{"type", "reason"},
		),
		lowStockProducts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "magasin_low_stock_products",
				Help: "Productos en stock bajo en el último conteo",
			},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "magasin_http_requests_total",
				Help: "Peticiones HTTP por método, ruta y estado",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "magasin_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(
		c.movementsCommitted,
		c.quantityMoved,
		c.movementsRejected,
		c.lowStockProducts,
		c.requestCounter,
		c.requestLatency,
	)
	return c
}

// MovementCommitted cuenta un movimiento confirmado y sus unidades.
func (c *Collector) MovementCommitted(movementType string, quantity int64) {
	c.movementsCommitted.WithLabelValues(movementType).Inc()
	c.quantityMoved.WithLabelValues(movementType).Add(float64(quantity))
}

// MovementRejected cuenta un movimiento rechazado.
func (c *Collector) MovementRejected(movementType, reason string) {
	if movementType == "" {
		movementType = "unknown"
	}
	c.movementsRejected.WithLabelValues(movementType, reason).Inc()
}

// LowStockObserved fija el gauge con el último conteo de stock bajo.
func (c *Collector) LowStockObserved(count int) {
	c.lowStockProducts.Set(float64(count))
}

// ObserveRequest registra una petición HTTP atendida.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
