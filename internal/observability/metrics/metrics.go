package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_http_requests_total",
		Help: "Total de peticiones HTTP",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "retail_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	salesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_sales_committed_total",
		Help: "Ventas confirmadas",
	})

	salesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_sales_rejected_total",
		Help: "Ventas rechazadas por motivo",
	}, []string{"reason"})

	saleCommitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "retail_sale_commit_duration_seconds",
		Help:    "Duración de la transacción de venta",
		Buckets: prometheus.DefBuckets,
	})

	inventoryMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_inventory_movements_total",
		Help: "Movimientos de inventario registrados por tipo",
	}, []string{"type"})

	checkoutLockRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "retail_checkout_lock_rejected_total",
		Help: "Checkouts rechazados porque ya había uno en curso para el usuario",
	})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_events_dropped_total",
		Help: "Eventos descartados por el publicador",
	}, []string{"topic"})
)

// ObserveHTTPRequest registra una petición HTTP.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSaleCommitted registra una venta confirmada y la duración de su transacción.
func ObserveSaleCommitted(duration time.Duration) {
	salesCommitted.Inc()
	saleCommitDuration.Observe(duration.Seconds())
}

// ObserveSaleRejected registra una venta rechazada (tenant_mismatch, insufficient_stock, ...).
func ObserveSaleRejected(reason string) {
	salesRejected.WithLabelValues(reason).Inc()
}

// ObserveMovement registra un movimiento de inventario confirmado.
func ObserveMovement(movementType string) {
	inventoryMovements.WithLabelValues(movementType).Inc()
}

func ObserveCheckoutLockRejected() {
	checkoutLockRejected.Inc()
}

func ObserveEventDropped(topic string) {
	eventsDropped.WithLabelValues(topic).Inc()
}
