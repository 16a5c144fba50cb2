// Package metrics expone contadores Prometheus del taller alimentados por el bus de eventos.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/Taller-api/internal/application/events"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Collector agrupa las métricas. Se registra en el Registerer recibido (prometheus.DefaultRegisterer en main).
type Collector struct {
	EventsTotal       *prometheus.CounterVec
	TransitionsTotal  *prometheus.CounterVec
	CycleHours        prometheus.Histogram
	PausesActive      prometheus.Gauge
	MovementsTotal    *prometheus.CounterVec
	QuantityMoved     *prometheus.CounterVec
	LowStockTotal     prometheus.Counter
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// NewCollector crea y registra las métricas.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		EventsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_events_total",
				Help: "Eventos de dominio publicados",
			},
			[]string{"event"},
		),
		TransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_order_transitions_total",
				Help: "Transiciones de estado de OT confirmadas",
			},
			[]string{"from", "to"},
		),
		CycleHours: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taller_order_cycle_hours",
				Help:    "Horas entre ingreso y cierre de las OTs cerradas",
				Buckets: []float64{1, 4, 8, 24, 48, 72, 120, 240},
			},
		),
		PausesActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "taller_pauses_active",
				Help: "Pausas abiertas desde el arranque del proceso",
			},
		),
		MovementsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_stock_movements_total",
				Help: "Movimientos de stock aplicados",
			},
			[]string{"kind"},
		),
		QuantityMoved: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_stock_quantity_moved_total",
				Help: "Cantidad absoluta movida en el libro de stock",
			},
			[]string{"kind", "unit"},
		),
		LowStockTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "taller_low_stock_alerts_total",
				Help: "Alertas de stock bajo emitidas",
			},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_http_requests_total",
				Help: "Peticiones HTTP atendidas",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taller_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Handle suscriptor del bus de eventos. Nunca falla.
func (c *Collector) Handle(_ context.Context, evt events.Event) error {
	c.EventsTotal.WithLabelValues(evt.Name()).Inc()

	switch e := evt.(type) {
	case events.OrderStateChanged:
		c.TransitionsTotal.WithLabelValues(string(e.PreviousState), string(e.NewState)).Inc()
		if e.NewState == entity.StateCerrado && e.Order.ClosedAt != nil {
			c.CycleHours.Observe(e.Order.ClosedAt.Sub(e.Order.CreatedAt).Hours())
		}
	case events.PauseStarted:
		c.PausesActive.Inc()
	case events.PauseEnded:
		c.PausesActive.Dec()
	case events.MovementApplied:
		kind := string(e.Movement.Kind)
		c.MovementsTotal.WithLabelValues(kind).Inc()
		c.QuantityMoved.WithLabelValues(kind, e.Part.Unit).Add(e.Movement.Quantity.Abs().InexactFloat64())
	case events.LowStockReached:
		c.LowStockTotal.Inc()
	}
	return nil
}

// ObserveHTTP registra una petición ya respondida.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
