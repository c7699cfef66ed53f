package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// StoreMetrics содержит метрики размещения заказов.
type StoreMetrics struct {
	// Счётчики размещений
	ordersPlaced    prometheus.Counter
	placementsEmpty prometheus.Counter

	// Построчные исходы
	linesAccepted prometheus.Counter
	linesRejected *prometheus.CounterVec

	// Продажи и события
	unitsSold   prometheus.Counter
	orderEvents prometheus.Counter

	// Гистограмма времени транзакции размещения
	placementDuration prometheus.Histogram
}

// NewStoreMetrics создаёт метрики магазина в регистраторе по умолчанию.
func NewStoreMetrics() *StoreMetrics {
	return newStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders created, including partially fulfilled ones",
		}),
		placementsEmpty: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_placements_empty_total",
			Help: "Total number of placement calls where every requested line failed",
		}),
		linesAccepted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_lines_accepted_total",
			Help: "Total number of order lines deducted from stock",
		}),
		linesRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_lines_rejected_total",
			Help: "Total number of rejected order lines grouped by reason",
		}, []string{"reason"}),
		unitsSold: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_units_sold_total",
			Help: "Total units deducted from stock by successful purchases",
		}),
		orderEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_order_events_total",
			Help: "Total number of order events enqueued to the outbox",
		}),
		placementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_placement_duration_seconds",
			Help:    "Duration of order placement transactions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordPlacement фиксирует итог транзакции размещения.
func (m *StoreMetrics) RecordPlacement(result domain.PlacementResult) {
	if result.Placed() {
		m.ordersPlaced.Inc()
		for _, line := range result.Order.Lines {
			m.unitsSold.Add(float64(line.Qty))
		}
	} else {
		m.placementsEmpty.Inc()
	}

	for _, line := range result.Lines {
		if line.Status == domain.LineStatusAccepted {
			m.linesAccepted.Inc()
			continue
		}
		m.linesRejected.WithLabelValues(string(line.Status)).Inc()
	}
}

// RecordPlacementDuration записывает время транзакции размещения.
func (m *StoreMetrics) RecordPlacementDuration(duration time.Duration) {
	m.placementDuration.Observe(duration.Seconds())
}

// RecordOrderEvent увеличивает счётчик событий, поставленных в outbox.
func (m *StoreMetrics) RecordOrderEvent() {
	m.orderEvents.Inc()
}
