// Package loadgen гоняет по витрине случайные заказы и собирает сводку
// по исходам. Используется demo-утилитой и нагрузочными прогонами.
package loadgen

import (
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/service/store"
)

const (
	defaultRounds    = 10
	defaultInclusion = 0.7
	defaultMaxQty    = 3
)

// Report — сводка одного прогона генератора.
type Report struct {
	Rounds          int64            `json:"rounds"`
	OrdersPlaced    int64            `json:"orders_placed"`
	PartialOrders   int64            `json:"partial_orders"`
	RejectedOrders  int64            `json:"rejected_orders"`
	EmptySelections int64            `json:"empty_selections"`
	Failures        map[string]int64 `json:"failures"`
	UnitsRequested  int64            `json:"units_requested"`
	UnitsSold       int64            `json:"units_sold"`
}

// Option настраивает генератор.
type Option func(*Generator)

// WithRounds задаёт число раундов прогона.
func WithRounds(rounds int) Option {
	return func(g *Generator) {
		if rounds > 0 {
			g.rounds = rounds
		}
	}
}

// WithInclusionProbability задаёт вероятность попадания товара в заказ.
func WithInclusionProbability(p float64) Option {
	return func(g *Generator) {
		if p > 0 && p <= 1 {
			g.inclusion = p
		}
	}
}

// WithMaxQuantity задаёт верхнюю границу количества на позицию.
func WithMaxQuantity(maxQty int64) Option {
	return func(g *Generator) {
		if maxQty > 0 {
			g.maxQty = maxQty
		}
	}
}

// WithRandSource подменяет источник случайности. Фиксированный seed
// делает прогон детерминированным.
func WithRandSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

// WithLogger задаёт логгер генератора.
func WithLogger(logger *log.Entry) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator размещает случайные заказы: каждый товар каталога попадает
// в выборку с заданной вероятностью, количество — от 1 до maxQty,
// покупатель выбирается случайно из реестра.
type Generator struct {
	store     *store.Service
	rounds    int
	inclusion float64
	maxQty    int64
	rng       *rand.Rand
	logger    *log.Entry
}

// NewGenerator создаёт генератор с настройками по умолчанию.
func NewGenerator(svc *store.Service, opts ...Option) *Generator {
	g := &Generator{
		store:     svc,
		rounds:    defaultRounds,
		inclusion: defaultInclusion,
		maxQty:    defaultMaxQty,
		rng:       rand.New(rand.NewSource(rand.Int63())),
		logger:    log.New().WithField("component", "loadgen"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run выполняет прогон и возвращает сводку. Пустая выборка товаров в
// раунде — штатный исход, заказ не размещается.
func (g *Generator) Run() Report {
	report := Report{Failures: make(map[string]int64)}

	customers := g.store.ListCustomers()
	if len(customers) == 0 {
		g.logger.Warn("no customers registered, nothing to generate")
		return report
	}

	for round := 0; round < g.rounds; round++ {
		report.Rounds++

		quantities := g.sampleQuantities()
		if len(quantities) == 0 {
			report.EmptySelections++
			continue
		}
		for _, qty := range quantities {
			report.UnitsRequested += qty
		}

		customer := customers[g.rng.Intn(len(customers))]
		result, err := g.store.PlaceOrder(customer.ID, quantities)
		if err != nil {
			report.Failures["error"]++
			g.logger.WithError(err).WithField("customer_id", customer.ID).Warn("generated order failed")
			continue
		}

		rejected := result.Rejected()
		for _, line := range rejected {
			report.Failures[string(line.Status)]++
		}

		switch {
		case !result.Placed():
			report.RejectedOrders++
		case len(rejected) > 0:
			report.OrdersPlaced++
			report.PartialOrders++
		default:
			report.OrdersPlaced++
		}

		if result.Placed() {
			for _, line := range result.Order.Lines {
				report.UnitsSold += line.Qty
			}
		}
	}

	g.logger.WithFields(log.Fields{
		"rounds":        report.Rounds,
		"orders_placed": report.OrdersPlaced,
		"rejected":      report.RejectedOrders,
		"units_sold":    report.UnitsSold,
	}).Info("load generation finished")

	return report
}

func (g *Generator) sampleQuantities() map[int64]int64 {
	quantities := make(map[int64]int64)
	for _, p := range g.store.ListProducts() {
		if g.rng.Float64() >= g.inclusion {
			continue
		}
		quantities[p.ID] = 1 + g.rng.Int63n(g.maxQty)
	}
	return quantities
}
