// Package checkout проводит транзакцию размещения заказа поверх журнала
// остатков: логирование, метрики и постановка события в transactional outbox.
package checkout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service оборачивает InventoryLedger.Place сквозными заботами.
// Сама транзакция атомарна внутри журнала; сервис только наблюдает итог.
type Service struct {
	ledger  domain.InventoryLedger
	outbox  domain.OutboxRepository
	logger  *log.Entry
	metrics *metrics.StoreMetrics
	now     func() time.Time
}

// NewService создаёт рабочий экземпляр сервиса размещения.
// outbox может быть nil: тогда события не публикуются.
func NewService(ledger domain.InventoryLedger, outbox domain.OutboxRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Service{
		ledger:  ledger,
		outbox:  outbox,
		logger:  logger,
		metrics: metrics.NewStoreMetrics(),
		now:     time.Now,
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(ledger domain.InventoryLedger, outbox domain.OutboxRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Service{
		ledger: ledger,
		outbox: outbox,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PlaceOrder проводит транзакцию размещения заказа и публикует итоговое
// событие через outbox. Частичное исполнение — штатный исход, ошибка
// возвращается только при неизвестном покупателе или некорректном запросе.
func (s *Service) PlaceOrder(customerID int64, quantities map[int64]int64) (domain.PlacementResult, error) {
	start := time.Now()

	result, err := s.ledger.Place(customerID, quantities, s.now().UTC())
	if s.metrics != nil {
		s.metrics.RecordPlacementDuration(time.Since(start))
	}
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Warn("order placement rejected")
		return domain.PlacementResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordPlacement(result)
	}

	entry := s.logger.WithFields(log.Fields{
		"customer_id":    customerID,
		"lines_total":    len(result.Lines),
		"lines_rejected": len(result.Rejected()),
	})
	if result.Placed() {
		entry.WithFields(log.Fields{
			"order_id":    result.Order.ID,
			"total_minor": result.Order.TotalMinor(),
		}).Info("order placed")
	} else {
		entry.Info("order not placed: no line could be fulfilled")
	}

	s.enqueuePlacementEvent(customerID, result)

	return result, nil
}

// Restock увеличивает остаток товара и публикует событие пополнения.
func (s *Service) Restock(productID, qty int64) error {
	if err := s.ledger.Restock(productID, qty); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("restock rejected")
		return err
	}

	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"quantity":   qty,
	}).Info("product restocked")

	s.enqueueEvent("product", strconv.FormatInt(productID, 10), kafka.OrderEvent{
		EventType: kafka.EventTypeProductRestocked,
		Lines: []kafka.OrderLinePayload{
			{ProductID: productID, Qty: qty},
		},
		Timestamp: s.now().UTC(),
	})

	return nil
}

func (s *Service) enqueuePlacementEvent(customerID int64, result domain.PlacementResult) {
	event := kafka.OrderEvent{
		CustomerID: customerID,
		Timestamp:  s.now().UTC(),
	}
	for _, line := range result.Rejected() {
		event.Failures = append(event.Failures, kafka.LineFailurePayload{
			ProductID: line.ProductID,
			Reason:    string(line.Status),
			Requested: line.Requested,
			Available: line.Available,
		})
	}

	aggregateID := strconv.FormatInt(customerID, 10)
	if result.Placed() {
		event.EventType = kafka.EventTypeOrderPlaced
		event.OrderID = result.Order.ID
		event.TotalMinor = result.Order.TotalMinor()
		event.Timestamp = result.Order.CreatedAt
		for _, line := range result.Order.Lines {
			event.Lines = append(event.Lines, kafka.OrderLinePayload{
				ProductID:  line.ProductID,
				Qty:        line.Qty,
				PriceMinor: line.PriceMinor,
			})
		}
		aggregateID = strconv.FormatInt(result.Order.ID, 10)
	} else {
		event.EventType = kafka.EventTypeOrderRejected
	}

	s.enqueueEvent("order", aggregateID, event)
}

// enqueueEvent ставит событие в outbox. Отказ outbox не откатывает уже
// проведённую транзакцию, он только логируется.
func (s *Service) enqueueEvent(aggregateType, aggregateID string, event kafka.OrderEvent) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Error("marshal outbox event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     string(event.EventType),
		Payload:       payload,
	}); err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrOutboxPublish, err)
		s.logger.WithError(err).WithField("event_type", event.EventType).Error("enqueue outbox event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOrderEvent()
	}
}
