// Package store собирает витрину магазина в один фасад: регистрация
// товаров и покупателей, размещение заказов, отчётные выборки и
// снапшоты состояния.
package store

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

// Service — фасад магазина поверх журнала остатков и сервиса размещения.
// Снапшоты опциональны: без репозитория SaveSnapshot/LoadSnapshot
// возвращают ошибку конфигурации.
type Service struct {
	ledger    domain.InventoryLedger
	checkout  *checkout.Service
	snapshots domain.SnapshotRepository
	logger    *log.Entry
}

// NewService создаёт фасад магазина.
func NewService(ledger domain.InventoryLedger, co *checkout.Service, snapshots domain.SnapshotRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "store")
	}
	return &Service{
		ledger:    ledger,
		checkout:  co,
		snapshots: snapshots,
		logger:    logger,
	}
}

// AddProduct регистрирует товар. Повторная регистрация занятого
// идентификатора — штатное уведомление: состояние не меняется,
// вызывающему возвращается ErrDuplicateProduct.
func (s *Service) AddProduct(p *domain.Product) error {
	if err := s.ledger.AddProduct(p); err != nil {
		if errors.Is(err, domain.ErrDuplicateProduct) {
			s.logger.WithField("product_id", p.ID).Warn("product already registered, skipping")
		}
		return err
	}

	s.logger.WithFields(log.Fields{
		"product_id": p.ID,
		"category":   p.Category,
	}).Info("product registered")
	return nil
}

// AddCustomer регистрирует покупателя; повтор — уведомление и no-op.
func (s *Service) AddCustomer(c *domain.Customer) error {
	if err := s.ledger.AddCustomer(c); err != nil {
		if errors.Is(err, domain.ErrDuplicateCustomer) {
			s.logger.WithField("customer_id", c.ID).Warn("customer already registered, skipping")
		}
		return err
	}

	s.logger.WithField("customer_id", c.ID).Info("customer registered")
	return nil
}

// PlaceOrder проводит транзакцию размещения через сервис размещения.
func (s *Service) PlaceOrder(customerID int64, quantities map[int64]int64) (domain.PlacementResult, error) {
	return s.checkout.PlaceOrder(customerID, quantities)
}

// Restock пополняет остаток товара.
func (s *Service) Restock(productID, qty int64) error {
	return s.checkout.Restock(productID, qty)
}

// ListProducts возвращает каталог, отсортированный по идентификатору.
func (s *Service) ListProducts() []domain.Product {
	return s.ledger.Products()
}

// ListOrders возвращает журнал заказов.
func (s *Service) ListOrders() []domain.Order {
	return s.ledger.Orders()
}

// ListCustomers возвращает реестр покупателей с историями заказов.
func (s *Service) ListCustomers() []domain.CustomerSummary {
	return s.ledger.Customers()
}

// CategoryOverlap возвращает пересечение идентификаторов товаров двух категорий.
func (s *Service) CategoryOverlap(a, b domain.Category) []int64 {
	return s.ledger.CategoryOverlap(a, b)
}

// SaveSnapshot выгружает каталог и реестр в репозиторий снапшотов.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("snapshot repository is not configured")
	}

	products := s.ledger.ProductRecords()
	customers := s.ledger.CustomerRecords()

	if err := s.snapshots.SaveProducts(ctx, products); err != nil {
		return fmt.Errorf("save products snapshot: %w", err)
	}
	if err := s.snapshots.SaveCustomers(ctx, customers); err != nil {
		return fmt.Errorf("save customers snapshot: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"products":  len(products),
		"customers": len(customers),
	}).Info("snapshot saved")
	return nil
}

// LoadSnapshot загружает снапшот и вливает его в журнал: запись с
// существующим идентификатором замещает текущую, остальные добавляются.
func (s *Service) LoadSnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return fmt.Errorf("snapshot repository is not configured")
	}

	products, err := s.snapshots.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products snapshot: %w", err)
	}
	customers, err := s.snapshots.LoadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("load customers snapshot: %w", err)
	}

	if err := s.ledger.ImportProducts(products); err != nil {
		return fmt.Errorf("import products snapshot: %w", err)
	}
	if err := s.ledger.ImportCustomers(customers); err != nil {
		return fmt.Errorf("import customers snapshot: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"products":  len(products),
		"customers": len(customers),
	}).Info("snapshot loaded")
	return nil
}

// SeedDemo наполняет пустой магазин демонстрационным каталогом и
// двумя покупателями. Повторный вызов безвреден: дубликаты пропускаются.
func (s *Service) SeedDemo() {
	products := []*domain.Product{
		domain.NewElectronics(101, "Laptop", 99999, 50, 24),
		domain.NewElectronics(102, "Smartphone", 59999, 30, 12),
		domain.NewKitchen(201, "Blender", 9999, 30, "A++"),
		domain.NewKitchen(202, "Toaster", 4999, 40, "A+"),
	}
	for _, p := range products {
		if err := s.AddProduct(p); err != nil && !errors.Is(err, domain.ErrDuplicateProduct) {
			s.logger.WithError(err).WithField("product_id", p.ID).Error("seed product")
		}
	}

	customers := []*domain.Customer{
		domain.NewCustomer(1, "Alice"),
		domain.NewCustomer(2, "Bob"),
	}
	for _, c := range customers {
		if err := s.AddCustomer(c); err != nil && !errors.Is(err, domain.ErrDuplicateCustomer) {
			s.logger.WithError(err).WithField("customer_id", c.ID).Error("seed customer")
		}
	}
}
