package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// inventoryLedger — in-memory реализация InventoryLedger, единственный
// источник истины по остаткам. Все мутации проходят под одной write-lock
// на экземпляр магазина; листинги разделяют read-lock между собой.
type inventoryLedger struct {
	mu        sync.RWMutex
	products  map[int64]*domain.Product
	customers map[int64]*domain.Customer
	orders    map[int64]domain.Order
	// orderSeq — счётчик идентификаторов заказов данного экземпляра.
	// Сдвигается только при фактическом создании заказа; сбрасывается
	// конструктором, глобального состояния нет.
	orderSeq int64
}

// NewLedger возвращает пустой реестр товаров и покупателей.
func NewLedger() domain.InventoryLedger {
	return &inventoryLedger{
		products:  make(map[int64]*domain.Product),
		customers: make(map[int64]*domain.Customer),
		orders:    make(map[int64]domain.Order),
	}
}

// AddProduct регистрирует товар, если идентификатор ещё не занят.
func (l *inventoryLedger) AddProduct(p *domain.Product) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.products[p.ID]; exists {
		return fmt.Errorf("%w: product %d", domain.ErrDuplicateProduct, p.ID)
	}
	// Сохраняем копию, чтобы избежать мутаций извне.
	clone := *p
	l.products[p.ID] = &clone
	return nil
}

// AddCustomer регистрирует покупателя, если идентификатор ещё не занят.
func (l *inventoryLedger) AddCustomer(c *domain.Customer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.customers[c.ID]; exists {
		return fmt.Errorf("%w: customer %d", domain.ErrDuplicateCustomer, c.ID)
	}
	l.customers[c.ID] = domain.NewCustomer(c.ID, c.Name)
	return nil
}

// Restock увеличивает остаток товара.
func (l *inventoryLedger) Restock(productID, qty int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %d", domain.ErrUnknownProduct, productID)
	}
	return p.Restock(qty)
}

// Place проводит транзакцию размещения заказа целиком под write-lock:
// проверка покупателя, построчное списание, сборка неизменяемого заказа,
// запись в журнал и историю покупателя. Позиции обрабатываются в порядке
// возрастания идентификатора товара, чтобы результат был детерминирован.
func (l *inventoryLedger) Place(customerID int64, quantities map[int64]int64, now time.Time) (domain.PlacementResult, error) {
	// Неположительное количество — ошибка вызывающего кода; падаем до
	// каких-либо изменений состояния.
	for productID, qty := range quantities {
		if qty <= 0 {
			return domain.PlacementResult{}, fmt.Errorf("%w: product %d qty %d", domain.ErrQuantityInvalid, productID, qty)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	customer, ok := l.customers[customerID]
	if !ok {
		return domain.PlacementResult{}, fmt.Errorf("%w: customer %d", domain.ErrUnknownCustomer, customerID)
	}

	productIDs := make([]int64, 0, len(quantities))
	for productID := range quantities {
		productIDs = append(productIDs, productID)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	lines := make([]domain.LineResult, 0, len(productIDs))
	accepted := make([]domain.OrderLine, 0, len(productIDs))
	for _, productID := range productIDs {
		qty := quantities[productID]

		p, ok := l.products[productID]
		if !ok {
			lines = append(lines, domain.LineResult{
				ProductID: productID,
				Status:    domain.LineStatusUnknownProduct,
				Requested: qty,
			})
			continue
		}

		if err := p.Purchase(qty); err != nil {
			lines = append(lines, domain.LineResult{
				ProductID: productID,
				Status:    domain.LineStatusInsufficientStock,
				Requested: qty,
				Available: p.Stock,
			})
			continue
		}

		accepted = append(accepted, domain.OrderLine{
			ProductID:  productID,
			Name:       p.Name,
			Qty:        qty,
			PriceMinor: p.PriceMinor,
		})
		lines = append(lines, domain.LineResult{
			ProductID: productID,
			Status:    domain.LineStatusAccepted,
			Requested: qty,
		})
	}

	// Все позиции отказали: заказа нет, счётчик не сдвигаем.
	if len(accepted) == 0 {
		return domain.PlacementResult{Lines: lines}, nil
	}

	l.orderSeq++
	order := domain.Order{
		ID:         l.orderSeq,
		CustomerID: customerID,
		Lines:      accepted,
		CreatedAt:  now,
	}
	l.orders[order.ID] = order
	customer.PlaceOrder(order)

	return domain.PlacementResult{Order: &order, Lines: lines}, nil
}

// Products возвращает копии товаров, отсортированные по идентификатору.
func (l *inventoryLedger) Products() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.Product, 0, len(l.products))
	for _, p := range l.products {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Customers возвращает снимки покупателей, отсортированные по идентификатору.
func (l *inventoryLedger) Customers() []domain.CustomerSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.CustomerSummary, 0, len(l.customers))
	for _, c := range l.customers {
		result = append(result, c.Summary())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Orders возвращает журнал заказов, отсортированный по идентификатору.
func (l *inventoryLedger) Orders() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.Order, 0, len(l.orders))
	for _, order := range l.orders {
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// CategoryOverlap возвращает пересечение идентификаторов товаров двух категорий.
// Чистый запрос; для непересекающихся категорий результат пуст.
func (l *inventoryLedger) CategoryOverlap(a, b domain.Category) []int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	inA := make(map[int64]struct{})
	for id, p := range l.products {
		if p.Category == a {
			inA[id] = struct{}{}
		}
	}

	overlap := make([]int64, 0)
	for id, p := range l.products {
		if p.Category != b {
			continue
		}
		if _, ok := inA[id]; ok {
			overlap = append(overlap, id)
		}
	}
	sort.Slice(overlap, func(i, j int) bool { return overlap[i] < overlap[j] })
	return overlap
}

// ProductRecords выгружает товары для снапшота в порядке идентификаторов.
func (l *inventoryLedger) ProductRecords() []domain.ProductRecord {
	products := l.Products()
	records := make([]domain.ProductRecord, 0, len(products))
	for i := range products {
		records = append(records, products[i].Record())
	}
	return records
}

// CustomerRecords выгружает покупателей для снапшота в порядке идентификаторов.
func (l *inventoryLedger) CustomerRecords() []domain.CustomerRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := make([]domain.CustomerRecord, 0, len(l.customers))
	for _, c := range l.customers {
		records = append(records, c.Record())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// ImportProducts загружает записи снапшота; запись с существующим
// идентификатором замещает текущую. Испорченная запись или дубль внутри
// батча прерывают импорт до каких-либо изменений состояния.
func (l *inventoryLedger) ImportProducts(recs []domain.ProductRecord) error {
	restored := make([]*domain.Product, 0, len(recs))
	seen := make(map[int64]struct{}, len(recs))
	for _, rec := range recs {
		p, err := domain.ProductFromRecord(rec)
		if err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate product %d in batch", domain.ErrMalformedRecord, p.ID)
		}
		seen[p.ID] = struct{}{}
		restored = append(restored, p)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range restored {
		l.products[p.ID] = p
	}
	return nil
}

// ImportCustomers загружает записи снапшота покупателей. Замещённый
// покупатель начинает с пустой истории: снапшот историю не переносит.
func (l *inventoryLedger) ImportCustomers(recs []domain.CustomerRecord) error {
	restored := make([]*domain.Customer, 0, len(recs))
	seen := make(map[int64]struct{}, len(recs))
	for _, rec := range recs {
		c, err := domain.CustomerFromRecord(rec)
		if err != nil {
			return err
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate customer %d in batch", domain.ErrMalformedRecord, c.ID)
		}
		seen[c.ID] = struct{}{}
		restored = append(restored, c)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range restored {
		l.customers[c.ID] = c
	}
	return nil
}

var _ domain.InventoryLedger = (*inventoryLedger)(nil)
