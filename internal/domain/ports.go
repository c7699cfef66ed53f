package domain

import (
	"context"
	"time"
)

// InventoryLedger владеет коллекциями товаров и покупателей и является
// единственным источником истины по остаткам. Все мутации сериализуются
// внутри реализации; Place выполняет транзакцию размещения целиком
// под одной блокировкой.
type InventoryLedger interface {
	// AddProduct регистрирует товар; занятый идентификатор — ErrDuplicateProduct.
	AddProduct(p *Product) error
	// AddCustomer регистрирует покупателя; занятый идентификатор — ErrDuplicateCustomer.
	AddCustomer(c *Customer) error
	// Restock увеличивает остаток товара.
	Restock(productID, qty int64) error
	// Place атомарно проводит транзакцию размещения заказа:
	// проверка наличия, списание, сборка заказа, запись в журнал и историю.
	Place(customerID int64, quantities map[int64]int64, now time.Time) (PlacementResult, error)

	// Products возвращает копии товаров, отсортированные по идентификатору.
	Products() []Product
	// Customers возвращает снимки покупателей с их историями заказов.
	Customers() []CustomerSummary
	// Orders возвращает журнал заказов, отсортированный по идентификатору.
	Orders() []Order
	// CategoryOverlap возвращает пересечение идентификаторов товаров двух категорий.
	CategoryOverlap(a, b Category) []int64

	// ProductRecords / CustomerRecords выгружают состояние для снапшота.
	ProductRecords() []ProductRecord
	CustomerRecords() []CustomerRecord
	// ImportProducts / ImportCustomers загружают записи снапшота;
	// запись с существующим идентификатором замещает текущую.
	ImportProducts(recs []ProductRecord) error
	ImportCustomers(recs []CustomerRecord) error
}

// SnapshotRepository — внешний коллаборатор персистентности каталога и
// реестра покупателей. Round-trip обязан сохранять каждое поле записи
// точно, включая дискриминант категории.
type SnapshotRepository interface {
	SaveProducts(ctx context.Context, recs []ProductRecord) error
	LoadProducts(ctx context.Context) ([]ProductRecord, error)
	SaveCustomers(ctx context.Context, recs []CustomerRecord) error
	LoadCustomers(ctx context.Context) ([]CustomerRecord, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
