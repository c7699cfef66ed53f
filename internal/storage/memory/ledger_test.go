package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

// seedLedger наполняет реестр демонстрационным каталогом и покупателями.
func seedLedger(t *testing.T) domain.InventoryLedger {
	t.Helper()

	ledger := memory.NewLedger()
	products := []*domain.Product{
		domain.NewElectronics(101, "Laptop", 99999, 50, 24),
		domain.NewElectronics(102, "Smartphone", 59999, 150, 12),
		domain.NewKitchen(201, "Blender", 9999, 30, "A++"),
		domain.NewKitchen(202, "Toaster", 4999, 50, "A+"),
	}
	for _, p := range products {
		if err := ledger.AddProduct(p); err != nil {
			t.Fatalf("add product %d: %v", p.ID, err)
		}
	}
	for _, c := range []*domain.Customer{
		domain.NewCustomer(1, "Alice"),
		domain.NewCustomer(2, "Bob"),
	} {
		if err := ledger.AddCustomer(c); err != nil {
			t.Fatalf("add customer %d: %v", c.ID, err)
		}
	}
	return ledger
}

func TestLedgerAdd_DuplicateIsRejected(t *testing.T) {
	ledger := seedLedger(t)

	err := ledger.AddProduct(domain.NewProduct(101, "Another Laptop", domain.CategoryGeneric, 1, 1))
	if !errors.Is(err, domain.ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}

	err = ledger.AddCustomer(domain.NewCustomer(1, "Another Alice"))
	if !errors.Is(err, domain.ErrDuplicateCustomer) {
		t.Fatalf("expected ErrDuplicateCustomer, got %v", err)
	}

	// No-op: исходные записи не тронуты.
	if got := ledger.Products()[0].Name; got != "Laptop" {
		t.Fatalf("duplicate registration mutated catalog: %q", got)
	}
}

// Конкретный сценарий из приёмочных свойств: заказ на Laptop x2 и Blender x1.
func TestLedgerPlace_TwoLineOrder(t *testing.T) {
	ledger := seedLedger(t)
	now := time.Now().UTC()

	result, err := ledger.Place(1, map[int64]int64{101: 2, 201: 1}, now)
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if !result.Placed() {
		t.Fatal("expected order to be created")
	}

	order := *result.Order
	if order.ID != 1 {
		t.Fatalf("expected first order id 1, got %d", order.ID)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
	if order.TotalMinor() != 209997 {
		t.Fatalf("expected total 209997, got %d", order.TotalMinor())
	}
	if !order.CreatedAt.Equal(now) {
		t.Fatalf("expected timestamp %v, got %v", now, order.CreatedAt)
	}

	products := ledger.Products()
	if products[0].Stock != 48 || products[0].Sales != 2 {
		t.Fatalf("laptop state wrong: stock=%d sales=%d", products[0].Stock, products[0].Sales)
	}
	var blender domain.Product
	for _, p := range products {
		if p.ID == 201 {
			blender = p
		}
	}
	if blender.Stock != 29 || blender.Sales != 1 {
		t.Fatalf("blender state wrong: stock=%d sales=%d", blender.Stock, blender.Sales)
	}

	customers := ledger.Customers()
	if len(customers[0].OrderIDs) != 1 || customers[0].OrderIDs[0] != order.ID {
		t.Fatalf("customer history wrong: %v", customers[0].OrderIDs)
	}

	orders := ledger.Orders()
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("order ledger wrong: %v", orders)
	}
}

// Одна валидная позиция + один неизвестный товар: заказ создаётся частично.
func TestLedgerPlace_PartialFulfillment(t *testing.T) {
	ledger := seedLedger(t)

	result, err := ledger.Place(1, map[int64]int64{101: 1, 999: 1}, time.Now().UTC())
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if !result.Placed() {
		t.Fatal("expected partial order to be created")
	}
	if len(result.Order.Lines) != 1 || result.Order.Lines[0].ProductID != 101 {
		t.Fatalf("expected single accepted line for 101, got %+v", result.Order.Lines)
	}

	rejected := result.Rejected()
	if len(rejected) != 1 {
		t.Fatalf("expected 1 rejected line, got %d", len(rejected))
	}
	if rejected[0].ProductID != 999 || rejected[0].Status != domain.LineStatusUnknownProduct {
		t.Fatalf("unexpected rejection: %+v", rejected[0])
	}
}

// Все позиции вне стока: заказа нет, счётчик не сдвинут, по отказу на строку.
func TestLedgerPlace_AllOutOfStock(t *testing.T) {
	ledger := seedLedger(t)

	result, err := ledger.Place(1, map[int64]int64{101: 1000, 201: 1000}, time.Now().UTC())
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if result.Placed() {
		t.Fatal("expected no order")
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 line failures, got %d", len(result.Lines))
	}
	for _, line := range result.Lines {
		if line.Status != domain.LineStatusInsufficientStock {
			t.Fatalf("expected insufficient stock, got %+v", line)
		}
	}
	if result.Lines[0].Requested != 1000 || result.Lines[0].Available != 50 {
		t.Fatalf("failure must carry requested/available: %+v", result.Lines[0])
	}

	// Счётчик не тронут: следующий успешный заказ получает id 1.
	next, err := ledger.Place(1, map[int64]int64{101: 1}, time.Now().UTC())
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if next.Order.ID != 1 {
		t.Fatalf("expected order id 1 after empty placement, got %d", next.Order.ID)
	}
}

func TestLedgerPlace_UnknownCustomerTouchesNothing(t *testing.T) {
	ledger := seedLedger(t)

	_, err := ledger.Place(42, map[int64]int64{101: 1}, time.Now().UTC())
	if !errors.Is(err, domain.ErrUnknownCustomer) {
		t.Fatalf("expected ErrUnknownCustomer, got %v", err)
	}
	if got := ledger.Products()[0].Stock; got != 50 {
		t.Fatalf("stock touched on unknown customer: %d", got)
	}
	if got := len(ledger.Orders()); got != 0 {
		t.Fatalf("order ledger touched: %d", got)
	}
}

func TestLedgerPlace_NonPositiveQtyFailsFast(t *testing.T) {
	ledger := seedLedger(t)

	_, err := ledger.Place(1, map[int64]int64{101: 0}, time.Now().UTC())
	if !errors.Is(err, domain.ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid, got %v", err)
	}
	if got := ledger.Products()[0].Stock; got != 50 {
		t.Fatalf("stock touched on invalid qty: %d", got)
	}
}

// Идентификаторы строго растут и не переиспользуются, даже когда между
// успешными размещениями попадаются пустые.
func TestLedgerPlace_OrderIDsStrictlyIncrease(t *testing.T) {
	ledger := seedLedger(t)
	now := time.Now().UTC()

	var ids []int64
	requests := []map[int64]int64{
		{101: 1},
		{999: 1},  // заказа не будет: неизвестный товар
		{201: 50}, // заказа не будет: сток 30
		{102: 2},
		{202: 1},
	}
	for _, req := range requests {
		result, err := ledger.Place(2, req, now)
		if err != nil {
			t.Fatalf("place failed: %v", err)
		}
		if result.Placed() {
			ids = append(ids, result.Order.ID)
		}
	}

	want := []int64{1, 2, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected %d orders, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
}

// Результаты идут в порядке возрастания идентификатора товара.
func TestLedgerPlace_DeterministicLineOrder(t *testing.T) {
	ledger := seedLedger(t)

	result, err := ledger.Place(1, map[int64]int64{202: 1, 101: 1, 201: 1, 102: 1}, time.Now().UTC())
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}

	want := []int64{101, 102, 201, 202}
	for i, line := range result.Lines {
		if line.ProductID != want[i] {
			t.Fatalf("expected line order %v, got %+v", want, result.Lines)
		}
	}
}

func TestLedgerCategoryOverlap_DisjointRangesAreEmpty(t *testing.T) {
	ledger := seedLedger(t)

	overlap := ledger.CategoryOverlap(domain.CategoryElectronics, domain.CategoryKitchen)
	if len(overlap) != 0 {
		t.Fatalf("expected empty overlap, got %v", overlap)
	}
}

func TestLedgerCategoryOverlap_SameCategory(t *testing.T) {
	ledger := seedLedger(t)

	overlap := ledger.CategoryOverlap(domain.CategoryKitchen, domain.CategoryKitchen)
	if len(overlap) != 2 || overlap[0] != 201 || overlap[1] != 202 {
		t.Fatalf("expected [201 202], got %v", overlap)
	}
}

func TestLedgerRestock(t *testing.T) {
	ledger := seedLedger(t)

	if err := ledger.Restock(201, 5); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	for _, p := range ledger.Products() {
		if p.ID == 201 && p.Stock != 35 {
			t.Fatalf("expected stock 35, got %d", p.Stock)
		}
	}

	if err := ledger.Restock(999, 5); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestLedgerImport_ReplacesByID(t *testing.T) {
	ledger := seedLedger(t)

	recs := []domain.ProductRecord{
		{ID: 101, Name: "Laptop Pro", Category: "Electronics", PriceMinor: 129999, Stock: 10, Sales: 3, WarrantyMonths: 36},
		{ID: 301, Name: "Notebook", Category: "Generic", PriceMinor: 499, Stock: 100},
	}
	if err := ledger.ImportProducts(recs); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	products := ledger.Products()
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
	if products[0].Name != "Laptop Pro" || products[0].Sales != 3 {
		t.Fatalf("existing product not replaced: %+v", products[0])
	}
}

func TestLedgerImport_MalformedBatchIsAtomic(t *testing.T) {
	ledger := seedLedger(t)

	recs := []domain.ProductRecord{
		{ID: 301, Name: "Notebook", Category: "Generic", PriceMinor: 499, Stock: 100},
		{ID: 302, Name: "", PriceMinor: 1, Stock: 1},
	}
	if err := ledger.ImportProducts(recs); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if got := len(ledger.Products()); got != 4 {
		t.Fatalf("partial import applied: %d products", got)
	}

	dup := []domain.CustomerRecord{{ID: 7, Name: "Carol"}, {ID: 7, Name: "Carol again"}}
	if err := ledger.ImportCustomers(dup); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord for duplicate batch, got %v", err)
	}
}
