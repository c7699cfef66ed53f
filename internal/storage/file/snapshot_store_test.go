package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func TestSnapshotStore_ProductsRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	recs := []domain.ProductRecord{
		{ID: 101, Name: "Laptop", Category: "Electronics", PriceMinor: 99999, Stock: 48, Sales: 2, WarrantyMonths: 24},
		{ID: 201, Name: "Blender", Category: "Kitchen", PriceMinor: 9999, Stock: 30, EnergyRating: "A++"},
		{ID: 301, Name: "Notebook", Category: "Generic", PriceMinor: 299, Stock: 500},
	}
	if err := store.SaveProducts(ctx, recs); err != nil {
		t.Fatalf("save products: %v", err)
	}

	loaded, err := store.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(loaded) != len(recs) {
		t.Fatalf("expected %d products, got %d", len(recs), len(loaded))
	}
	for i, want := range recs {
		if loaded[i] != want {
			t.Fatalf("product %d mismatch: got %+v, want %+v", i, loaded[i], want)
		}
	}
}

func TestSnapshotStore_CustomersRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	recs := []domain.CustomerRecord{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
	}
	if err := store.SaveCustomers(ctx, recs); err != nil {
		t.Fatalf("save customers: %v", err)
	}

	loaded, err := store.LoadCustomers(ctx)
	if err != nil {
		t.Fatalf("load customers: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(loaded))
	}
	if loaded[0] != recs[0] || loaded[1] != recs[1] {
		t.Fatalf("unexpected customers: %+v", loaded)
	}
}

func TestSnapshotStore_MissingFilesMeanEmptySnapshot(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	products, err := store.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("load products from empty dir: %v", err)
	}
	if products != nil {
		t.Fatalf("expected nil products, got %+v", products)
	}

	customers, err := store.LoadCustomers(ctx)
	if err != nil {
		t.Fatalf("load customers from empty dir: %v", err)
	}
	if customers != nil {
		t.Fatalf("expected nil customers, got %+v", customers)
	}
}

func TestSnapshotStore_SaveReplacesPrevious(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir())
	ctx := context.Background()

	first := []domain.ProductRecord{
		{ID: 101, Name: "Laptop", Category: "Electronics", PriceMinor: 99999, Stock: 50, WarrantyMonths: 24},
		{ID: 102, Name: "Smartphone", Category: "Electronics", PriceMinor: 59999, Stock: 30, WarrantyMonths: 12},
	}
	if err := store.SaveProducts(ctx, first); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}

	second := []domain.ProductRecord{
		{ID: 101, Name: "Laptop", Category: "Electronics", PriceMinor: 99999, Stock: 48, Sales: 2, WarrantyMonths: 24},
	}
	if err := store.SaveProducts(ctx, second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	loaded, err := store.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 product, got %d", len(loaded))
	}
	if loaded[0] != second[0] {
		t.Fatalf("unexpected product: %+v", loaded[0])
	}
}

func TestSnapshotStore_CorruptedFileFailsWithMalformedRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewSnapshotStore(dir)
	ctx := context.Background()

	body := "id,name,category,price_minor,stock,sales,warranty_months,energy_rating\n" +
		"not-a-number,Laptop,Electronics,99999,50,0,24,\n"
	if err := os.WriteFile(filepath.Join(dir, "products.csv"), []byte(body), 0o644); err != nil {
		t.Fatalf("write corrupted snapshot: %v", err)
	}

	_, err := store.LoadProducts(ctx)
	if err == nil {
		t.Fatal("expected error for corrupted snapshot")
	}
	if !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestSnapshotStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.SaveProducts(ctx, nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, err := store.LoadProducts(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
