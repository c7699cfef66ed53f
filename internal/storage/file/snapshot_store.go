// Package file хранит снапшоты каталога и реестра в CSV-файлах на диске.
// Формат построчный и стабильный, чтобы снапшот можно было читать и
// править руками при восстановлении.
package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	productsFileName  = "products.csv"
	customersFileName = "customers.csv"
)

var productsHeader = []string{"id", "name", "category", "price_minor", "stock", "sales", "warranty_months", "energy_rating"}

var customersHeader = []string{"id", "name"}

// SnapshotStore пишет и читает снапшоты в каталоге dir.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore создаёт файловое хранилище снапшотов в каталоге dir.
// Каталог создаётся при первой записи.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// SaveProducts атомарно заменяет products.csv: запись идёт во временный
// файл с последующим rename, чтобы читатель не видел полузаписанный снапшот.
func (s *SnapshotStore) SaveProducts(ctx context.Context, recs []domain.ProductRecord) error {
	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, productsHeader)
	for _, rec := range recs {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Name,
			rec.Category,
			strconv.FormatInt(rec.PriceMinor, 10),
			strconv.FormatInt(rec.Stock, 10),
			strconv.FormatInt(rec.Sales, 10),
			strconv.FormatInt(int64(rec.WarrantyMonths), 10),
			rec.EnergyRating,
		})
	}
	return s.writeFile(ctx, productsFileName, rows)
}

// LoadProducts читает products.csv; отсутствующий файл — пустой снапшот.
func (s *SnapshotStore) LoadProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	rows, err := s.readFile(ctx, productsFileName, len(productsHeader))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}

	recs := make([]domain.ProductRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := parseProductRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", productsFileName, i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// SaveCustomers атомарно заменяет customers.csv.
func (s *SnapshotStore) SaveCustomers(ctx context.Context, recs []domain.CustomerRecord) error {
	rows := make([][]string, 0, len(recs)+1)
	rows = append(rows, customersHeader)
	for _, rec := range recs {
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Name,
		})
	}
	return s.writeFile(ctx, customersFileName, rows)
}

// LoadCustomers читает customers.csv; отсутствующий файл — пустой снапшот.
func (s *SnapshotStore) LoadCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	rows, err := s.readFile(ctx, customersFileName, len(customersHeader))
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}

	recs := make([]domain.CustomerRecord, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w: bad customer id %q", customersFileName, i+2, domain.ErrMalformedRecord, row[0])
		}
		recs = append(recs, domain.CustomerRecord{ID: id, Name: row[1]})
	}
	return recs, nil
}

func (s *SnapshotStore) writeFile(ctx context.Context, name string, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", name, err)
	}
	return nil
}

// readFile возвращает nil без ошибки, когда файла ещё нет.
func (s *SnapshotStore) readFile(ctx context.Context, name string, wantFields int) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open snapshot %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantFields
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot %s: %v", domain.ErrMalformedRecord, name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: snapshot %s has no header", domain.ErrMalformedRecord, name)
	}
	return rows[1:], nil
}

func parseProductRow(row []string) (domain.ProductRecord, error) {
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("%w: bad product id %q", domain.ErrMalformedRecord, row[0])
	}
	price, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("%w: bad price %q", domain.ErrMalformedRecord, row[3])
	}
	stock, err := strconv.ParseInt(row[4], 10, 64)
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("%w: bad stock %q", domain.ErrMalformedRecord, row[4])
	}
	sales, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("%w: bad sales %q", domain.ErrMalformedRecord, row[5])
	}
	warranty, err := strconv.ParseInt(row[6], 10, 32)
	if err != nil {
		return domain.ProductRecord{}, fmt.Errorf("%w: bad warranty %q", domain.ErrMalformedRecord, row[6])
	}

	return domain.ProductRecord{
		ID:             id,
		Name:           row[1],
		Category:       row[2],
		PriceMinor:     price,
		Stock:          stock,
		Sales:          sales,
		WarrantyMonths: int32(warranty),
		EnergyRating:   row[7],
	}, nil
}

var _ domain.SnapshotRepository = (*SnapshotStore)(nil)
