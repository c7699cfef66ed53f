package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const opTimeout = 5 * time.Second

type snapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository создаёт PostgreSQL-реализацию SnapshotRepository.
func NewSnapshotRepository(store *Store) domain.SnapshotRepository {
	return &snapshotRepository{db: store.DB()}
}

// SaveProducts записывает каталог целиком: upsert по id в одной транзакции,
// записи, отсутствующие в снапшоте, удаляются.
func (r *snapshotRepository) SaveProducts(ctx context.Context, recs []domain.ProductRecord) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin products snapshot tx: %w", err)
	}

	if _, err := tx.ExecContext(opCtx, `DELETE FROM products`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear products snapshot: %w", err)
	}

	now := time.Now().UTC()
	for _, rec := range recs {
		if _, err := tx.ExecContext(opCtx, `
			INSERT INTO products (
				id, name, category, price_minor, stock, sales,
				warranty_months, energy_rating, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			rec.ID, rec.Name, rec.Category, rec.PriceMinor, rec.Stock, rec.Sales,
			rec.WarrantyMonths, rec.EnergyRating, now,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert product snapshot %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit products snapshot: %w", err)
	}

	return nil
}

// LoadProducts читает каталог из снапшота в порядке возрастания id.
func (r *snapshotRepository) LoadProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT id, name, category, price_minor, stock, sales,
		       warranty_months, energy_rating
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query products snapshot: %w", err)
	}
	defer rows.Close()

	var recs []domain.ProductRecord
	for rows.Next() {
		var rec domain.ProductRecord
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Category, &rec.PriceMinor, &rec.Stock,
			&rec.Sales, &rec.WarrantyMonths, &rec.EnergyRating,
		); err != nil {
			return nil, fmt.Errorf("scan product snapshot row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products snapshot: %w", err)
	}

	return recs, nil
}

// SaveCustomers записывает реестр покупателей той же схемой полной замены.
func (r *snapshotRepository) SaveCustomers(ctx context.Context, recs []domain.CustomerRecord) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin customers snapshot tx: %w", err)
	}

	if _, err := tx.ExecContext(opCtx, `DELETE FROM customers`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear customers snapshot: %w", err)
	}

	now := time.Now().UTC()
	for _, rec := range recs {
		if _, err := tx.ExecContext(opCtx, `
			INSERT INTO customers (id, name, updated_at)
			VALUES ($1,$2,$3)
		`, rec.ID, rec.Name, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert customer snapshot %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customers snapshot: %w", err)
	}

	return nil
}

// LoadCustomers читает реестр из снапшота в порядке возрастания id.
func (r *snapshotRepository) LoadCustomers(ctx context.Context) ([]domain.CustomerRecord, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT id, name
		FROM customers
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers snapshot: %w", err)
	}
	defer rows.Close()

	var recs []domain.CustomerRecord
	for rows.Next() {
		var rec domain.CustomerRecord
		if err := rows.Scan(&rec.ID, &rec.Name); err != nil {
			return nil, fmt.Errorf("scan customer snapshot row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers snapshot: %w", err)
	}

	return recs, nil
}

var _ domain.SnapshotRepository = (*snapshotRepository)(nil)
