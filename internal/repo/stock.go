package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/price"
	"github.com/VanilleBid/weekly-saleor/internal/stock"
)

// StocksForVariant loads all stock records of a variant ordered by id.
func (s *Store) StocksForVariant(ctx context.Context, variantID int64) ([]stock.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.variant_id, s.location, s.quantity, s.quantity_allocated,
		       s.cost_price::text, s.min_days, s.max_days, p.currency
		FROM stocks s
		JOIN product_variants v ON v.id = s.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE s.variant_id = $1
		ORDER BY s.id`, variantID)
	if err != nil {
		return nil, fmt.Errorf("query stocks for variant %d: %w", variantID, err)
	}
	defer rows.Close()

	var records []stock.Record
	for rows.Next() {
		rec, err := scanStockWithCurrency(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AllocateStock reserves qty units on the record, failing when the
// reservation would exceed availability. The row is locked for the
// duration of the check and update.
func (s *Store) AllocateStock(ctx context.Context, stockID int64, qty int) error {
	return s.mutateStock(ctx, stockID, qty, stock.Allocate)
}

// DeallocateStock releases qty reserved units.
func (s *Store) DeallocateStock(ctx context.Context, stockID int64, qty int) error {
	return s.mutateStock(ctx, stockID, qty, stock.Deallocate)
}

// IncreaseStock adds qty sellable units.
func (s *Store) IncreaseStock(ctx context.Context, stockID int64, qty int) error {
	return s.mutateStock(ctx, stockID, qty, stock.Increase)
}

// DecreaseStock removes qty units from both the shelf and the
// allocated pool, as happens on fulfilment.
func (s *Store) DecreaseStock(ctx context.Context, stockID int64, qty int) error {
	return s.mutateStock(ctx, stockID, qty, stock.Decrease)
}

func (s *Store) mutateStock(ctx context.Context, stockID int64, qty int, op func(*stock.Record, int) error) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var rec stock.Record
		err := tx.QueryRow(ctx, `
			SELECT id, quantity, quantity_allocated
			FROM stocks
			WHERE id = $1
			FOR UPDATE`, stockID).Scan(&rec.ID, &rec.Quantity, &rec.QuantityAllocated)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("stock %d: %w", stockID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock stock %d: %w", stockID, err)
		}

		if err := op(&rec, qty); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE stocks
			SET quantity = $2, quantity_allocated = $3
			WHERE id = $1`, stockID, rec.Quantity, rec.QuantityAllocated)
		if err != nil {
			return fmt.Errorf("update stock %d: %w", stockID, err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStockWithCurrency(row rowScanner) (stock.Record, error) {
	var (
		rec      stock.Record
		cost     *string
		currency string
	)
	if err := row.Scan(&rec.ID, &rec.VariantID, &rec.Location,
		&rec.Quantity, &rec.QuantityAllocated, &cost,
		&rec.MinDays, &rec.MaxDays, &currency); err != nil {
		return stock.Record{}, fmt.Errorf("scan stock: %w", err)
	}
	if cost != nil {
		amount, err := decimal.NewFromString(*cost)
		if err != nil {
			return stock.Record{}, fmt.Errorf("parse cost price %q: %w", *cost, err)
		}
		p := price.New(amount, currency)
		rec.CostPrice = &p
	}
	return rec, nil
}
