package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// VoucherByCode loads a voucher row by its code.
func (s *Store) VoucherByCode(ctx context.Context, code string) (discount.Voucher, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, code, name, type, value_type, value::text, currency,
		       limit_amount::text, usage_limit, used, start_date, end_date,
		       apply_to, product_id, category_id
		FROM vouchers
		WHERE code = $1`, code)
	return scanVoucher(row)
}

// ListVouchers returns every voucher ordered by id.
func (s *Store) ListVouchers(ctx context.Context) ([]discount.Voucher, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, type, value_type, value::text, currency,
		       limit_amount::text, usage_limit, used, start_date, end_date,
		       apply_to, product_id, category_id
		FROM vouchers
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []discount.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

// IncreaseVoucherUsage consumes one use. The limit check happens in
// the same statement, so two concurrent orders cannot both take the
// last use.
func (s *Store) IncreaseVoucherUsage(ctx context.Context, voucherID int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vouchers
		SET used = used + 1
		WHERE id = $1
		  AND (usage_limit IS NULL OR used < usage_limit)`, voucherID)
	if err != nil {
		return fmt.Errorf("increase voucher %d usage: %w", voucherID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM vouchers WHERE id = $1)`, voucherID).Scan(&exists); err != nil {
			return fmt.Errorf("check voucher %d: %w", voucherID, err)
		}
		if !exists {
			return fmt.Errorf("voucher %d: %w", voucherID, ErrNotFound)
		}
		return discount.ErrUsageLimitReached
	}
	return nil
}

// DecreaseVoucherUsage returns one use, never dropping below zero.
func (s *Store) DecreaseVoucherUsage(ctx context.Context, voucherID int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE vouchers
		SET used = GREATEST(used - 1, 0)
		WHERE id = $1`, voucherID)
	if err != nil {
		return fmt.Errorf("decrease voucher %d usage: %w", voucherID, err)
	}
	return nil
}

func scanVoucher(row rowScanner) (discount.Voucher, error) {
	var (
		v          discount.Voucher
		value      string
		currency   string
		limit      *string
		usageLimit *int
		start, end *time.Time
		applyTo    *string
		productID  *int64
		categoryID *int64
	)
	err := row.Scan(&v.ID, &v.Code, &v.Name, &v.Type, &v.ValueType, &value, &currency,
		&limit, &usageLimit, &v.Used, &start, &end, &applyTo, &productID, &categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return discount.Voucher{}, ErrNotFound
	}
	if err != nil {
		return discount.Voucher{}, fmt.Errorf("scan voucher: %w", err)
	}

	if v.Value, err = decimal.NewFromString(value); err != nil {
		return discount.Voucher{}, fmt.Errorf("parse voucher value %q: %w", value, err)
	}
	if limit != nil {
		amount, err := decimal.NewFromString(*limit)
		if err != nil {
			return discount.Voucher{}, fmt.Errorf("parse voucher limit %q: %w", *limit, err)
		}
		p := price.New(amount, currency)
		v.Limit = &p
	}
	v.UsageLimit = usageLimit
	v.StartDate = start
	v.EndDate = end
	if applyTo != nil {
		v.ApplyTo = *applyTo
	}
	if productID != nil {
		v.ProductID = *productID
	}
	if categoryID != nil {
		v.CategoryID = *categoryID
	}
	return v, nil
}
