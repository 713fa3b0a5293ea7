package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// ProductBySlug loads a product with its type, variants and stock
// records.
func (s *Store) ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.category_id, p.price::text, p.currency,
		       p.published, p.available_on,
		       t.id, t.name, t.has_variants, t.shipping_required
		FROM products p
		JOIN product_types t ON t.id = p.product_type_id
		WHERE p.slug = $1`, slug)
	return s.scanProduct(ctx, row)
}

// ProductByID loads a product with its type, variants and stock
// records.
func (s *Store) ProductByID(ctx context.Context, id int64) (*catalog.Product, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.category_id, p.price::text, p.currency,
		       p.published, p.available_on,
		       t.id, t.name, t.has_variants, t.shipping_required
		FROM products p
		JOIN product_types t ON t.id = p.product_type_id
		WHERE p.id = $1`, id)
	return s.scanProduct(ctx, row)
}

func (s *Store) scanProduct(ctx context.Context, row pgx.Row) (*catalog.Product, error) {
	var (
		p          catalog.Product
		categoryID *int64
		amount     string
		currency   string
	)
	err := row.Scan(&p.ID, &p.Name, &categoryID, &amount, &currency,
		&p.Published, &p.AvailableOn,
		&p.Type.ID, &p.Type.Name, &p.Type.HasVariants, &p.Type.ShippingRequired)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse product price %q: %w", amount, err)
	}
	p.Price = price.New(value, currency)

	if p.Variants, err = s.variantsForProduct(ctx, p.ID, currency); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) variantsForProduct(ctx context.Context, productID int64, currency string) ([]catalog.ProductVariant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sku, name, price_override::text
		FROM product_variants
		WHERE product_id = $1
		ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("query variants for product %d: %w", productID, err)
	}
	defer rows.Close()

	var variants []catalog.ProductVariant
	for rows.Next() {
		var (
			v        catalog.ProductVariant
			override *string
		)
		if err := rows.Scan(&v.ID, &v.SKU, &v.Name, &override); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		if override != nil {
			amount, err := decimal.NewFromString(*override)
			if err != nil {
				return nil, fmt.Errorf("parse price override %q: %w", *override, err)
			}
			p := price.New(amount, currency)
			v.PriceOverride = &p
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range variants {
		if variants[i].Stocks, err = s.StocksForVariant(ctx, variants[i].ID); err != nil {
			return nil, err
		}
	}
	return variants, nil
}

// PublishedProducts lists published products without their variant
// trees, for catalog listings.
func (s *Store) PublishedProducts(ctx context.Context, limit, offset int) ([]catalog.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.category_id, p.price::text, p.currency,
		       p.published, p.available_on,
		       t.id, t.name, t.has_variants, t.shipping_required
		FROM products p
		JOIN product_types t ON t.id = p.product_type_id
		WHERE p.published
		ORDER BY p.id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query published products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var (
			p          catalog.Product
			categoryID *int64
			amount     string
			currency   string
		)
		if err := rows.Scan(&p.ID, &p.Name, &categoryID, &amount, &currency,
			&p.Published, &p.AvailableOn,
			&p.Type.ID, &p.Type.Name, &p.Type.HasVariants, &p.Type.ShippingRequired); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if categoryID != nil {
			p.CategoryID = *categoryID
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse product price %q: %w", amount, err)
		}
		p.Price = price.New(value, currency)
		products = append(products, p)
	}
	return products, rows.Err()
}

// VariantBySKU resolves a variant and its owning product.
func (s *Store) VariantBySKU(ctx context.Context, sku string) (*catalog.Product, *catalog.ProductVariant, error) {
	var productID int64
	err := s.pool.QueryRow(ctx,
		`SELECT product_id FROM product_variants WHERE sku = $1`, sku).Scan(&productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve variant %q: %w", sku, err)
	}
	p, err := s.ProductByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return p, &p.Variants[i], nil
		}
	}
	return nil, nil, ErrNotFound
}

// ActiveSales loads every sale with its product, category and customer
// scoping sets.
func (s *Store) ActiveSales(ctx context.Context) ([]discount.Sale, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.name, s.type, s.value::text,
		       COALESCE(array_agg(DISTINCT sp.product_id) FILTER (WHERE sp.product_id IS NOT NULL), '{}'),
		       COALESCE(array_agg(DISTINCT sc.category_id) FILTER (WHERE sc.category_id IS NOT NULL), '{}'),
		       COALESCE(array_agg(DISTINCT scu.customer_id) FILTER (WHERE scu.customer_id IS NOT NULL), '{}')
		FROM sales s
		LEFT JOIN sale_products sp ON sp.sale_id = s.id
		LEFT JOIN sale_categories sc ON sc.sale_id = s.id
		LEFT JOIN sale_customers scu ON scu.sale_id = s.id
		GROUP BY s.id
		ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []discount.Sale
	for rows.Next() {
		var (
			sale  discount.Sale
			value string
		)
		if err := rows.Scan(&sale.ID, &sale.Name, &sale.Type, &value,
			&sale.ProductIDs, &sale.CategoryIDs, &sale.CustomerIDs); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if sale.Value, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("parse sale value %q: %w", value, err)
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}
