package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/cache"
)

// ErrProductNotFound is returned for unknown slugs.
var ErrProductNotFound = errors.New("catalog: product not found")

// Source is the persistence surface the catalog service reads from.
type Source interface {
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
	PublishedProducts(ctx context.Context, limit, offset int) ([]Product, error)
}

// Service assembles catalog read models and caches detail payloads.
// NotFound is the store's sentinel for missing rows; lookups matching
// it surface as ErrProductNotFound.
type Service struct {
	Source   Source
	Cache    *cache.Cache
	NotFound error
	Now      func() time.Time
}

// ProductListItem is one entry of a catalog listing.
type ProductListItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Published   bool            `json:"published"`
	AvailableOn *time.Time      `json:"availableOn,omitempty"`
}

// VariantDetail is the variant slice of a product detail payload.
type VariantDetail struct {
	ID        int64           `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
	InStock   bool            `json:"inStock"`
}

// ProductDetail is the full product payload.
type ProductDetail struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Published   bool            `json:"published"`
	Purchasable bool            `json:"purchasable"`
	InStock     bool            `json:"inStock"`
	LeadTime    string          `json:"leadTime,omitempty"`
	Variants    []VariantDetail `json:"variants"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) notFound(err error) bool {
	return s.NotFound != nil && errors.Is(err, s.NotFound)
}

// List returns published products for a catalog page.
func (s *Service) List(ctx context.Context, limit, offset int) ([]ProductListItem, error) {
	products, err := s.Source.PublishedProducts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	items := make([]ProductListItem, 0, len(products))
	for _, p := range products {
		items = append(items, ProductListItem{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price.Gross,
			Currency:    p.Price.Currency,
			Published:   p.Published,
			AvailableOn: p.AvailableOn,
		})
	}
	return items, nil
}

// Detail returns the product payload for a slug, cached when a cache
// is configured.
func (s *Service) Detail(ctx context.Context, slug string) (ProductDetail, error) {
	key := cache.KeyProduct(slug)

	var cached ProductDetail
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	p, err := s.Source.ProductBySlug(ctx, slug)
	if err != nil {
		if s.notFound(err) {
			return ProductDetail{}, ErrProductNotFound
		}
		return ProductDetail{}, fmt.Errorf("load product %q: %w", slug, err)
	}

	detail := s.buildDetail(p)
	_ = s.Cache.SetJSON(ctx, key, detail)
	return detail, nil
}

func (s *Service) buildDetail(p *Product) ProductDetail {
	now := s.now()
	detail := ProductDetail{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.Gross,
		Currency:    p.Price.Currency,
		Published:   p.Published,
		Purchasable: p.Purchasable(now),
		InStock:     p.InStock(),
		LeadTime:    p.LeadTimeRange().String(),
		Variants:    make([]VariantDetail, 0, len(p.Variants)),
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		available := 0
		for j := range v.Stocks {
			available += v.Stocks[j].QuantityAvailable()
		}
		detail.Variants = append(detail.Variants, VariantDetail{
			ID:        v.ID,
			SKU:       v.SKU,
			Name:      v.Name,
			Price:     v.Price(p).Gross,
			Available: available,
			InStock:   v.InStock(),
		})
	}
	return detail
}

// InvalidateDetail drops a cached product payload after a write.
func (s *Service) InvalidateDetail(ctx context.Context, slug string) error {
	return s.Cache.Invalidate(ctx, cache.KeyProduct(slug))
}
