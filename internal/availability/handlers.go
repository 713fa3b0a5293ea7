package availability

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VanilleBid/weekly-saleor/internal/cache"
	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/common"
)

// ProductSource resolves products for classification.
type ProductSource interface {
	ProductBySlug(ctx context.Context, slug string) (*catalog.Product, error)
}

// Report is the availability payload for one product.
type Report struct {
	Status      ProductStatus   `json:"status"`
	Purchasable bool            `json:"purchasable"`
	LeadTime    string          `json:"leadTime,omitempty"`
	Variants    []VariantReport `json:"variants"`
}

// VariantReport is the per-variant slice of a Report.
type VariantReport struct {
	SKU    string        `json:"sku"`
	Status VariantStatus `json:"status"`
}

// Handler exposes availability classification over HTTP.
// NotFound is the store's missing-row sentinel.
type Handler struct {
	Source     ProductSource
	Classifier Classifier
	Cache      *cache.Cache
	NotFound   error
}

// ProductAvailability handles GET /api/v1/products/{slug}/availability.
func (h *Handler) ProductAvailability(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	key := cache.KeyAvailability(slug)

	var cached Report
	if hit, err := h.Cache.GetJSON(r.Context(), key, &cached); err == nil && hit {
		common.JSON(w, http.StatusOK, map[string]any{"data": cached})
		return
	}

	p, err := h.Source.ProductBySlug(r.Context(), slug)
	if err != nil {
		if h.NotFound != nil && errors.Is(err, h.NotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}

	report := h.buildReport(p)
	_ = h.Cache.SetJSON(r.Context(), key, report)
	common.JSON(w, http.StatusOK, map[string]any{"data": report})
}

func (h *Handler) buildReport(p *catalog.Product) Report {
	report := Report{
		Status:      h.Classifier.ProductStatus(p),
		Purchasable: p.Purchasable(h.Classifier.now()),
		LeadTime:    p.LeadTimeRange().String(),
		Variants:    make([]VariantReport, 0, len(p.Variants)),
	}
	for i := range p.Variants {
		report.Variants = append(report.Variants, VariantReport{
			SKU:    p.Variants[i].SKU,
			Status: h.Classifier.VariantStatus(&p.Variants[i]),
		})
	}
	return report
}
