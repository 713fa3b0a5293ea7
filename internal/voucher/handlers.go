// Package voucher exposes voucher lookup and validation endpoints.
// Discount evaluation itself lives in the discount package; these
// handlers only answer "does this code exist and can it be used now".
package voucher

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VanilleBid/weekly-saleor/internal/common"
	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// Source resolves vouchers by code, usually the cached decorator.
type Source interface {
	VoucherByCode(ctx context.Context, code string) (discount.Voucher, error)
}

// Lister enumerates vouchers for the admin listing endpoint.
type Lister interface {
	ListVouchers(ctx context.Context) ([]discount.Voucher, error)
}

// Handler exposes voucher endpoints.
// NotFound is the store's missing-row sentinel.
type Handler struct {
	Source   Source
	Lister   Lister
	NotFound error
	Now      func() time.Time
}

type voucherView struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	ValueType  string     `json:"valueType"`
	Value      string     `json:"value"`
	Limit      *string    `json:"limit,omitempty"`
	UsageLimit *int       `json:"usageLimit,omitempty"`
	Used       int        `json:"used"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Active     bool       `json:"active"`
	Exhausted  bool       `json:"exhausted"`
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) view(v discount.Voucher) voucherView {
	view := voucherView{
		ID:         v.ID,
		Code:       v.Code,
		Name:       v.Name,
		Type:       string(v.Type),
		ValueType:  string(v.ValueType),
		Value:      v.Value.StringFixed(price.MinorUnits),
		UsageLimit: v.UsageLimit,
		Used:       v.Used,
		StartDate:  v.StartDate,
		EndDate:    v.EndDate,
		Active:     v.ActiveOn(h.now()),
		Exhausted:  v.UsageLimit != nil && v.Used >= *v.UsageLimit,
	}
	if v.Limit != nil {
		limit := v.Limit.Gross.StringFixed(price.MinorUnits)
		view.Limit = &limit
	}
	return view
}

// Get handles GET /api/v1/vouchers/{code}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	v, err := h.Source.VoucherByCode(r.Context(), code)
	if err != nil {
		if h.NotFound != nil && errors.Is(err, h.NotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "voucher not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view(v)})
}

// List handles GET /api/v1/vouchers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.Lister.ListVouchers(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
		return
	}
	views := make([]voucherView, 0, len(vouchers))
	for _, v := range vouchers {
		views = append(views, h.view(v))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}
