package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/common"
	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/price"
	"github.com/VanilleBid/weekly-saleor/internal/stock"
)

// CatalogSource resolves cart lines and active sales for quoting.
type CatalogSource interface {
	VariantBySKU(ctx context.Context, sku string) (*catalog.Product, *catalog.ProductVariant, error)
	ActiveSales(ctx context.Context) ([]discount.Sale, error)
}

// Handler exposes checkout quoting over HTTP.
// NotFound is the store's missing-row sentinel.
type Handler struct {
	Svc             *Service
	Catalog         CatalogSource
	Validate        *validator.Validate
	NotFound        error
	DefaultCurrency string
}

type quoteLine struct {
	SKU      string `json:"sku" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type quoteShipping struct {
	Name    string `json:"name"`
	Price   string `json:"price" validate:"required"`
	Country string `json:"country" validate:"omitempty,len=2"`
}

type quoteRequest struct {
	Currency        string         `json:"currency" validate:"omitempty,len=3"`
	CustomerID      int64          `json:"customerId"`
	Country         string         `json:"country" validate:"omitempty,len=2"`
	BillingCountry  string         `json:"billingCountry" validate:"omitempty,len=2"`
	ShippingCountry string         `json:"shippingCountry" validate:"omitempty,len=2"`
	VoucherCode     string         `json:"voucherCode"`
	Shipping        *quoteShipping `json:"shipping"`
	Lines           []quoteLine    `json:"lines" validate:"required,min=1,dive"`
}

type quoteResponse struct {
	Subtotal string  `json:"subtotal"`
	Discount string  `json:"discount"`
	Shipping string  `json:"shipping"`
	Tax      string  `json:"tax"`
	Total    string  `json:"total"`
	TaxRate  float64 `json:"taxRate"`
	Country  string  `json:"country"`
	Currency string  `json:"currency"`
}

// Quote handles POST /api/v1/checkout/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid quote request", validationDetails(err))
		return
	}

	chk, err := h.buildCheckout(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	quote, err := h.Svc.Quote(r.Context(), chk, req.Country)
	if err != nil {
		h.writeError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, map[string]any{"data": quoteResponse{
		Subtotal: quote.Subtotal.Gross.StringFixed(price.MinorUnits),
		Discount: quote.Discount.Gross.StringFixed(price.MinorUnits),
		Shipping: quote.Shipping.Gross.StringFixed(price.MinorUnits),
		Tax:      quote.Tax.Gross.StringFixed(price.MinorUnits),
		Total:    quote.Total.Gross.StringFixed(price.MinorUnits),
		TaxRate:  quote.TaxRate,
		Country:  quote.Country,
		Currency: chk.Currency,
	}})
}

func (h *Handler) buildCheckout(ctx context.Context, req *quoteRequest) (*Checkout, error) {
	currency := req.Currency
	if currency == "" {
		currency = h.DefaultCurrency
	}

	chk := &Checkout{
		CustomerID:  req.CustomerID,
		Currency:    currency,
		VoucherCode: req.VoucherCode,
	}
	if req.BillingCountry != "" {
		chk.BillingAddress = &catalog.Address{Country: req.BillingCountry}
	}
	if req.ShippingCountry != "" {
		chk.ShippingAddress = &catalog.Address{Country: req.ShippingCountry}
	}
	if req.Shipping != nil {
		amount, err := decimal.NewFromString(req.Shipping.Price)
		if err != nil {
			return nil, &common.AppError{
				Code: "VALIDATION", Message: "invalid shipping price", HTTPStatus: http.StatusBadRequest}
		}
		chk.ShippingMethod = &catalog.ShippingMethod{
			Name:        req.Shipping.Name,
			Price:       price.New(amount, currency),
			CountryCode: req.Shipping.Country,
		}
	}

	for _, line := range req.Lines {
		product, variant, err := h.Catalog.VariantBySKU(ctx, line.SKU)
		if err != nil {
			if h.NotFound != nil && errors.Is(err, h.NotFound) {
				return nil, &common.AppError{
					Code: "NOT_FOUND", Message: "unknown sku " + line.SKU, HTTPStatus: http.StatusNotFound}
			}
			return nil, err
		}
		chk.Lines = append(chk.Lines, Line{Product: product, Variant: variant, Quantity: line.Quantity})
	}

	sales, err := h.Catalog.ActiveSales(ctx)
	if err != nil {
		return nil, err
	}
	chk.Sales = sales
	return chk, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var na *discount.NotApplicable
	if errors.As(err, &na) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VOUCHER_NOT_APPLICABLE", na.Reason, nil)
		return
	}
	if errors.Is(err, ErrVoucherNotActive) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VOUCHER_NOT_ACTIVE", "voucher is not active", nil)
		return
	}
	if errors.Is(err, discount.ErrUsageLimitReached) {
		common.JSONError(w, http.StatusConflict, "VOUCHER_EXHAUSTED", "voucher usage limit reached", nil)
		return
	}
	var insufficient stock.InsufficientStock
	if errors.As(err, &insufficient) {
		common.JSONError(w, http.StatusConflict, "INSUFFICIENT_STOCK", insufficient.Error(), map[string]any{
			"sku":       insufficient.Variant,
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	if h.NotFound != nil && errors.Is(err, h.NotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "not found", nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
