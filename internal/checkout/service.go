package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/lock"
	"github.com/VanilleBid/weekly-saleor/internal/obs"
	"github.com/VanilleBid/weekly-saleor/internal/price"
	"github.com/VanilleBid/weekly-saleor/internal/pricing"
	"github.com/VanilleBid/weekly-saleor/internal/queue"
	"github.com/VanilleBid/weekly-saleor/internal/stock"
	"github.com/VanilleBid/weekly-saleor/internal/tax"
)

// ErrVoucherNotActive is returned when a voucher exists but is outside
// its validity window.
var ErrVoucherNotActive = errors.New("checkout: voucher is not active")

// VoucherSource resolves vouchers by code.
type VoucherSource interface {
	VoucherByCode(ctx context.Context, code string) (discount.Voucher, error)
}

// Store is the persistence surface the service needs. Stock mutations
// run inside row-locked transactions; voucher usage uses an atomic
// conditional update.
type Store interface {
	VoucherSource
	IncreaseVoucherUsage(ctx context.Context, voucherID int64) error
	DecreaseVoucherUsage(ctx context.Context, voucherID int64) error
	AllocateStock(ctx context.Context, stockID int64, qty int) error
	DeallocateStock(ctx context.Context, stockID int64, qty int) error
	IncreaseStock(ctx context.Context, stockID int64, qty int) error
	DecreaseStock(ctx context.Context, stockID int64, qty int) error
}

// Service computes quotes and transitions orders through placement,
// fulfilment and cancellation.
type Service struct {
	Tax      *tax.Resolver
	Engine   *discount.Engine
	Store    Store
	Vouchers VoucherSource
	Lock     *lock.Locker
	Alerts   *queue.Alerts
	Log      zerolog.Logger
	Now      func() time.Time

	// LowStockThreshold triggers a background alert when a record's
	// availability drops to or below it. Zero disables alerts.
	LowStockThreshold int

	// PreferShippingCountry picks the shipping address before the
	// billing address when deriving the tax country.
	PreferShippingCountry bool
}

// Quote is a fully priced checkout.
type Quote struct {
	Subtotal price.Price
	Discount price.Price
	Shipping price.Price
	Tax      price.Price
	Total    price.Price
	TaxRate  float64
	Country  string
}

// Allocation records one stock reservation made for an order.
type Allocation struct {
	StockID int64
	Qty     int
}

// Order is the placement outcome the caller needs for later
// fulfilment or cancellation.
type Order struct {
	CheckoutID  int64
	Allocations []Allocation
	VoucherID   int64
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) vouchers() VoucherSource {
	if s.Vouchers != nil {
		return s.Vouchers
	}
	return s.Store
}

func (s *Service) engine(chk *Checkout) *discount.Engine {
	if s.Engine != nil {
		return s.Engine
	}
	return &discount.Engine{Lines: LinesResolver{Checkout: chk}, Currency: chk.Currency}
}

// Quote prices the checkout: sale-adjusted subtotal, voucher discount,
// then country tax on top. Voucher problems surface as NotApplicable
// so the caller can show a form error.
func (s *Service) Quote(ctx context.Context, chk *Checkout, requestCountry string) (Quote, error) {
	items := make([]pricing.Item, 0, len(chk.Lines))
	for _, l := range chk.Lines {
		items = append(items, pricing.Item{Qty: l.Quantity, UnitPrice: chk.UnitPrice(l).Gross})
	}

	discountAmount := decimal.Zero
	if chk.VoucherCode != "" {
		d, err := s.voucherDiscount(ctx, chk)
		if err != nil {
			return Quote{}, err
		}
		discountAmount = d.Amount.Gross
	}

	shipping := decimal.Zero
	if chk.ShippingMethod != nil {
		shipping = chk.ShippingMethod.Price.Gross
	}

	country := tax.CountryForCheckout(
		requestCountry, chk.BillingAddress, chk.ShippingAddress, s.PreferShippingCountry)
	rate := s.Tax.Rate(country)

	summary := pricing.Compute(items, discountAmount, rate, shipping)
	cur := chk.Currency
	return Quote{
		Subtotal: price.New(summary.Subtotal, cur),
		Discount: price.New(summary.Discount, cur),
		Shipping: price.New(summary.Shipping, cur),
		Tax:      price.New(summary.Tax, cur),
		Total: price.Price{
			Net:      summary.Total.Sub(summary.Tax),
			Gross:    summary.Total,
			Currency: cur,
		},
		TaxRate: rate,
		Country: country,
	}, nil
}

func (s *Service) voucherDiscount(ctx context.Context, chk *Checkout) (discount.Discount, error) {
	voucher, err := s.vouchers().VoucherByCode(ctx, chk.VoucherCode)
	if err != nil {
		return discount.Discount{}, fmt.Errorf("resolve voucher %q: %w", chk.VoucherCode, err)
	}
	if !voucher.ActiveOn(s.now()) {
		return discount.Discount{}, ErrVoucherNotActive
	}
	d, err := s.engine(chk).CheckoutDiscount(ctx, &voucher, chk)
	if err != nil {
		var na *discount.NotApplicable
		if errors.As(err, &na) {
			obs.VouchersRejectedTotal.WithLabelValues(string(voucher.Type)).Inc()
		}
		return discount.Discount{}, err
	}
	obs.DiscountsAppliedTotal.WithLabelValues(string(voucher.Type)).Inc()
	return d, nil
}

// PlaceOrder reserves stock for every line and consumes one voucher
// use. Already-made reservations are released when a later line fails,
// so a failed placement leaves the ledger untouched.
func (s *Service) PlaceOrder(ctx context.Context, chk *Checkout) (*Order, error) {
	order := &Order{CheckoutID: chk.ID}

	for _, l := range chk.Lines {
		if err := l.Variant.CheckQuantity(l.Quantity); err != nil {
			obs.InsufficientStockTotal.Inc()
			s.rollback(ctx, order)
			return nil, err
		}
		rec := l.Variant.SelectStockRecord(l.Quantity)
		if rec == nil {
			obs.InsufficientStockTotal.Inc()
			s.rollback(ctx, order)
			return nil, stock.InsufficientStock{
				Variant:   l.Variant.SKU,
				Requested: l.Quantity,
				Available: stock.TotalAvailable(l.Variant.Stocks),
			}
		}
		if err := s.withStockLock(ctx, l.Variant.SKU, func(ctx context.Context) error {
			return s.Store.AllocateStock(ctx, rec.ID, l.Quantity)
		}); err != nil {
			s.rollback(ctx, order)
			return nil, fmt.Errorf("allocate stock for %s: %w", l.Variant.SKU, err)
		}
		order.Allocations = append(order.Allocations, Allocation{StockID: rec.ID, Qty: l.Quantity})
		obs.StockOperationsTotal.WithLabelValues("allocate").Inc()

		if remaining := rec.QuantityAvailable() - l.Quantity; s.LowStockThreshold > 0 && remaining <= s.LowStockThreshold {
			s.Alerts.EnqueueLowStock(ctx, queue.LowStockPayload{
				SKU:       l.Variant.SKU,
				Location:  rec.Location,
				Available: remaining,
				Threshold: s.LowStockThreshold,
				At:        s.now(),
			})
		}
	}

	if chk.VoucherCode != "" {
		voucher, err := s.vouchers().VoucherByCode(ctx, chk.VoucherCode)
		if err != nil {
			s.rollback(ctx, order)
			return nil, fmt.Errorf("resolve voucher %q: %w", chk.VoucherCode, err)
		}
		if err := s.Store.IncreaseVoucherUsage(ctx, voucher.ID); err != nil {
			s.rollback(ctx, order)
			return nil, err
		}
		order.VoucherID = voucher.ID
	}

	s.Log.Info().
		Int64("checkout_id", chk.ID).
		Int("lines", len(chk.Lines)).
		Int64("voucher_id", order.VoucherID).
		Msg("order placed")
	return order, nil
}

// Fulfill removes allocated units from both stock pools.
func (s *Service) Fulfill(ctx context.Context, order *Order) error {
	for _, a := range order.Allocations {
		if err := s.Store.DecreaseStock(ctx, a.StockID, a.Qty); err != nil {
			return fmt.Errorf("decrease stock %d: %w", a.StockID, err)
		}
		obs.StockOperationsTotal.WithLabelValues("decrease").Inc()
	}
	return nil
}

// Cancel releases the order's reservations and returns the voucher
// use. Must be called at most once per order.
func (s *Service) Cancel(ctx context.Context, order *Order) error {
	for _, a := range order.Allocations {
		if err := s.Store.DeallocateStock(ctx, a.StockID, a.Qty); err != nil {
			return fmt.Errorf("deallocate stock %d: %w", a.StockID, err)
		}
		obs.StockOperationsTotal.WithLabelValues("deallocate").Inc()
	}
	if order.VoucherID != 0 {
		if err := s.Store.DecreaseVoucherUsage(ctx, order.VoucherID); err != nil {
			return err
		}
	}
	s.Log.Info().Int64("checkout_id", order.CheckoutID).Msg("order canceled")
	return nil
}

// Restock returns fulfilled units to the shelf.
func (s *Service) Restock(ctx context.Context, stockID int64, qty int) error {
	if err := s.Store.IncreaseStock(ctx, stockID, qty); err != nil {
		return err
	}
	obs.StockOperationsTotal.WithLabelValues("increase").Inc()
	return nil
}

func (s *Service) withStockLock(ctx context.Context, sku string, fn func(context.Context) error) error {
	if s.Lock == nil {
		return fn(ctx)
	}
	return s.Lock.WithLock(ctx, lock.StockKey(sku), 10*time.Second, fn)
}

func (s *Service) rollback(ctx context.Context, order *Order) {
	for _, a := range order.Allocations {
		if err := s.Store.DeallocateStock(ctx, a.StockID, a.Qty); err != nil {
			s.Log.Error().Err(err).Int64("stock_id", a.StockID).Msg("rollback deallocate failed")
		}
	}
	order.Allocations = nil
}
