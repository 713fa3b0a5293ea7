package voucher

import (
	"context"

	"github.com/VanilleBid/weekly-saleor/internal/cache"
	"github.com/VanilleBid/weekly-saleor/internal/discount"
)

// VoucherSource is the upstream lookup the cached layer wraps.
type VoucherSource interface {
	VoucherByCode(ctx context.Context, code string) (discount.Voucher, error)
}

// Vouchers caches voucher lookups by code. Usage counters change on
// every order, so the TTL should stay short; the usage check itself
// happens in the store, never against the cached copy.
type Vouchers struct {
	Source VoucherSource
	Cache  *cache.Cache
}

// VoucherByCode returns the cached voucher when present, otherwise
// loads and caches it.
func (v *Vouchers) VoucherByCode(ctx context.Context, code string) (discount.Voucher, error) {
	key := cache.KeyVoucher(code)

	var cached discount.Voucher
	if hit, err := v.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	voucher, err := v.Source.VoucherByCode(ctx, code)
	if err != nil {
		return discount.Voucher{}, err
	}
	_ = v.Cache.SetJSON(ctx, key, voucher)
	return voucher, nil
}

// Invalidate drops the cached copy of a voucher code.
func (v *Vouchers) Invalidate(ctx context.Context, code string) error {
	return v.Cache.Invalidate(ctx, cache.KeyVoucher(code))
}
