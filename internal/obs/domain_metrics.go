package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var domainOnce sync.Once

var (
	// DiscountsAppliedTotal counts discounts that were actually granted,
	// labelled by discount type (value, shipping, product, category, sale).
	DiscountsAppliedTotal *prometheus.CounterVec

	// VouchersRejectedTotal counts voucher applications that were refused,
	// labelled by rejection reason.
	VouchersRejectedTotal *prometheus.CounterVec

	// StockOperationsTotal counts ledger mutations by operation
	// (allocate, deallocate, decrease, increase).
	StockOperationsTotal *prometheus.CounterVec

	// InsufficientStockTotal counts checkout attempts blocked by stock checks.
	InsufficientStockTotal prometheus.Counter

	// VoucherUsageLimitHits counts usage increments refused at the limit.
	VoucherUsageLimitHits prometheus.Counter
)

// MustRegisterDomainMetrics registers the pricing and stock counters
// on reg, defaulting to the global registerer. Safe to call more than
// once.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DiscountsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discounts_applied_total",
			Help:      "Count of granted discounts by type.",
		}, []string{"type"})
		VouchersRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vouchers_rejected_total",
			Help:      "Count of refused voucher applications by reason.",
		}, []string{"reason"})
		StockOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_operations_total",
			Help:      "Count of stock ledger mutations by operation.",
		}, []string{"op"})
		InsufficientStockTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insufficient_stock_total",
			Help:      "Checkouts blocked because requested quantity exceeded availability.",
		})
		VoucherUsageLimitHits = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voucher_usage_limit_hits_total",
			Help:      "Voucher usage increments refused because the limit was reached.",
		})

		reg.MustRegister(
			DiscountsAppliedTotal,
			VouchersRejectedTotal,
			StockOperationsTotal,
			InsufficientStockTotal,
			VoucherUsageLimitHits,
		)
	})
}
