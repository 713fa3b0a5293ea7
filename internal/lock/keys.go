package lock

// StockKey names the lock guarding stock mutations for one variant.
func StockKey(sku string) string {
	return "lock:stock:" + sku
}

// VoucherKey names the lock guarding usage updates for one voucher.
func VoucherKey(code string) string {
	return "lock:voucher:" + code
}
