package voucher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/VanilleBid/weekly-saleor/internal/discount"
)

var errMissing = errors.New("no rows")

type stubVouchers struct {
	byCode map[string]discount.Voucher
}

func (s *stubVouchers) VoucherByCode(_ context.Context, code string) (discount.Voucher, error) {
	v, ok := s.byCode[code]
	if !ok {
		return discount.Voucher{}, errMissing
	}
	return v, nil
}

func (s *stubVouchers) ListVouchers(_ context.Context) ([]discount.Voucher, error) {
	out := make([]discount.Voucher, 0, len(s.byCode))
	for _, v := range s.byCode {
		out = append(out, v)
	}
	return out, nil
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/vouchers", h.List)
	r.Get("/vouchers/{code}", h.Get)
	return r
}

func newHandler(stub *stubVouchers) *Handler {
	return &Handler{
		Source:   stub,
		Lister:   stub,
		NotFound: errMissing,
		Now:      func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestGetVoucher(t *testing.T) {
	limit := 100
	stub := &stubVouchers{byCode: map[string]discount.Voucher{
		"WELCOME10": {
			ID: 1, Code: "WELCOME10", Name: "Welcome",
			Type: discount.VoucherValue, ValueType: discount.Percentage,
			Value: decimal.NewFromInt(10), UsageLimit: &limit, Used: 3,
		},
	}}
	srv := httptest.NewServer(newRouter(newHandler(stub)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/vouchers/WELCOME10")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Code      string `json:"code"`
			Type      string `json:"type"`
			Value     string `json:"value"`
			Used      int    `json:"used"`
			Active    bool   `json:"active"`
			Exhausted bool   `json:"exhausted"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "WELCOME10", body.Data.Code)
	require.Equal(t, "value", body.Data.Type)
	require.Equal(t, "10.00", body.Data.Value)
	require.Equal(t, 3, body.Data.Used)
	require.True(t, body.Data.Active)
	require.False(t, body.Data.Exhausted)
}

func TestGetVoucherExhaustedAndInactive(t *testing.T) {
	limit := 2
	past := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	stub := &stubVouchers{byCode: map[string]discount.Voucher{
		"GONE": {
			ID: 2, Code: "GONE",
			Type: discount.VoucherValue, ValueType: discount.Fixed,
			Value: decimal.NewFromInt(5), UsageLimit: &limit, Used: 2,
			EndDate: &past,
		},
	}}
	srv := httptest.NewServer(newRouter(newHandler(stub)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/vouchers/GONE")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Data struct {
			Active    bool `json:"active"`
			Exhausted bool `json:"exhausted"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Data.Active)
	require.True(t, body.Data.Exhausted)
}

func TestGetVoucherNotFound(t *testing.T) {
	stub := &stubVouchers{byCode: map[string]discount.Voucher{}}
	srv := httptest.NewServer(newRouter(newHandler(stub)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/vouchers/NOPE")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListVouchers(t *testing.T) {
	stub := &stubVouchers{byCode: map[string]discount.Voucher{
		"A": {ID: 1, Code: "A", Type: discount.VoucherValue, ValueType: discount.Fixed, Value: decimal.NewFromInt(1)},
		"B": {ID: 2, Code: "B", Type: discount.VoucherShipping, ValueType: discount.Fixed, Value: decimal.NewFromInt(2)},
	}}
	srv := httptest.NewServer(newRouter(newHandler(stub)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/vouchers")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []voucherView `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 2)
}
