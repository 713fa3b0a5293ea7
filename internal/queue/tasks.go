package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// TypeLowStockAlert identifies background tasks emitted when availability
// drops to or below the configured threshold.
const TypeLowStockAlert = "stock:low_stock_alert"

// LowStockPayload carries the context of a low stock event.
type LowStockPayload struct {
	SKU       string    `json:"sku"`
	Location  string    `json:"location"`
	Available int       `json:"available"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}

// NewLowStockTask builds an asynq task for the low stock alert queue.
func NewLowStockTask(p LowStockPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal low stock payload: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, data, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Alerts enqueues stock alert tasks from the request path.
type Alerts struct {
	Client *asynq.Client
	Log    zerolog.Logger
}

// EnqueueLowStock schedules a low stock alert. Failures are logged rather
// than propagated so order placement is never blocked by the queue.
func (a *Alerts) EnqueueLowStock(ctx context.Context, p LowStockPayload) {
	if a == nil || a.Client == nil {
		return
	}
	task, err := NewLowStockTask(p)
	if err != nil {
		a.Log.Error().Err(err).Str("sku", p.SKU).Msg("build low stock task")
		return
	}
	if _, err := a.Client.EnqueueContext(ctx, task); err != nil {
		a.Log.Error().Err(err).Str("sku", p.SKU).Msg("enqueue low stock task")
		return
	}
	a.Log.Debug().Str("sku", p.SKU).Int("available", p.Available).Msg("low stock alert enqueued")
}

// LowStockHandler processes low stock alerts on the worker side.
type LowStockHandler struct {
	Log zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (h LowStockHandler) ProcessTask(_ context.Context, t *asynq.Task) error {
	var p LowStockPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("queue: decode low stock payload: %w", err)
	}
	h.Log.Warn().
		Str("sku", p.SKU).
		Str("location", p.Location).
		Int("available", p.Available).
		Int("threshold", p.Threshold).
		Time("at", p.At).
		Msg("stock below threshold")
	return nil
}
