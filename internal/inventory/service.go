package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"api_reports/internal/notify"
)

// AlertNotifier receives low stock alerts. It must not block.
type AlertNotifier interface {
	NotifyLowStock(ctx context.Context, alert notify.LowStockAlert) bool
}

// Service handles stock mutations.
type Service struct {
	storage   Storage
	notifier  AlertNotifier
	threshold int
	logger    *zap.Logger
}

// NewService creates a Service. threshold is the stock level at or below
// which an alert is raised.
func NewService(storage Storage, notifier AlertNotifier, threshold int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, notifier: notifier, threshold: threshold, logger: logger}
}

// AdjustStock adds delta (negative to remove) to the product's stock and
// raises a low stock alert when the result is at or below the threshold.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (*Product, error) {
	p, err := s.storage.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.logger.Info("stock updated",
		zap.Int64("product_id", p.ID),
		zap.Int("delta", delta),
		zap.Int("stock", p.Stock))

	if p.Stock <= s.threshold && s.notifier != nil {
		s.logger.Warn("stock below threshold",
			zap.String("product", p.Name),
			zap.Int("stock", p.Stock),
			zap.Int("threshold", s.threshold))
		s.notifier.NotifyLowStock(ctx, notify.LowStockAlert{
			ProductID:   p.ID,
			ProductName: p.Name,
			Stock:       p.Stock,
		})
	}
	return p, nil
}
