package sales

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service provides the sales queries used by reports on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// Metadata para la respuesta de búsqueda
type SalesMetadata struct {
	Quantity    int             `json:"quantity"`
	Completed   int             `json:"completed"`
	Pending     int             `json:"pending"`
	Cancelled   int             `json:"cancelled"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Search returns the sales matching f, newest first.
func (s *Service) Search(ctx context.Context, f Filter) ([]*Sale, error) {
	list, err := s.storage.List(ctx, f)
	if err != nil {
		s.logger.Error("failed to list sales", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return list, nil
}

// SearchWithMetadata is Search plus per-status counts and the total amount.
func (s *Service) SearchWithMetadata(ctx context.Context, f Filter) ([]*Sale, SalesMetadata, error) {
	list, err := s.Search(ctx, f)
	if err != nil {
		return nil, SalesMetadata{}, err
	}

	metadata := SalesMetadata{TotalAmount: decimal.Zero}
	for _, sale := range list {
		metadata.Quantity++
		metadata.TotalAmount = metadata.TotalAmount.Add(sale.TotalAmount)
		switch sale.Status {
		case StatusCompleted:
			metadata.Completed++
		case StatusPending:
			metadata.Pending++
		case StatusCancelled:
			metadata.Cancelled++
		}
	}

	s.logger.Info("sales search completed",
		zap.Int("results_count", len(list)),
		zap.Any("metadata", metadata),
	)

	return list, metadata, nil
}
