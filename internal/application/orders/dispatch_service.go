package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DispatchService records dispatches against pending orders. Entries
// are appended to the dispatch worksheet and never edited afterwards.
type DispatchService struct {
	repo orders.Repository
	log  *zap.Logger
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(repo orders.Repository, log *zap.Logger) *DispatchService {
	return &DispatchService{
		repo: repo,
		log:  log.Named("dispatch"),
	}
}

// SaveBatch appends each valid entry and reports the rest in Errors.
// Entries are independent, so one bad line does not block the batch;
// the error is returned only when the backend is down or the input is
// empty.
func (s *DispatchService) SaveBatch(ctx context.Context, inputs []DispatchInput) (*DispatchSaveResult, error) {
	if s.repo == nil {
		return nil, shared.ErrBackendUnavailable
	}
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "at least one dispatch entry is required")
	}

	result := &DispatchSaveResult{}
	for i, in := range inputs {
		serial := strings.TrimSpace(in.Serial)
		product := strings.TrimSpace(in.Product)
		switch {
		case serial == "":
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: order number is required", i))
			continue
		case product == "":
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: product is required", i))
			continue
		case in.Quantity <= 0:
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: quantity must be positive", i))
			continue
		}

		d := orders.NewDispatch{
			Company:  strings.TrimSpace(in.Company),
			Product:  product,
			Quantity: in.Quantity,
			Serial:   serial,
		}
		if err := s.repo.AppendDispatch(ctx, d); err != nil {
			s.log.Error("dispatch append failed",
				zap.String("serial", serial),
				zap.String("product", product),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: could not write to sheet", i))
			continue
		}
		result.Written++
	}
	result.Ok = result.Written > 0

	s.log.Info("dispatch batch saved",
		zap.Int("written", result.Written),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}
