package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
)

var (
	// ErrOrderNotFound is returned when the orders service definitively reports
	// that the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderValidationUnavailable is returned when the orders service cannot
	// be reached and the failure policy is FailurePolicyFail.
	ErrOrderValidationUnavailable = errors.New("order validation unavailable")
)

// OrderGetter fetches an order from the external orders service.
type OrderGetter interface {
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error)
}

// FailurePolicy controls what happens when the orders service cannot be
// reached or answers with an unexpected error.
type FailurePolicy string

const (
	// FailurePolicyFail aborts creation when the orders service is unreachable.
	FailurePolicyFail FailurePolicy = "fail"
	// FailurePolicyBypass logs the anomaly and treats the order as valid,
	// keeping environments without a running orders service usable.
	FailurePolicyBypass FailurePolicy = "bypass"
)

// OrderValidationService confirms that an order exists before a transaction
// referencing it is recorded. The failure policy is an explicit constructor
// argument, not an ambient environment read.
type OrderValidationService struct {
	orders OrderGetter
	policy FailurePolicy
}

// NewOrderValidationService creates a validator with the given failure policy.
func NewOrderValidationService(orders OrderGetter, policy FailurePolicy) *OrderValidationService {
	return &OrderValidationService{orders: orders, policy: policy}
}

// ValidateOrderExists checks the order with the orders service.
// ErrOrderNotFound always aborts. Any other lookup failure either aborts with
// ErrOrderValidationUnavailable, or under the bypass policy is logged and
// treated as a confirmation with no summary.
func (s *OrderValidationService) ValidateOrderExists(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error) {
	summary, err := s.orders.GetOrderByID(ctx, orderID)
	if err == nil {
		return summary, nil
	}

	if errors.Is(err, ErrOrderNotFound) {
		logger.Log.Warnw("order does not exist", "order_id", orderID)
		return nil, err
	}

	if s.policy == FailurePolicyBypass {
		logger.Log.Warnw("orders service unavailable, proceeding without validation",
			"order_id", orderID, "error", err)
		return nil, nil
	}

	logger.Log.Errorw("orders service unavailable", "order_id", orderID, "error", err)
	return nil, fmt.Errorf("%w: %v", ErrOrderValidationUnavailable, err)
}
