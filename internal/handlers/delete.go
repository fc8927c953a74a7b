package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
)

// TransactionDeleter defines the interface that the service must implement.
type TransactionDeleter interface {
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}

// DeleteTransactionsResponse represents the result of a bulk delete
// swagger:model DeleteTransactionsResponse
type DeleteTransactionsResponse struct {
	// Number of deleted transactions
	// default: 3
	Deleted int64 `json:"deleted"`
}

// NewDeleteTransactionsHandler returns an HTTP handler for removing all transactions of an order.
// @Summary Delete transactions of an order
// @Description Administrative cleanup: removes every transaction recorded for the order and reports how many were deleted.
// @Tags transactions
// @Produce json
// @Param orderId query string true "Order ID"
// @Success 200 {object} handlers.DeleteTransactionsResponse "Transactions deleted"
// @Failure 400 {object} handlers.ErrorResponse "Invalid order id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transactions [delete]
// @Security BearerAuth
func NewDeleteTransactionsHandler(svc TransactionDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := uuid.Parse(r.URL.Query().Get("orderId"))
		if err != nil {
			logger.Log.Warnw("invalid order id", "order_id", r.URL.Query().Get("orderId"))
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid order id"})
			return
		}

		deleted, err := svc.DeleteByOrder(ctx, orderID)
		if err != nil {
			logger.Log.Errorw("failed to delete transactions", "order_id", orderID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteTransactionsResponse{Deleted: deleted})
	}
}
