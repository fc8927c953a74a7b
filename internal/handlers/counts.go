package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
)

// TransactionCounter defines the interface that the service must implement.
type TransactionCounter interface {
	CountsByOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// CountTransactionsRequest represents the JSON body for a bulk count
// swagger:model CountTransactionsRequest
type CountTransactionsRequest struct {
	// Order IDs to count transactions for
	// required: true
	OrderIDs []string `json:"orderIds"`
}

// CountTransactionsResponse represents per-order transaction counts
// swagger:model CountTransactionsResponse
type CountTransactionsResponse struct {
	// Count per order id, 0 for orders without transactions
	Counts map[string]int64 `json:"counts"`
}

// NewCountTransactionsHandler returns an HTTP handler for bulk transaction counts.
// @Summary Count transactions per order
// @Description Returns the transaction count for every requested order id. Orders without transactions report 0.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body handlers.CountTransactionsRequest true "Count Transactions Request"
// @Success 200 {object} handlers.CountTransactionsResponse "Counts per order"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body or order ids"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transactions/_counts [post]
func NewCountTransactionsHandler(svc TransactionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CountTransactionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode count transactions request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
			return
		}

		if len(req.OrderIDs) == 0 {
			logger.Log.Warnw("empty order id list")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Order id list must not be empty"})
			return
		}

		orderIDs := make([]uuid.UUID, 0, len(req.OrderIDs))
		for _, raw := range req.OrderIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				logger.Log.Warnw("invalid order id", "order_id", raw)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid order id"})
				return
			}
			orderIDs = append(orderIDs, id)
		}

		counts, err := svc.CountsByOrders(ctx, orderIDs)
		if err != nil {
			logger.Log.Errorw("failed to count transactions", "order_ids", req.OrderIDs, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		resp := CountTransactionsResponse{Counts: make(map[string]int64, len(counts))}
		for id, count := range counts {
			resp.Counts[id.String()] = count
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
