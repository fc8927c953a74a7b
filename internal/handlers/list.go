package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
)

// Pagination bounds for the list endpoint.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TransactionLister defines the interface that the service must implement.
type TransactionLister interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID, limit, offset int) ([]models.TransactionDB, error)
}

// NewListTransactionsHandler returns an HTTP handler for listing transactions of one order.
// @Summary List transactions for an order
// @Description Returns the order's transactions newest first. Pagination is controlled by size (1-100, default 10) and from (offset, default 0). An unknown order yields an empty list.
// @Tags transactions
// @Produce json
// @Param orderId query string true "Order ID"
// @Param size query int false "Page size" default(10)
// @Param from query int false "Offset" default(0)
// @Success 200 {array} handlers.TransactionResponse "Transactions"
// @Failure 400 {object} handlers.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transactions [get]
func NewListTransactionsHandler(svc TransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := uuid.Parse(r.URL.Query().Get("orderId"))
		if err != nil {
			logger.Log.Warnw("invalid order id", "order_id", r.URL.Query().Get("orderId"))
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid order id"})
			return
		}

		size := defaultPageSize
		if raw := r.URL.Query().Get("size"); raw != "" {
			size, err = strconv.Atoi(raw)
			if err != nil || size < 1 || size > maxPageSize {
				logger.Log.Warnw("invalid page size", "size", raw)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid page size"})
				return
			}
		}

		from := 0
		if raw := r.URL.Query().Get("from"); raw != "" {
			from, err = strconv.Atoi(raw)
			if err != nil || from < 0 {
				logger.Log.Warnw("invalid offset", "from", raw)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid offset"})
				return
			}
		}

		txns, err := svc.ListByOrder(ctx, orderID, size, from)
		if err != nil {
			logger.Log.Errorw("failed to list transactions", "order_id", orderID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			return
		}

		resp := make([]TransactionResponse, 0, len(txns))
		for _, txn := range txns {
			resp = append(resp, newTransactionResponse(txn))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
