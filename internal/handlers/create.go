package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
	"github.com/sbilibin2017/gw-order-transactions/internal/services"
)

// TransactionCreator defines the interface that the service must implement.
type TransactionCreator interface {
	Create(ctx context.Context, txn models.TransactionDB) (*models.TransactionDB, error)
}

// CreateTransactionRequest represents the JSON body for recording a transaction
// swagger:model CreateTransactionRequest
type CreateTransactionRequest struct {
	// Order the transaction belongs to
	// required: true
	OrderID string `json:"orderId"`

	// Amount, must be positive
	// required: true
	// default: 100.0
	Amount float64 `json:"amount"`

	// Currency, defaults to UAH when omitted
	// default: UAH
	Currency string `json:"currency,omitempty"`

	// Transaction type
	// required: true
	// default: PAYMENT
	Type string `json:"type"`

	// Transaction status
	// required: true
	// default: COMPLETED
	Status string `json:"status"`

	// Payment method
	// required: true
	// default: CARD
	PaymentMethod string `json:"paymentMethod"`

	// External reference, e.g. a PSP identifier
	TransactionReference *string `json:"transactionReference,omitempty"`

	// Free-form description
	Description *string `json:"description,omitempty"`

	// Time of the transaction, defaults to now when omitted
	TransactionTime *time.Time `json:"transactionTime,omitempty"`

	// Operator or system that processed the transaction
	ProcessedBy *string `json:"processedBy,omitempty"`

	// Opaque metadata stored verbatim
	Metadata models.Metadata `json:"metadata,omitempty"`
}

// TransactionResponse represents a stored transaction
// swagger:model TransactionResponse
type TransactionResponse struct {
	TransactionID        string          `json:"transactionId"`
	OrderID              string          `json:"orderId"`
	Amount               float64         `json:"amount"`
	Currency             string          `json:"currency"`
	Type                 string          `json:"type"`
	Status               string          `json:"status"`
	PaymentMethod        string          `json:"paymentMethod"`
	TransactionReference *string         `json:"transactionReference,omitempty"`
	Description          *string         `json:"description,omitempty"`
	TransactionTime      time.Time       `json:"transactionTime"`
	ProcessedBy          *string         `json:"processedBy,omitempty"`
	Metadata             models.Metadata `json:"metadata,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Invalid request body
	Error string `json:"error"`
}

func newTransactionResponse(txn models.TransactionDB) TransactionResponse {
	return TransactionResponse{
		TransactionID:        txn.TransactionID.String(),
		OrderID:              txn.OrderID.String(),
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		Type:                 txn.Type,
		Status:               txn.Status,
		PaymentMethod:        txn.PaymentMethod,
		TransactionReference: txn.TransactionReference,
		Description:          txn.Description,
		TransactionTime:      txn.TransactionTime,
		ProcessedBy:          txn.ProcessedBy,
		Metadata:             txn.Metadata,
		CreatedAt:            txn.CreatedAt,
		UpdatedAt:            txn.UpdatedAt,
	}
}

// NewCreateTransactionHandler returns an HTTP handler for recording a payment transaction.
// @Summary Record a transaction
// @Description Validates the payload, confirms the referenced order exists with the orders service and stores the transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body handlers.CreateTransactionRequest true "Create Transaction Request"
// @Success 201 {object} handlers.TransactionResponse "Transaction recorded"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body or field values"
// @Failure 404 {object} handlers.ErrorResponse "Order not found"
// @Failure 503 {object} handlers.ErrorResponse "Order validation unavailable"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /transactions [post]
func NewCreateTransactionHandler(svc TransactionCreator) http.HandlerFunc {
	validCurrencies := map[string]struct{}{
		models.USD: {},
		models.EUR: {},
		models.UAH: {},
		models.GBP: {},
	}
	validTypes := map[string]struct{}{
		models.TypePayment: {},
		models.TypeRefund:  {},
	}
	validStatuses := map[string]struct{}{
		models.StatusPending:   {},
		models.StatusCompleted: {},
		models.StatusFailed:    {},
	}
	validMethods := map[string]struct{}{
		models.MethodCard:   {},
		models.MethodCash:   {},
		models.MethodPaypal: {},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode create transaction request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
			return
		}

		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			logger.Log.Warnw("invalid order id", "order_id", req.OrderID)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid order id"})
			return
		}
		if req.Amount <= 0 {
			logger.Log.Warnw("invalid transaction amount", "amount", req.Amount)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Amount must be positive"})
			return
		}
		if req.Currency != "" {
			if _, ok := validCurrencies[req.Currency]; !ok {
				logger.Log.Warnw("invalid transaction currency", "currency", req.Currency)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid currency"})
				return
			}
		}
		if _, ok := validTypes[req.Type]; !ok {
			logger.Log.Warnw("invalid transaction type", "type", req.Type)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid transaction type"})
			return
		}
		if _, ok := validStatuses[req.Status]; !ok {
			logger.Log.Warnw("invalid transaction status", "status", req.Status)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid transaction status"})
			return
		}
		if _, ok := validMethods[req.PaymentMethod]; !ok {
			logger.Log.Warnw("invalid payment method", "payment_method", req.PaymentMethod)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid payment method"})
			return
		}

		txn := models.TransactionDB{
			OrderID:              orderID,
			Amount:               req.Amount,
			Currency:             req.Currency,
			Type:                 req.Type,
			Status:               req.Status,
			PaymentMethod:        req.PaymentMethod,
			TransactionReference: req.TransactionReference,
			Description:          req.Description,
			ProcessedBy:          req.ProcessedBy,
			Metadata:             req.Metadata,
		}
		if req.TransactionTime != nil {
			txn.TransactionTime = *req.TransactionTime
		}

		saved, err := svc.Create(ctx, txn)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrOrderNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Order not found"})
			case errors.Is(err, services.ErrOrderValidationUnavailable):
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Order validation unavailable"})
			default:
				logger.Log.Errorw("failed to create transaction", "order_id", orderID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newTransactionResponse(*saved))
	}
}
