package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
	"github.com/sbilibin2017/gw-order-transactions/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestCreateTransactionHandler(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name               string
		requestBody        any
		setupMocks         func(mockCreator *MockTransactionCreator)
		expectedStatusCode int
		expectedKey        string
	}{
		{
			name: "successful create",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        250.5,
				Currency:      models.USD,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks: func(mockCreator *MockTransactionCreator) {
				mockCreator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&models.TransactionDB{
					TransactionID: uuid.New(),
					OrderID:       orderID,
					Amount:        250.5,
					Currency:      models.USD,
					Type:          models.TypePayment,
					Status:        models.StatusCompleted,
					PaymentMethod: models.MethodCard,
				}, nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectedKey:        "transactionId",
		},
		{
			name:               "invalid request body",
			requestBody:        "invalid-json",
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "invalid order id",
			requestBody: CreateTransactionRequest{
				OrderID:       "not-a-uuid",
				Amount:        100,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "non-positive amount",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        -5,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "invalid currency",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Currency:      "BTC",
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "invalid transaction type",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Type:          "CHARGEBACK",
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "invalid status",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Type:          models.TypePayment,
				Status:        "CANCELLED",
				PaymentMethod: models.MethodCard,
			},
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "invalid payment method",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: "WIRE",
			},
			setupMocks:         func(mockCreator *MockTransactionCreator) {},
			expectedStatusCode: http.StatusBadRequest,
			expectedKey:        "error",
		},
		{
			name: "order not found",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks: func(mockCreator *MockTransactionCreator) {
				mockCreator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, services.ErrOrderNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
			expectedKey:        "error",
		},
		{
			name: "order validation unavailable",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks: func(mockCreator *MockTransactionCreator) {
				mockCreator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, services.ErrOrderValidationUnavailable)
			},
			expectedStatusCode: http.StatusServiceUnavailable,
			expectedKey:        "error",
		},
		{
			name: "internal server error from service",
			requestBody: CreateTransactionRequest{
				OrderID:       orderID.String(),
				Amount:        100,
				Type:          models.TypePayment,
				Status:        models.StatusCompleted,
				PaymentMethod: models.MethodCard,
			},
			setupMocks: func(mockCreator *MockTransactionCreator) {
				mockCreator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			expectedStatusCode: http.StatusInternalServerError,
			expectedKey:        "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCreator := NewMockTransactionCreator(ctrl)
			tt.setupMocks(mockCreator)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(bodyBytes))
			rr := httptest.NewRecorder()

			handler := NewCreateTransactionHandler(mockCreator)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)

			var resp map[string]interface{}
			err := json.NewDecoder(rr.Body).Decode(&resp)
			assert.NoError(t, err)

			_, ok := resp[tt.expectedKey]
			assert.True(t, ok, "response should contain key %s", tt.expectedKey)
		})
	}
}

func TestCreateTransactionHandler_PassesNormalizedInput(t *testing.T) {
	orderID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCreator := NewMockTransactionCreator(ctrl)
	mockCreator.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, txn models.TransactionDB) (*models.TransactionDB, error) {
			assert.Equal(t, orderID, txn.OrderID)
			assert.Empty(t, txn.Currency)
			assert.True(t, txn.TransactionTime.IsZero())
			assert.Equal(t, models.Metadata{"channel": "web"}, txn.Metadata)
			return &txn, nil
		})

	body, _ := json.Marshal(CreateTransactionRequest{
		OrderID:       orderID.String(),
		Amount:        100,
		Type:          models.TypePayment,
		Status:        models.StatusPending,
		PaymentMethod: models.MethodCash,
		Metadata:      models.Metadata{"channel": "web"},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	NewCreateTransactionHandler(mockCreator).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}
