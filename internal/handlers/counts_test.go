package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCountTransactionsHandler(t *testing.T) {
	orderA := uuid.New()
	orderB := uuid.New()

	tests := []struct {
		name               string
		requestBody        any
		setupMocks         func(mockCounter *MockTransactionCounter)
		expectedStatusCode int
		expectedCounts     map[string]int64
	}{
		{
			name:        "counts with zero fill",
			requestBody: CountTransactionsRequest{OrderIDs: []string{orderA.String(), orderB.String()}},
			setupMocks: func(mockCounter *MockTransactionCounter) {
				mockCounter.EXPECT().CountsByOrders(gomock.Any(), []uuid.UUID{orderA, orderB}).
					Return(map[uuid.UUID]int64{orderA: 5, orderB: 0}, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedCounts:     map[string]int64{orderA.String(): 5, orderB.String(): 0},
		},
		{
			name:               "invalid request body",
			requestBody:        "invalid-json",
			setupMocks:         func(mockCounter *MockTransactionCounter) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "empty order id list",
			requestBody:        CountTransactionsRequest{OrderIDs: []string{}},
			setupMocks:         func(mockCounter *MockTransactionCounter) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "invalid order id",
			requestBody:        CountTransactionsRequest{OrderIDs: []string{orderA.String(), "not-a-uuid"}},
			setupMocks:         func(mockCounter *MockTransactionCounter) {},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:        "internal server error from service",
			requestBody: CountTransactionsRequest{OrderIDs: []string{orderA.String()}},
			setupMocks: func(mockCounter *MockTransactionCounter) {
				mockCounter.EXPECT().CountsByOrders(gomock.Any(), []uuid.UUID{orderA}).
					Return(nil, assert.AnError)
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCounter := NewMockTransactionCounter(ctrl)
			tt.setupMocks(mockCounter)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/_counts", bytes.NewReader(bodyBytes))
			rr := httptest.NewRecorder()

			handler := NewCountTransactionsHandler(mockCounter)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)

			if tt.expectedStatusCode == http.StatusOK {
				var resp CountTransactionsResponse
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCounts, resp.Counts)
			}
		})
	}
}
