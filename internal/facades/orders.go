package facades

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-order-transactions/internal/logger"
	"github.com/sbilibin2017/gw-order-transactions/internal/models"
	"github.com/sbilibin2017/gw-order-transactions/internal/services"
)

// defaultTimeout bounds the call to the orders service so a hung
// collaborator cannot occupy a worker indefinitely.
const defaultTimeout = 5 * time.Second

// OrdersHTTPFacade fetches orders from the external orders service over HTTP.
type OrdersHTTPFacade struct {
	baseURL string
	client  *http.Client
}

// NewOrdersHTTPFacade creates a facade for the orders service at baseURL.
// A nil client falls back to one with the default timeout.
func NewOrdersHTTPFacade(baseURL string, client *http.Client) *OrdersHTTPFacade {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &OrdersHTTPFacade{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// GetOrderByID fetches a single order by id. A 404 from the orders service
// maps to services.ErrOrderNotFound; any other failure is returned as-is.
func (f *OrdersHTTPFacade) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.OrderSummary, error) {
	url := fmt.Sprintf("%s/orders/%s", f.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("failed to reach orders service", "order_id", orderID, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", services.ErrOrderNotFound, orderID)
	case resp.StatusCode != http.StatusOK:
		logger.Log.Errorw("unexpected response from orders service",
			"order_id", orderID, "status", resp.StatusCode)
		return nil, fmt.Errorf("orders service returned %d", resp.StatusCode)
	}

	var summary models.OrderSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		logger.Log.Errorw("failed to decode order payload", "order_id", orderID, "error", err)
		return nil, err
	}

	return &summary, nil
}
