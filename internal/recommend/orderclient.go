package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shadows-market/storefront/pkg/models"
)

// CatalogClient reads the catalog and the buyer's purchase history from the
// order service. The buyer's own bearer token is forwarded for the history
// call so the order service applies its usual ownership checks.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListMyOrders(ctx context.Context, bearerToken string) ([]models.Order, error)
}

type HTTPCatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCatalogClient(baseURL string) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (cc *HTTPCatalogClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := cc.getJSON(ctx, cc.baseURL+"/order-service/api/products", "", &products)
	return products, err
}

func (cc *HTTPCatalogClient) ListMyOrders(ctx context.Context, bearerToken string) ([]models.Order, error) {
	var orders []models.Order
	err := cc.getJSON(ctx, cc.baseURL+"/order-service/api/orders/me", bearerToken, &orders)
	return orders, err
}

func (cc *HTTPCatalogClient) getJSON(ctx context.Context, url, bearerToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := cc.client.Do(req)
	if err != nil {
		return fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("order service returned %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}
