package payment

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/models"
)

// OrderClient drives order status transitions over HTTP, authenticating as
// the payment service with the shared service token. Transient failures are
// retried with exponential backoff behind a circuit breaker; a 4xx from the
// order service is final and never retried.
type OrderClient struct {
	baseURL      string
	serviceToken string
	client       *http.Client
	breaker      *gobreaker.CircuitBreaker[struct{}]
	maxRetries   uint64
}

func NewOrderClient(baseURL, serviceToken string) *OrderClient {
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "order-service",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	maxRetries, err := strconv.ParseUint(global.GetEnvOrDefault("STATUS_SYNC_MAX_RETRIES", "2"), 10, 8)
	if err != nil {
		maxRetries = 2
	}
	return &OrderClient{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		client:       &http.Client{Timeout: 5 * time.Second},
		breaker:      breaker,
		maxRetries:   maxRetries,
	}
}

func (oc *OrderClient) UpdateStatus(ctx context.Context, orderID string, target models.OrderStatus) error {
	operation := func() error {
		_, err := oc.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, oc.postStatus(ctx, orderID, target)
		})
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), oc.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

func (oc *OrderClient) postStatus(ctx context.Context, orderID string, target models.OrderStatus) error {
	url := fmt.Sprintf("%s/order-service/api/orders/%s/status?status=%s", oc.baseURL, orderID, target)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("X-Service-Token", oc.serviceToken)

	resp, err := oc.client.Do(req)
	if err != nil {
		return fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Not found, forbidden, illegal transition: retrying cannot help.
		return backoff.Permanent(fmt.Errorf("order service rejected status update: %d", resp.StatusCode))
	default:
		return fmt.Errorf("order service returned %d", resp.StatusCode)
	}
}
