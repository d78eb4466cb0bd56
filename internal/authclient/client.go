// Package authclient consumes the identity service's token-verifier
// capability. The storefront services never parse token internals themselves;
// they hand the opaque bearer string to this client.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shadows-market/storefront/pkg/models"
)

type Verification struct {
	Valid    bool        `json:"valid"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

type Verifier interface {
	Verify(ctx context.Context, token string) (Verification, error)
}

// HTTPVerifier calls POST {base}/auth-service/api/validate.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Verification, error) {
	body, _ := json.Marshal(map[string]string{"token": token})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/auth-service/api/validate", bytes.NewReader(body))
	if err != nil {
		return Verification{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return Verification{}, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verification{}, fmt.Errorf("auth service returned %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool         `json:"success"`
		Data    Verification `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Verification{}, err
	}
	return envelope.Data, nil
}
