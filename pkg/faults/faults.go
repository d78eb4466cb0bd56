// Package faults defines the error taxonomy shared by the storefront
// services. Every kind is typed so callers can tell exactly what state
// changed; nothing here is ever collapsed into a generic internal error.
package faults

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shadows-market/storefront/pkg/models"
)

var (
	// ErrUnauthenticated means the token was missing or invalid.
	ErrUnauthenticated = errors.New("missing or invalid token")
	// ErrForbidden means the token was valid but the role/ownership check failed.
	ErrForbidden = errors.New("forbidden")
	// ErrOrderNotFound means the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrConflict means the caller lost a serialization race and should
	// re-read before retrying.
	ErrConflict = errors.New("conflict: lost serialization race")
	// ErrUnavailable wraps unexpected infrastructure failures; safe to retry.
	ErrUnavailable = errors.New("store unavailable")
	// ErrEmptyCheckout means the request carried no valid lines.
	ErrEmptyCheckout = errors.New("no valid items to checkout")
)

// ProductNotFound reports checkout lines referencing unknown products.
type ProductNotFound struct {
	MissingIDs []string
}

func (e *ProductNotFound) Error() string {
	return "products not found: " + strings.Join(e.MissingIDs, ", ")
}

// InsufficientStock reports the first line that failed stock validation,
// evaluated against a consistent inventory snapshot.
type InsufficientStock struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// IllegalTransition reports a status change the state machine does not allow,
// including the pair that was attempted.
type IllegalTransition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *IllegalTransition) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// PartialFailure means the payment record was persisted but the downstream
// status update failed; the caller should retry only the status sync.
type PartialFailure struct {
	PaymentRecorded    bool
	StatusUpdateFailed bool
	Cause              error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("payment recorded but status update failed: %v", e.Cause)
}

func (e *PartialFailure) Unwrap() error { return e.Cause }

// HTTPStatus maps an error kind onto the status code the endpoints return.
func HTTPStatus(err error) int {
	var (
		pnf *ProductNotFound
		ins *InsufficientStock
		ill *IllegalTransition
		pf  *PartialFailure
	)
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.As(err, &pnf), errors.Is(err, ErrEmptyCheckout):
		return http.StatusBadRequest
	case errors.As(err, &ins), errors.As(err, &ill), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &pf):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
