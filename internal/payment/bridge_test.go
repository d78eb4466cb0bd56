package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/models"
)

type statusCall struct {
	OrderID string
	Target  models.OrderStatus
}

// mockUpdater records every status push and fails the first failUntil calls.
type mockUpdater struct {
	mu        sync.Mutex
	calls     []statusCall
	err       error
	failUntil int
}

func (m *mockUpdater) UpdateStatus(_ context.Context, orderID string, target models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, statusCall{OrderID: orderID, Target: target})
	if m.err != nil && (m.failUntil == 0 || len(m.calls) <= m.failUntil) {
		return m.err
	}
	return nil
}

func (m *mockUpdater) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestProcessCardPayment(t *testing.T) {
	updater := &mockUpdater{}
	bridge := NewBridge(NewMemoryRepo(), updater)

	record, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "order-1", record.OrderID)
	assert.Equal(t, models.OutcomeCaptured, record.Outcome)
	assert.Equal(t, "alice", record.Payer)

	require.Len(t, updater.calls, 1)
	assert.Equal(t, statusCall{OrderID: "order-1", Target: models.OrderPaid}, updater.calls[0])
}

func TestProcessCashOnDelivery(t *testing.T) {
	updater := &mockUpdater{}
	bridge := NewBridge(NewMemoryRepo(), updater)

	record, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCashOnDelivery)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomePendingDelivery, record.Outcome)
	require.Len(t, updater.calls, 1)
	assert.Equal(t, models.OrderWaitingDelivery, updater.calls[0].Target)
}

func TestProcessIdempotent(t *testing.T) {
	updater := &mockUpdater{}
	bridge := NewBridge(NewMemoryRepo(), updater)

	first, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)
	require.NoError(t, err)

	// Retried notification: the original record comes back, no second record
	// is created, and the (idempotent) status sync is driven again.
	second, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, updater.callCount())
	for _, call := range updater.calls {
		assert.Equal(t, statusCall{OrderID: "order-1", Target: models.OrderPaid}, call)
	}
}

func TestProcessRetryAfterPartialFailureHealsStatus(t *testing.T) {
	updater := &mockUpdater{err: errors.New("order service down"), failUntil: 1}
	repo := NewMemoryRepo()
	bridge := NewBridge(repo, updater)

	// First delivery: record lands, status push fails.
	first, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)
	var pf *faults.PartialFailure
	require.ErrorAs(t, err, &pf)
	require.NotNil(t, first)

	// The retried notification must retry the status sync, not short-circuit
	// on the record persisted by the failed attempt.
	second, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	require.Equal(t, 2, updater.callCount())
	assert.Equal(t, models.OrderPaid, updater.calls[1].Target)
}

func TestProcessMismatchedRetryIsConflict(t *testing.T) {
	updater := &mockUpdater{}
	bridge := NewBridge(NewMemoryRepo(), updater)

	_, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)
	require.NoError(t, err)

	// Same order, different amount: not a retry, refused as a conflict.
	_, err = bridge.Process(context.Background(), "alice", "order-1", 25.00, models.MethodCard)
	assert.ErrorIs(t, err, faults.ErrConflict)

	// Same order, different method: likewise.
	_, err = bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCashOnDelivery)
	assert.ErrorIs(t, err, faults.ErrConflict)

	// The mismatches drove no extra status syncs.
	assert.Equal(t, 1, updater.callCount())
}

func TestProcessPartialFailure(t *testing.T) {
	updater := &mockUpdater{err: errors.New("order service down")}
	repo := NewMemoryRepo()
	bridge := NewBridge(repo, updater)

	record, err := bridge.Process(context.Background(), "alice", "order-1", 10.00, models.MethodCard)

	var pf *faults.PartialFailure
	require.ErrorAs(t, err, &pf)
	assert.True(t, pf.PaymentRecorded)
	assert.True(t, pf.StatusUpdateFailed)

	// The record survives the failed status push.
	require.NotNil(t, record)
	stored, repoErr := repo.FindEffectiveByOrder(context.Background(), "order-1")
	require.NoError(t, repoErr)
	assert.Equal(t, record.ID, stored.ID)
}

func TestNormalizeMethodAliases(t *testing.T) {
	cases := []struct {
		in    string
		want  models.PaymentMethod
		valid bool
	}{
		{"CARD", models.MethodCard, true},
		{"card_stripe", models.MethodCard, true},
		{" stripe ", models.MethodCard, true},
		{"COD", models.MethodCashOnDelivery, true},
		{"cash_on_delivery", models.MethodCashOnDelivery, true},
		{"BITCOIN", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := models.NormalizeMethod(tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
		if tc.valid {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}
