package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("customer-1", 14990, []string{"p1"})
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		o := newPendingOrder(t)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.True(t, o.IsActive())
		assert.True(t, o.CanBeCancelled())
	})

	t.Run("zero total is allowed", func(t *testing.T) {
		_, err := NewOrder("customer-1", 0, nil)
		assert.NoError(t, err)
	})

	t.Run("negative total fails", func(t *testing.T) {
		_, err := NewOrder("customer-1", -1, nil)
		assert.ErrorIs(t, err, ErrNegativeTotal)
	})
}

func TestOrder_ForwardTransitions(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.Confirm())
	assert.Equal(t, OrderStatusConfirmed, o.Status)

	require.NoError(t, o.Process())
	assert.Equal(t, OrderStatusProcessing, o.Status)

	require.NoError(t, o.Ship())
	assert.Equal(t, OrderStatusShipped, o.Status)

	require.NoError(t, o.Deliver())
	assert.Equal(t, OrderStatusDelivered, o.Status)
	assert.False(t, o.IsActive())
}

func TestOrder_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		op     func(*Order) error
	}{
		{"process before confirm", OrderStatusPending, (*Order).Process},
		{"ship before process", OrderStatusConfirmed, (*Order).Ship},
		{"deliver before ship", OrderStatusProcessing, (*Order).Deliver},
		{"confirm twice", OrderStatusConfirmed, (*Order).Confirm},
		{"confirm after delivery", OrderStatusDelivered, (*Order).Confirm},
		{"ship a cancelled order", OrderStatusCancelled, (*Order).Ship},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newPendingOrder(t)
			o.Status = tt.status
			err := tt.op(o)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.status, o.Status, "failed transition must not mutate status")
		})
	}
}

func TestOrder_Cancel(t *testing.T) {
	cancellable := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing}
	for _, status := range cancellable {
		t.Run("cancel from "+string(status), func(t *testing.T) {
			o := newPendingOrder(t)
			o.Status = status
			require.NoError(t, o.Cancel())
			assert.Equal(t, OrderStatusCancelled, o.Status)
		})
	}

	final := []OrderStatus{OrderStatusShipped, OrderStatusDelivered}
	for _, status := range final {
		t.Run("cancel from "+string(status)+" fails", func(t *testing.T) {
			o := newPendingOrder(t)
			o.Status = status
			err := o.Cancel()
			assert.ErrorIs(t, err, ErrOrderNotCancelable)
			assert.Equal(t, status, o.Status)
		})
	}
}
