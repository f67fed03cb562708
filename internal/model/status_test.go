package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_LinearPath(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransition(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransition(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransition(OrderStatusDelivered))
}

func TestOrderStatus_NoSkipping(t *testing.T) {
	assert.False(t, OrderStatusPending.CanTransition(OrderStatusShipped))
	assert.False(t, OrderStatusPending.CanTransition(OrderStatusDelivered))
	assert.False(t, OrderStatusProcessing.CanTransition(OrderStatusDelivered))
}

func TestOrderStatus_NoGoingBack(t *testing.T) {
	assert.False(t, OrderStatusShipped.CanTransition(OrderStatusProcessing))
	assert.False(t, OrderStatusDelivered.CanTransition(OrderStatusShipped))
	assert.False(t, OrderStatusProcessing.CanTransition(OrderStatusPending))
}

func TestOrderStatus_AbsorbingExits(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransition(OrderStatusFailed))
	assert.True(t, OrderStatusPending.CanTransition(OrderStatusCancelled))
	assert.True(t, OrderStatusProcessing.CanTransition(OrderStatusFailed))
	assert.True(t, OrderStatusProcessing.CanTransition(OrderStatusCancelled))

	// shipped and delivered cannot be cancelled or failed
	assert.False(t, OrderStatusShipped.CanTransition(OrderStatusCancelled))
	assert.False(t, OrderStatusShipped.CanTransition(OrderStatusFailed))
	assert.False(t, OrderStatusDelivered.CanTransition(OrderStatusCancelled))
}

func TestOrderStatus_TerminalStatesAreAbsorbing(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusFailed, OrderStatusCancelled} {
		assert.True(t, terminal.Terminal(), string(terminal))
		for _, target := range []OrderStatus{
			OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
			OrderStatusDelivered, OrderStatusFailed, OrderStatusCancelled,
		} {
			assert.False(t, terminal.CanTransition(target), "%s -> %s", terminal, target)
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusCancelled.Valid())
	assert.False(t, OrderStatus("completed").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_LinearIndex(t *testing.T) {
	assert.Equal(t, 0, OrderStatusPending.LinearIndex())
	assert.Equal(t, 2, OrderStatusShipped.LinearIndex())
	assert.Equal(t, -1, OrderStatusFailed.LinearIndex())
	assert.Equal(t, -1, OrderStatusCancelled.LinearIndex())
}
