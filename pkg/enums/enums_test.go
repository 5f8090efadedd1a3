package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusLifecycle(t *testing.T) {
	assert.Less(t, OrderStatusPending.Position(), OrderStatusApproved.Position())
	assert.Less(t, OrderStatusWaitingForRider.Position(), OrderStatusOutForDelivery.Position())
	assert.Less(t, OrderStatusOutForDelivery.Position(), OrderStatusCompleted.Position())
	assert.Equal(t, -1, OrderStatus("shipped").Position())

	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusOutForDelivery.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("waiting_for_rider")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusWaitingForRider, got)

	_, err = ParseOrderStatus("Waiting_For_Rider")
	assert.Error(t, err)
}

func TestPaymentMethodRequiresProof(t *testing.T) {
	assert.True(t, PaymentMethodGCash.RequiresProof())
	assert.False(t, PaymentMethodCOD.RequiresProof())
	_, err := ParsePaymentMethod("card")
	assert.Error(t, err)
}

func TestParseUserRoleAndStockStatus(t *testing.T) {
	role, err := ParseUserRole("rider")
	require.NoError(t, err)
	assert.Equal(t, UserRoleRider, role)

	status, err := ParseStockStatus("expired")
	require.NoError(t, err)
	assert.Equal(t, StockStatusExpired, status)

	assert.False(t, NotificationType("promo").IsValid())
}
