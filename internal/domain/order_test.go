package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderSubtotal(t *testing.T) {
	items := []OrderItem{
		{Price: 1450, Quantity: 2},
		{Price: 2200, Quantity: 1},
	}
	assert.Equal(t, int64(5100), OrderSubtotal(items))
}

func TestOrderSubtotal_Empty(t *testing.T) {
	assert.Equal(t, int64(0), OrderSubtotal(nil))
}

func TestOrder_IsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: OrderStatusPlaced}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCompleted}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCancelled}).IsTerminal())
}
