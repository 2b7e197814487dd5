package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanAdvance(t *testing.T) {
	assert.True(t, StatusUnprocessed.CanAdvance(StatusNew))
	assert.True(t, StatusNew.CanAdvance(StatusCooking))
	assert.True(t, StatusCooking.CanAdvance(StatusDelivering))
	assert.True(t, StatusDelivering.CanAdvance(StatusCompleted))

	// No skips, no backward moves, nothing after COMPLETED.
	assert.False(t, StatusUnprocessed.CanAdvance(StatusCooking))
	assert.False(t, StatusCooking.CanAdvance(StatusNew))
	assert.False(t, StatusCompleted.CanAdvance(StatusUnprocessed))
	assert.False(t, StatusNew.CanAdvance(Status("SHIPPED")))
	assert.False(t, Status("SHIPPED").CanAdvance(StatusNew))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusUnprocessed.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("SHIPPED").Valid())
}

func TestOrderTotalPrice(t *testing.T) {
	order := Order{Lines: []OrderLine{
		{ProductID: 10, Quantity: 2, Price: 350},
		{ProductID: 20, Quantity: 1, Price: 90},
	}}
	assert.Equal(t, 790.0, order.TotalPrice())
}

func TestOrderProductIDsDistinct(t *testing.T) {
	order := Order{Lines: []OrderLine{
		{ProductID: 10},
		{ProductID: 20},
		{ProductID: 10},
	}}
	assert.Equal(t, []int64{10, 20}, order.ProductIDs())
}
