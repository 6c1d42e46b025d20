package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, StatusNew.CanAdvanceTo(StatusCooking))
	assert.True(t, StatusNew.CanAdvanceTo(StatusClosed))
	assert.True(t, StatusCooking.CanAdvanceTo(StatusCooking))
	assert.False(t, StatusDelivery.CanAdvanceTo(StatusCooking))
	assert.False(t, StatusClosed.CanAdvanceTo(StatusNew))
	assert.False(t, StatusNew.CanAdvanceTo("LOST"))
	assert.False(t, OrderStatus("LOST").CanAdvanceTo(StatusClosed))

	assert.Less(t, StatusNew.Rank(), StatusClosed.Rank())
	assert.Greater(t, OrderStatus("LOST").Rank(), StatusClosed.Rank())
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
}

func TestOrder_TotalCostAndProducts(t *testing.T) {
	order := Order{
		ID:           7,
		Address:      "Lenina 1",
		RegisteredAt: time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC),
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("3.10")},
			{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("0.80")},
		},
	}

	assert.Equal(t, "7.00", order.TotalCost().StringFixed(2))
	assert.Equal(t, []uint{1, 2}, order.ProductIDs())
	assert.Equal(t, "7: 08.03.2024 - Lenina 1", order.String())
	assert.True(t, (&Order{}).TotalCost().IsZero())
}

func TestAddress_Coordinates(t *testing.T) {
	lat, lon := 55.0, 37.0
	assert.Nil(t, (&Address{Lat: &lat}).Coordinates())
	assert.Nil(t, (*Address)(nil).Coordinates())
	assert.Equal(t, &Coordinates{Lat: 55, Lon: 37}, (&Address{Lat: &lat, Lon: &lon}).Coordinates())
}
