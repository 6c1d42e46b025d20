package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Firstname     string        `gorm:"type:varchar(40);not null" json:"firstname"`
	Lastname      string        `gorm:"type:varchar(40);not null" json:"lastname"`
	Phonenumber   string        `gorm:"type:varchar(20);not null" json:"phonenumber"`
	Address       string        `gorm:"type:text;not null" json:"address"`
	Status        OrderStatus   `gorm:"type:varchar(15);not null;default:'NEW';index" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(15);not null;default:'cash';index" json:"payment_method"`
	Comment       string        `gorm:"type:text" json:"comment"`
	RestaurantID  *uint         `gorm:"index" json:"restaurant_id"`
	Restaurant    *Restaurant   `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"restaurant,omitempty"`
	RegisteredAt  time.Time     `gorm:"not null;index" json:"registered_at"`
	CalledAt      *time.Time    `json:"called_at,omitempty"`
	DeliveredAt   *time.Time    `json:"delivered_at,omitempty"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

// TotalCost sums the price snapshots of the loaded items, never live product prices.
func (o *Order) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ProductIDs returns the distinct products referenced by the loaded items.
func (o *Order) ProductIDs() []uint {
	seen := make(map[uint]struct{}, len(o.Items))
	ids := make([]uint, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (o *Order) String() string {
	return fmt.Sprintf("%d: %s - %s", o.ID, o.RegisteredAt.Format("02.01.2006"), o.Address)
}
