package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Name          string           `gorm:"type:varchar(50);not null" json:"name"`
	CategoryID    *uint            `gorm:"index" json:"category_id"`
	Category      *ProductCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Price         decimal.Decimal  `gorm:"type:decimal(8,2);not null" json:"price"`
	Image         string           `gorm:"type:varchar(255)" json:"image"`
	SpecialStatus bool             `gorm:"not null;default:false;index" json:"special_status"`
	Description   string           `gorm:"type:text" json:"description"`
	CreatedAt     time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null" json:"updated_at"`
}

// RestaurantMenuItem lists a product on a restaurant's menu. Availability lives
// here, not on Product: the same product can be sold out in one restaurant only.
type RestaurantMenuItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;uniqueIndex:idx_menu_restaurant_product" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID    uint       `gorm:"not null;uniqueIndex:idx_menu_restaurant_product" json:"product_id"`
	Product      Product    `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product"`
	Availability bool       `gorm:"not null;index" json:"availability"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
