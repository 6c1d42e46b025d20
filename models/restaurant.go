package models

import "time"

type Restaurant struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	Name         string               `gorm:"type:varchar(50);not null" json:"name"`
	Address      string               `gorm:"type:varchar(100)" json:"address"`
	ContactPhone string               `gorm:"type:varchar(50)" json:"contact_phone"`
	MenuItems    []RestaurantMenuItem `gorm:"foreignKey:RestaurantID" json:"menu_items,omitempty"`
	CreatedAt    time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"not null" json:"updated_at"`
}
