package services

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcart-app/models"
)

// MenuIndex answers availability questions straight from restaurant_menu_items.
// Nothing is cached: every call reflects the current listings.
type MenuIndex struct {
	db *gorm.DB
}

func NewMenuIndex(db *gorm.DB) *MenuIndex {
	return &MenuIndex{db: db}
}

func (m *MenuIndex) WithDB(db *gorm.DB) *MenuIndex {
	return &MenuIndex{db: db}
}

// RestaurantsOffering returns the restaurants with an available listing of the product.
func (m *MenuIndex) RestaurantsOffering(productID uint) ([]uint, error) {
	var ids []uint
	err := m.db.Model(&models.RestaurantMenuItem{}).
		Where("product_id = ? AND availability = ?", productID, true).
		Distinct().
		Order("restaurant_id").
		Pluck("restaurant_id", &ids).Error
	return ids, err
}

// CoveringRestaurants returns the restaurants that have an available listing for
// every product in productIDs. Partial overlap does not count.
func (m *MenuIndex) CoveringRestaurants(productIDs []uint) ([]uint, error) {
	distinct := uniqueIDs(productIDs)
	if len(distinct) == 0 {
		return []uint{}, nil
	}

	var ids []uint
	err := m.db.Model(&models.RestaurantMenuItem{}).
		Where("product_id IN ? AND availability = ?", distinct, true).
		Group("restaurant_id").
		Having("COUNT(DISTINCT product_id) = ?", len(distinct)).
		Order("restaurant_id").
		Pluck("restaurant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AvailableProducts lists products that at least one restaurant currently sells.
func (m *MenuIndex) AvailableProducts() ([]models.Product, error) {
	available := m.db.Model(&models.RestaurantMenuItem{}).
		Select("product_id").
		Where("availability = ?", true)

	var products []models.Product
	err := m.db.Preload("Category").
		Where("id IN (?)", available).
		Order("id").
		Find(&products).Error
	return products, err
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
