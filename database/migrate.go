package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/foodcart-app/models"
	"github.com/yeremiapane/foodcart-app/utils"
)

// Models lists every table in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.ProductCategory{},
		&models.Product{},
		&models.Restaurant{},
		&models.RestaurantMenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Address{},
	}
}

// Migrate creates or updates the schema and fills legacy gaps.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	filled, err := BackfillItemPrices(db)
	if err != nil {
		return err
	}
	if filled > 0 {
		utils.InfoLogger.Printf("Backfilled price snapshots for %d order items", filled)
	}
	return nil
}

// BackfillItemPrices gives order items stored before price snapshots existed the
// current product price. Items that already have a price are never touched.
func BackfillItemPrices(db *gorm.DB) (int64, error) {
	res := db.Exec(`
		UPDATE order_items
		SET price = (SELECT products.price FROM products WHERE products.id = order_items.product_id)
		WHERE price IS NULL
	`)
	if res.Error != nil {
		utils.ErrorLogger.Printf("Error backfilling order item prices: %v", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
