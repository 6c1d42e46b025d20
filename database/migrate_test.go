package database

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/foodcart-app/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:migrate_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestMigrate_BackfillsLegacyPrices(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db))

	for _, model := range Models() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	pizza := models.Product{Name: "Pizza", Price: decimal.RequireFromString("9.50")}
	require.NoError(t, db.Create(&pizza).Error)
	order := models.Order{
		Firstname: "Anna", Lastname: "Ivanova", Phonenumber: "+79000000000",
		Address: "Lenina 1", Status: models.StatusClosed, PaymentMethod: models.PaymentCash,
		RegisteredAt: time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)

	now := time.Now()
	require.NoError(t, db.Exec(
		"INSERT INTO order_items (order_id, product_id, quantity, price, created_at, updated_at) VALUES (?, ?, ?, NULL, ?, ?)",
		order.ID, pizza.ID, 2, now, now,
	).Error)

	filled, err := BackfillItemPrices(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), filled)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Take(&item).Error)
	assert.True(t, decimal.RequireFromString("9.50").Equal(item.Price))

	// snapshots survive later runs
	require.NoError(t, db.Model(&pizza).Update("price", decimal.RequireFromString("20")).Error)
	filled, err = BackfillItemPrices(db)
	require.NoError(t, err)
	assert.Zero(t, filled)
	require.NoError(t, db.Where("order_id = ?", order.ID).Take(&item).Error)
	assert.True(t, decimal.RequireFromString("9.50").Equal(item.Price))
}
