package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/foodcart-app/models"
)

// DashboardStats feeds the manager dashboard.
type DashboardStats struct {
	TotalOrders      int64                        `json:"total_orders"`
	TodayOrders      int64                        `json:"today_orders"`
	UnassignedOrders int64                        `json:"unassigned_orders"`
	ByStatus         map[models.OrderStatus]int64 `json:"by_status"`
	ClosedRevenue    decimal.Decimal              `json:"closed_revenue"`
}

// Stats counts orders per status and sums the snapshots of closed orders.
func (s *OrderService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{
		ByStatus: map[models.OrderStatus]int64{
			models.StatusNew:      0,
			models.StatusCooking:  0,
			models.StatusDelivery: 0,
			models.StatusClosed:   0,
		},
	}

	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	if err := db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.Order{}).
		Where("registered_at >= ?", startOfDay).
		Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Order{}).
		Where("restaurant_id IS NULL AND status <> ?", models.StatusClosed).
		Count(&stats.UnassignedOrders).Error; err != nil {
		return nil, err
	}

	var closedItems []models.OrderItem
	err := db.Model(&models.OrderItem{}).
		Select("order_items.price", "order_items.quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", models.StatusClosed).
		Find(&closedItems).Error
	if err != nil {
		return nil, err
	}
	stats.ClosedRevenue = sumSubtotals(closedItems)
	return stats, nil
}
