package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcart-app/models"
	"github.com/yeremiapane/foodcart-app/utils"
)

type OrderItemInput struct {
	ProductID uint `json:"product" validate:"required"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1"`
}

type OrderInput struct {
	Firstname     string               `json:"firstname" validate:"required,max=40"`
	Lastname      string               `json:"lastname" validate:"required,max=40"`
	Phonenumber   string               `json:"phonenumber" validate:"required,e164"`
	Address       string               `json:"address" validate:"required,max=200"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card"`
	Comment       string               `json:"comment"`
	Products      []OrderItemInput     `json:"products" validate:"dive"`
}

// OrderUpdate carries an admin edit; nil fields stay untouched.
type OrderUpdate struct {
	Firstname     *string               `json:"firstname" validate:"omitempty,min=1,max=40"`
	Lastname      *string               `json:"lastname" validate:"omitempty,min=1,max=40"`
	Phonenumber   *string               `json:"phonenumber" validate:"omitempty,e164"`
	Address       *string               `json:"address" validate:"omitempty,min=1,max=200"`
	Status        *models.OrderStatus   `json:"status" validate:"omitempty,oneof=NEW COOKING DELIVERY CLOSED"`
	PaymentMethod *models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card"`
	Comment       *string               `json:"comment"`
	RestaurantID  *uint                 `json:"restaurant_id"`
	CalledAt      *time.Time            `json:"called_at"`
	DeliveredAt   *time.Time            `json:"delivered_at"`
}

type OrderFilter struct {
	Status models.OrderStatus
}

// OrderSummary is one row of the manager's order list.
type OrderSummary struct {
	Order       *models.Order       `json:"order"`
	TotalCost   decimal.Decimal     `json:"total_cost"`
	Coordinates *models.Coordinates `json:"coordinates"`
	Candidates  []Candidate         `json:"candidates,omitempty"`
}

type OrderService struct {
	db        *gorm.DB
	addresses *AddressCache
	resolver  *RestaurantResolver
	events    Publisher
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, addresses *AddressCache, resolver *RestaurantResolver, events Publisher) *OrderService {
	return &OrderService{
		db:        db,
		addresses: addresses,
		resolver:  resolver,
		events:    publisherOrNop(events),
		now:       time.Now,
	}
}

// CreateOrder stores the order with a price snapshot per item and makes sure the
// delivery address is geocoded. Nothing is stored when any item is rejected.
func (s *OrderService) CreateOrder(ctx context.Context, input OrderInput) (*models.Order, error) {
	if err := normalizeOrderInput(&input); err != nil {
		return nil, err
	}
	pending := s.addresses.WithDB(s.db.WithContext(ctx)).Prepare(ctx, input.Address)

	var created models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := loadProducts(tx, input.Products)
		if err != nil {
			return err
		}

		order := models.Order{
			Firstname:     input.Firstname,
			Lastname:      input.Lastname,
			Phonenumber:   input.Phonenumber,
			Address:       input.Address,
			Status:        models.StatusNew,
			PaymentMethod: input.PaymentMethod,
			Comment:       input.Comment,
			RegisteredAt:  s.now(),
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(input.Products))
		for _, requested := range input.Products {
			product := products[requested.ProductID]
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  *requested.Quantity,
				Price:     product.Price,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}
		order.Items = items

		s.addresses.WithDB(tx).Store(pending)

		created = order
		return nil
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	utils.InfoLogger.WithField("order_id", created.ID).Infof("Order registered with %d items", len(created.Items))

	order, err := s.GetOrder(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(EventOrderRegistered, order)
	return order, nil
}

func normalizeOrderInput(input *OrderInput) error {
	input.Firstname = strings.TrimSpace(input.Firstname)
	input.Lastname = strings.TrimSpace(input.Lastname)
	input.Address = strings.TrimSpace(input.Address)
	input.Phonenumber = NormalizePhone(input.Phonenumber)
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentCash
	}

	if len(input.Products) == 0 {
		return invalid("products", ErrEmptyItems)
	}
	if err := validateStruct(input); err != nil {
		return err
	}

	seen := make(map[uint]struct{}, len(input.Products))
	for i := range input.Products {
		item := &input.Products[i]
		if _, ok := seen[item.ProductID]; ok {
			return invalidf(fmt.Sprintf("products[%d].product", i), "%w: %d", ErrDuplicateProduct, item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		if item.Quantity == nil {
			one := 1
			item.Quantity = &one
		}
	}
	return nil
}

// loadProducts fetches every requested product or fails on the first unknown id.
func loadProducts(tx *gorm.DB, requested []OrderItemInput) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}
	for i, item := range requested {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, invalidf(fmt.Sprintf("products[%d].product", i), "%w: %d", ErrUnknownProduct, item.ProductID)
		}
	}
	return byID, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return getOrder(s.db.WithContext(ctx), id)
}

func getOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	}).
		Preload("Items.Product").
		Preload("Restaurant").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TotalCost sums the stored price snapshots of the order. The sum is done in
// decimal, not in SQL, where sqlite would add the prices as floats.
func (s *OrderService) TotalCost(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	var items []models.OrderItem
	err := s.db.WithContext(ctx).
		Select("price", "quantity").
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return decimal.Zero, err
	}
	return sumSubtotals(items), nil
}

func sumSubtotals(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ListOrders returns orders for the manager view, most urgent status first.
// Without a status filter closed orders are left out. Unassigned orders carry
// their candidate restaurants ranked by distance.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]OrderSummary, error) {
	db := s.db.WithContext(ctx)

	query := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	}).
		Preload("Items.Product").
		Preload("Restaurant").
		Order("registered_at").
		Order("id")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status <> ?", models.StatusClosed)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Status.Rank() < orders[j].Status.Rank()
	})

	addresses := make([]string, 0, len(orders))
	for _, order := range orders {
		addresses = append(addresses, order.Address)
	}
	located, err := s.addresses.WithDB(db).LookupMany(addresses)
	if err != nil {
		return nil, err
	}

	resolver := s.resolver.WithDB(db)
	summaries := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		summary := OrderSummary{Order: order, TotalCost: order.TotalCost()}
		if coords, ok := located[order.Address]; ok {
			summary.Coordinates = &coords
		}
		if order.RestaurantID == nil {
			candidates, err := resolver.Resolve(order)
			if err != nil {
				return nil, err
			}
			summary.Candidates = Rank(candidates, summary.Coordinates)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Candidates returns the restaurants able to cook the whole order, nearest first.
func (s *OrderService) Candidates(ctx context.Context, orderID uint) ([]Candidate, error) {
	db := s.db.WithContext(ctx)
	order, err := getOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.resolver.WithDB(db).Resolve(order)
	if err != nil {
		return nil, err
	}
	origin, _, err := s.addresses.WithDB(db).Lookup(order.Address)
	if err != nil {
		return nil, err
	}
	return Rank(candidates, origin), nil
}

// AssignRestaurant hands the order to a restaurant that stocks all of its items.
// A NEW order starts COOKING; later statuses are left alone.
func (s *OrderService) AssignRestaurant(ctx context.Context, orderID, restaurantID uint) (*models.Order, error) {
	return s.UpdateOrder(ctx, orderID, OrderUpdate{RestaurantID: &restaurantID})
}

// UpdateOrder applies an admin edit. Status may only move forward and a restaurant
// must be able to fulfil every item before it is assigned.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uint, update OrderUpdate) (*models.Order, error) {
	if update.Phonenumber != nil {
		phone := NormalizePhone(*update.Phonenumber)
		update.Phonenumber = &phone
	}
	if err := validateStruct(update); err != nil {
		return nil, err
	}

	var pending *models.Address
	if update.Address != nil {
		pending = s.addresses.WithDB(s.db.WithContext(ctx)).Prepare(ctx, strings.TrimSpace(*update.Address))
	}

	var updated *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, orderID)
		if err != nil {
			return err
		}

		if err := s.applyUpdate(tx, order, update); err != nil {
			return err
		}
		if order.RestaurantID != nil && order.Status == models.StatusNew {
			order.Status = models.StatusCooking
		}

		if err := tx.Omit(clause.Associations).Save(order).Error; err != nil {
			return err
		}
		s.addresses.WithDB(tx).Store(pending)

		updated, err = getOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": updated.ID,
		"status":   updated.Status,
	}).Info("Order updated")
	s.events.Publish(EventOrderUpdated, updated)
	return updated, nil
}

func (s *OrderService) applyUpdate(tx *gorm.DB, order *models.Order, update OrderUpdate) error {
	if update.Firstname != nil {
		order.Firstname = strings.TrimSpace(*update.Firstname)
	}
	if update.Lastname != nil {
		order.Lastname = strings.TrimSpace(*update.Lastname)
	}
	if update.Phonenumber != nil {
		order.Phonenumber = *update.Phonenumber
	}
	if update.Address != nil {
		order.Address = strings.TrimSpace(*update.Address)
	}
	if update.PaymentMethod != nil {
		order.PaymentMethod = *update.PaymentMethod
	}
	if update.Comment != nil {
		order.Comment = *update.Comment
	}
	if update.CalledAt != nil {
		order.CalledAt = update.CalledAt
	}
	if update.DeliveredAt != nil {
		order.DeliveredAt = update.DeliveredAt
	}
	if update.Status != nil {
		if !order.Status.CanAdvanceTo(*update.Status) {
			return invalidf("status", "%w: %s -> %s", ErrStatusBackwards, order.Status, *update.Status)
		}
		order.Status = *update.Status
	}
	if update.RestaurantID != nil {
		if err := s.checkAssignable(tx, order, *update.RestaurantID); err != nil {
			return err
		}
		order.RestaurantID = update.RestaurantID
		order.Restaurant = nil
	}
	return nil
}

func (s *OrderService) checkAssignable(tx *gorm.DB, order *models.Order, restaurantID uint) error {
	var count int64
	if err := tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("restaurant %d: %w", restaurantID, ErrNotFound)
	}
	ok, err := s.resolver.WithDB(tx).CanFulfil(order, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("restaurant_id", "%w: %d", ErrNotCandidate, restaurantID)
	}
	return nil
}

// AddItem adds a product to an existing order, snapshotting its current price.
func (s *OrderService) AddItem(ctx context.Context, orderID, productID uint, quantity int) (*models.Order, error) {
	if quantity < 1 {
		return nil, invalidf("quantity", "must be at least 1")
	}

	var updated *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, orderID)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return invalidf("product", "%w: %d", ErrDuplicateProduct, productID)
			}
		}

		var product models.Product
		err = tx.First(&product, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalidf("product", "%w: %d", ErrUnknownProduct, productID)
		}
		if err != nil {
			return err
		}

		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return err
		}
		updated, err = getOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(EventOrderUpdated, updated)
	return updated, nil
}

// RemoveItem drops a product from an order. The last item cannot be removed.
func (s *OrderService) RemoveItem(ctx context.Context, orderID, productID uint) (*models.Order, error) {
	var updated *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := getOrder(tx, orderID)
		if err != nil {
			return err
		}
		found := false
		for _, item := range order.Items {
			if item.ProductID == productID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("product %d in order %d: %w", productID, orderID, ErrNotFound)
		}
		if len(order.Items) == 1 {
			return invalid("products", ErrEmptyItems)
		}

		if err := tx.Where("order_id = ? AND product_id = ?", orderID, productID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		updated, err = getOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(EventOrderUpdated, updated)
	return updated, nil
}

// DeleteOrder removes the order together with its items.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.events.Publish(EventOrderDeleted, map[string]uint{"order_id": orderID})
	return nil
}
