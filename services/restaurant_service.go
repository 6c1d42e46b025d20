package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcart-app/models"
	"github.com/yeremiapane/foodcart-app/utils"
)

type RestaurantInput struct {
	Name         string `json:"name" validate:"required,max=50"`
	Address      string `json:"address" validate:"max=100"`
	ContactPhone string `json:"contact_phone" validate:"max=50"`
}

type RestaurantUpdate struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=50"`
	Address      *string `json:"address" validate:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=50"`
}

// RestaurantView is a restaurant with its menu and cached coordinates.
type RestaurantView struct {
	models.Restaurant
	Coordinates *models.Coordinates `json:"coordinates"`
}

type RestaurantService struct {
	db        *gorm.DB
	addresses *AddressCache
}

func NewRestaurantService(db *gorm.DB, addresses *AddressCache) *RestaurantService {
	return &RestaurantService{db: db, addresses: addresses}
}

// Create stores the restaurant and geocodes its address once.
func (s *RestaurantService) Create(ctx context.Context, input RestaurantInput) (*RestaurantView, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	input.ContactPhone = strings.TrimSpace(input.ContactPhone)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	restaurant := models.Restaurant{
		Name:         input.Name,
		Address:      input.Address,
		ContactPhone: input.ContactPhone,
	}
	pending := s.prepareAddress(ctx, restaurant.Address)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&restaurant).Error; err != nil {
			return err
		}
		s.addresses.WithDB(tx).Store(pending)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	utils.InfoLogger.WithField("restaurant_id", restaurant.ID).Info("Restaurant created")
	return s.Get(ctx, restaurant.ID)
}

// Update edits the restaurant; a new address is geocoded if it was never seen.
func (s *RestaurantService) Update(ctx context.Context, id uint, update RestaurantUpdate) (*RestaurantView, error) {
	if err := validateStruct(update); err != nil {
		return nil, err
	}
	var pending *models.Address
	if update.Address != nil {
		pending = s.prepareAddress(ctx, strings.TrimSpace(*update.Address))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, id).Error; err != nil {
			return notFound(err, "restaurant", id)
		}
		if update.Name != nil {
			restaurant.Name = strings.TrimSpace(*update.Name)
		}
		if update.Address != nil {
			restaurant.Address = strings.TrimSpace(*update.Address)
		}
		if update.ContactPhone != nil {
			restaurant.ContactPhone = strings.TrimSpace(*update.ContactPhone)
		}
		if err := tx.Omit(clause.Associations).Save(&restaurant).Error; err != nil {
			return err
		}
		s.addresses.WithDB(tx).Store(pending)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// prepareAddress geocodes a new address before any transaction is opened.
func (s *RestaurantService) prepareAddress(ctx context.Context, address string) *models.Address {
	if address == "" {
		return nil
	}
	return s.addresses.WithDB(s.db.WithContext(ctx)).Prepare(ctx, address)
}

// Delete refuses to drop a restaurant that orders point to.
func (s *RestaurantService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders int64
		if err := tx.Model(&models.Order{}).Where("restaurant_id = ?", id).Count(&orders).Error; err != nil {
			return err
		}
		if orders > 0 {
			return fmt.Errorf("restaurant %d: %w", id, ErrRestaurantInUse)
		}
		if err := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantMenuItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Restaurant{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("restaurant %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (s *RestaurantService) Get(ctx context.Context, id uint) (*RestaurantView, error) {
	db := s.db.WithContext(ctx)
	var restaurant models.Restaurant
	err := db.Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("restaurant_menu_items.product_id")
	}).
		Preload("MenuItems.Product").
		First(&restaurant, id).Error
	if err != nil {
		return nil, notFound(err, "restaurant", id)
	}
	coords, _, err := s.addresses.WithDB(db).Lookup(restaurant.Address)
	if err != nil {
		return nil, err
	}
	return &RestaurantView{Restaurant: restaurant, Coordinates: coords}, nil
}

func (s *RestaurantService) List(ctx context.Context) ([]RestaurantView, error) {
	db := s.db.WithContext(ctx)
	var restaurants []models.Restaurant
	if err := db.Order("id").Find(&restaurants).Error; err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(restaurants))
	for _, restaurant := range restaurants {
		addresses = append(addresses, restaurant.Address)
	}
	located, err := s.addresses.WithDB(db).LookupMany(addresses)
	if err != nil {
		return nil, err
	}

	views := make([]RestaurantView, 0, len(restaurants))
	for _, restaurant := range restaurants {
		view := RestaurantView{Restaurant: restaurant}
		if coords, ok := located[restaurant.Address]; ok {
			view.Coordinates = &coords
		}
		views = append(views, view)
	}
	return views, nil
}

// SetMenuItem lists the product at the restaurant or changes its availability.
func (s *RestaurantService) SetMenuItem(ctx context.Context, restaurantID, productID uint, available bool) (*models.RestaurantMenuItem, error) {
	db := s.db.WithContext(ctx)
	if err := exists(db, &models.Restaurant{}, "restaurant", restaurantID); err != nil {
		return nil, err
	}
	if err := exists(db, &models.Product{}, "product", productID); err != nil {
		return nil, err
	}

	item := models.RestaurantMenuItem{
		RestaurantID: restaurantID,
		ProductID:    productID,
		Availability: available,
	}
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "restaurant_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"availability", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	var stored models.RestaurantMenuItem
	if err := db.Preload("Product").
		Where("restaurant_id = ? AND product_id = ?", restaurantID, productID).
		Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// RemoveMenuItem takes the product off the restaurant's menu entirely.
func (s *RestaurantService) RemoveMenuItem(ctx context.Context, restaurantID, productID uint) error {
	res := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND product_id = ?", restaurantID, productID).
		Delete(&models.RestaurantMenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d at restaurant %d: %w", productID, restaurantID, ErrNotFound)
	}
	return nil
}

func exists(db *gorm.DB, model interface{}, name string, id uint) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s %d: %w", name, id, ErrNotFound)
	}
	return nil
}

func notFound(err error, name string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", name, id, ErrNotFound)
	}
	return err
}
