package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/foodcart-app/models"
)

type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=50"`
	CategoryID    *uint           `json:"category_id"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image" validate:"max=255"`
	SpecialStatus bool            `json:"special_status"`
	Description   string          `json:"description" validate:"max=200"`
}

type ProductUpdate struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=50"`
	CategoryID    *uint            `json:"category_id"`
	Price         *decimal.Decimal `json:"price"`
	Image         *string          `json:"image" validate:"omitempty,max=255"`
	SpecialStatus *bool            `json:"special_status"`
	Description   *string          `json:"description" validate:"omitempty,max=200"`
}

type ProductService struct {
	db    *gorm.DB
	index *MenuIndex
}

func NewProductService(db *gorm.DB, index *MenuIndex) *ProductService {
	return &ProductService{db: db, index: index}
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if input.CategoryID != nil {
		if err := exists(db, &models.ProductCategory{}, "category", *input.CategoryID); err != nil {
			return nil, err
		}
	}

	product := models.Product{
		Name:          input.Name,
		CategoryID:    input.CategoryID,
		Price:         input.Price,
		Image:         input.Image,
		SpecialStatus: input.SpecialStatus,
		Description:   input.Description,
	}
	if err := db.Omit(clause.Associations).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.Get(ctx, product.ID)
}

// Update edits the live product. Price snapshots already taken by orders stay as they are.
func (s *ProductService) Update(ctx context.Context, id uint, update ProductUpdate) (*models.Product, error) {
	if err := validateStruct(update); err != nil {
		return nil, err
	}
	if update.Price != nil {
		if err := checkPrice(*update.Price); err != nil {
			return nil, err
		}
	}

	db := s.db.WithContext(ctx)
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, notFound(err, "product", id)
	}
	if update.Name != nil {
		product.Name = strings.TrimSpace(*update.Name)
	}
	if update.CategoryID != nil {
		if err := exists(db, &models.ProductCategory{}, "category", *update.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = update.CategoryID
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if update.SpecialStatus != nil {
		product.SpecialStatus = *update.SpecialStatus
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if err := db.Omit(clause.Associations).Save(&product).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, notFound(err, "product", id)
	}
	return &product, nil
}

// ListAvailable returns the catalogue: products sold by at least one restaurant.
func (s *ProductService) ListAvailable(ctx context.Context) ([]models.Product, error) {
	return s.index.WithDB(s.db.WithContext(ctx)).AvailableProducts()
}

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalidf("price", "must be at least 0")
	}
	return nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	err := s.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (s *ProductService) CreateCategory(ctx context.Context, name string) (*models.ProductCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("name", "this field is required")
	}
	category := models.ProductCategory{Name: name}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (s *ProductService) UpdateCategory(ctx context.Context, id uint, name string) (*models.ProductCategory, error) {
	db := s.db.WithContext(ctx)
	var category models.ProductCategory
	if err := db.First(&category, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	if err := db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory detaches the category's products before removing it.
func (s *ProductService) DeleteCategory(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ProductCategory{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
