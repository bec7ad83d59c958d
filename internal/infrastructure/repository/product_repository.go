package repository

import (
	"context"
	"errors"
	"fmt"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/infrastructure/repository/entity"
	"vendor-catalog-core/internal/ports"

	"gorm.io/gorm"
)

// PostgresProductRepository implements ProductRepository using gorm.
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new product repository.
func NewPostgresProductRepository(db *gorm.DB) ports.ProductRepository {
	return &PostgresProductRepository{db: db}
}

// Create inserts a new product and returns its assigned ID.
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	row := entity.ProductRowFromDomain(product)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return row.ID, nil
}

// Get retrieves a product by ID, or (nil, nil) when no row matches.
func (r *PostgresProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var row entity.ProductRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return row.ToDomain(), nil
}

// SearchByName finds products whose name contains term, case-insensitively.
func (r *PostgresProductRepository) SearchByName(ctx context.Context, term string) ([]*domain.Product, error) {
	var rows []entity.ProductRow
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+term+"%").
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return productsToDomain(rows), nil
}

// List retrieves all products ordered by name.
func (r *PostgresProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var rows []entity.ProductRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return productsToDomain(rows), nil
}

// Update persists the product.
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	row := entity.ProductRowFromDomain(product)
	err := r.db.WithContext(ctx).
		Model(&entity.ProductRow{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        row.Name,
			"description": row.Description,
			"sku":         row.SKU,
			"price":       row.Price,
			"status":      row.Status,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete removes a product by ID.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&entity.ProductRow{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func productsToDomain(rows []entity.ProductRow) []*domain.Product {
	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].ToDomain())
	}
	return products
}

// PostgresCategoryRepository implements CategoryRepository using gorm.
type PostgresCategoryRepository struct {
	db *gorm.DB
}

// NewPostgresCategoryRepository creates a new category repository.
func NewPostgresCategoryRepository(db *gorm.DB) ports.CategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// Create inserts a new category and returns its assigned ID.
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *domain.Category) (int64, error) {
	row := entity.CategoryRowFromDomain(category)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}
	return row.ID, nil
}

// Get retrieves a category by ID, or (nil, nil) when no row matches.
func (r *PostgresCategoryRepository) Get(ctx context.Context, id int64) (*domain.Category, error) {
	var row entity.CategoryRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return row.ToDomain(), nil
}

// List retrieves all categories ordered by name.
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var rows []entity.CategoryRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	categories := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].ToDomain())
	}
	return categories, nil
}
