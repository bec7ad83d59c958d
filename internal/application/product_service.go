package application

import (
	"context"
	"fmt"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
)

// ProductService handles master products and categories.
type ProductService struct {
	productRepo  ports.ProductRepository
	categoryRepo ports.CategoryRepository
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo ports.ProductRepository,
	categoryRepo ports.CategoryRepository,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateProductInput represents input for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	SKU         string
	Price       *float64
}

// UpdateProductInput carries a partial product update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *float64
	Status      *string
}

// CreateProduct persists a new product and returns its assigned ID.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (int64, error) {
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		Price:       input.Price,
		Status:      domain.VendorStatusActive,
	}

	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("productId", id).Str("name", input.Name).Msg("Created product")
	return id, nil
}

// UpdateProduct applies a partial update. A missing ID yields (nil, nil)
// and mutates nothing.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	existing, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	product := &domain.Product{
		ID:          id,
		Name:        existing.Name,
		Description: existing.Description,
		SKU:         existing.SKU,
		Price:       existing.Price,
		Status:      existing.Status,
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Price != nil {
		product.Price = input.Price
	}
	if input.Status != nil {
		product.Status = *input.Status
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int64("productId", id).Str("name", product.Name).Msg("Updated product")
	return product, nil
}

// DeleteProduct removes a product by ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Int64("productId", id).Msg("Deleted product")
	return nil
}

// GetProduct retrieves a product by ID, or (nil, nil) when absent.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// SearchProducts finds products whose name contains term.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]*domain.Product, error) {
	products, err := s.productRepo.SearchByName(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// CreateCategoryInput represents input for creating a category.
type CreateCategoryInput struct {
	Name        string
	ParentID    *int64
	Description string
}

// CreateCategory persists a new category and returns its assigned ID.
func (s *ProductService) CreateCategory(ctx context.Context, input CreateCategoryInput) (int64, error) {
	category := &domain.Category{
		Name:        input.Name,
		ParentID:    input.ParentID,
		Description: input.Description,
		Status:      domain.VendorStatusActive,
	}

	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Int64("categoryId", id).Str("name", input.Name).Msg("Created category")
	return id, nil
}

// GetCategory retrieves a category by ID, or (nil, nil) when absent.
func (s *ProductService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categoryRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves all categories.
func (s *ProductService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
