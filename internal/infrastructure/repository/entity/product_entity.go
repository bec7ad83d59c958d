package entity

import (
	"database/sql"
	"time"

	"vendor-catalog-core/internal/domain"
)

// ProductRow represents a master product in PostgreSQL.
type ProductRow struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	SKU         string          `gorm:"column:sku"`
	Price       sql.NullFloat64 `gorm:"column:price"`
	Status      string          `gorm:"column:status"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table for gorm.
func (ProductRow) TableName() string { return "products" }

// ToDomain converts the row to a domain entity.
func (r *ProductRow) ToDomain() *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Price.Valid {
		price := r.Price.Float64
		p.Price = &price
	}
	return p
}

// ProductRowFromDomain converts a domain entity to a row.
func ProductRowFromDomain(product *domain.Product) *ProductRow {
	row := &ProductRow{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
		Status:      product.Status,
	}
	if product.Price != nil {
		row.Price = sql.NullFloat64{Float64: *product.Price, Valid: true}
	}
	return row
}

// CategoryRow represents a product category in PostgreSQL.
type CategoryRow struct {
	ID          int64         `gorm:"column:id;primaryKey"`
	Name        string        `gorm:"column:name"`
	ParentID    sql.NullInt64 `gorm:"column:parent_id"`
	Description string        `gorm:"column:description"`
	Status      string        `gorm:"column:status"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
}

// TableName sets the table for gorm.
func (CategoryRow) TableName() string { return "categories" }

// ToDomain converts the row to a domain entity.
func (r *CategoryRow) ToDomain() *domain.Category {
	c := &domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
	if r.ParentID.Valid {
		parentID := r.ParentID.Int64
		c.ParentID = &parentID
	}
	return c
}

// CategoryRowFromDomain converts a domain entity to a row.
func CategoryRowFromDomain(category *domain.Category) *CategoryRow {
	row := &CategoryRow{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Status:      category.Status,
	}
	if category.ParentID != nil {
		row.ParentID = sql.NullInt64{Int64: *category.ParentID, Valid: true}
	}
	return row
}
