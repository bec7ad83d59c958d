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

// PostgresVendorRepository implements VendorRepository using gorm.
type PostgresVendorRepository struct {
	db *gorm.DB
}

// NewPostgresVendorRepository creates a new vendor repository.
func NewPostgresVendorRepository(db *gorm.DB) ports.VendorRepository {
	return &PostgresVendorRepository{db: db}
}

// Create inserts a new vendor and returns its assigned ID.
func (r *PostgresVendorRepository) Create(ctx context.Context, vendor *domain.Vendor) (int64, error) {
	row := entity.VendorRowFromDomain(vendor)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create vendor: %w", err)
	}
	return row.ID, nil
}

// Get retrieves a vendor by ID, or (nil, nil) when no row matches.
func (r *PostgresVendorRepository) Get(ctx context.Context, id int64) (*domain.Vendor, error) {
	var row entity.VendorRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return row.ToDomain(), nil
}

// SearchByName finds vendors whose name contains term, case-insensitively.
func (r *PostgresVendorRepository) SearchByName(ctx context.Context, term string) ([]*domain.Vendor, error) {
	var rows []entity.VendorRow
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+term+"%").
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search vendors: %w", err)
	}
	return vendorsToDomain(rows), nil
}

// List retrieves all vendors ordered by name.
func (r *PostgresVendorRepository) List(ctx context.Context) ([]*domain.Vendor, error) {
	var rows []entity.VendorRow
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendorsToDomain(rows), nil
}

// Update persists the vendor.
func (r *PostgresVendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	row := entity.VendorRowFromDomain(vendor)
	err := r.db.WithContext(ctx).
		Model(&entity.VendorRow{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]any{
			"name":         row.Name,
			"description":  row.Description,
			"contact_info": row.ContactInfo,
			"status":       row.Status,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}
	return nil
}

// Delete removes a vendor by ID.
func (r *PostgresVendorRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&entity.VendorRow{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return nil
}

func vendorsToDomain(rows []entity.VendorRow) []*domain.Vendor {
	vendors := make([]*domain.Vendor, 0, len(rows))
	for i := range rows {
		vendors = append(vendors, rows[i].ToDomain())
	}
	return vendors
}
