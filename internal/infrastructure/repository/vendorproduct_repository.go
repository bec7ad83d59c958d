package repository

import (
	"context"
	"fmt"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/infrastructure/repository/entity"
	"vendor-catalog-core/internal/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresVendorProductRepository implements VendorProductRepository using
// gorm.
type PostgresVendorProductRepository struct {
	db *gorm.DB
}

// NewPostgresVendorProductRepository creates a new vendor product
// repository.
func NewPostgresVendorProductRepository(db *gorm.DB) ports.VendorProductRepository {
	return &PostgresVendorProductRepository{db: db}
}

// BulkUpsert writes catalog rows in batches, replacing existing rows keyed
// on (vendor_id, vendor_sku). Returns the number of rows written.
func (r *PostgresVendorProductRepository) BulkUpsert(ctx context.Context, rows []*domain.VendorProduct, batchSize int) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	entities := make([]*entity.VendorProductRow, 0, len(rows))
	for _, vp := range rows {
		entities = append(entities, entity.VendorProductRowFromDomain(vp))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "vendor_id"}, {Name: "vendor_sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"master_product_id", "vendor_price", "list_price", "map_price",
				"mrp_price", "quantity", "quantity_nj", "quantity_fl",
				"eta", "eta_nj", "eta_fl", "shipping_weight",
				"shipping_dimensions", "props", "status", "updated_at",
			}),
		}).CreateInBatches(entities, batchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to bulk upsert vendor products: %w", err)
	}

	return len(entities), nil
}

// ListByVendor retrieves a vendor's catalog rows ordered by SKU.
func (r *PostgresVendorProductRepository) ListByVendor(ctx context.Context, vendorID int64) ([]*domain.VendorProduct, error) {
	var rows []entity.VendorProductRow
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("vendor_sku").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor products: %w", err)
	}

	products := make([]*domain.VendorProduct, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].ToDomain())
	}
	return products, nil
}
