package ports

import (
	"context"

	"vendor-catalog-core/internal/domain"
)

// ConnectionRepository defines the interface for connection persistence.
// Lookups return (nil, nil) when no row matches.
type ConnectionRepository interface {
	// Create inserts a new connection and returns its assigned ID.
	Create(ctx context.Context, conn *domain.Connection) (int64, error)

	// Get retrieves a connection by ID.
	Get(ctx context.Context, id int64) (*domain.Connection, error)

	// ListByVendor retrieves all connections for a vendor.
	ListByVendor(ctx context.Context, vendorID int64) ([]*domain.Connection, error)

	// Update persists the given connection. The config column is written
	// only when conn.Config is non-nil; a nil Config leaves whatever text
	// is stored untouched.
	Update(ctx context.Context, conn *domain.Connection) error

	// Delete removes a connection by ID.
	Delete(ctx context.Context, id int64) error
}

// VendorRepository defines the interface for vendor persistence.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Vendor, error)
	SearchByName(ctx context.Context, term string) ([]*domain.Vendor, error)
	List(ctx context.Context) ([]*domain.Vendor, error)
	Update(ctx context.Context, vendor *domain.Vendor) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository defines the interface for master product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	SearchByName(ctx context.Context, term string) ([]*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

// VendorProductRepository defines the interface for vendor catalog rows.
type VendorProductRepository interface {
	// BulkUpsert inserts or replaces rows keyed on (vendor_id, vendor_sku)
	// in batches of batchSize, returning the number of rows written.
	BulkUpsert(ctx context.Context, rows []*domain.VendorProduct, batchSize int) (int, error)

	// ListByVendor retrieves a vendor's catalog rows.
	ListByVendor(ctx context.Context, vendorID int64) ([]*domain.VendorProduct, error)
}
