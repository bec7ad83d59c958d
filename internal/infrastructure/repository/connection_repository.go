package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/infrastructure/repository/entity"
	"vendor-catalog-core/internal/ports"

	"gorm.io/gorm"
)

// PostgresConnectionRepository implements ConnectionRepository using gorm.
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new connection repository.
func NewPostgresConnectionRepository(db *gorm.DB) ports.ConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// Create inserts a new connection and returns its assigned ID.
func (r *PostgresConnectionRepository) Create(ctx context.Context, conn *domain.Connection) (int64, error) {
	row := entity.ConnectionRowFromDomain(conn)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create connection: %w", err)
	}
	return row.ID, nil
}

// Get retrieves a connection by ID, or (nil, nil) when no row matches.
func (r *PostgresConnectionRepository) Get(ctx context.Context, id int64) (*domain.Connection, error) {
	var row entity.ConnectionRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return row.ToDomain(), nil
}

// ListByVendor retrieves all connections for a vendor ordered by name.
func (r *PostgresConnectionRepository) ListByVendor(ctx context.Context, vendorID int64) ([]*domain.Connection, error) {
	var rows []entity.ConnectionRow
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	conns := make([]*domain.Connection, 0, len(rows))
	for i := range rows {
		conns = append(conns, rows[i].ToDomain())
	}
	return conns, nil
}

// Update persists the connection. The config column is only written when
// conn.Config is non-nil, so updates without a config change never rewrite
// whatever text is stored there.
func (r *PostgresConnectionRepository) Update(ctx context.Context, conn *domain.Connection) error {
	columns := map[string]any{
		"vendor_id":  conn.VendorID,
		"name":       conn.Name,
		"conn_type":  conn.ConnType,
		"status":     conn.Status,
		"updated_at": time.Now(),
	}
	if conn.Config != nil {
		data, err := json.Marshal(conn.Config)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		columns["config"] = string(data)
	}

	err := r.db.WithContext(ctx).
		Model(&entity.ConnectionRow{}).
		Where("id = ?", conn.ID).
		Updates(columns).Error
	if err != nil {
		return fmt.Errorf("failed to update connection: %w", err)
	}
	return nil
}

// Delete removes a connection by ID.
func (r *PostgresConnectionRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&entity.ConnectionRow{}, "id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}
