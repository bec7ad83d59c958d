package entity

import (
	"database/sql"
	"encoding/json"
	"time"

	"vendor-catalog-core/internal/domain"
)

// ConnectionRow represents a connection in PostgreSQL. Config is a raw JSON
// text column; the domain sees it as a mapping.
type ConnectionRow struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	VendorID  int64          `gorm:"column:vendor_id"`
	Name      string         `gorm:"column:name"`
	ConnType  string         `gorm:"column:conn_type"`
	Config    sql.NullString `gorm:"column:config"`
	Status    string         `gorm:"column:status"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table for gorm.
func (ConnectionRow) TableName() string { return "connections" }

// ToDomain converts the row to a domain entity. Malformed stored config is
// replaced with an empty mapping instead of surfacing an error.
func (r *ConnectionRow) ToDomain() *domain.Connection {
	conn := &domain.Connection{
		ID:        r.ID,
		VendorID:  r.VendorID,
		Name:      r.Name,
		ConnType:  r.ConnType,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Config.Valid {
		conn.Config = domain.DecodeConnectionConfig(r.Config.String)
	}
	return conn
}

// ConnectionRowFromDomain converts a domain entity to a row. A nil config
// maps to an absent column value.
func ConnectionRowFromDomain(conn *domain.Connection) *ConnectionRow {
	row := &ConnectionRow{
		ID:       conn.ID,
		VendorID: conn.VendorID,
		Name:     conn.Name,
		ConnType: conn.ConnType,
		Status:   conn.Status,
	}
	if conn.Config != nil {
		if data, err := json.Marshal(conn.Config); err == nil {
			row.Config = sql.NullString{String: string(data), Valid: true}
		}
	}
	return row
}
