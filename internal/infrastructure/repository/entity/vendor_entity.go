package entity

import (
	"time"

	"vendor-catalog-core/internal/domain"
)

// VendorRow represents a vendor in PostgreSQL.
type VendorRow struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	ContactInfo string    `gorm:"column:contact_info"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table for gorm.
func (VendorRow) TableName() string { return "vendors" }

// ToDomain converts the row to a domain entity.
func (r *VendorRow) ToDomain() *domain.Vendor {
	return &domain.Vendor{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ContactInfo: r.ContactInfo,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// VendorRowFromDomain converts a domain entity to a row.
func VendorRowFromDomain(vendor *domain.Vendor) *VendorRow {
	return &VendorRow{
		ID:          vendor.ID,
		Name:        vendor.Name,
		Description: vendor.Description,
		ContactInfo: vendor.ContactInfo,
		Status:      vendor.Status,
	}
}
