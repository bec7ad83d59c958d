package domain

import "time"

// Vendor statuses
const (
	VendorStatusActive   = "active"
	VendorStatusInactive = "inactive"
)

// Vendor represents a supplier whose catalog and connections are managed
// by this service.
type Vendor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ContactInfo string    `json:"contact_info,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
