package domain

import (
	"encoding/json"
	"time"
)

// Connection statuses
const (
	ConnectionStatusActive   = "active"
	ConnectionStatusInactive = "inactive"
)

// ConnectionTypes is the fixed set of supported connection kinds, in the
// order they are presented to clients.
var ConnectionTypes = []string{"sftp", "ftp", "api", "edi", "rest", "soap", "other"}

// Connection represents a configured endpoint associated with a vendor
// (an SFTP drop, a REST API, an EDI mailbox, ...). Config holds arbitrary
// key-value options and is persisted as a JSON text column.
type Connection struct {
	ID        int64          `json:"id"`
	VendorID  int64          `json:"vendor_id"`
	Name      string         `json:"name"`
	ConnType  string         `json:"conn_type"`
	Config    map[string]any `json:"config,omitempty"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsValidConnectionType reports whether t is one of the supported kinds.
func IsValidConnectionType(t string) bool {
	for _, v := range ConnectionTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DecodeConnectionConfig parses a stored config column. Malformed stored
// text is swallowed and replaced with an empty mapping so a bad row never
// breaks reads.
func DecodeConnectionConfig(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return map[string]any{}
	}
	return cfg
}
