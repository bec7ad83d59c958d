package ports

import (
	"io"

	"vendor-catalog-core/internal/domain"
)

// CatalogWriter serializes a vendor's catalog rows to spreadsheet formats.
type CatalogWriter interface {
	WriteCSV(w io.Writer, rows []*domain.VendorProduct) error
	WriteXLSX(w io.Writer, rows []*domain.VendorProduct) error
}
