package application

import (
	"context"
	"fmt"
	"io"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
)

// Supported export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// ExportService writes a vendor's catalog out to spreadsheet files.
type ExportService struct {
	vendorProductRepo ports.VendorProductRepository
	writer            ports.CatalogWriter
	logger            zerolog.Logger
}

// NewExportService creates a new export service.
func NewExportService(
	vendorProductRepo ports.VendorProductRepository,
	writer ports.CatalogWriter,
	logger zerolog.Logger,
) *ExportService {
	return &ExportService{
		vendorProductRepo: vendorProductRepo,
		writer:            writer,
		logger:            logger,
	}
}

// ListVendorProducts retrieves a vendor's catalog rows.
func (s *ExportService) ListVendorProducts(ctx context.Context, vendorID int64) ([]*domain.VendorProduct, error) {
	rows, err := s.vendorProductRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendor products: %w", err)
	}
	return rows, nil
}

// ExportVendorProducts writes the vendor's catalog rows to w in the given
// format and returns the number of rows written.
func (s *ExportService) ExportVendorProducts(ctx context.Context, vendorID int64, format string, w io.Writer) (int, error) {
	rows, err := s.vendorProductRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return 0, fmt.Errorf("failed to list vendor products: %w", err)
	}

	switch format {
	case ExportFormatCSV:
		err = s.writer.WriteCSV(w, rows)
	case ExportFormatXLSX:
		err = s.writer.WriteXLSX(w, rows)
	default:
		return 0, fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write %s export: %w", format, err)
	}

	s.logger.Info().
		Int64("vendorId", vendorID).
		Str("format", format).
		Int("rows", len(rows)).
		Msg("Exported vendor catalog")

	return len(rows), nil
}
