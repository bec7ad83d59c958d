package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultImportBatchSize is the number of catalog rows written per batch.
const DefaultImportBatchSize = 1000

// FormatHandler parses a catalog feed of one file format into normalized
// rows. Parse returns the rows, per-row errors for entries it skipped, and
// a fatal error when the feed as a whole is unreadable.
type FormatHandler interface {
	CanHandle(ext string) bool
	Parse(ctx context.Context, r io.Reader) ([]map[string]any, []string, error)
}

// ImportService orchestrates catalog imports for a vendor from files,
// remote APIs and SFTP drops.
type ImportService struct {
	vendorRepo        ports.VendorRepository
	vendorProductRepo ports.VendorProductRepository
	transferClient    ports.FileTransferClient
	apiClient         ports.CatalogAPIClient
	publisher         ports.ImportEventPublisher
	handlers          []FormatHandler
	batchSize         int
	logger            zerolog.Logger
}

// NewImportService creates a new import service.
func NewImportService(
	vendorRepo ports.VendorRepository,
	vendorProductRepo ports.VendorProductRepository,
	transferClient ports.FileTransferClient,
	apiClient ports.CatalogAPIClient,
	publisher ports.ImportEventPublisher,
	logger zerolog.Logger,
) *ImportService {
	return &ImportService{
		vendorRepo:        vendorRepo,
		vendorProductRepo: vendorProductRepo,
		transferClient:    transferClient,
		apiClient:         apiClient,
		publisher:         publisher,
		batchSize:         DefaultImportBatchSize,
		logger:            logger,
	}
}

// RegisterHandler adds a format handler to the dispatch list.
func (s *ImportService) RegisterHandler(handler FormatHandler) {
	s.handlers = append(s.handlers, handler)
}

// ImportFromFile imports a vendor catalog from an uploaded file, picking the
// format handler by file extension. The optional mapping renames feed
// columns to canonical field names before rows are processed.
func (s *ImportService) ImportFromFile(ctx context.Context, vendorID int64, filename string, r io.Reader, mapping map[string]string) (*domain.ImportReport, error) {
	if err := s.ensureVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	report := s.newReport(vendorID, domain.ImportSourceFile)
	s.publish(report, domain.ImportStageStarted, filename, 0)

	ext := strings.ToLower(filepath.Ext(filename))
	handler := s.handlerFor(ext)
	if handler == nil {
		s.publish(report, domain.ImportStageFailed, "unsupported file format: "+ext, 0)
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}

	rows, rowErrors, err := handler.Parse(ctx, r)
	if err != nil {
		s.publish(report, domain.ImportStageFailed, err.Error(), 0)
		return nil, fmt.Errorf("failed to parse %s feed: %w", ext, err)
	}
	report.Errors = append(report.Errors, rowErrors...)
	s.publish(report, domain.ImportStageParsed, filename, len(rows))

	if err := s.persistRows(ctx, report, rows, mapping); err != nil {
		return nil, err
	}

	s.publish(report, domain.ImportStageFinished, filename, report.Imported)
	return report, nil
}

// ImportFromAPI imports a vendor catalog from a remote REST API.
func (s *ImportService) ImportFromAPI(ctx context.Context, vendorID int64, cfg ports.APISourceConfig, mapping map[string]string) (*domain.ImportReport, error) {
	if err := s.ensureVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	report := s.newReport(vendorID, domain.ImportSourceAPI)
	s.publish(report, domain.ImportStageStarted, cfg.URL, 0)

	rows, err := s.apiClient.FetchRows(ctx, cfg)
	if err != nil {
		s.publish(report, domain.ImportStageFailed, err.Error(), 0)
		return nil, fmt.Errorf("api import failed: %w", err)
	}
	s.publish(report, domain.ImportStageParsed, cfg.URL, len(rows))

	if err := s.persistRows(ctx, report, rows, mapping); err != nil {
		return nil, err
	}

	s.publish(report, domain.ImportStageFinished, cfg.URL, report.Imported)
	return report, nil
}

// ImportFromSFTP downloads matching files from a remote SFTP drop and runs
// each one through the file pipeline.
func (s *ImportService) ImportFromSFTP(ctx context.Context, vendorID int64, cfg ports.SFTPConfig, mapping map[string]string) (*domain.ImportReport, error) {
	if err := s.ensureVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	report := s.newReport(vendorID, domain.ImportSourceSFTP)
	s.publish(report, domain.ImportStageStarted, cfg.Host, 0)

	if err := s.sweepSFTP(ctx, report, cfg, mapping); err != nil {
		return nil, err
	}

	s.publish(report, domain.ImportStageFinished, cfg.Host, report.Imported)
	return report, nil
}

// ImportFromSFTPMulti sweeps several SFTP drops for one vendor, aggregating
// imported counts and errors into a single report. A directory that fails
// is recorded as an error and the sweep moves on to the next one.
func (s *ImportService) ImportFromSFTPMulti(ctx context.Context, vendorID int64, cfgs []ports.SFTPConfig, mapping map[string]string) (*domain.ImportReport, error) {
	if err := s.ensureVendor(ctx, vendorID); err != nil {
		return nil, err
	}
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("at least one sftp source is required")
	}
	report := s.newReport(vendorID, domain.ImportSourceSFTP)
	s.publish(report, domain.ImportStageStarted, fmt.Sprintf("%d directories", len(cfgs)), 0)

	for _, cfg := range cfgs {
		if err := s.sweepSFTP(ctx, report, cfg, mapping); err != nil {
			dir := cfg.Directory
			if dir == "" {
				dir = "unknown"
			}
			report.Errors = append(report.Errors, fmt.Sprintf("directory %s: %v", dir, err))
		}
	}

	s.publish(report, domain.ImportStageFinished, "", report.Imported)
	return report, nil
}

// sweepSFTP downloads and ingests every matching file in one SFTP drop.
// Per-file problems become row errors; listing failures and empty listings
// fail the sweep.
func (s *ImportService) sweepSFTP(ctx context.Context, report *domain.ImportReport, cfg ports.SFTPConfig, mapping map[string]string) error {
	names, err := s.transferClient.List(ctx, cfg)
	if err != nil {
		s.publish(report, domain.ImportStageFailed, err.Error(), 0)
		return fmt.Errorf("sftp listing failed: %w", err)
	}
	if len(names) == 0 {
		s.publish(report, domain.ImportStageFailed, "no matching files found", 0)
		return fmt.Errorf("no matching files found on sftp server")
	}

	for _, name := range names {
		data, err := s.transferClient.Download(ctx, cfg, name)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: download failed: %v", name, err))
			continue
		}

		ext := strings.ToLower(filepath.Ext(name))
		handler := s.handlerFor(ext)
		if handler == nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: unsupported file format", name))
			continue
		}

		rows, rowErrors, err := handler.Parse(ctx, bytes.NewReader(data))
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		report.Errors = append(report.Errors, rowErrors...)
		s.publish(report, domain.ImportStageParsed, name, len(rows))

		if err := s.persistRows(ctx, report, rows, mapping); err != nil {
			return err
		}
	}
	return nil
}

// ErrVendorNotFound is returned when an import targets a missing vendor.
var ErrVendorNotFound = fmt.Errorf("vendor not found")

func (s *ImportService) ensureVendor(ctx context.Context, vendorID int64) error {
	vendor, err := s.vendorRepo.Get(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return ErrVendorNotFound
	}
	return nil
}

func (s *ImportService) newReport(vendorID int64, source string) *domain.ImportReport {
	return &domain.ImportReport{
		JobID:    uuid.NewString(),
		VendorID: vendorID,
		Source:   source,
	}
}

func (s *ImportService) handlerFor(ext string) FormatHandler {
	for _, h := range s.handlers {
		if h.CanHandle(ext) {
			return h
		}
	}
	return nil
}

// persistRows maps, converts and bulk-upserts parsed rows. Rows without a
// vendor SKU are recorded as row errors and skipped.
func (s *ImportService) persistRows(ctx context.Context, report *domain.ImportReport, rows []map[string]any, mapping map[string]string) error {
	products := make([]*domain.VendorProduct, 0, len(rows))
	for i, row := range rows {
		row = applyMapping(row, mapping)
		vp := domain.VendorProductFromRow(report.VendorID, row)
		if vp.VendorSKU == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: missing sku", i+1))
			continue
		}
		products = append(products, vp)
	}

	written, err := s.vendorProductRepo.BulkUpsert(ctx, products, s.batchSize)
	if err != nil {
		s.publish(report, domain.ImportStageFailed, err.Error(), 0)
		return fmt.Errorf("failed to persist catalog rows: %w", err)
	}
	report.Imported += written
	s.publish(report, domain.ImportStagePersisted, "", written)

	s.logger.Info().
		Str("jobId", report.JobID).
		Int64("vendorId", report.VendorID).
		Str("source", report.Source).
		Int("written", written).
		Int("rowErrors", len(report.Errors)).
		Msg("Persisted catalog rows")

	return nil
}

func (s *ImportService) publish(report *domain.ImportReport, stage, detail string, rows int) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(&domain.ImportEvent{
		JobID:     report.JobID,
		VendorID:  report.VendorID,
		Source:    report.Source,
		Stage:     stage,
		Detail:    detail,
		Rows:      rows,
		Timestamp: time.Now(),
	})
}

// applyMapping renames feed columns to canonical field names. Unmapped
// columns pass through unchanged.
func applyMapping(row map[string]any, mapping map[string]string) map[string]any {
	if len(mapping) == 0 {
		return row
	}
	mapped := make(map[string]any, len(row))
	for k, v := range row {
		if target, ok := mapping[k]; ok {
			mapped[target] = v
			continue
		}
		mapped[k] = v
	}
	return mapped
}
