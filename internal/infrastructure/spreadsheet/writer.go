package spreadsheet

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"vendor-catalog-core/internal/domain"
	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// catalogHeader is the column order for exported catalogs, both CSV and
// XLSX.
var catalogHeader = []string{
	"sku", "price", "list", "map", "mrp",
	"qty", "qtynj", "qtyfl",
	"eta", "etanj", "etafl",
	"wt", "dimensions", "status", "props",
}

// Writer serializes catalog rows to CSV and XLSX.
type Writer struct {
	logger zerolog.Logger
}

// NewWriter creates a new catalog writer.
func NewWriter(logger zerolog.Logger) ports.CatalogWriter {
	return &Writer{logger: logger}
}

// WriteCSV writes rows as CSV with a header line.
func (wr *Writer) WriteCSV(w io.Writer, rows []*domain.VendorProduct) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(catalogHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, vp := range rows {
		if err := cw.Write(recordFor(vp)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	wr.logger.Debug().Int("rows", len(rows)).Msg("Wrote catalog CSV")
	return nil
}

// WriteXLSX writes rows as a single-sheet workbook named Catalog.
func (wr *Writer) WriteXLSX(w io.Writer, rows []*domain.VendorProduct) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := make([]any, len(catalogHeader))
	for i, h := range catalogHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, vp := range rows {
		record := recordFor(vp)
		cells := make([]any, len(record))
		for j, v := range record {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	wr.logger.Debug().Int("rows", len(rows)).Msg("Wrote catalog XLSX")
	return nil
}

func recordFor(vp *domain.VendorProduct) []string {
	props := ""
	if len(vp.Props) > 0 {
		if data, err := json.Marshal(vp.Props); err == nil {
			props = string(data)
		}
	}
	return []string{
		vp.VendorSKU,
		floatString(vp.VendorPrice),
		floatString(vp.ListPrice),
		floatString(vp.MapPrice),
		floatString(vp.MrpPrice),
		strconv.Itoa(vp.Quantity),
		strconv.Itoa(vp.QuantityNJ),
		strconv.Itoa(vp.QuantityFL),
		vp.ETA,
		vp.ETANJ,
		vp.ETAFL,
		floatString(vp.ShippingWeight),
		vp.ShippingDimensions,
		vp.Status,
		props,
	}
}

func floatString(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
