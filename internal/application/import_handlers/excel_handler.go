package import_handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelHandler parses XLSX catalog feeds.
type ExcelHandler struct {
	logger zerolog.Logger
}

// NewExcelHandler creates a new Excel feed handler.
func NewExcelHandler(logger zerolog.Logger) *ExcelHandler {
	return &ExcelHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given extension.
func (h *ExcelHandler) CanHandle(ext string) bool {
	return ext == ".xlsx" || ext == ".xls"
}

// Parse reads the first sheet of an XLSX workbook. The first row is the
// header; header names are lowercased and trimmed. Cells are kept as
// strings, short rows are padded with empty values.
func (h *ExcelHandler) Parse(ctx context.Context, r io.Reader) ([]map[string]any, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := records[0]
	for i, col := range header {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []map[string]any
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[col] = value
		}
		rows = append(rows, row)
	}

	h.logger.Debug().
		Str("sheet", sheets[0]).
		Int("rows", len(rows)).
		Msg("Parsed Excel feed")

	return rows, nil, nil
}
