package import_handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// CSVHandler parses comma-separated catalog feeds.
type CSVHandler struct {
	logger zerolog.Logger
}

// NewCSVHandler creates a new CSV feed handler.
func NewCSVHandler(logger zerolog.Logger) *CSVHandler {
	return &CSVHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given extension.
func (h *CSVHandler) CanHandle(ext string) bool {
	return ext == ".csv"
}

// Parse reads a CSV feed. The first record is the header; header names are
// lowercased and trimmed. Records with the wrong field count are reported
// as row errors and skipped.
func (h *CSVHandler) Parse(ctx context.Context, r io.Reader) ([]map[string]any, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("csv feed is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, col := range header {
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []map[string]any
	var rowErrors []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if len(record) != len(header) {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: expected %d fields, got %d", line, len(header), len(record)))
			continue
		}

		row := make(map[string]any, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}

	h.logger.Debug().
		Int("rows", len(rows)).
		Int("rowErrors", len(rowErrors)).
		Msg("Parsed CSV feed")

	return rows, rowErrors, nil
}
