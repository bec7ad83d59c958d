package import_handlers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EDIHandler parses X12 EDI catalog feeds.
type EDIHandler struct {
	logger zerolog.Logger
}

// NewEDIHandler creates a new EDI feed handler.
func NewEDIHandler(logger zerolog.Logger) *EDIHandler {
	return &EDIHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given extension.
func (h *EDIHandler) CanHandle(ext string) bool {
	return ext == ".edi"
}

// Parse reads an X12 feed: segments are terminated by "~", elements
// separated by "*". Each LIN segment opens a line item; the vendor SKU is
// element 3 of LIN, the description element 5 of PID, the unit price
// element 3 of CTP. An unparseable CTP price leaves the item without one.
func (h *EDIHandler) Parse(ctx context.Context, r io.Reader) ([]map[string]any, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read edi feed: %w", err)
	}

	var rows []map[string]any
	current := map[string]any{}
	for _, segment := range strings.Split(string(data), "~") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		elements := strings.Split(segment, "*")

		switch elements[0] {
		case "LIN":
			if len(current) > 0 {
				rows = append(rows, current)
			}
			current = map[string]any{}
			if len(elements) > 3 {
				current["sku"] = strings.TrimSpace(elements[3])
			}
		case "PID":
			if len(elements) > 5 {
				current["name"] = strings.TrimSpace(elements[5])
			}
		case "CTP":
			if len(elements) > 3 {
				if price, err := strconv.ParseFloat(strings.TrimSpace(elements[3]), 64); err == nil {
					current["price"] = price
				}
			}
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	if rows == nil {
		return nil, nil, fmt.Errorf("edi feed has no line items")
	}

	h.logger.Debug().
		Int("rows", len(rows)).
		Msg("Parsed EDI feed")

	return rows, nil, nil
}
