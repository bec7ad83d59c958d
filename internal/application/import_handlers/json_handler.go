package import_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// JSONHandler parses JSON catalog feeds.
type JSONHandler struct {
	logger zerolog.Logger
}

// NewJSONHandler creates a new JSON feed handler.
func NewJSONHandler(logger zerolog.Logger) *JSONHandler {
	return &JSONHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given extension.
func (h *JSONHandler) CanHandle(ext string) bool {
	return ext == ".json"
}

// Parse reads a JSON feed: either a top-level array of objects or an object
// wrapping the array under "items" or "products". Non-object entries are
// reported as row errors and skipped. Keys are lowercased.
func (h *JSONHandler) Parse(ctx context.Context, r io.Reader) ([]map[string]any, []string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read json feed: %w", err)
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapper map[string]any
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, nil, fmt.Errorf("json feed is not an array or object: %w", err)
		}
		for _, key := range []string{"items", "products"} {
			if v, ok := wrapper[key].([]any); ok {
				items = v
				break
			}
		}
		if items == nil {
			return nil, nil, fmt.Errorf("json feed object has no items or products array")
		}
	}

	var rows []map[string]any
	var rowErrors []string
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			rowErrors = append(rowErrors, fmt.Sprintf("entry %d: not an object", i))
			continue
		}
		row := make(map[string]any, len(obj))
		for k, v := range obj {
			row[strings.ToLower(k)] = v
		}
		rows = append(rows, row)
	}

	h.logger.Debug().
		Int("rows", len(rows)).
		Int("rowErrors", len(rowErrors)).
		Msg("Parsed JSON feed")

	return rows, rowErrors, nil
}
