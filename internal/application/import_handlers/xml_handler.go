package import_handlers

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// XMLHandler parses XML catalog feeds.
type XMLHandler struct {
	logger zerolog.Logger
}

// NewXMLHandler creates a new XML feed handler.
func NewXMLHandler(logger zerolog.Logger) *XMLHandler {
	return &XMLHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given extension.
func (h *XMLHandler) CanHandle(ext string) bool {
	return ext == ".xml"
}

// Parse reads an XML feed shaped as a root element whose children are item
// elements, with one leaf element per field:
//
//	<products>
//	  <product><sku>A-1</sku><price>9.99</price></product>
//	  ...
//	</products>
//
// Element names are lowercased, character data is trimmed.
func (h *XMLHandler) Parse(ctx context.Context, r io.Reader) ([]map[string]any, []string, error) {
	decoder := xml.NewDecoder(r)

	var rows []map[string]any
	var current map[string]any
	var field string
	var value strings.Builder
	depth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse xml feed: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				current = map[string]any{}
			case 3:
				field = strings.ToLower(t.Name.Local)
				value.Reset()
			}
		case xml.CharData:
			if depth == 3 {
				value.Write(t)
			}
		case xml.EndElement:
			switch depth {
			case 3:
				if current != nil && field != "" {
					current[field] = strings.TrimSpace(value.String())
				}
				field = ""
			case 2:
				if len(current) > 0 {
					rows = append(rows, current)
				}
				current = nil
			}
			depth--
		}
	}

	if rows == nil {
		return nil, nil, fmt.Errorf("xml feed has no item elements")
	}

	h.logger.Debug().
		Int("rows", len(rows)).
		Msg("Parsed XML feed")

	return rows, nil, nil
}
