package import_handlers

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVHandlerParse(t *testing.T) {
	h := NewCSVHandler(zerolog.Nop())
	assert.True(t, h.CanHandle(".csv"))
	assert.False(t, h.CanHandle(".json"))

	feed := " SKU ,Price,Qty\nA-1, 9.99 ,5\nA-2,19.50\nA-3,7.00,2\n"
	rows, rowErrors, err := h.Parse(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)

	// the short record is reported and skipped
	require.Len(t, rowErrors, 1)
	assert.Contains(t, rowErrors[0], "line 3")

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"sku": "A-1", "price": "9.99", "qty": "5"}, rows[0])
	assert.Equal(t, map[string]any{"sku": "A-3", "price": "7.00", "qty": "2"}, rows[1])
}

func TestCSVHandlerEmptyFeed(t *testing.T) {
	h := NewCSVHandler(zerolog.Nop())
	_, _, err := h.Parse(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestJSONHandlerParse(t *testing.T) {
	h := NewJSONHandler(zerolog.Nop())
	assert.True(t, h.CanHandle(".json"))

	for _, tt := range []struct {
		msg  string
		feed string
	}{
		{
			msg:  "it must parse a top-level array",
			feed: `[{"SKU":"A-1","Price":9.99},{"sku":"A-2"}]`,
		},
		{
			msg:  "it must parse an object wrapping an items array",
			feed: `{"items":[{"SKU":"A-1","Price":9.99},{"sku":"A-2"}]}`,
		},
		{
			msg:  "it must parse an object wrapping a products array",
			feed: `{"products":[{"SKU":"A-1","Price":9.99},{"sku":"A-2"}]}`,
		},
	} {
		t.Run(tt.msg, func(t *testing.T) {
			rows, rowErrors, err := h.Parse(context.Background(), strings.NewReader(tt.feed))
			require.NoError(t, err)
			assert.Empty(t, rowErrors)
			require.Len(t, rows, 2)
			assert.Equal(t, "A-1", rows[0]["sku"])
			assert.Equal(t, 9.99, rows[0]["price"])
		})
	}
}

func TestJSONHandlerSkipsNonObjects(t *testing.T) {
	h := NewJSONHandler(zerolog.Nop())
	rows, rowErrors, err := h.Parse(context.Background(), strings.NewReader(`[{"sku":"A-1"},"junk",42]`))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, rowErrors, 2)
}

func TestJSONHandlerInvalidFeed(t *testing.T) {
	h := NewJSONHandler(zerolog.Nop())
	_, _, err := h.Parse(context.Background(), strings.NewReader(`{"count": 3}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no items or products array")
}

func TestXMLHandlerParse(t *testing.T) {
	h := NewXMLHandler(zerolog.Nop())
	assert.True(t, h.CanHandle(".xml"))

	feed := `<products>
  <product><SKU>A-1</SKU><Price> 9.99 </Price></product>
  <product><sku>A-2</sku><qty>3</qty></product>
</products>`
	rows, rowErrors, err := h.Parse(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"sku": "A-1", "price": "9.99"}, rows[0])
	assert.Equal(t, map[string]any{"sku": "A-2", "qty": "3"}, rows[1])
}

func TestXMLHandlerEmptyFeed(t *testing.T) {
	h := NewXMLHandler(zerolog.Nop())
	_, _, err := h.Parse(context.Background(), strings.NewReader(`<products></products>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no item elements")
}

func TestExcelHandlerParse(t *testing.T) {
	h := NewExcelHandler(zerolog.Nop())
	assert.True(t, h.CanHandle(".xlsx"))
	assert.True(t, h.CanHandle(".xls"))

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"SKU", "Price", "Qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A-1", "9.99", "5"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"A-2", "19.50"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, rowErrors, err := h.Parse(context.Background(), &buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)

	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"sku": "A-1", "price": "9.99", "qty": "5"}, rows[0])
	// short rows are padded with empty values
	assert.Equal(t, map[string]any{"sku": "A-2", "price": "19.50", "qty": ""}, rows[1])
}

func TestEDIHandlerParse(t *testing.T) {
	h := NewEDIHandler(zerolog.Nop())
	assert.True(t, h.CanHandle(".edi"))
	assert.False(t, h.CanHandle(".csv"))

	feed := "ISA*00*          *00~GS*PC*SENDER*RECEIVER~ST*832*0001~" +
		"LIN**VP*A-1~PID*F****Blue Widget~CTP**RES*9.99~" +
		"LIN**VP*B-2~PID*F****Gadget~CTP**RES*n/a~" +
		"SE*9*0001~"
	rows, rowErrors, err := h.Parse(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)

	require.Len(t, rows, 2)
	assert.Equal(t, "A-1", rows[0]["sku"])
	assert.Equal(t, "Blue Widget", rows[0]["name"])
	assert.Equal(t, 9.99, rows[0]["price"])

	assert.Equal(t, "B-2", rows[1]["sku"])
	assert.Equal(t, "Gadget", rows[1]["name"])
	// the unparseable price leaves the item without one
	_, ok := rows[1]["price"]
	assert.False(t, ok)
}

func TestEDIHandlerSegmentsAcrossNewlines(t *testing.T) {
	h := NewEDIHandler(zerolog.Nop())

	feed := "LIN**VP*A-1~\nPID*F****Widget~\nCTP**RES*4.25~\n"
	rows, rowErrors, err := h.Parse(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)
	assert.Equal(t, "A-1", rows[0]["sku"])
	assert.Equal(t, 4.25, rows[0]["price"])
}

func TestEDIHandlerNoLineItems(t *testing.T) {
	h := NewEDIHandler(zerolog.Nop())
	_, _, err := h.Parse(context.Background(), strings.NewReader("ISA*00~GS*PC~SE*2*0001~"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no line items")
}
