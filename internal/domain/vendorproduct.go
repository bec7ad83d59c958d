package domain

import (
	"fmt"
	"strconv"
	"time"
)

// VendorProduct represents a single row of a vendor's catalog: the vendor's
// own SKU and pricing, stock quantities per warehouse, and any extra columns
// the feed carried, collected into Props (persisted as a JSON text column).
type VendorProduct struct {
	ID                 int64          `json:"id"`
	VendorID           int64          `json:"vendor_id"`
	MasterProductID    *int64         `json:"master_product_id,omitempty"`
	VendorSKU          string         `json:"vendor_sku"`
	VendorPrice        *float64       `json:"vendor_price,omitempty"`
	ListPrice          *float64       `json:"list_price,omitempty"`
	MapPrice           *float64       `json:"map_price,omitempty"`
	MrpPrice           *float64       `json:"mrp_price,omitempty"`
	Quantity           int            `json:"quantity"`
	QuantityNJ         int            `json:"quantity_nj"`
	QuantityFL         int            `json:"quantity_fl"`
	ETA                string         `json:"eta,omitempty"`
	ETANJ              string         `json:"eta_nj,omitempty"`
	ETAFL              string         `json:"eta_fl,omitempty"`
	ShippingWeight     *float64       `json:"shipping_weight,omitempty"`
	ShippingDimensions string         `json:"shipping_dimensions,omitempty"`
	Props              map[string]any `json:"props,omitempty"`
	Status             string         `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// wellKnownRowKeys are feed columns mapped onto dedicated fields; everything
// else lands in Props.
var wellKnownRowKeys = map[string]struct{}{
	"sku": {}, "price": {}, "list": {}, "map": {}, "mrp": {},
	"qty": {}, "qtynj": {}, "qtyfl": {},
	"eta": {}, "etanj": {}, "etafl": {},
	"wt": {}, "bh": {}, "bl": {}, "bw": {},
}

// VendorProductFromRow builds a VendorProduct from a normalized feed row.
// Box dimensions (bl/bw/bh) are folded into a "LxWxH" string when all three
// are present.
func VendorProductFromRow(vendorID int64, row map[string]any) *VendorProduct {
	vp := &VendorProduct{
		VendorID:    vendorID,
		VendorSKU:   rowString(row, "sku"),
		VendorPrice: rowFloat(row, "price"),
		ListPrice:   rowFloat(row, "list"),
		MapPrice:    rowFloat(row, "map"),
		MrpPrice:    rowFloat(row, "mrp"),
		Quantity:    rowInt(row, "qty"),
		QuantityNJ:  rowInt(row, "qtynj"),
		QuantityFL:  rowInt(row, "qtyfl"),
		ETA:         rowString(row, "eta"),
		ETANJ:       rowString(row, "etanj"),
		ETAFL:       rowString(row, "etafl"),
		Status:      VendorStatusActive,
	}
	vp.ShippingWeight = rowFloat(row, "wt")

	_, hasH := row["bh"]
	_, hasL := row["bl"]
	_, hasW := row["bw"]
	if hasH && hasL && hasW {
		vp.ShippingDimensions = fmt.Sprintf("%vx%vx%v", row["bl"], row["bw"], row["bh"])
	}

	props := map[string]any{}
	for k, v := range row {
		if _, known := wellKnownRowKeys[k]; !known {
			props[k] = v
		}
	}
	if len(props) > 0 {
		vp.Props = props
	}
	return vp
}

func rowString(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func rowFloat(row map[string]any, key string) *float64 {
	switch v := row[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func rowInt(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
