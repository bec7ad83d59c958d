package entity

import (
	"database/sql"
	"encoding/json"
	"time"

	"vendor-catalog-core/internal/domain"
)

// VendorProductRow represents a vendor catalog row in PostgreSQL. Props is
// a raw JSON text column holding feed columns without a dedicated field.
type VendorProductRow struct {
	ID                 int64           `gorm:"column:id;primaryKey"`
	VendorID           int64           `gorm:"column:vendor_id"`
	MasterProductID    sql.NullInt64   `gorm:"column:master_product_id"`
	VendorSKU          string          `gorm:"column:vendor_sku"`
	VendorPrice        sql.NullFloat64 `gorm:"column:vendor_price"`
	ListPrice          sql.NullFloat64 `gorm:"column:list_price"`
	MapPrice           sql.NullFloat64 `gorm:"column:map_price"`
	MrpPrice           sql.NullFloat64 `gorm:"column:mrp_price"`
	Quantity           int             `gorm:"column:quantity"`
	QuantityNJ         int             `gorm:"column:quantity_nj"`
	QuantityFL         int             `gorm:"column:quantity_fl"`
	ETA                string          `gorm:"column:eta"`
	ETANJ              string          `gorm:"column:eta_nj"`
	ETAFL              string          `gorm:"column:eta_fl"`
	ShippingWeight     sql.NullFloat64 `gorm:"column:shipping_weight"`
	ShippingDimensions string          `gorm:"column:shipping_dimensions"`
	Props              sql.NullString  `gorm:"column:props"`
	Status             string          `gorm:"column:status"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table for gorm.
func (VendorProductRow) TableName() string { return "vendor_products" }

// ToDomain converts the row to a domain entity. Malformed stored props are
// dropped rather than surfaced.
func (r *VendorProductRow) ToDomain() *domain.VendorProduct {
	vp := &domain.VendorProduct{
		ID:                 r.ID,
		VendorID:           r.VendorID,
		VendorSKU:          r.VendorSKU,
		Quantity:           r.Quantity,
		QuantityNJ:         r.QuantityNJ,
		QuantityFL:         r.QuantityFL,
		ETA:                r.ETA,
		ETANJ:              r.ETANJ,
		ETAFL:              r.ETAFL,
		ShippingDimensions: r.ShippingDimensions,
		Status:             r.Status,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.MasterProductID.Valid {
		id := r.MasterProductID.Int64
		vp.MasterProductID = &id
	}
	vp.VendorPrice = nullFloat(r.VendorPrice)
	vp.ListPrice = nullFloat(r.ListPrice)
	vp.MapPrice = nullFloat(r.MapPrice)
	vp.MrpPrice = nullFloat(r.MrpPrice)
	vp.ShippingWeight = nullFloat(r.ShippingWeight)
	if r.Props.Valid {
		var props map[string]any
		if err := json.Unmarshal([]byte(r.Props.String), &props); err == nil {
			vp.Props = props
		}
	}
	return vp
}

// VendorProductRowFromDomain converts a domain entity to a row.
func VendorProductRowFromDomain(vp *domain.VendorProduct) *VendorProductRow {
	row := &VendorProductRow{
		ID:                 vp.ID,
		VendorID:           vp.VendorID,
		VendorSKU:          vp.VendorSKU,
		Quantity:           vp.Quantity,
		QuantityNJ:         vp.QuantityNJ,
		QuantityFL:         vp.QuantityFL,
		ETA:                vp.ETA,
		ETANJ:              vp.ETANJ,
		ETAFL:              vp.ETAFL,
		ShippingDimensions: vp.ShippingDimensions,
		Status:             vp.Status,
	}
	if vp.MasterProductID != nil {
		row.MasterProductID = sql.NullInt64{Int64: *vp.MasterProductID, Valid: true}
	}
	row.VendorPrice = floatNull(vp.VendorPrice)
	row.ListPrice = floatNull(vp.ListPrice)
	row.MapPrice = floatNull(vp.MapPrice)
	row.MrpPrice = floatNull(vp.MrpPrice)
	row.ShippingWeight = floatNull(vp.ShippingWeight)
	if len(vp.Props) > 0 {
		if data, err := json.Marshal(vp.Props); err == nil {
			row.Props = sql.NullString{String: string(data), Valid: true}
		}
	}
	return row
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
