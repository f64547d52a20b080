package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU                string          `json:"sku" validate:"required,min=1,max=100"`
	Name               string          `json:"name" validate:"required,min=1,max=200"`
	Category           string          `json:"category" validate:"max=100"`
	UnitMeasure        string          `json:"unit_measure" validate:"max=20"`
	DefaultWarehouseID string          `json:"default_warehouse_id" validate:"omitempty,uuid"`
	DefaultLocationID  string          `json:"default_location_id" validate:"omitempty,uuid"`
	MinStock           decimal.Decimal `json:"min_stock"`
	OpeningStockQty    decimal.Decimal `json:"opening_stock_qty"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock no se edita aquí).
type UpdateProductRequest struct {
	SKU                *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name               *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category           *string          `json:"category" validate:"omitempty,max=100"`
	UnitMeasure        *string          `json:"unit_measure" validate:"omitempty,max=20"`
	DefaultWarehouseID *string          `json:"default_warehouse_id" validate:"omitempty,uuid"`
	DefaultLocationID  *string          `json:"default_location_id" validate:"omitempty,uuid"`
	MinStock           *decimal.Decimal `json:"min_stock"`
	OpeningStockQty    *decimal.Decimal `json:"opening_stock_qty"`
}

// ProductListQuery filtros de GET /products.
type ProductListQuery struct {
	PageRequest
	Category string `query:"category"`
	Search   string `query:"search"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                 string          `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	UnitMeasure        string          `json:"unit_measure"`
	DefaultWarehouseID string          `json:"default_warehouse_id,omitempty"`
	DefaultLocationID  string          `json:"default_location_id,omitempty"`
	MinStock           decimal.Decimal `json:"min_stock"`
	OpeningStockQty    decimal.Decimal `json:"opening_stock_qty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportFailure fila de una importación que no se pudo aplicar.
type ImportFailure struct {
	Row   int    `json:"row"`
	SKU   string `json:"sku"`
	Error string `json:"error"`
}

// ImportResult resumen de una importación masiva de productos.
type ImportResult struct {
	Created int             `json:"created"`
	Updated int             `json:"updated"`
	Failed  []ImportFailure `json:"failed,omitempty"`
}
