package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuery filtros de GET /stock.
type StockQuery struct {
	ProductID   string `query:"product_id" validate:"omitempty,uuid"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	LocationID  string `query:"location_id" validate:"omitempty,uuid"`
	Category    string `query:"category"`
}

// StockRowDTO fila de la proyección de stock.
type StockRowDTO struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	Category      string          `json:"category"`
	UnitMeasure   string          `json:"unit_measure"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	LocationID    string          `json:"location_id"`
	LocationName  string          `json:"location_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MovementQuery filtros de GET /movements. Fechas YYYY-MM-DD inclusivas.
type MovementQuery struct {
	ProductID   string `query:"product_id" validate:"omitempty,uuid"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	DocType     string `query:"doc_type" validate:"omitempty,oneof=RECEIPT DELIVERY TRANSFER ADJUSTMENT"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit       int    `query:"limit" validate:"min=0,max=1000"`
}

// MovementDTO movimiento con nombres y tipo de documento.
type MovementDTO struct {
	ID               string          `json:"id"`
	Date             string          `json:"date"`
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	WarehouseID      string          `json:"warehouse_id"`
	WarehouseName    string          `json:"warehouse_name"`
	LocationID       string          `json:"location_id"`
	LocationName     string          `json:"location_name"`
	DocumentID       string          `json:"document_id"`
	DocType          string          `json:"doc_type"`
	FromLocationName string          `json:"from_location_name,omitempty"`
	ToLocationName   string          `json:"to_location_name,omitempty"`
	QtyChange        decimal.Decimal `json:"qty_change"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LedgerQuery parámetros del kardex. product_id es obligatorio.
type LedgerQuery struct {
	ProductID   string `query:"product_id" validate:"required,uuid"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	LocationID  string `query:"location_id" validate:"omitempty,uuid"`
}

// LedgerEntryDTO movimiento del kardex con saldo acumulado.
type LedgerEntryDTO struct {
	MovementDTO
	Balance decimal.Decimal `json:"balance"`
}

// LedgerResponse kardex de un producto, más antiguo primero.
type LedgerResponse struct {
	ProductID    string           `json:"product_id"`
	SKU          string           `json:"sku"`
	ProductName  string           `json:"product_name"`
	Entries      []LedgerEntryDTO `json:"entries"`
	FinalBalance decimal.Decimal  `json:"final_balance"`
}

// LowStockQuery filtro opcional de bodega.
type LowStockQuery struct {
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
}

// LowStockDTO producto bajo su mínimo en una bodega.
type LowStockDTO struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	MinStock      decimal.Decimal `json:"min_stock"`
	TotalQty      decimal.Decimal `json:"total_qty"`
	Shortfall     decimal.Decimal `json:"shortfall"`
}
