package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock no vive aquí: se proyecta por (producto, bodega, ubicación) en CurrentStock.
type Product struct {
	ID                 string
	SKU                string // código único
	Name               string
	Category           string
	UnitMeasure        string
	DefaultWarehouseID string
	DefaultLocationID  string
	MinStock           decimal.Decimal // umbral para el reporte de stock bajo
	OpeningStockQty    decimal.Decimal // informativo, no genera movimientos
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
