package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// StockFilter filtros opcionales sobre la proyección de stock.
type StockFilter struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	Category    string
}

// StockView fila de CurrentStock con nombres descriptivos.
type StockView struct {
	ProductID     string
	SKU           string
	ProductName   string
	Category      string
	UnitMeasure   string
	WarehouseID   string
	WarehouseName string
	LocationID    string
	LocationName  string
	Quantity      decimal.Decimal
	UpdatedAt     time.Time
}

// LowStockItem producto cuyo stock total en una bodega es menor que su mínimo.
type LowStockItem struct {
	ProductID     string
	SKU           string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	MinStock      decimal.Decimal
	TotalQty      decimal.Decimal
}

// StockRepository define el puerto de la proyección CurrentStock.
// Usado dentro de transacciones para garantizar consistencia con el log.
type StockRepository interface {
	// ApplyDelta suma delta a la fila (insertándola si no existe) en una sola operación atómica.
	ApplyDelta(ctx context.Context, key entity.StockKey, delta decimal.Decimal, at time.Time) error
	// Get devuelve la fila o una con cantidad cero si no existe.
	Get(ctx context.Context, key entity.StockKey) (*entity.CurrentStock, error)
	// List ordenado por nombre de producto, bodega y ubicación.
	List(ctx context.Context, filter StockFilter) ([]StockView, error)
	// CountNonZero cuenta filas con cantidad distinta de cero que cumplen el filtro.
	CountNonZero(ctx context.Context, filter StockFilter) (int, error)
	// LowStock agrupa por (producto, bodega); warehouseID vacío = todas las bodegas.
	LowStock(ctx context.Context, warehouseID string) ([]LowStockItem, error)
	// CountLowStockProducts cuenta productos cuyo total global es menor que su mínimo.
	CountLowStockProducts(ctx context.Context) (int, error)
	// TotalsByProduct stock total por producto sumando todas las ubicaciones.
	TotalsByProduct(ctx context.Context) (map[string]decimal.Decimal, error)
}
