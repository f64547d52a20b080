package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// MovementFilter filtros para historial y kardex. From/To sobre movement_date, inclusivos.
type MovementFilter struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	DocType     entity.DocType
	From        *time.Time
	To          *time.Time
	Limit       int
}

// MovementView movimiento enriquecido con nombres y datos del documento de origen.
type MovementView struct {
	entity.StockMovement
	ProductSKU       string
	ProductName      string
	WarehouseName    string
	LocationName     string
	DocType          entity.DocType
	DocStatus        entity.DocStatus
	FromLocationName string
	ToLocationName   string
}

// ProductOutflow salida total de un producto en una ventana de tiempo (valor positivo).
type ProductOutflow struct {
	ProductID   string
	SKU         string
	ProductName string
	Outflow     decimal.Decimal
}

// StockMovementRepository define el puerto del log de movimientos (append-only).
type StockMovementRepository interface {
	// Append inserta los movimientos y completa Seq con el orden asignado por el store.
	Append(ctx context.Context, movs []entity.StockMovement) error
	// List historial, más reciente primero (movement_date desc, seq desc).
	List(ctx context.Context, filter MovementFilter) ([]MovementView, error)
	// ListChronological kardex, más antiguo primero (movement_date asc, seq asc).
	ListChronological(ctx context.Context, filter MovementFilter) ([]MovementView, error)
	// ListRecent últimos movimientos por orden de creación.
	ListRecent(ctx context.Context, limit int) ([]MovementView, error)
	ListByDocument(ctx context.Context, documentID string) ([]entity.StockMovement, error)
	// OutflowSince suma de salidas por producto desde la fecha dada para el tipo de documento indicado.
	OutflowSince(ctx context.Context, since time.Time, docType entity.DocType) ([]ProductOutflow, error)
}
