package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement representa un cambio de stock firmado en una ubicación. Es append-only:
// una vez persistido no se actualiza ni se borra.
type StockMovement struct {
	ID             string
	Seq            int64 // orden de creación asignado por el store
	ProductID      string
	WarehouseID    string
	LocationID     string
	DocumentID     string
	DocumentLineID string
	MovementDate   time.Time       // fecha del documento
	QtyChange      decimal.Decimal // positivo entrada, negativo salida
	CreatedAt      time.Time
}

// StockKey identifica una fila de la proyección de stock.
type StockKey struct {
	ProductID   string
	WarehouseID string
	LocationID  string
}

// Less define el orden total de las claves (producto, bodega, ubicación).
func (k StockKey) Less(o StockKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	if k.WarehouseID != o.WarehouseID {
		return k.WarehouseID < o.WarehouseID
	}
	return k.LocationID < o.LocationID
}

// CurrentStock es la proyección materializada: Quantity = suma de QtyChange de la clave.
type CurrentStock struct {
	ProductID   string
	WarehouseID string
	LocationID  string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// Key devuelve la clave de proyección de la fila.
func (s CurrentStock) Key() StockKey {
	return StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID, LocationID: s.LocationID}
}
