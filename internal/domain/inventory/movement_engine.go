// Package inventory contiene la lógica pura del libro de inventario: cómo un documento
// confirmado se convierte en movimientos firmados y cómo se acumulan en la proyección.
package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// MovementSpec un cambio firmado de stock en (bodega, ubicación) derivado de una línea.
type MovementSpec struct {
	LineID      string
	ProductID   string
	WarehouseID string
	LocationID  string
	QtyChange   decimal.Decimal
}

// Key clave de proyección que toca el movimiento.
func (s MovementSpec) Key() entity.StockKey {
	return entity.StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID, LocationID: s.LocationID}
}

// StockDelta cambio agregado a aplicar sobre una fila de CurrentStock.
type StockDelta struct {
	Key   entity.StockKey
	Delta decimal.Decimal
}

// PlanLine calcula los movimientos de una línea según el tipo del documento:
//
//	RECEIPT, ADJUSTMENT  +qty en (bodega, ubicación destino)
//	DELIVERY             -qty en (bodega, ubicación origen)
//	TRANSFER             -qty en (bodega origen, ubicación origen) y +qty en (bodega destino, ubicación destino)
//
// ADJUSTMENT siempre suma.
func PlanLine(doc *entity.Document, line entity.DocumentLine) ([]MovementSpec, error) {
	if !line.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: línea %s: quantity debe ser mayor que cero", domain.ErrValidation, line.ID)
	}
	out := func(wh string) MovementSpec {
		return MovementSpec{LineID: line.ID, ProductID: line.ProductID, WarehouseID: wh, LocationID: line.FromLocationID, QtyChange: line.Quantity.Neg()}
	}
	in := func(wh string) MovementSpec {
		return MovementSpec{LineID: line.ID, ProductID: line.ProductID, WarehouseID: wh, LocationID: line.ToLocationID, QtyChange: line.Quantity}
	}

	switch doc.Type {
	case entity.DocTypeReceipt, entity.DocTypeAdjustment:
		if doc.WarehouseID == "" || line.ToLocationID == "" {
			return nil, fmt.Errorf("%w: línea %s: falta bodega o ubicación destino", domain.ErrValidation, line.ID)
		}
		return []MovementSpec{in(doc.WarehouseID)}, nil
	case entity.DocTypeDelivery:
		if doc.WarehouseID == "" || line.FromLocationID == "" {
			return nil, fmt.Errorf("%w: línea %s: falta bodega o ubicación origen", domain.ErrValidation, line.ID)
		}
		return []MovementSpec{out(doc.WarehouseID)}, nil
	case entity.DocTypeTransfer:
		if doc.FromWarehouseID == "" || doc.ToWarehouseID == "" || line.FromLocationID == "" || line.ToLocationID == "" {
			return nil, fmt.Errorf("%w: línea %s: el traslado requiere origen y destino", domain.ErrValidation, line.ID)
		}
		return []MovementSpec{out(doc.FromWarehouseID), in(doc.ToWarehouseID)}, nil
	}
	return nil, fmt.Errorf("%w: tipo de documento %q no soportado", domain.ErrValidation, doc.Type)
}

// PlanDocument aplica PlanLine a todas las líneas, en orden.
func PlanDocument(doc *entity.Document) ([]MovementSpec, error) {
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("%w: el documento no tiene líneas", domain.ErrValidation)
	}
	specs := make([]MovementSpec, 0, len(doc.Lines)*2)
	for _, l := range doc.Lines {
		s, err := PlanLine(doc, l)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s...)
	}
	return specs, nil
}

// BuildMovements materializa los specs como movimientos con movement_date = fecha del documento.
// newID se inyecta para mantener la función determinista en tests.
func BuildMovements(doc *entity.Document, specs []MovementSpec, newID func() string, now time.Time) []entity.StockMovement {
	movs := make([]entity.StockMovement, 0, len(specs))
	for _, s := range specs {
		movs = append(movs, entity.StockMovement{
			ID:             newID(),
			ProductID:      s.ProductID,
			WarehouseID:    s.WarehouseID,
			LocationID:     s.LocationID,
			DocumentID:     doc.ID,
			DocumentLineID: s.LineID,
			MovementDate:   doc.Date,
			QtyChange:      s.QtyChange,
			CreatedAt:      now,
		})
	}
	return movs
}

// ProjectionDeltas agrega los specs por clave y los devuelve ordenados por clave.
// El orden fijo hace que dos confirmaciones concurrentes bloqueen filas en el mismo orden.
func ProjectionDeltas(specs []MovementSpec) []StockDelta {
	acc := make(map[entity.StockKey]decimal.Decimal, len(specs))
	for _, s := range specs {
		k := s.Key()
		acc[k] = acc[k].Add(s.QtyChange)
	}
	deltas := make([]StockDelta, 0, len(acc))
	for k, d := range acc {
		deltas = append(deltas, StockDelta{Key: k, Delta: d})
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Key.Less(deltas[j].Key) })
	return deltas
}
