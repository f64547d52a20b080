package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// SortChronological ordena movimientos por movement_date ascendente y luego por orden de creación (Seq).
func SortChronological(movs []entity.StockMovement) {
	sort.SliceStable(movs, func(i, j int) bool {
		a, b := movs[i], movs[j]
		if !a.MovementDate.Equal(b.MovementDate) {
			return a.MovementDate.Before(b.MovementDate)
		}
		return a.Seq < b.Seq
	})
}

// RunningBalances suma acumulada de izquierda a derecha empezando en 0.
// Se asume que qtys ya viene en orden cronológico.
func RunningBalances(qtys []decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(qtys))
	balance := decimal.Zero
	for i, q := range qtys {
		balance = balance.Add(q)
		out[i] = balance
	}
	return out
}

// SumByKey recalcula la proyección a partir del log de movimientos.
func SumByKey(movs []entity.StockMovement) map[entity.StockKey]decimal.Decimal {
	acc := make(map[entity.StockKey]decimal.Decimal)
	for _, m := range movs {
		k := entity.StockKey{ProductID: m.ProductID, WarehouseID: m.WarehouseID, LocationID: m.LocationID}
		acc[k] = acc[k].Add(m.QtyChange)
	}
	return acc
}
