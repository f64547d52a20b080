package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.StockRepository         = (*StockRepo)(nil)
)

// ── Movements ────────────────────────────────────────────────────────────────

// MovementRepo log de movimientos append-only.
type MovementRepo struct{ h handle }

func (r *MovementRepo) Append(_ context.Context, movs []entity.StockMovement) error {
	return r.h.write(func(st *state) error {
		for i := range movs {
			if _, ok := st.documents[movs[i].DocumentID]; !ok {
				return domain.ErrConflict
			}
			st.seq++
			movs[i].Seq = st.seq
			st.movements = append(st.movements, movs[i])
		}
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]repository.MovementView, error) {
	views, err := r.filter(f)
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.MovementDate.Equal(b.MovementDate) {
			return a.MovementDate.After(b.MovementDate)
		}
		return a.Seq > b.Seq
	})
	return limit(views, f.Limit), err
}

func (r *MovementRepo) ListChronological(_ context.Context, f repository.MovementFilter) ([]repository.MovementView, error) {
	views, err := r.filter(f)
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.MovementDate.Equal(b.MovementDate) {
			return a.MovementDate.Before(b.MovementDate)
		}
		return a.Seq < b.Seq
	})
	return limit(views, f.Limit), err
}

func (r *MovementRepo) ListRecent(_ context.Context, n int) ([]repository.MovementView, error) {
	views, err := r.filter(repository.MovementFilter{})
	sort.Slice(views, func(i, j int) bool { return views[i].Seq > views[j].Seq })
	return limit(views, n), err
}

func (r *MovementRepo) ListByDocument(_ context.Context, documentID string) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.DocumentID == documentID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) OutflowSince(_ context.Context, since time.Time, docType entity.DocType) ([]repository.ProductOutflow, error) {
	acc := make(map[string]decimal.Decimal)
	var out []repository.ProductOutflow
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if !m.QtyChange.IsNegative() || m.MovementDate.Before(since) {
				continue
			}
			if docType != "" && st.documents[m.DocumentID].Type != docType {
				continue
			}
			acc[m.ProductID] = acc[m.ProductID].Add(m.QtyChange.Neg())
		}
		for id, total := range acc {
			p := st.products[id]
			out = append(out, repository.ProductOutflow{ProductID: id, SKU: p.SKU, ProductName: p.Name, Outflow: total})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, err
}

func (r *MovementRepo) filter(f repository.MovementFilter) ([]repository.MovementView, error) {
	var views []repository.MovementView
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
				continue
			}
			if f.LocationID != "" && m.LocationID != f.LocationID {
				continue
			}
			if f.From != nil && m.MovementDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.MovementDate.After(*f.To) {
				continue
			}
			doc := st.documents[m.DocumentID]
			if f.DocType != "" && doc.Type != f.DocType {
				continue
			}
			views = append(views, movementView(st, m, doc))
		}
		return nil
	})
	return views, err
}

func movementView(st *state, m entity.StockMovement, doc entity.Document) repository.MovementView {
	v := repository.MovementView{
		StockMovement: m,
		ProductSKU:    st.products[m.ProductID].SKU,
		ProductName:   st.products[m.ProductID].Name,
		WarehouseName: st.warehouses[m.WarehouseID].Name,
		LocationName:  st.locations[m.LocationID].Name,
		DocType:       doc.Type,
		DocStatus:     doc.Status,
	}
	for _, l := range st.lines[m.DocumentID] {
		if l.ID == m.DocumentLineID {
			v.FromLocationName = st.locations[l.FromLocationID].Name
			v.ToLocationName = st.locations[l.ToLocationID].Name
			break
		}
	}
	return v
}

func limit[T any](list []T, n int) []T {
	if n > 0 && n < len(list) {
		return list[:n]
	}
	return list
}

// ── Current stock ────────────────────────────────────────────────────────────

// StockRepo proyección CurrentStock en memoria.
type StockRepo struct{ h handle }

// ApplyDelta inserta la fila si no existe o suma delta a la existente.
func (r *StockRepo) ApplyDelta(_ context.Context, key entity.StockKey, delta decimal.Decimal, at time.Time) error {
	return r.h.write(func(st *state) error {
		row, ok := st.stock[key]
		if !ok {
			row = entity.CurrentStock{ProductID: key.ProductID, WarehouseID: key.WarehouseID, LocationID: key.LocationID, Quantity: decimal.Zero}
		}
		row.Quantity = row.Quantity.Add(delta)
		row.UpdatedAt = at
		st.stock[key] = row
		return nil
	})
}

func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (*entity.CurrentStock, error) {
	out := &entity.CurrentStock{ProductID: key.ProductID, WarehouseID: key.WarehouseID, LocationID: key.LocationID, Quantity: decimal.Zero}
	err := r.h.read(func(st *state) error {
		if row, ok := st.stock[key]; ok {
			*out = row
		}
		return nil
	})
	return out, err
}

func (r *StockRepo) List(_ context.Context, f repository.StockFilter) ([]repository.StockView, error) {
	var views []repository.StockView
	err := r.h.read(func(st *state) error {
		for k, row := range st.stock {
			if !matchStock(st, k, f) {
				continue
			}
			p := st.products[k.ProductID]
			views = append(views, repository.StockView{
				ProductID:     k.ProductID,
				SKU:           p.SKU,
				ProductName:   p.Name,
				Category:      p.Category,
				UnitMeasure:   p.UnitMeasure,
				WarehouseID:   k.WarehouseID,
				WarehouseName: st.warehouses[k.WarehouseID].Name,
				LocationID:    k.LocationID,
				LocationName:  st.locations[k.LocationID].Name,
				Quantity:      row.Quantity,
				UpdatedAt:     row.UpdatedAt,
			})
		}
		return nil
	})
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		if a.WarehouseName != b.WarehouseName {
			return a.WarehouseName < b.WarehouseName
		}
		if a.LocationName != b.LocationName {
			return a.LocationName < b.LocationName
		}
		return entity.StockKey{ProductID: a.ProductID, WarehouseID: a.WarehouseID, LocationID: a.LocationID}.
			Less(entity.StockKey{ProductID: b.ProductID, WarehouseID: b.WarehouseID, LocationID: b.LocationID})
	})
	return views, err
}

func (r *StockRepo) CountNonZero(_ context.Context, f repository.StockFilter) (int, error) {
	var n int
	err := r.h.read(func(st *state) error {
		for k, row := range st.stock {
			if matchStock(st, k, f) && !row.Quantity.IsZero() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *StockRepo) LowStock(_ context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	var items []repository.LowStockItem
	err := r.h.read(func(st *state) error {
		totals := make(map[[2]string]decimal.Decimal)
		for k, row := range st.stock {
			key := [2]string{k.ProductID, k.WarehouseID}
			totals[key] = totals[key].Add(row.Quantity)
		}
		for _, p := range st.products {
			for _, w := range st.warehouses {
				if warehouseID != "" && w.ID != warehouseID {
					continue
				}
				total := totals[[2]string{p.ID, w.ID}]
				if total.LessThan(p.MinStock) {
					items = append(items, repository.LowStockItem{
						ProductID: p.ID, SKU: p.SKU, ProductName: p.Name,
						WarehouseID: w.ID, WarehouseName: w.Name,
						MinStock: p.MinStock, TotalQty: total,
					})
				}
			}
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductName != items[j].ProductName {
			return items[i].ProductName < items[j].ProductName
		}
		return items[i].WarehouseName < items[j].WarehouseName
	})
	return items, err
}

func (r *StockRepo) CountLowStockProducts(ctx context.Context) (int, error) {
	totals, err := r.TotalsByProduct(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.h.read(func(st *state) error {
		for _, p := range st.products {
			if totals[p.ID].LessThan(p.MinStock) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *StockRepo) TotalsByProduct(_ context.Context) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	err := r.h.read(func(st *state) error {
		for k, row := range st.stock {
			totals[k.ProductID] = totals[k.ProductID].Add(row.Quantity)
		}
		return nil
	})
	return totals, err
}

func matchStock(st *state, k entity.StockKey, f repository.StockFilter) bool {
	if f.ProductID != "" && k.ProductID != f.ProductID {
		return false
	}
	if f.WarehouseID != "" && k.WarehouseID != f.WarehouseID {
		return false
	}
	if f.LocationID != "" && k.LocationID != f.LocationID {
		return false
	}
	if f.Category != "" && st.products[k.ProductID].Category != f.Category {
		return false
	}
	return true
}
