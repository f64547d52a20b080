package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.LocationRepository  = (*LocationRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
)

// ── Products ─────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ h handle }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.products {
			if existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return nil
		}
		for id, existing := range st.products {
			if id != p.ID && existing.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.h.read(func(st *state) error {
		search := strings.ToLower(f.Search)
		for _, p := range st.products {
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.SKU), search) && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			p := p
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, f.Limit, f.Offset), err
}

func (r *ProductRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.h.read(func(st *state) error {
		n = len(st.products)
		return nil
	})
	return n, err
}

// Delete emula las FK de PostgreSQL: falla con ErrConflict si algo referencia el producto.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		for _, lines := range st.lines {
			for _, l := range lines {
				if l.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		for k := range st.stock {
			if k.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(st.products, id)
		return nil
	})
}

// ── Warehouses ───────────────────────────────────────────────────────────────

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ h handle }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.h.write(func(st *state) error {
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.h.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			st.warehouses[w.ID] = *w
		}
		return nil
	})
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.h.read(func(st *state) error {
		for _, w := range st.warehouses {
			w := w
			list = append(list, &w)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), err
}

func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		for _, l := range st.locations {
			if l.WarehouseID == id {
				return domain.ErrConflict
			}
		}
		for _, d := range st.documents {
			if d.WarehouseID == id || d.FromWarehouseID == id || d.ToWarehouseID == id {
				return domain.ErrConflict
			}
		}
		for k := range st.stock {
			if k.WarehouseID == id {
				return domain.ErrConflict
			}
		}
		delete(st.warehouses, id)
		return nil
	})
}

// ── Locations ────────────────────────────────────────────────────────────────

// LocationRepo ubicaciones en memoria.
type LocationRepo struct{ h handle }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.warehouses[l.WarehouseID]; !ok {
			return domain.ErrConflict
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.h.read(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.locations[l.ID]; ok {
			st.locations[l.ID] = *l
		}
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context, warehouseID string) ([]*entity.Location, error) {
	var list []*entity.Location
	err := r.h.read(func(st *state) error {
		for _, l := range st.locations {
			if warehouseID != "" && l.WarehouseID != warehouseID {
				continue
			}
			l := l
			list = append(list, &l)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, err
}

func (r *LocationRepo) CountByWarehouse(_ context.Context, warehouseID string) (int, error) {
	var n int
	err := r.h.read(func(st *state) error {
		for _, l := range st.locations {
			if l.WarehouseID == warehouseID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *LocationRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		for _, lines := range st.lines {
			for _, l := range lines {
				if l.FromLocationID == id || l.ToLocationID == id {
					return domain.ErrConflict
				}
			}
		}
		for k := range st.stock {
			if k.LocationID == id {
				return domain.ErrConflict
			}
		}
		delete(st.locations, id)
		return nil
	})
}

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ h handle }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
