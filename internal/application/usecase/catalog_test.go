package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/application/usecase"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/memory"
)

func newCatalog() (*memory.Store, *usecase.ProductUseCase, *usecase.WarehouseUseCase) {
	s := memory.NewStore()
	return s, usecase.NewProductUseCase(s, s.Repos()), usecase.NewWarehouseUseCase(s, s.Repos())
}

func strPtr(s string) *string { return &s }

// ─── Productos ───────────────────────────────────────────────────────────────

func TestProduct_CRUD(t *testing.T) {
	_, products, _ := newCatalog()
	ctx := context.Background()

	p, err := products.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo", MinStock: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "UND", p.UnitMeasure)

	_, err = products.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	upd, err := products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: strPtr("Tornillo 1/4")})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo 1/4", upd.Name)
	assert.Equal(t, "TOR-001", upd.SKU)

	list, err := products.List(ctx, dto.ProductListQuery{Search: "tor"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)

	require.NoError(t, products.Delete(ctx, p.ID))
	_, err = products.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ImportCreaYActualizaPorSKU(t *testing.T) {
	_, products, _ := newCatalog()
	ctx := context.Background()
	_, err := products.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo", Category: "Ferretería"})
	require.NoError(t, err)

	res, err := products.Import(ctx, []dto.CreateProductRequest{
		{SKU: "TOR-001", Name: "Tornillo 1/4", MinStock: decimal.NewFromInt(10)},
		{SKU: "TUE-001", Name: "Tuerca", UnitMeasure: "CAJA"},
		{SKU: "MAL-001", Name: "Malo", MinStock: decimal.NewFromInt(-3)},
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 4, res.Failed[0].Row)
	assert.Equal(t, "MAL-001", res.Failed[0].SKU)

	list, err := products.List(ctx, dto.ProductListQuery{Search: "TOR-001"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Tornillo 1/4", list.Items[0].Name)
	assert.Equal(t, "Ferretería", list.Items[0].Category, "categoría vacía no sobreescribe")
	assert.True(t, decimal.NewFromInt(10).Equal(list.Items[0].MinStock))
}

func TestProduct_Validaciones(t *testing.T) {
	_, products, warehouses := newCatalog()
	ctx := context.Background()

	_, err := products.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", MinStock: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = products.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", MinStock: decimal.RequireFromString("0.00001")})
	assert.ErrorIs(t, err, domain.ErrValidation, "min_stock con más de 4 decimales")

	_, err = products.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", DefaultWarehouseID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	w1, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal"})
	require.NoError(t, err)
	w2, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Sucursal"})
	require.NoError(t, err)
	loc, err := warehouses.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w2.ID, Name: "B-01"})
	require.NoError(t, err)

	_, err = products.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", DefaultWarehouseID: w1.ID, DefaultLocationID: loc.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProduct_DeleteBloqueadoPorReferencias(t *testing.T) {
	s, products, _ := newCatalog()
	ctx := context.Background()
	r := s.Repos()
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "W1", Name: "Principal"}))
	require.NoError(t, r.Locations.Create(ctx, &entity.Location{ID: "L1", WarehouseID: "W1", Name: "A-01"}))
	p, err := products.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)

	require.NoError(t, r.Documents.Create(ctx, &entity.Document{
		ID: "D1", Type: entity.DocTypeReceipt, Status: entity.DocStatusDraft, Date: time.Now(), WarehouseID: "W1",
		Lines: []entity.DocumentLine{{ID: "D1-1", DocumentID: "D1", ProductID: p.ID, ToLocationID: "L1", Quantity: decimal.NewFromInt(1)}},
	}))
	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, products.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestProduct_DeleteBloqueadoPorStock(t *testing.T) {
	s, products, _ := newCatalog()
	ctx := context.Background()
	p, err := products.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)
	key := entity.StockKey{ProductID: p.ID, WarehouseID: "W1", LocationID: "L1"}
	require.NoError(t, s.Repos().Stock.ApplyDelta(ctx, key, decimal.NewFromInt(-2), time.Now()))

	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrConflict, "stock negativo también bloquea")
}

// ─── Bodegas y ubicaciones ───────────────────────────────────────────────────

func TestWarehouse_DeleteConUbicaciones(t *testing.T) {
	_, _, warehouses := newCatalog()
	ctx := context.Background()
	w, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal", Address: "Calle 1"})
	require.NoError(t, err)
	loc, err := warehouses.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w.ID, Name: "A-01", Code: "A01"})
	require.NoError(t, err)

	assert.ErrorIs(t, warehouses.Delete(ctx, w.ID), domain.ErrConflict)

	require.NoError(t, warehouses.DeleteLocation(ctx, loc.ID))
	require.NoError(t, warehouses.Delete(ctx, w.ID))
	_, err = warehouses.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocation_CRUD(t *testing.T) {
	s, _, warehouses := newCatalog()
	ctx := context.Background()

	_, err := warehouses.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: "no-existe", Name: "A-01"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	w, err := warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Principal"})
	require.NoError(t, err)
	loc, err := warehouses.CreateLocation(ctx, dto.CreateLocationRequest{WarehouseID: w.ID, Name: "A-01"})
	require.NoError(t, err)

	upd, err := warehouses.UpdateLocation(ctx, loc.ID, dto.UpdateLocationRequest{Code: strPtr("A01")})
	require.NoError(t, err)
	assert.Equal(t, "A01", upd.Code)
	assert.Equal(t, w.ID, upd.WarehouseID)

	list, err := warehouses.ListLocations(ctx, w.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	key := entity.StockKey{ProductID: "P1", WarehouseID: w.ID, LocationID: loc.ID}
	require.NoError(t, s.Repos().Stock.ApplyDelta(ctx, key, decimal.NewFromInt(3), time.Now()))
	assert.ErrorIs(t, warehouses.DeleteLocation(ctx, loc.ID), domain.ErrConflict)
}

// ─── Usuarios ────────────────────────────────────────────────────────────────

func TestUser_CreateUser(t *testing.T) {
	s := memory.NewStore()
	users := usecase.NewUserUseCase(s.Users())
	ctx := context.Background()

	u, err := users.CreateUser(ctx, " Admin@Example.com ", "", "secreto123", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.IsApproved)

	_, err = users.CreateUser(ctx, "admin@example.com", "", "secreto123", entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = users.CreateUser(ctx, "otro@example.com", "", "corto", entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = users.CreateUser(ctx, "otro@example.com", "", "secreto123", "ROOT")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
