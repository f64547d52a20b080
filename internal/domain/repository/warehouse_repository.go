package repository

import (
	"context"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	Delete(ctx context.Context, id string) error
}

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	// List devuelve las ubicaciones de la bodega; warehouseID vacío = todas.
	List(ctx context.Context, warehouseID string) ([]*entity.Location, error)
	CountByWarehouse(ctx context.Context, warehouseID string) (int, error)
	Delete(ctx context.Context, id string) error
}
