package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

// ProjectionUseCase lecturas sobre la proyección de stock y el log de movimientos.
// Solo lectura: cada consulta es una sola sentencia, nunca ve una confirmación a medias.
type ProjectionUseCase struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	stock     repository.StockRepository
}

// NewProjectionUseCase construye el caso de uso.
func NewProjectionUseCase(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	stock repository.StockRepository,
) *ProjectionUseCase {
	return &ProjectionUseCase{products: products, movements: movements, stock: stock}
}

// CurrentStock filas de la proyección ordenadas por producto, bodega y ubicación.
func (uc *ProjectionUseCase) CurrentStock(ctx context.Context, q dto.StockQuery) ([]dto.StockRowDTO, error) {
	rows, err := uc.stock.List(ctx, repository.StockFilter{
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		LocationID:  q.LocationID,
		Category:    q.Category,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockRowDTO{
			ProductID:     r.ProductID,
			SKU:           r.SKU,
			ProductName:   r.ProductName,
			Category:      r.Category,
			UnitMeasure:   r.UnitMeasure,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			LocationID:    r.LocationID,
			LocationName:  r.LocationName,
			Quantity:      r.Quantity,
			UpdatedAt:     r.UpdatedAt,
		})
	}
	return out, nil
}

// MovementHistory historial de movimientos, más reciente primero.
func (uc *ProjectionUseCase) MovementHistory(ctx context.Context, q dto.MovementQuery) ([]dto.MovementDTO, error) {
	f := repository.MovementFilter{
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		DocType:     entity.DocType(q.DocType),
		Limit:       q.Limit,
	}
	if f.DocType != "" && !f.DocType.Valid() {
		return nil, fmt.Errorf("%w: doc_type %q no soportado", domain.ErrValidation, q.DocType)
	}
	var err error
	if f.From, err = parseDate("from", q.From); err != nil {
		return nil, err
	}
	if f.To, err = parseDate("to", q.To); err != nil {
		return nil, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, fmt.Errorf("%w: to debe ser posterior a from", domain.ErrValidation)
	}
	views, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(views))
	for _, v := range views {
		out = append(out, ToMovementDTO(v))
	}
	return out, nil
}

// Ledger kardex de un producto: movimientos del más antiguo al más reciente con el
// saldo acumulado calculado al leer, empezando en cero.
func (uc *ProjectionUseCase) Ledger(ctx context.Context, q dto.LedgerQuery) (*dto.LedgerResponse, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrValidation)
	}
	product, err := uc.products.GetByID(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	views, err := uc.movements.ListChronological(ctx, repository.MovementFilter{
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		LocationID:  q.LocationID,
	})
	if err != nil {
		return nil, err
	}

	qtys := make([]decimal.Decimal, len(views))
	for i, v := range views {
		qtys[i] = v.QtyChange
	}
	balances := inventory.RunningBalances(qtys)

	resp := &dto.LedgerResponse{
		ProductID:    product.ID,
		SKU:          product.SKU,
		ProductName:  product.Name,
		Entries:      make([]dto.LedgerEntryDTO, 0, len(views)),
		FinalBalance: decimal.Zero,
	}
	for i, v := range views {
		resp.Entries = append(resp.Entries, dto.LedgerEntryDTO{MovementDTO: ToMovementDTO(v), Balance: balances[i]})
	}
	if n := len(balances); n > 0 {
		resp.FinalBalance = balances[n-1]
	}
	return resp, nil
}

// LowStock productos cuyo stock sumado en una bodega es estrictamente menor que su mínimo.
func (uc *ProjectionUseCase) LowStock(ctx context.Context, warehouseID string) ([]dto.LowStockDTO, error) {
	items, err := uc.stock.LowStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockDTO{
			ProductID:     it.ProductID,
			SKU:           it.SKU,
			ProductName:   it.ProductName,
			WarehouseID:   it.WarehouseID,
			WarehouseName: it.WarehouseName,
			MinStock:      it.MinStock,
			TotalQty:      it.TotalQty,
			Shortfall:     it.MinStock.Sub(it.TotalQty),
		})
	}
	return out, nil
}

// ToMovementDTO convierte la vista enriquecida de un movimiento a su DTO.
func ToMovementDTO(v repository.MovementView) dto.MovementDTO {
	return dto.MovementDTO{
		ID:               v.ID,
		Date:             v.MovementDate.Format(dto.DateLayout),
		ProductID:        v.ProductID,
		SKU:              v.ProductSKU,
		ProductName:      v.ProductName,
		WarehouseID:      v.WarehouseID,
		WarehouseName:    v.WarehouseName,
		LocationID:       v.LocationID,
		LocationName:     v.LocationName,
		DocumentID:       v.DocumentID,
		DocType:          string(v.DocType),
		FromLocationName: v.FromLocationName,
		ToLocationName:   v.ToLocationName,
		QtyChange:        v.QtyChange,
		CreatedAt:        v.CreatedAt,
	}
}

func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrValidation, field)
	}
	return &t, nil
}
