package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se edita aquí: solo cambia
// al confirmar documentos.
type ProductUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repos repository.TxRepos) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repos: repos}
}

// Create crea un nuevo producto. ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.MinStock.IsNegative() || in.OpeningStockQty.IsNegative() {
		return nil, fmt.Errorf("%w: min_stock y opening_stock_qty no pueden ser negativos", domain.ErrValidation)
	}
	if !entity.FitsQuantityScale(in.MinStock) || !entity.FitsQuantityScale(in.OpeningStockQty) {
		return nil, fmt.Errorf("%w: min_stock y opening_stock_qty admiten máximo %d decimales", domain.ErrValidation, entity.QuantityScale)
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := time.Now()
	product := &entity.Product{
		ID:                 uuid.New().String(),
		SKU:                strings.TrimSpace(in.SKU),
		Name:               strings.TrimSpace(in.Name),
		Category:           in.Category,
		UnitMeasure:        in.UnitMeasure,
		DefaultWarehouseID: in.DefaultWarehouseID,
		DefaultLocationID:  in.DefaultLocationID,
		MinStock:           in.MinStock,
		OpeningStockQty:    in.OpeningStockQty,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if product.SKU == "" || product.Name == "" {
		return nil, fmt.Errorf("%w: sku y name son requeridos", domain.ErrValidation)
	}
	if err := uc.checkDefaults(ctx, product); err != nil {
		return nil, err
	}
	if err := uc.repos.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes en el request.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.DefaultWarehouseID != nil {
		product.DefaultWarehouseID = *in.DefaultWarehouseID
	}
	if in.DefaultLocationID != nil {
		product.DefaultLocationID = *in.DefaultLocationID
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.OpeningStockQty != nil {
		product.OpeningStockQty = *in.OpeningStockQty
	}
	if product.SKU == "" || product.Name == "" {
		return nil, fmt.Errorf("%w: sku y name son requeridos", domain.ErrValidation)
	}
	if product.MinStock.IsNegative() || product.OpeningStockQty.IsNegative() {
		return nil, fmt.Errorf("%w: min_stock y opening_stock_qty no pueden ser negativos", domain.ErrValidation)
	}
	if !entity.FitsQuantityScale(product.MinStock) || !entity.FitsQuantityScale(product.OpeningStockQty) {
		return nil, fmt.Errorf("%w: min_stock y opening_stock_qty admiten máximo %d decimales", domain.ErrValidation, entity.QuantityScale)
	}
	if err := uc.checkDefaults(ctx, product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repos.Products.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación, ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	list, err := uc.repos.Products.List(ctx, repository.ProductFilter{
		Category: q.Category,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, err
	}
	total, err := uc.repos.Products.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete elimina un producto. ErrConflict si tiene stock distinto de cero o aparece en
// alguna línea de documento.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		product, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		n, err := r.Stock.CountNonZero(ctx, repository.StockFilter{ProductID: id})
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: el producto tiene stock en %d ubicaciones", domain.ErrConflict, n)
		}
		if n, err = r.Documents.CountLines(ctx, repository.LineRefFilter{ProductID: id}); err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: el producto aparece en %d líneas de documentos", domain.ErrConflict, n)
		}
		return r.Products.Delete(ctx, id)
	})
}

// Import crea o actualiza productos por SKU. Cada fila es independiente: una fila
// inválida se reporta en Failed y no detiene el resto. rows[i] corresponde a la
// fila firstRow+i del archivo de origen.
func (uc *ProductUseCase) Import(ctx context.Context, rows []dto.CreateProductRequest, firstRow int) (*dto.ImportResult, error) {
	res := &dto.ImportResult{}
	fail := func(i int, sku string, err error) {
		res.Failed = append(res.Failed, dto.ImportFailure{Row: firstRow + i, SKU: sku, Error: err.Error()})
	}
	for i, in := range rows {
		sku := strings.TrimSpace(in.SKU)
		existing, err := uc.repos.Products.GetBySKU(ctx, sku)
		if err != nil {
			return res, fmt.Errorf("importar fila %d: %w", firstRow+i, err)
		}
		if existing == nil {
			if _, err := uc.Create(ctx, in); err != nil {
				fail(i, sku, err)
				continue
			}
			res.Created++
			continue
		}
		upd := dto.UpdateProductRequest{Name: &in.Name, MinStock: &in.MinStock}
		if in.Category != "" {
			upd.Category = &in.Category
		}
		if in.UnitMeasure != "" {
			upd.UnitMeasure = &in.UnitMeasure
		}
		if _, err := uc.Update(ctx, existing.ID, upd); err != nil {
			fail(i, sku, err)
			continue
		}
		res.Updated++
	}
	return res, nil
}

// checkDefaults la bodega y ubicación por defecto deben existir y ser coherentes entre sí.
func (uc *ProductUseCase) checkDefaults(ctx context.Context, p *entity.Product) error {
	if p.DefaultWarehouseID != "" {
		w, err := uc.repos.Warehouses.GetByID(ctx, p.DefaultWarehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, p.DefaultWarehouseID)
		}
	}
	if p.DefaultLocationID != "" {
		loc, err := uc.repos.Locations.GetByID(ctx, p.DefaultLocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, p.DefaultLocationID)
		}
		if p.DefaultWarehouseID != "" && loc.WarehouseID != p.DefaultWarehouseID {
			return fmt.Errorf("%w: la ubicación por defecto no pertenece a la bodega por defecto", domain.ErrValidation)
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                 p.ID,
		SKU:                p.SKU,
		Name:               p.Name,
		Category:           p.Category,
		UnitMeasure:        p.UnitMeasure,
		DefaultWarehouseID: p.DefaultWarehouseID,
		DefaultLocationID:  p.DefaultLocationID,
		MinStock:           p.MinStock,
		OpeningStockQty:    p.OpeningStockQty,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

