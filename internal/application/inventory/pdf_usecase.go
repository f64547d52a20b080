package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

// PDFUseCase genera el comprobante imprimible de un documento (borrador o confirmado).
type PDFUseCase struct {
	repos     repository.TxRepos
	generator SlipPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(repos repository.TxRepos, generator SlipPDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator}
}

// DownloadSlip devuelve (pdf, nombre de archivo). ErrNotFound si el documento no existe
// o es de otro tipo.
func (uc *PDFUseCase) DownloadSlip(ctx context.Context, docType entity.DocType, id string) ([]byte, string, error) {
	doc, err := uc.repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil || doc.Type != docType {
		return nil, "", domain.ErrNotFound
	}

	slip := DocumentSlip{Document: doc}
	slip.WarehouseName = uc.warehouseName(ctx, doc.WarehouseID)
	slip.FromWarehouseName = uc.warehouseName(ctx, doc.FromWarehouseID)
	slip.ToWarehouseName = uc.warehouseName(ctx, doc.ToWarehouseID)

	locNames := make(map[string]string)
	locName := func(id string) string {
		if id == "" {
			return ""
		}
		if n, ok := locNames[id]; ok {
			return n
		}
		n := id
		if loc, err := uc.repos.Locations.GetByID(ctx, id); err == nil && loc != nil {
			n = loc.Name
		}
		locNames[id] = n
		return n
	}
	for _, l := range doc.Lines {
		sl := SlipLine{DocumentLine: l, ProductName: "Producto " + l.ProductID}
		if p, err := uc.repos.Products.GetByID(ctx, l.ProductID); err == nil && p != nil {
			sl.SKU = p.SKU
			sl.ProductName = p.Name
			sl.UnitMeasure = p.UnitMeasure
		}
		sl.FromLocationName = locName(l.FromLocationID)
		sl.ToLocationName = locName(l.ToLocationID)
		slip.Lines = append(slip.Lines, sl)
	}

	pdfBytes, err := uc.generator.GenerateDocumentSlip(ctx, slip)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := doc.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("%s_%s.pdf", strings.ToLower(string(doc.Type)), short), nil
}

func (uc *PDFUseCase) warehouseName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}
	w, err := uc.repos.Warehouses.GetByID(ctx, id)
	if err != nil || w == nil {
		return id
	}
	return w.Name
}
