package inventory

import (
	"context"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// SlipLine línea del comprobante con los nombres ya resueltos.
type SlipLine struct {
	entity.DocumentLine
	SKU              string
	ProductName      string
	UnitMeasure      string
	FromLocationName string
	ToLocationName   string
}

// DocumentSlip datos que necesita el generador para imprimir un documento.
type DocumentSlip struct {
	Document          *entity.Document
	WarehouseName     string
	FromWarehouseName string
	ToWarehouseName   string
	Lines             []SlipLine
}

// SlipPDFGenerator genera el comprobante imprimible de un documento de inventario.
type SlipPDFGenerator interface {
	GenerateDocumentSlip(ctx context.Context, slip DocumentSlip) ([]byte, error)
}
