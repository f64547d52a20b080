package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// headerAndLines adapta el request HTTP a cabecera y líneas del dominio.
// Las validaciones por tipo las hace entity.NewDocument / Replace.
func headerAndLines(in dto.DocumentRequest) (entity.DocumentHeader, []entity.DocumentLine, error) {
	date, err := time.Parse(dto.DateLayout, in.Date)
	if err != nil {
		return entity.DocumentHeader{}, nil, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrValidation)
	}
	h := entity.DocumentHeader{
		Date:            date,
		WarehouseID:     in.WarehouseID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		SupplierName:    in.SupplierName,
		CustomerName:    in.CustomerName,
		Reason:          in.Reason,
	}
	lines := make([]entity.DocumentLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, entity.DocumentLine{
			ProductID:      l.ProductID,
			FromLocationID: l.FromLocationID,
			ToLocationID:   l.ToLocationID,
			Quantity:       l.Quantity,
		})
	}
	return h, lines, nil
}

// ToDocumentResponse convierte un documento a su DTO; las líneas solo si vienen cargadas.
func ToDocumentResponse(d *entity.Document) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:              d.ID,
		Type:            string(d.Type),
		Status:          string(d.Status),
		Date:            d.Date.Format(dto.DateLayout),
		WarehouseID:     d.WarehouseID,
		FromWarehouseID: d.FromWarehouseID,
		ToWarehouseID:   d.ToWarehouseID,
		SupplierName:    d.SupplierName,
		CustomerName:    d.CustomerName,
		Reason:          d.Reason,
		CreatedBy:       d.CreatedBy,
		ConfirmedBy:     d.ConfirmedBy,
		ConfirmedAt:     d.ConfirmedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			FromLocationID: l.FromLocationID,
			ToLocationID:   l.ToLocationID,
			Quantity:       l.Quantity,
		})
	}
	return out
}
