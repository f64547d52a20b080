package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain"
)

// DocType tipo de documento de inventario.
type DocType string

// Tipos de documento soportados.
const (
	DocTypeReceipt    DocType = "RECEIPT"    // entrada de proveedor
	DocTypeDelivery   DocType = "DELIVERY"   // salida a cliente
	DocTypeTransfer   DocType = "TRANSFER"   // traslado entre bodegas/ubicaciones
	DocTypeAdjustment DocType = "ADJUSTMENT" // ajuste de inventario
)

// Valid indica si el tipo es uno de los cuatro soportados.
func (t DocType) Valid() bool {
	switch t {
	case DocTypeReceipt, DocTypeDelivery, DocTypeTransfer, DocTypeAdjustment:
		return true
	}
	return false
}

// NeedsFromLocation indica si las líneas requieren ubicación origen.
func (t DocType) NeedsFromLocation() bool {
	return t == DocTypeDelivery || t == DocTypeTransfer
}

// NeedsToLocation indica si las líneas requieren ubicación destino.
func (t DocType) NeedsToLocation() bool {
	return t == DocTypeReceipt || t == DocTypeAdjustment || t == DocTypeTransfer
}

// QuantityScale decimales que admite una cantidad; coincide con NUMERIC(18,4).
const QuantityScale = 4

// FitsQuantityScale indica si q se guarda sin redondeo con QuantityScale decimales.
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}

// DocStatus estado del ciclo de vida. CONFIRMED es terminal.
type DocStatus string

const (
	DocStatusDraft     DocStatus = "DRAFT"
	DocStatusConfirmed DocStatus = "CONFIRMED"
)

// Document cabecera de un documento de inventario con sus líneas.
// RECEIPT/DELIVERY/ADJUSTMENT usan WarehouseID; TRANSFER usa FromWarehouseID y ToWarehouseID.
type Document struct {
	ID              string
	Type            DocType
	Status          DocStatus
	Date            time.Time
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	SupplierName    string
	CustomerName    string
	Reason          string
	CreatedBy       string
	ConfirmedBy     string
	ConfirmedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []DocumentLine
}

// DocumentLine línea de un documento. Las ubicaciones presentes dependen del tipo.
type DocumentLine struct {
	ID             string
	DocumentID     string
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	CreatedAt      time.Time
}

// DocumentHeader campos editables de la cabecera.
type DocumentHeader struct {
	Date            time.Time
	WarehouseID     string
	FromWarehouseID string
	ToWarehouseID   string
	SupplierName    string
	CustomerName    string
	Reason          string
}

// IsConfirmed indica si el documento ya no admite cambios.
func (d *Document) IsConfirmed() bool {
	return d.Status == DocStatusConfirmed
}

// SourceWarehouse bodega de la que salen las unidades (DELIVERY, TRANSFER).
func (d *Document) SourceWarehouse() string {
	if d.Type == DocTypeTransfer {
		return d.FromWarehouseID
	}
	return d.WarehouseID
}

// TargetWarehouse bodega a la que entran las unidades (RECEIPT, ADJUSTMENT, TRANSFER).
func (d *Document) TargetWarehouse() string {
	if d.Type == DocTypeTransfer {
		return d.ToWarehouseID
	}
	return d.WarehouseID
}

// NewDocument valida cabecera y líneas según el tipo y devuelve un documento en DRAFT.
// Los campos que no aplican al tipo se descartan. IDs y timestamps los asigna el caso de uso.
func NewDocument(docType DocType, h DocumentHeader, lines []DocumentLine) (*Document, error) {
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: tipo de documento %q no soportado", domain.ErrValidation, docType)
	}
	doc := &Document{Type: docType, Status: DocStatusDraft}
	if err := doc.setContent(h, lines); err != nil {
		return nil, err
	}
	return doc, nil
}

// Replace reemplaza cabecera y todas las líneas. Falla con ErrInvalidState si está CONFIRMED.
func (d *Document) Replace(h DocumentHeader, lines []DocumentLine) error {
	if d.IsConfirmed() {
		return domain.ErrInvalidState
	}
	return d.setContent(h, lines)
}

func (d *Document) setContent(h DocumentHeader, lines []DocumentLine) error {
	if h.Date.IsZero() {
		return fmt.Errorf("%w: date es requerido", domain.ErrValidation)
	}
	next := *d
	next.Date = h.Date
	next.Reason = h.Reason
	next.SupplierName = ""
	next.CustomerName = ""
	next.WarehouseID = ""
	next.FromWarehouseID = ""
	next.ToWarehouseID = ""

	switch d.Type {
	case DocTypeTransfer:
		if h.FromWarehouseID == "" || h.ToWarehouseID == "" {
			return fmt.Errorf("%w: from_warehouse_id y to_warehouse_id son requeridos", domain.ErrValidation)
		}
		next.FromWarehouseID = h.FromWarehouseID
		next.ToWarehouseID = h.ToWarehouseID
	default:
		if h.WarehouseID == "" {
			return fmt.Errorf("%w: warehouse_id es requerido", domain.ErrValidation)
		}
		next.WarehouseID = h.WarehouseID
	}
	switch d.Type {
	case DocTypeReceipt:
		next.SupplierName = h.SupplierName
	case DocTypeDelivery:
		next.CustomerName = h.CustomerName
	}

	if len(lines) == 0 {
		return fmt.Errorf("%w: el documento debe tener al menos una línea", domain.ErrValidation)
	}
	normalized := make([]DocumentLine, 0, len(lines))
	for i, l := range lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d: product_id es requerido", domain.ErrValidation, i+1)
		}
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d: quantity debe ser mayor que cero", domain.ErrValidation, i+1)
		}
		if !FitsQuantityScale(l.Quantity) {
			return fmt.Errorf("%w: línea %d: quantity admite máximo %d decimales", domain.ErrValidation, i+1, QuantityScale)
		}
		if d.Type.NeedsFromLocation() {
			if l.FromLocationID == "" {
				return fmt.Errorf("%w: línea %d: from_location_id es requerido para %s", domain.ErrValidation, i+1, d.Type)
			}
		} else {
			l.FromLocationID = ""
		}
		if d.Type.NeedsToLocation() {
			if l.ToLocationID == "" {
				return fmt.Errorf("%w: línea %d: to_location_id es requerido para %s", domain.ErrValidation, i+1, d.Type)
			}
		} else {
			l.ToLocationID = ""
		}
		if d.Type == DocTypeTransfer && next.FromWarehouseID == next.ToWarehouseID && l.FromLocationID == l.ToLocationID {
			return fmt.Errorf("%w: línea %d: origen y destino son la misma ubicación", domain.ErrValidation, i+1)
		}
		l.DocumentID = d.ID
		normalized = append(normalized, l)
	}
	next.Lines = normalized
	*d = next
	return nil
}
