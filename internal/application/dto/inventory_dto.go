package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de un documento. Las ubicaciones requeridas dependen del tipo:
// RECEIPT/ADJUSTMENT to_location_id, DELIVERY from_location_id, TRANSFER ambas.
type DocumentLineRequest struct {
	ProductID      string          `json:"product_id" validate:"required,uuid"`
	FromLocationID string          `json:"from_location_id,omitempty" validate:"omitempty,uuid"`
	ToLocationID   string          `json:"to_location_id,omitempty" validate:"omitempty,uuid"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// DocumentRequest body de creación y edición de documentos.
// TRANSFER usa from_warehouse_id/to_warehouse_id; el resto warehouse_id.
type DocumentRequest struct {
	Date            string                `json:"date" validate:"required,datetime=2006-01-02"`
	WarehouseID     string                `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	FromWarehouseID string                `json:"from_warehouse_id,omitempty" validate:"omitempty,uuid"`
	ToWarehouseID   string                `json:"to_warehouse_id,omitempty" validate:"omitempty,uuid"`
	SupplierName    string                `json:"supplier_name,omitempty" validate:"max=200"`
	CustomerName    string                `json:"customer_name,omitempty" validate:"max=200"`
	Reason          string                `json:"reason,omitempty" validate:"max=500"`
	Lines           []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// DocumentListQuery filtros de listado de documentos.
type DocumentListQuery struct {
	PageRequest
	Status      string `query:"status" validate:"omitempty,oneof=DRAFT CONFIRMED"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
}

// DocumentLineResponse línea de documento en respuestas.
type DocumentLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// DocumentResponse documento con sus líneas. En listados Lines va vacío.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"doc_type"`
	Status          string                 `json:"status"`
	Date            string                 `json:"date"`
	WarehouseID     string                 `json:"warehouse_id,omitempty"`
	FromWarehouseID string                 `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   string                 `json:"to_warehouse_id,omitempty"`
	SupplierName    string                 `json:"supplier_name,omitempty"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	Reason          string                 `json:"reason,omitempty"`
	CreatedBy       string                 `json:"created_by,omitempty"`
	ConfirmedBy     string                 `json:"confirmed_by,omitempty"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Lines           []DocumentLineResponse `json:"lines,omitempty"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ConfirmResponse resultado de confirmar: documento y número de movimientos generados.
type ConfirmResponse struct {
	Document  DocumentResponse `json:"document"`
	Movements int              `json:"movements"`
}
