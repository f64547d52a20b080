package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// DocumentFilter filtros del listado de documentos. WarehouseID coincide con
// la bodega del documento o con cualquiera de las dos bodegas de un traslado.
type DocumentFilter struct {
	Type        entity.DocType
	Status      entity.DocStatus
	WarehouseID string
	Limit       int
	Offset      int
}

// LineRefFilter busca líneas que referencian un producto o una ubicación.
type LineRefFilter struct {
	ProductID  string
	LocationID string
}

// DocumentRepository define el puerto de persistencia para documentos y sus líneas.
type DocumentRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, doc *entity.Document) error
	// GetByID devuelve el documento con sus líneas o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	// UpdateHeader actualiza la cabecera de un documento en DRAFT.
	UpdateHeader(ctx context.Context, doc *entity.Document) error
	// ReplaceLines borra todas las líneas del documento e inserta las nuevas.
	ReplaceLines(ctx context.Context, docID string, lines []entity.DocumentLine) error
	// MarkConfirmed pasa DRAFT -> CONFIRMED de forma condicional.
	// Devuelve domain.ErrAlreadyConfirmed si el documento ya no estaba en DRAFT.
	MarkConfirmed(ctx context.Context, id, userID string, at time.Time) error
	// List devuelve cabeceras (sin líneas) por fecha descendente y luego creación descendente.
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
	CountLines(ctx context.Context, filter LineRefFilter) (int, error)
	CountByStatus(ctx context.Context, docType entity.DocType, status entity.DocStatus) (int, error)
}
