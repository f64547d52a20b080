package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

// DocumentUseCase ciclo de vida de los documentos de inventario (DRAFT -> CONFIRMED).
// Toda operación que escribe corre en una única transacción de txRunner; la exclusión
// entre confirmaciones concurrentes la garantiza el store (bloqueo de fila + UPDATE condicional).
type DocumentUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos // lecturas fuera de transacción
	log      *logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(txRunner repository.TxRunner, repos repository.TxRepos, log *logger.Logger) *DocumentUseCase {
	return &DocumentUseCase{
		txRunner: txRunner,
		repos:    repos,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create crea un documento en DRAFT con sus líneas. No afecta el stock.
func (uc *DocumentUseCase) Create(ctx context.Context, docType entity.DocType, userID string, in dto.DocumentRequest) (*dto.DocumentResponse, error) {
	h, lines, err := headerAndLines(in)
	if err != nil {
		return nil, err
	}
	doc, err := entity.NewDocument(docType, h, lines)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	doc.ID = uc.newID()
	doc.CreatedBy = userID
	doc.CreatedAt = now
	doc.UpdatedAt = now
	uc.stampLines(doc, now)

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := checkRefs(ctx, r, doc); err != nil {
			return err
		}
		return r.Documents.Create(ctx, doc)
	})
	if err != nil {
		uc.log.Document("", string(docType)).Warn().Err(err).Msg("crear documento falló")
		return nil, err
	}
	uc.log.Document(doc.ID, string(docType)).Info().Int("lines", len(doc.Lines)).Msg("documento creado")
	out := ToDocumentResponse(doc)
	return &out, nil
}

// Update reemplaza cabecera y todas las líneas de un documento en DRAFT.
// ErrNotFound si no existe o es de otro tipo; ErrInvalidState si ya está confirmado.
func (uc *DocumentUseCase) Update(ctx context.Context, docType entity.DocType, id string, in dto.DocumentRequest) (*dto.DocumentResponse, error) {
	var doc *entity.Document
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		current, err := r.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("documento: cargar: %w", err)
		}
		if current == nil || current.Type != docType {
			return domain.ErrNotFound
		}
		if current.IsConfirmed() {
			return domain.ErrInvalidState
		}
		h, lines, err := headerAndLines(in)
		if err != nil {
			return err
		}
		if err := current.Replace(h, lines); err != nil {
			return err
		}
		now := uc.now()
		current.UpdatedAt = now
		uc.stampLines(current, now)
		if err := checkRefs(ctx, r, current); err != nil {
			return err
		}
		if err := r.Documents.UpdateHeader(ctx, current); err != nil {
			return err
		}
		if err := r.Documents.ReplaceLines(ctx, current.ID, current.Lines); err != nil {
			return err
		}
		doc = current
		return nil
	})
	if err != nil {
		uc.log.Document(id, string(docType)).Warn().Err(err).Msg("editar documento falló")
		return nil, err
	}
	uc.log.Document(doc.ID, string(docType)).Info().Int("lines", len(doc.Lines)).Msg("documento actualizado")
	out := ToDocumentResponse(doc)
	return &out, nil
}

// Confirm confirma el documento en una sola transacción: planifica movimientos, los agrega
// al log, aplica los deltas a la proyección y pasa a CONFIRMED. Cualquier fallo deja el
// documento en DRAFT sin movimientos ni cambios de stock.
func (uc *DocumentUseCase) Confirm(ctx context.Context, docType entity.DocType, id, userID string) (*dto.ConfirmResponse, error) {
	var (
		doc   *entity.Document
		count int
	)
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		current, err := r.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("documento: cargar: %w", err)
		}
		if current == nil || current.Type != docType {
			return domain.ErrNotFound
		}
		if current.IsConfirmed() {
			return domain.ErrAlreadyConfirmed
		}

		specs, err := inventory.PlanDocument(current)
		if err != nil {
			return err
		}
		now := uc.now()
		movs := inventory.BuildMovements(current, specs, uc.newID, now)
		if err := r.Movements.Append(ctx, movs); err != nil {
			return fmt.Errorf("confirmar: registrar movimientos: %w", err)
		}
		for _, d := range inventory.ProjectionDeltas(specs) {
			if err := r.Stock.ApplyDelta(ctx, d.Key, d.Delta, now); err != nil {
				return fmt.Errorf("confirmar: actualizar stock: %w", err)
			}
		}
		if err := r.Documents.MarkConfirmed(ctx, current.ID, userID, now); err != nil {
			return err
		}

		current.Status = entity.DocStatusConfirmed
		current.ConfirmedBy = userID
		current.ConfirmedAt = &now
		current.UpdatedAt = now
		doc = current
		count = len(movs)
		return nil
	})
	if err != nil {
		dl := uc.log.Document(id, string(docType))
		ev := dl.Warn()
		if !isDomainError(err) {
			ev = dl.Error()
		}
		ev.Err(err).Msg("confirmar documento falló")
		return nil, err
	}
	uc.log.Document(doc.ID, string(docType)).Info().Int("movements", count).Msg("documento confirmado")
	return &dto.ConfirmResponse{Document: ToDocumentResponse(doc), Movements: count}, nil
}

// Get devuelve el documento con sus líneas. Un documento de otro tipo cuenta como inexistente.
func (uc *DocumentUseCase) Get(ctx context.Context, docType entity.DocType, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.repos.Documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Type != docType {
		return nil, domain.ErrNotFound
	}
	out := ToDocumentResponse(doc)
	return &out, nil
}

// List documentos del tipo, fecha descendente y luego creación descendente.
func (uc *DocumentUseCase) List(ctx context.Context, docType entity.DocType, q dto.DocumentListQuery) (*dto.DocumentListResponse, error) {
	q.DefaultPage()
	list, err := uc.repos.Documents.List(ctx, repository.DocumentFilter{
		Type:        docType,
		Status:      entity.DocStatus(q.Status),
		WarehouseID: q.WarehouseID,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, ToDocumentResponse(d))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// stampLines asigna ids nuevos a las líneas: cada edición las reemplaza completas.
func (uc *DocumentUseCase) stampLines(doc *entity.Document, now time.Time) {
	for i := range doc.Lines {
		doc.Lines[i].ID = uc.newID()
		doc.Lines[i].DocumentID = doc.ID
		doc.Lines[i].CreatedAt = now
	}
}

// checkRefs verifica que bodegas, productos y ubicaciones existan y que cada ubicación
// pertenezca a la bodega del lado correspondiente (origen o destino).
func checkRefs(ctx context.Context, r repository.TxRepos, doc *entity.Document) error {
	for _, id := range []string{doc.WarehouseID, doc.FromWarehouseID, doc.ToWarehouseID} {
		if id == "" {
			continue
		}
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
		}
	}

	products := make(map[string]bool)
	for i, l := range doc.Lines {
		if !products[l.ProductID] {
			p, err := r.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
			}
			products[l.ProductID] = true
		}
		if l.FromLocationID != "" {
			if err := checkLocation(ctx, r, l.FromLocationID, doc.SourceWarehouse(), i); err != nil {
				return err
			}
		}
		if l.ToLocationID != "" {
			if err := checkLocation(ctx, r, l.ToLocationID, doc.TargetWarehouse(), i); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLocation(ctx context.Context, r repository.TxRepos, locationID, warehouseID string, i int) error {
	loc, err := r.Locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
	}
	if loc.WarehouseID != warehouseID {
		return fmt.Errorf("%w: línea %d: la ubicación %s no pertenece a la bodega %s", domain.ErrValidation, i+1, locationID, warehouseID)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrValidation, domain.ErrInvalidState,
		domain.ErrAlreadyConfirmed, domain.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
