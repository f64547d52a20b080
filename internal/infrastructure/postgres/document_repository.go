package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de inventario y sus líneas sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, doc_type, status, doc_date, warehouse_id, from_warehouse_id, to_warehouse_id,
	supplier_name, customer_name, reason, created_by, confirmed_by, confirmed_at, created_at, updated_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var wh, fromWh, toWh, createdBy, confirmedBy *string
	if err := row.Scan(&d.ID, &d.Type, &d.Status, &d.Date, &wh, &fromWh, &toWh,
		&d.SupplierName, &d.CustomerName, &d.Reason, &createdBy, &confirmedBy, &d.ConfirmedAt,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.WarehouseID = deref(wh)
	d.FromWarehouseID = deref(fromWh)
	d.ToWarehouseID = deref(toWh)
	d.CreatedBy = deref(createdBy)
	d.ConfirmedBy = deref(confirmedBy)
	return &d, nil
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Type, doc.Status, doc.Date, nullable(doc.WarehouseID), nullable(doc.FromWarehouseID),
		nullable(doc.ToWarehouseID), doc.SupplierName, doc.CustomerName, doc.Reason,
		nullable(doc.CreatedBy), nullable(doc.ConfirmedBy), doc.ConfirmedAt, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return r.insertLines(ctx, doc.Lines)
}

func (r *DocumentRepo) insertLines(ctx context.Context, lines []entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (id, document_id, product_id, from_location_id, to_location_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, query, l.ID, l.DocumentID, l.ProductID,
			nullable(l.FromLocationID), nullable(l.ToLocationID), l.Quantity, l.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			if isCheckViolation(err) {
				return fmt.Errorf("%w: línea con cantidad inválida", domain.ErrValidation)
			}
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el documento con sus líneas.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) hasta el fin de la transacción.
// Dos confirmaciones concurrentes del mismo documento quedan serializadas aquí.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) get(ctx context.Context, query, id string) (*entity.Document, error) {
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	doc.Lines, err = r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepo) lines(ctx context.Context, docID string) ([]entity.DocumentLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, document_id, product_id, from_location_id, to_location_id, quantity, created_at
		FROM document_lines WHERE document_id = $1 ORDER BY created_at, id`, docID)
	if err != nil {
		return nil, fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	var list []entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		var from, to *string
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &from, &to, &l.Quantity, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		l.FromLocationID = deref(from)
		l.ToLocationID = deref(to)
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateHeader actualiza la cabecera solo si el documento sigue en DRAFT.
func (r *DocumentRepo) UpdateHeader(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents SET doc_date = $2, warehouse_id = $3, from_warehouse_id = $4, to_warehouse_id = $5,
			supplier_name = $6, customer_name = $7, reason = $8, updated_at = $9
		WHERE id = $1 AND status = 'DRAFT'`
	cmd, err := r.q.Exec(ctx, query,
		doc.ID, doc.Date, nullable(doc.WarehouseID), nullable(doc.FromWarehouseID), nullable(doc.ToWarehouseID),
		doc.SupplierName, doc.CustomerName, doc.Reason, doc.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.notDraft(ctx, doc.ID, domain.ErrInvalidState)
	}
	return nil
}

// ReplaceLines borra las líneas del documento en DRAFT e inserta las nuevas.
func (r *DocumentRepo) ReplaceLines(ctx context.Context, docID string, lines []entity.DocumentLine) error {
	var status entity.DocStatus
	err := r.q.QueryRow(ctx, `SELECT status FROM documents WHERE id = $1`, docID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get document status: %w", err)
	}
	if status != entity.DocStatusDraft {
		return domain.ErrInvalidState
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM document_lines WHERE document_id = $1`, docID); err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	return r.insertLines(ctx, lines)
}

// MarkConfirmed pasa DRAFT -> CONFIRMED con un UPDATE condicional.
func (r *DocumentRepo) MarkConfirmed(ctx context.Context, id, userID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documents SET status = 'CONFIRMED', confirmed_by = $2, confirmed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'DRAFT'`, id, nullable(userID), at)
	if err != nil {
		return fmt.Errorf("confirm document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.notDraft(ctx, id, domain.ErrAlreadyConfirmed)
	}
	return nil
}

// notDraft distingue documento inexistente de documento ya confirmado.
func (r *DocumentRepo) notDraft(ctx context.Context, id string, stateErr error) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check document: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return stateErr
}

// List devuelve cabeceras por fecha y creación descendente.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	var args []any
	pos := 1
	if f.Type != "" {
		query += fmt.Sprintf(" AND doc_type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.WarehouseID != "" {
		query += fmt.Sprintf(" AND (warehouse_id = $%d OR from_warehouse_id = $%d OR to_warehouse_id = $%d)", pos, pos, pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	query += " ORDER BY doc_date DESC, created_at DESC, id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// CountLines cuenta líneas que referencian el producto o la ubicación.
func (r *DocumentRepo) CountLines(ctx context.Context, f repository.LineRefFilter) (int, error) {
	query := `SELECT COUNT(*) FROM document_lines WHERE 1=1`
	var args []any
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND (from_location_id = $%d OR to_location_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count document lines: %w", err)
	}
	return n, nil
}

func (r *DocumentRepo) CountByStatus(ctx context.Context, docType entity.DocType, status entity.DocStatus) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE doc_type = $1 AND status = $2`, docType, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
