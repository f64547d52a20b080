package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo log append-only de movimientos sobre PostgreSQL (usable con pool o tx).
// La tabla tiene un trigger que rechaza UPDATE y DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append inserta los movimientos y completa Seq con el valor de la identidad.
func (r *StockMovementRepo) Append(ctx context.Context, movs []entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, warehouse_id, location_id, document_id, document_line_id, movement_date, qty_change, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	for i := range movs {
		m := &movs[i]
		err := r.q.QueryRow(ctx, query, m.ID, m.ProductID, m.WarehouseID, m.LocationID, m.DocumentID,
			m.DocumentLineID, m.MovementDate, m.QtyChange, m.CreatedAt).Scan(&m.Seq)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert stock movement: %w", err)
		}
	}
	return nil
}

const movementViewQuery = `
	SELECT m.id, m.seq, m.product_id, m.warehouse_id, m.location_id, m.document_id, m.document_line_id,
		m.movement_date, m.qty_change, m.created_at,
		p.sku, p.name, w.name, l.name, d.doc_type, d.status,
		COALESCE(fl.name, ''), COALESCE(tl.name, '')
	FROM stock_movements m
	JOIN products p ON p.id = m.product_id
	JOIN warehouses w ON w.id = m.warehouse_id
	JOIN locations l ON l.id = m.location_id
	JOIN documents d ON d.id = m.document_id
	JOIN document_lines dl ON dl.id = m.document_line_id
	LEFT JOIN locations fl ON fl.id = dl.from_location_id
	LEFT JOIN locations tl ON tl.id = dl.to_location_id
	WHERE 1=1`

// List historial, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]repository.MovementView, error) {
	return r.listViews(ctx, f, "m.movement_date DESC, m.seq DESC")
}

// ListChronological kardex, más antiguo primero.
func (r *StockMovementRepo) ListChronological(ctx context.Context, f repository.MovementFilter) ([]repository.MovementView, error) {
	return r.listViews(ctx, f, "m.movement_date ASC, m.seq ASC")
}

// ListRecent últimos movimientos creados.
func (r *StockMovementRepo) ListRecent(ctx context.Context, limit int) ([]repository.MovementView, error) {
	return r.listViews(ctx, repository.MovementFilter{Limit: limit}, "m.seq DESC")
}

func (r *StockMovementRepo) listViews(ctx context.Context, f repository.MovementFilter, order string) ([]repository.MovementView, error) {
	query := movementViewQuery
	var args []any
	pos := 1
	add := func(cond string, v any) {
		query += fmt.Sprintf(cond, pos)
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add(" AND m.product_id = $%d", f.ProductID)
	}
	if f.WarehouseID != "" {
		add(" AND m.warehouse_id = $%d", f.WarehouseID)
	}
	if f.LocationID != "" {
		add(" AND m.location_id = $%d", f.LocationID)
	}
	if f.DocType != "" {
		add(" AND d.doc_type = $%d", f.DocType)
	}
	if f.From != nil {
		add(" AND m.movement_date >= $%d", *f.From)
	}
	if f.To != nil {
		add(" AND m.movement_date <= $%d", *f.To)
	}
	query += " ORDER BY " + order
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []repository.MovementView
	for rows.Next() {
		var v repository.MovementView
		if err := rows.Scan(&v.ID, &v.Seq, &v.ProductID, &v.WarehouseID, &v.LocationID, &v.DocumentID,
			&v.DocumentLineID, &v.MovementDate, &v.QtyChange, &v.CreatedAt,
			&v.ProductSKU, &v.ProductName, &v.WarehouseName, &v.LocationName, &v.DocType, &v.DocStatus,
			&v.FromLocationName, &v.ToLocationName); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ListByDocument movimientos generados por un documento, en orden de creación.
func (r *StockMovementRepo) ListByDocument(ctx context.Context, documentID string) ([]entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, seq, product_id, warehouse_id, location_id, document_id, document_line_id, movement_date, qty_change, created_at
		FROM stock_movements WHERE document_id = $1 ORDER BY seq`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list movements by document: %w", err)
	}
	defer rows.Close()
	var list []entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.Seq, &m.ProductID, &m.WarehouseID, &m.LocationID, &m.DocumentID,
		&m.DocumentLineID, &m.MovementDate, &m.QtyChange, &m.CreatedAt)
	return m, err
}

// OutflowSince suma de salidas (valor absoluto) por producto para el tipo de documento dado.
func (r *StockMovementRepo) OutflowSince(ctx context.Context, since time.Time, docType entity.DocType) ([]repository.ProductOutflow, error) {
	query := `
		SELECT m.product_id, p.sku, p.name, SUM(-m.qty_change)
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		JOIN documents d ON d.id = m.document_id
		WHERE m.qty_change < 0 AND m.movement_date >= $1`
	args := []any{since}
	if docType != "" {
		query += " AND d.doc_type = $2"
		args = append(args, docType)
	}
	query += " GROUP BY m.product_id, p.sku, p.name ORDER BY m.product_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("outflow since: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductOutflow
	for rows.Next() {
		var o repository.ProductOutflow
		if err := rows.Scan(&o.ProductID, &o.SKU, &o.ProductName, &o.Outflow); err != nil {
			return nil, fmt.Errorf("scan outflow: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
