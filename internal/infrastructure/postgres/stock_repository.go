package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de la proyección CurrentStock sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// ApplyDelta suma delta a la fila en un único upsert. La suma la hace PostgreSQL,
// así dos transacciones concurrentes sobre la misma clave no pierden actualizaciones.
func (r *StockRepo) ApplyDelta(ctx context.Context, key entity.StockKey, delta decimal.Decimal, at time.Time) error {
	query := `
		INSERT INTO current_stock (product_id, warehouse_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, warehouse_id, location_id)
		DO UPDATE SET quantity = current_stock.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, key.ProductID, key.WarehouseID, key.LocationID, delta, at)
	if err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	return nil
}

// Get obtiene el stock actual de la clave; si no hay fila devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.CurrentStock, error) {
	query := `
		SELECT product_id, warehouse_id, location_id, quantity, updated_at
		FROM current_stock WHERE product_id = $1 AND warehouse_id = $2 AND location_id = $3`
	var s entity.CurrentStock
	err := r.q.QueryRow(ctx, query, key.ProductID, key.WarehouseID, key.LocationID).Scan(
		&s.ProductID, &s.WarehouseID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.CurrentStock{ProductID: key.ProductID, WarehouseID: key.WarehouseID, LocationID: key.LocationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

func stockWhere(f repository.StockFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	pos := 1
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND cs.product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.WarehouseID != "" {
		where += fmt.Sprintf(" AND cs.warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.LocationID != "" {
		where += fmt.Sprintf(" AND cs.location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Category != "" {
		where += fmt.Sprintf(" AND p.category = $%d", pos)
		args = append(args, f.Category)
	}
	return where, args
}

// List filas de la proyección con nombres, ordenadas por producto, bodega y ubicación.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]repository.StockView, error) {
	where, args := stockWhere(f)
	query := `
		SELECT cs.product_id, p.sku, p.name, p.category, p.unit_measure, cs.warehouse_id, w.name,
			cs.location_id, l.name, cs.quantity, cs.updated_at
		FROM current_stock cs
		JOIN products p ON p.id = cs.product_id
		JOIN warehouses w ON w.id = cs.warehouse_id
		JOIN locations l ON l.id = cs.location_id` + where + `
		ORDER BY p.name, w.name, l.name, cs.product_id, cs.warehouse_id, cs.location_id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []repository.StockView
	for rows.Next() {
		var v repository.StockView
		if err := rows.Scan(&v.ProductID, &v.SKU, &v.ProductName, &v.Category, &v.UnitMeasure, &v.WarehouseID,
			&v.WarehouseName, &v.LocationID, &v.LocationName, &v.Quantity, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *StockRepo) CountNonZero(ctx context.Context, f repository.StockFilter) (int, error) {
	where, args := stockWhere(f)
	query := `SELECT COUNT(*) FROM current_stock cs JOIN products p ON p.id = cs.product_id` + where + ` AND cs.quantity <> 0`
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock: %w", err)
	}
	return n, nil
}

// LowStock productos cuyo total en una bodega es estrictamente menor que min_stock.
// Las combinaciones sin filas de stock cuentan como cero.
func (r *StockRepo) LowStock(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	query := `
		SELECT p.id, p.sku, p.name, w.id, w.name, p.min_stock, COALESCE(SUM(cs.quantity), 0)
		FROM products p
		CROSS JOIN warehouses w
		LEFT JOIN current_stock cs ON cs.product_id = p.id AND cs.warehouse_id = w.id`
	var args []any
	if warehouseID != "" {
		query += ` WHERE w.id = $1`
		args = append(args, warehouseID)
	}
	query += `
		GROUP BY p.id, p.sku, p.name, w.id, w.name, p.min_stock
		HAVING COALESCE(SUM(cs.quantity), 0) < p.min_stock
		ORDER BY p.name, w.name`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.WarehouseID, &it.WarehouseName,
			&it.MinStock, &it.TotalQty); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *StockRepo) CountLowStockProducts(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM products p
		LEFT JOIN (SELECT product_id, SUM(quantity) AS total FROM current_stock GROUP BY product_id) t
			ON t.product_id = p.id
		WHERE COALESCE(t.total, 0) < p.min_stock`
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

func (r *StockRepo) TotalsByProduct(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `SELECT product_id, SUM(quantity) FROM current_stock GROUP BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("stock totals: %w", err)
	}
	defer rows.Close()
	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var total decimal.Decimal
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan stock total: %w", err)
		}
		totals[id] = total
	}
	return totals, rows.Err()
}
