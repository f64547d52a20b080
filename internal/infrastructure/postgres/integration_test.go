//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stocktrace-api/pkg/config"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica migraciones y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stocktrace_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(pool, zerolog.Nop()))
	return pool
}

type fixture struct {
	warehouse, location, product string
}

func seedCatalog(t *testing.T, repos repository.TxRepos) fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	f := fixture{warehouse: uuid.NewString(), location: uuid.NewString(), product: uuid.NewString()}
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: f.warehouse, Name: "Principal", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: f.location, WarehouseID: f.warehouse, Name: "A-01", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: f.product, SKU: "SKU-" + f.product[:8], Name: "Tornillo",
		MinStock: decimal.NewFromInt(5), OpeningStockQty: decimal.Zero, CreatedAt: now, UpdatedAt: now}))
	return f
}

func newReceipt(f fixture, qty int64) *entity.Document {
	now := time.Now().UTC()
	id := uuid.NewString()
	return &entity.Document{
		ID: id, Type: entity.DocTypeReceipt, Status: entity.DocStatusDraft,
		Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), WarehouseID: f.warehouse,
		CreatedAt: now, UpdatedAt: now,
		Lines: []entity.DocumentLine{{ID: uuid.NewString(), DocumentID: id, ProductID: f.product, ToLocationID: f.location,
			Quantity: decimal.NewFromInt(qty), CreatedAt: now}},
	}
}

func TestIntegration_LedgerPostgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repos := postgres.Repos(pool)
	runner := postgres.NewTxRunner(pool)
	f := seedCatalog(t, repos)
	key := entity.StockKey{ProductID: f.product, WarehouseID: f.warehouse, LocationID: f.location}

	t.Run("commit de documento, movimiento y proyección", func(t *testing.T) {
		doc := newReceipt(f, 10)
		err := runner.Run(ctx, func(r repository.TxRepos) error {
			if err := r.Documents.Create(ctx, doc); err != nil {
				return err
			}
			movs := []entity.StockMovement{{ID: uuid.NewString(), ProductID: f.product, WarehouseID: f.warehouse,
				LocationID: f.location, DocumentID: doc.ID, DocumentLineID: doc.Lines[0].ID, MovementDate: doc.Date,
				QtyChange: decimal.NewFromInt(10), CreatedAt: time.Now().UTC()}}
			if err := r.Movements.Append(ctx, movs); err != nil {
				return err
			}
			if movs[0].Seq == 0 {
				return errors.New("seq no asignado")
			}
			if err := r.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(10), time.Now().UTC()); err != nil {
				return err
			}
			return r.Documents.MarkConfirmed(ctx, doc.ID, "", time.Now().UTC())
		})
		require.NoError(t, err)

		row, err := repos.Stock.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(row.Quantity))

		err = repos.Documents.MarkConfirmed(ctx, doc.ID, "", time.Now().UTC())
		assert.ErrorIs(t, err, domain.ErrAlreadyConfirmed)
		err = repos.Documents.UpdateHeader(ctx, doc)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("rollback no deja rastro", func(t *testing.T) {
		doc := newReceipt(f, 3)
		boom := errors.New("boom")
		err := runner.Run(ctx, func(r repository.TxRepos) error {
			require.NoError(t, r.Documents.Create(ctx, doc))
			require.NoError(t, r.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(3), time.Now().UTC()))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repos.Documents.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
		row, err := repos.Stock.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(row.Quantity))
	})

	t.Run("movimientos son append-only", func(t *testing.T) {
		_, err := pool.Exec(ctx, `UPDATE stock_movements SET qty_change = 1`)
		assert.Error(t, err)
		_, err = pool.Exec(ctx, `DELETE FROM stock_movements`)
		assert.Error(t, err)
	})

	t.Run("ApplyDelta concurrente no pierde actualizaciones", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = runner.Run(ctx, func(r repository.TxRepos) error {
					return r.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(1), time.Now().UTC())
				})
			}()
		}
		wg.Wait()
		row, err := repos.Stock.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30).Equal(row.Quantity))
	})

	t.Run("vistas y reportes", func(t *testing.T) {
		views, err := repos.Movements.ListChronological(ctx, repository.MovementFilter{ProductID: f.product})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "A-01", views[0].LocationName)
		assert.Equal(t, entity.DocTypeReceipt, views[0].DocType)

		low, err := repos.Stock.LowStock(ctx, f.warehouse)
		require.NoError(t, err)
		assert.Empty(t, low)

		list, err := repos.Stock.List(ctx, repository.StockFilter{WarehouseID: f.warehouse})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Tornillo", list[0].ProductName)
	})

	t.Run("borrado con referencias", func(t *testing.T) {
		assert.ErrorIs(t, repos.Products.Delete(ctx, f.product), domain.ErrConflict)
		assert.ErrorIs(t, repos.Warehouses.Delete(ctx, f.warehouse), domain.ErrConflict)
		assert.ErrorIs(t, repos.Locations.Delete(ctx, f.location), domain.ErrConflict)
	})

	t.Run("sku duplicado", func(t *testing.T) {
		p, err := repos.Products.GetByID(ctx, f.product)
		require.NoError(t, err)
		dup := *p
		dup.ID = uuid.NewString()
		assert.ErrorIs(t, repos.Products.Create(ctx, &dup), domain.ErrDuplicate)
	})
}
