package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/memory"
)

var day = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	repos := s.Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "W1", Name: "Principal"}))
	require.NoError(t, repos.Locations.Create(ctx, &entity.Location{ID: "L1", WarehouseID: "W1", Name: "A-01"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "P1", SKU: "SKU-1", Name: "Tornillo", MinStock: decimal.NewFromInt(10)}))
}

func receipt(id string, qty int64) *entity.Document {
	return &entity.Document{
		ID: id, Type: entity.DocTypeReceipt, Status: entity.DocStatusDraft, Date: day, WarehouseID: "W1",
		Lines: []entity.DocumentLine{{ID: id + "-1", DocumentID: id, ProductID: "P1", ToLocationID: "L1", Quantity: decimal.NewFromInt(qty)}},
	}
}

var key = entity.StockKey{ProductID: "P1", WarehouseID: "W1", LocationID: "L1"}

// ─── Transacciones ──────────────────────────────────────────────────────────

func TestRun_ErrorDescartaTodo(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r repository.TxRepos) error {
		require.NoError(t, r.Documents.Create(ctx, receipt("D1", 5)))
		require.NoError(t, r.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(5), day))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := s.Repos().Documents.GetByID(ctx, "D1")
	require.NoError(t, err)
	assert.Nil(t, doc)
	row, err := s.Repos().Stock.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, row.Quantity.IsZero())
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Documents.Create(ctx, receipt("D1", 5)); err != nil {
			return err
		}
		movs := []entity.StockMovement{{ID: "M1", ProductID: "P1", WarehouseID: "W1", LocationID: "L1", DocumentID: "D1", DocumentLineID: "D1-1", MovementDate: day, QtyChange: decimal.NewFromInt(5)}}
		if err := r.Movements.Append(ctx, movs); err != nil {
			return err
		}
		assert.Equal(t, int64(1), movs[0].Seq)
		return r.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(5), day)
	})
	require.NoError(t, err)

	row, err := s.Repos().Stock.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(row.Quantity))

	views, err := s.Repos().Movements.List(ctx, repository.MovementFilter{ProductID: "P1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Tornillo", views[0].ProductName)
	assert.Equal(t, "A-01", views[0].ToLocationName)
	assert.Equal(t, entity.DocTypeReceipt, views[0].DocType)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(repository.TxRepos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMarkConfirmed_ConcurrenteUnSoloGanador(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	require.NoError(t, s.Repos().Documents.Create(ctx, receipt("D1", 5)))

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Run(ctx, func(r repository.TxRepos) error {
				return r.Documents.MarkConfirmed(ctx, "D1", "U1", day)
			})
		}()
	}
	wg.Wait()
	close(results)

	var ok, already int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			already++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, already)
}

// ─── Guardas ────────────────────────────────────────────────────────────────

func TestDocumentRepo_ConfirmadoNoSeEdita(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	repos := s.Repos()
	require.NoError(t, repos.Documents.Create(ctx, receipt("D1", 5)))
	require.NoError(t, repos.Documents.MarkConfirmed(ctx, "D1", "U1", day))

	err := repos.Documents.ReplaceLines(ctx, "D1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	err = repos.Documents.UpdateHeader(ctx, &entity.Document{ID: "D1", WarehouseID: "W1"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDocumentRepo_ReferenciaInexistente(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	doc := receipt("D1", 5)
	doc.Lines[0].ProductID = "P404"
	err := s.Repos().Documents.Create(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeletes_ConReferencias(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	repos := s.Repos()
	require.NoError(t, repos.Documents.Create(ctx, receipt("D1", 5)))

	assert.ErrorIs(t, repos.Products.Delete(ctx, "P1"), domain.ErrConflict)
	assert.ErrorIs(t, repos.Locations.Delete(ctx, "L1"), domain.ErrConflict)
	assert.ErrorIs(t, repos.Warehouses.Delete(ctx, "W1"), domain.ErrConflict)
}

func TestProductRepo_SKUDuplicado(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	err := s.Repos().Products.Create(context.Background(), &entity.Product{ID: "P2", SKU: "SKU-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ─── Proyección ─────────────────────────────────────────────────────────────

func TestStockRepo_LowStockEstrictoMenor(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	repos := s.Repos()

	items, err := repos.Stock.LowStock(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1, "sin stock cuenta como cero")
	assert.True(t, items[0].TotalQty.IsZero())

	require.NoError(t, repos.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(10), day))
	items, err = repos.Stock.LowStock(ctx, "W1")
	require.NoError(t, err)
	assert.Empty(t, items, "total == mínimo no es stock bajo")

	n, err := repos.Stock.CountLowStockProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStockRepo_ApplyDeltaAcumula(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	repos := s.Repos()
	require.NoError(t, repos.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(10), day))
	require.NoError(t, repos.Stock.ApplyDelta(ctx, key, decimal.NewFromInt(-3), day))

	row, err := repos.Stock.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(row.Quantity))

	n, err := repos.Stock.CountNonZero(ctx, repository.StockFilter{WarehouseID: "W1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
