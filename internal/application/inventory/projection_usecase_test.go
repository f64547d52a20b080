package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	appinventory "github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

func adjustmentReq(date string, n int64) dto.DocumentRequest {
	return dto.DocumentRequest{
		Date: date, WarehouseID: "W1", Reason: "conteo físico",
		Lines: []dto.DocumentLineRequest{{ProductID: "P1", ToLocationID: "L1", Quantity: qty(n)}},
	}
}

// ─── Kardex ──────────────────────────────────────────────────────────────────

func TestLedger_SaldoAcumulado(t *testing.T) {
	f := newFixture(t)
	// se confirman fuera de orden: el kardex ordena por fecha del documento
	f.createAndConfirm(t, entity.DocTypeAdjustment, adjustmentReq("2026-03-03", 5))
	f.createAndConfirm(t, entity.DocTypeReceipt, receiptReq("2026-03-01", 10))
	f.createAndConfirm(t, entity.DocTypeDelivery, deliveryReq("2026-03-02", 3))

	led, err := f.reader.Ledger(context.Background(), dto.LedgerQuery{ProductID: "P1"})
	require.NoError(t, err)
	require.Len(t, led.Entries, 3)

	want := []int64{10, 7, 12}
	for i, e := range led.Entries {
		assert.True(t, qty(want[i]).Equal(e.Balance), "entrada %d: saldo %s", i, e.Balance)
	}
	assert.Equal(t, "RECEIPT", led.Entries[0].DocType)
	assert.Equal(t, "DELIVERY", led.Entries[1].DocType)
	assert.True(t, qty(12).Equal(led.FinalBalance))
	assert.Equal(t, "Tornillo", led.ProductName)
}

func TestLedger_MismaFechaOrdenDeCreacion(t *testing.T) {
	f := newFixture(t)
	f.createAndConfirm(t, entity.DocTypeReceipt, receiptReq("2026-03-01", 10))
	f.createAndConfirm(t, entity.DocTypeDelivery, deliveryReq("2026-03-01", 4))

	led, err := f.reader.Ledger(context.Background(), dto.LedgerQuery{ProductID: "P1", WarehouseID: "W1"})
	require.NoError(t, err)
	require.Len(t, led.Entries, 2)
	assert.True(t, qty(10).Equal(led.Entries[0].Balance))
	assert.True(t, qty(6).Equal(led.Entries[1].Balance))
}

func TestLedger_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reader.Ledger(ctx, dto.LedgerQuery{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.reader.Ledger(ctx, dto.LedgerQuery{ProductID: "P404"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	led, err := f.reader.Ledger(ctx, dto.LedgerQuery{ProductID: "P1"})
	require.NoError(t, err)
	assert.Empty(t, led.Entries)
	assert.True(t, led.FinalBalance.IsZero())
}

// ─── Historial y stock ───────────────────────────────────────────────────────

func TestMovementHistory_MasRecientePrimero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createAndConfirm(t, entity.DocTypeReceipt, receiptReq("2026-03-01", 10))
	f.createAndConfirm(t, entity.DocTypeDelivery, deliveryReq("2026-03-02", 3))

	hist, err := f.reader.MovementHistory(ctx, dto.MovementQuery{})
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2026-03-02", hist[0].Date)
	assert.Equal(t, "A-01", hist[0].FromLocationName)

	hist, err = f.reader.MovementHistory(ctx, dto.MovementQuery{DocType: "RECEIPT"})
	require.NoError(t, err)
	require.Len(t, hist, 1)

	hist, err = f.reader.MovementHistory(ctx, dto.MovementQuery{From: "2026-03-02", To: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "DELIVERY", hist[0].DocType)

	_, err = f.reader.MovementHistory(ctx, dto.MovementQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.reader.MovementHistory(ctx, dto.MovementQuery{From: "2026-03-05", To: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCurrentStock_Filtros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createAndConfirm(t, entity.DocTypeReceipt, receiptReq("2026-03-01", 10))
	f.createAndConfirm(t, entity.DocTypeTransfer, dto.DocumentRequest{
		Date: "2026-03-02", FromWarehouseID: "W1", ToWarehouseID: "W2",
		Lines: []dto.DocumentLineRequest{{ProductID: "P1", FromLocationID: "L1", ToLocationID: "L2", Quantity: qty(4)}},
	})

	rows, err := f.reader.CurrentStock(ctx, dto.StockQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Principal", rows[0].WarehouseName)
	assert.Equal(t, "Sucursal", rows[1].WarehouseName)

	rows, err = f.reader.CurrentStock(ctx, dto.StockQuery{WarehouseID: "W2"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, qty(4).Equal(rows[0].Quantity))
}

// ─── Stock bajo ──────────────────────────────────────────────────────────────

func TestLowStock_EstrictamenteMenor(t *testing.T) {
	f := newFixture(t) // mínimo 8
	ctx := context.Background()
	f.createAndConfirm(t, entity.DocTypeReceipt, receiptReq("2026-03-01", 7))

	items, err := f.reader.LowStock(ctx, "W1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, qty(1).Equal(items[0].Shortfall))

	f.createAndConfirm(t, entity.DocTypeAdjustment, adjustmentReq("2026-03-02", 1))
	items, err = f.reader.LowStock(ctx, "W1")
	require.NoError(t, err)
	assert.Empty(t, items, "igual al mínimo no es bajo")

	items, err = f.reader.LowStock(ctx, "W2")
	require.NoError(t, err)
	require.Len(t, items, 1, "sin filas cuenta como cero")
	assert.True(t, items[0].TotalQty.IsZero())
}

// ─── PDF ─────────────────────────────────────────────────────────────────────

type fakeSlipGenerator struct {
	got appinventory.DocumentSlip
	err error
}

func (g *fakeSlipGenerator) GenerateDocumentSlip(_ context.Context, slip appinventory.DocumentSlip) ([]byte, error) {
	g.got = slip
	return []byte("%PDF"), g.err
}

func TestDownloadSlip_ResuelveNombres(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := f.docs.Create(ctx, entity.DocTypeTransfer, "U1", dto.DocumentRequest{
		Date: "2026-03-02", FromWarehouseID: "W1", ToWarehouseID: "W2",
		Lines: []dto.DocumentLineRequest{{ProductID: "P1", FromLocationID: "L1", ToLocationID: "L2", Quantity: qty(4)}},
	})
	require.NoError(t, err)

	gen := &fakeSlipGenerator{}
	uc := appinventory.NewPDFUseCase(f.store.Repos(), gen)
	data, name, err := uc.DownloadSlip(ctx, entity.DocTypeTransfer, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, "transfer_"+doc.ID[:8]+".pdf", name)
	assert.Equal(t, "Principal", gen.got.FromWarehouseName)
	assert.Equal(t, "Sucursal", gen.got.ToWarehouseName)
	require.Len(t, gen.got.Lines, 1)
	assert.Equal(t, "TOR-001", gen.got.Lines[0].SKU)
	assert.Equal(t, "B-01", gen.got.Lines[0].ToLocationName)

	_, _, err = uc.DownloadSlip(ctx, entity.DocTypeReceipt, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("fuente no disponible")
	_, _, err = uc.DownloadSlip(ctx, entity.DocTypeTransfer, doc.ID)
	assert.Error(t, err)
}
