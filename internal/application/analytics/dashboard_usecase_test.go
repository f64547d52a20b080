package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	appinventory "github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

type env struct {
	dash *DashboardUseCase
	docs *appinventory.DocumentUseCase
}

func newEnv(t *testing.T) env {
	t.Helper()
	s := memory.NewStore()
	ctx := context.Background()
	r := s.Repos()
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "W1", Name: "Principal"}))
	require.NoError(t, r.Locations.Create(ctx, &entity.Location{ID: "L1", WarehouseID: "W1", Name: "A-01"}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "P1", SKU: "TOR-001", Name: "Tornillo", MinStock: decimal.NewFromInt(50)}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "P2", SKU: "TUE-001", Name: "Tuerca"}))

	dash := NewDashboardUseCase(r.Products, r.Documents, r.Movements, r.Stock)
	dash.now = func() time.Time { return time.Date(2026, 3, 31, 15, 0, 0, 0, time.UTC) }
	return env{dash: dash, docs: appinventory.NewDocumentUseCase(s, r, logger.Nop())}
}

func (e env) confirm(t *testing.T, docType entity.DocType, in dto.DocumentRequest) {
	t.Helper()
	ctx := context.Background()
	doc, err := e.docs.Create(ctx, docType, "U1", in)
	require.NoError(t, err)
	_, err = e.docs.Confirm(ctx, docType, doc.ID, "U1")
	require.NoError(t, err)
}

func line(product string, n int64, from, to string) dto.DocumentLineRequest {
	return dto.DocumentLineRequest{ProductID: product, FromLocationID: from, ToLocationID: to, Quantity: decimal.NewFromInt(n)}
}

// ─── Resumen ─────────────────────────────────────────────────────────────────

func TestGetSummary(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.confirm(t, entity.DocTypeReceipt, dto.DocumentRequest{Date: "2026-03-01", WarehouseID: "W1", Lines: []dto.DocumentLineRequest{line("P1", 20, "", "L1")}})
	_, err := e.docs.Create(ctx, entity.DocTypeDelivery, "U1", dto.DocumentRequest{Date: "2026-03-02", WarehouseID: "W1", Lines: []dto.DocumentLineRequest{line("P1", 1, "L1", "")}})
	require.NoError(t, err)

	sum, err := e.dash.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, 1, sum.LowStockProducts, "P1 tiene 20 < 50; P2 con mínimo 0 no cuenta")
	assert.Equal(t, 0, sum.PendingReceipts)
	assert.Equal(t, 1, sum.PendingDeliveries)
	assert.Equal(t, 0, sum.PendingTransfers)
	require.Len(t, sum.RecentMovements, 1)
	assert.Equal(t, "TOR-001", sum.RecentMovements[0].SKU)
}

// ─── Alertas ─────────────────────────────────────────────────────────────────

func TestRiskAlerts(t *testing.T) {
	e := newEnv(t)
	e.confirm(t, entity.DocTypeReceipt, dto.DocumentRequest{Date: "2026-02-01", WarehouseID: "W1", Lines: []dto.DocumentLineRequest{
		line("P1", 100, "", "L1"), line("P2", 100, "", "L1"),
	}})
	// fuera de la ventana de 30 días: no cuenta
	e.confirm(t, entity.DocTypeDelivery, dto.DocumentRequest{Date: "2026-02-15", WarehouseID: "W1", Lines: []dto.DocumentLineRequest{line("P2", 60, "L1", "")}})
	// 90 unidades en la ventana: 3/día, quedan 10 => 3.3 días
	e.confirm(t, entity.DocTypeDelivery, dto.DocumentRequest{Date: "2026-03-20", WarehouseID: "W1", Lines: []dto.DocumentLineRequest{line("P1", 90, "L1", "")}})

	alerts, err := e.dash.RiskAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "P1", a.ProductID)
	assert.True(t, decimal.NewFromInt(10).Equal(a.CurrentStock))
	assert.True(t, decimal.NewFromInt(3).Equal(a.AvgDailyOutflow))
	assert.Equal(t, "3.3", a.DaysToZero.String())
}

func TestRiskAlerts_SinSalidasListaVacia(t *testing.T) {
	e := newEnv(t)
	alerts, err := e.dash.RiskAlerts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}
