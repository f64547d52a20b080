// Package analytics contiene los casos de uso del dashboard: resumen operativo y
// alertas de quiebre de stock.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	appinventory "github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/domain/repository"
)

const (
	recentMovements = 10 // movimientos en el widget del dashboard
	outflowWindow   = 30 // días de historia para el promedio de salidas
	riskHorizonDays = 7  // se alerta si el stock cubre este número de días o menos
)

// DashboardUseCase genera el resumen del dashboard. Solo lecturas.
type DashboardUseCase struct {
	products  repository.ProductRepository
	documents repository.DocumentRepository
	movements repository.StockMovementRepository
	stock     repository.StockRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	documents repository.DocumentRepository,
	movements repository.StockMovementRepository,
	stock repository.StockRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		products:  products,
		documents: documents,
		movements: movements,
		stock:     stock,
		now:       time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Las consultas corren en paralelo:
//  1. Count de productos
//  2. CountLowStockProducts
//  3. Borradores pendientes por tipo (RECEIPT, DELIVERY, TRANSFER)
//  4. Últimos movimientos
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type movementsResult struct {
		views []repository.MovementView
		err   error
	}

	count := func(fn func() (int, error)) <-chan countResult {
		ch := make(chan countResult, 1)
		go func() {
			n, err := fn()
			ch <- countResult{n, err}
		}()
		return ch
	}
	pending := func(t entity.DocType) <-chan countResult {
		return count(func() (int, error) { return uc.documents.CountByStatus(ctx, t, entity.DocStatusDraft) })
	}

	productsCh := count(func() (int, error) { return uc.products.Count(ctx) })
	lowCh := count(func() (int, error) { return uc.stock.CountLowStockProducts(ctx) })
	receiptsCh := pending(entity.DocTypeReceipt)
	deliveriesCh := pending(entity.DocTypeDelivery)
	transfersCh := pending(entity.DocTypeTransfer)
	movsCh := make(chan movementsResult, 1)
	go func() {
		views, err := uc.movements.ListRecent(ctx, recentMovements)
		movsCh <- movementsResult{views, err}
	}()

	products := <-productsCh
	low := <-lowCh
	receipts := <-receiptsCh
	deliveries := <-deliveriesCh
	transfers := <-transfersCh
	movs := <-movsCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: total de productos: %w", products.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	for _, r := range []countResult{receipts, deliveries, transfers} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: documentos pendientes: %w", r.err)
		}
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos recientes: %w", movs.err)
	}

	recent := make([]dto.MovementDTO, 0, len(movs.views))
	for _, v := range movs.views {
		recent = append(recent, appinventory.ToMovementDTO(v))
	}
	return &dto.DashboardSummaryDTO{
		TotalProducts:     products.n,
		LowStockProducts:  low.n,
		PendingReceipts:   receipts.n,
		PendingDeliveries: deliveries.n,
		PendingTransfers:  transfers.n,
		RecentMovements:   recent,
	}, nil
}

// RiskAlerts productos cuyo stock total cubre riskHorizonDays días o menos al ritmo
// promedio de entregas de los últimos outflowWindow días. Ordenados por días restantes.
// Productos sin salidas en la ventana no generan alerta.
func (uc *DashboardUseCase) RiskAlerts(ctx context.Context) ([]dto.RiskAlertDTO, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -outflowWindow)

	outflows, err := uc.movements.OutflowSince(ctx, since, entity.DocTypeDelivery)
	if err != nil {
		return nil, fmt.Errorf("alertas: salidas: %w", err)
	}
	totals, err := uc.stock.TotalsByProduct(ctx)
	if err != nil {
		return nil, fmt.Errorf("alertas: stock: %w", err)
	}

	window := decimal.NewFromInt(outflowWindow)
	horizon := decimal.NewFromInt(riskHorizonDays)
	alerts := make([]dto.RiskAlertDTO, 0)
	for _, o := range outflows {
		if !o.Outflow.IsPositive() {
			continue
		}
		avg := o.Outflow.Div(window)
		stock := totals[o.ProductID]
		days := decimal.Zero
		if stock.IsPositive() {
			days = stock.Div(avg)
		}
		if days.GreaterThan(horizon) {
			continue
		}
		alerts = append(alerts, dto.RiskAlertDTO{
			ProductID:       o.ProductID,
			SKU:             o.SKU,
			ProductName:     o.ProductName,
			CurrentStock:    stock,
			AvgDailyOutflow: avg.Round(2),
			DaysToZero:      days.Round(1),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if !alerts[i].DaysToZero.Equal(alerts[j].DaysToZero) {
			return alerts[i].DaysToZero.LessThan(alerts[j].DaysToZero)
		}
		return alerts[i].SKU < alerts[j].SKU
	})
	return alerts, nil
}
