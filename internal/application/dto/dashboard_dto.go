package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts     int           `json:"total_products"`
	LowStockProducts  int           `json:"low_stock_products"`
	PendingReceipts   int           `json:"pending_receipts"`
	PendingDeliveries int           `json:"pending_deliveries"`
	PendingTransfers  int           `json:"pending_transfers"`
	RecentMovements   []MovementDTO `json:"recent_movements"`
}

// RiskAlertDTO producto cuyo stock cubre pocos días al ritmo de salida reciente.
type RiskAlertDTO struct {
	ProductID       string          `json:"product_id"`
	SKU             string          `json:"sku"`
	ProductName     string          `json:"product_name"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	AvgDailyOutflow decimal.Decimal `json:"avg_daily_outflow"`
	DaysToZero      decimal.Decimal `json:"days_to_zero"`
}
