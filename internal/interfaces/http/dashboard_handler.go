package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stocktrace-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve conteos de productos, stock bajo, borradores pendientes por
// tipo y los últimos movimientos.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetRiskAlerts productos que se quedan sin stock en 7 días o menos al ritmo de
// entregas de los últimos 30 días.
// GET /api/dashboard/risk-alerts
func (h *DashboardHandler) GetRiskAlerts(c *fiber.Ctx) error {
	alerts, err := h.uc.RiskAlerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(alerts)
}
