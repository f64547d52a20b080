package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
)

// InventoryHandler expone las lecturas de stock y del libro de movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.ProjectionUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.ProjectionUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CurrentStock godoc
// @Summary      Stock actual por producto, bodega y ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        location_id   query  string  false  "Ubicación"
// @Param        category      query  string  false  "Categoría"
// @Success      200  {array}   dto.StockRowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CurrentStock(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MovementHistory godoc
// @Summary      Historial de movimientos
// @Description  Más recientes primero. Fechas YYYY-MM-DD inclusivas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        doc_type      query  string  false  "RECEIPT | DELIVERY | TRANSFER | ADJUSTMENT"
// @Param        from          query  string  false  "Desde"
// @Param        to            query  string  false  "Hasta"
// @Param        limit         query  int     false  "Límite"
// @Success      200  {array}   dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) MovementHistory(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.MovementHistory(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Ledger godoc
// @Summary      Kardex de un producto con saldo acumulado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        location_id   query  string  false  "Ubicación"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *InventoryHandler) Ledger(c *fiber.Ctx) error {
	var q dto.LedgerQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Ledger(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos bajo su stock mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {array}   dto.LowStockDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/low [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	var q dto.LowStockQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.LowStock(c.UserContext(), q.WarehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
