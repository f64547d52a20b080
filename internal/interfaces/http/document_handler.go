package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktrace-api/internal/application/dto"
	"github.com/jhoicas/stocktrace-api/internal/application/inventory"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
)

// DocumentHandler expone un tipo de documento (recepciones, entregas, traslados o
// ajustes). Se instancia una vez por tipo; las rutas son idénticas entre tipos.
type DocumentHandler struct {
	docType entity.DocType
	uc      *inventory.DocumentUseCase
	pdf     *inventory.PDFUseCase
}

// NewDocumentHandler construye el handler para docType.
func NewDocumentHandler(docType entity.DocType, uc *inventory.DocumentUseCase, pdf *inventory.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{docType: docType, uc: uc, pdf: pdf}
}

// List godoc
// @Summary      Listar documentos
// @Description  Más recientes primero. El tipo lo fija la ruta.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "DRAFT | CONFIRMED"
// @Param        warehouse_id  query  string  false  "Bodega (origen o destino)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receipts [get]
// @Router       /api/deliveries [get]
// @Router       /api/transfers [get]
// @Router       /api/adjustments [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentListQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), h.docType, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener documento con sus líneas
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
// @Router       /api/deliveries/{id} [get]
// @Router       /api/transfers/{id} [get]
// @Router       /api/adjustments/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.uc.Get(c.UserContext(), h.docType, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear documento en borrador
// @Description  No afecta el stock hasta que se confirma.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DocumentRequest  true  "Encabezado y líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
// @Router       /api/deliveries [post]
// @Router       /api/transfers [post]
// @Router       /api/adjustments [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.DocumentRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), h.docType, GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar encabezado y líneas de un borrador
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del documento"
// @Param        body  body  dto.DocumentRequest  true  "Encabezado y líneas"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [put]
// @Router       /api/deliveries/{id} [put]
// @Router       /api/transfers/{id} [put]
// @Router       /api/adjustments/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	var in dto.DocumentRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), h.docType, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar documento
// @Description  Genera los movimientos y actualiza el stock en una sola transacción. Solo ADMIN.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.ConfirmResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/confirm [post]
// @Router       /api/deliveries/{id}/confirm [post]
// @Router       /api/transfers/{id}/confirm [post]
// @Router       /api/adjustments/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	out, err := h.uc.Confirm(c.UserContext(), h.docType, id, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar comprobante en PDF
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id}/pdf [get]
// @Router       /api/deliveries/{id}/pdf [get]
// @Router       /api/transfers/{id}/pdf [get]
// @Router       /api/adjustments/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	data, filename, err := h.pdf.DownloadSlip(c.UserContext(), h.docType, id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
