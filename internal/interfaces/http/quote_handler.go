package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

// QuoteHandler maneja el ciclo de vida de presupuestos.
type QuoteHandler struct {
	uc    *quoting.QuoteUseCase
	pdfUC *quoting.PDFUseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quoting.QuoteUseCase, pdfUC *quoting.PDFUseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear presupuesto
// @Description  Crea el presupuesto en estado EMITIDO con sus líneas y graba los totales.
// @Description  Si el usuario es vendedor y no se indica seller_id, se asigna su vendedor.
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuoteRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateQuoteRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if in.SellerID == "" {
		in.SellerID = GetVendorID(c)
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar presupuestos
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  false  "Cliente"
// @Param        seller_id    query  string  false  "Vendedor"
// @Param        state        query  string  false  "EMITIDO, APROBADO, RECHAZADO, FACTURADO, ELIMINADO"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.QuoteListResponse
// @Router       /api/quotes [get]
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	filter := repository.QuoteFilter{
		CustomerID: c.Query("customer_id"),
		SellerID:   c.Query("seller_id"),
	}
	if name := c.Query("state"); name != "" {
		st, ok := entity.ParseQuoteState(name)
		// VENCIDO no se almacena: se deriva de la fecha de vencimiento.
		if !ok || st == entity.QuoteStateExpired {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado de filtro inválido: " + name})
		}
		filter.State = st
	}
	filter.Limit, filter.Offset = pageParams(c)
	out, err := h.uc.List(c.UserContext(), companyID, filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener presupuesto
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del presupuesto"
// @Success      200  {object}  dto.QuoteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id} [get]
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Copy godoc
// @Summary      Copiar presupuesto
// @Description  Nuevo presupuesto EMITIDO con las mismas líneas; parent_quote_id apunta al original.
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "ID del presupuesto"
// @Param        body  body  dto.CopyQuoteRequest   false  "Número opcional"
// @Success      201   {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/copy [post]
func (h *QuoteHandler) Copy(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CopyQuoteRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Copy(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddLine godoc
// @Summary      Agregar línea
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path   string                true   "ID del presupuesto"
// @Param        version  query  int                   false  "Versión leída"
// @Param        body     body   dto.QuoteLineRequest  true   "Línea"
// @Success      200      {object}  dto.QuoteResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/lines [post]
func (h *QuoteHandler) AddLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.QuoteLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLine(c.UserContext(), companyID, c.Params("id"), int64(c.QueryInt("version", 0)), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateLine godoc
// @Summary      Modificar línea
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                      true  "ID del presupuesto"
// @Param        lineId  path  string                      true  "ID de la línea"
// @Param        body    body  dto.UpdateQuoteLineRequest  true  "Nuevos valores"
// @Success      200     {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/lines/{lineId} [put]
func (h *QuoteHandler) UpdateLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateQuoteLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateLine(c.UserContext(), companyID, c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Quitar línea
// @Description  Las líneas restantes se renumeran. No se puede dejar sin líneas un presupuesto emitido.
// @Tags         quotes
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID del presupuesto"
// @Param        lineId   path   string  true   "ID de la línea"
// @Param        version  query  int     false  "Versión leída"
// @Success      200      {object}  dto.QuoteResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/lines/{lineId} [delete]
func (h *QuoteHandler) RemoveLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.RemoveLine(c.UserContext(), companyID, c.Params("id"), c.Params("lineId"), int64(c.QueryInt("version", 0)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

type quoteAction func(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error)

// action adapta una transición del caso de uso a handler. El body es opcional.
func (h *QuoteHandler) action(run quoteAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return unauthorized(c)
		}
		var in dto.QuoteActionRequest
		if len(c.Body()) > 0 {
			if ok, err := parseBody(c, &in); !ok {
				return err
			}
		}
		out, err := run(c.UserContext(), companyID, c.Params("id"), in.Version)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// Emit godoc
// @Summary      Emitir presupuesto
// @Tags         quotes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true   "ID del presupuesto"
// @Param        body  body  dto.QuoteActionRequest  false  "Versión leída"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/emit [post]
func (h *QuoteHandler) Emit(c *fiber.Ctx) error { return h.action(h.uc.Emit)(c) }

// Approve godoc
// @Summary      Aprobar presupuesto
// @Tags         quotes
// @Security     Bearer
// @Param        id    path  string                  true   "ID del presupuesto"
// @Param        body  body  dto.QuoteActionRequest  false  "Versión leída"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/approve [post]
func (h *QuoteHandler) Approve(c *fiber.Ctx) error { return h.action(h.uc.Approve)(c) }

// Reject godoc
// @Summary      Rechazar presupuesto
// @Tags         quotes
// @Security     Bearer
// @Param        id    path  string                  true   "ID del presupuesto"
// @Param        body  body  dto.QuoteActionRequest  false  "Versión leída"
// @Success      200   {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(c *fiber.Ctx) error { return h.action(h.uc.Reject)(c) }

// Invoice godoc
// @Summary      Facturar presupuesto aprobado
// @Description  Recalcula y graba los totales (incluida la percepción ARBA) y pasa a FACTURADO.
// @Tags         quotes
// @Security     Bearer
// @Param        id    path  string                  true   "ID del presupuesto"
// @Param        body  body  dto.QuoteActionRequest  false  "Versión leída"
// @Success      200   {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/invoice [post]
func (h *QuoteHandler) Invoice(c *fiber.Ctx) error { return h.action(h.uc.Invoice)(c) }

// Delete godoc
// @Summary      Eliminar presupuesto (baja lógica)
// @Tags         quotes
// @Security     Bearer
// @Param        id    path  string                  true   "ID del presupuesto"
// @Param        body  body  dto.QuoteActionRequest  false  "Versión leída"
// @Success      200   {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/delete [post]
func (h *QuoteHandler) Delete(c *fiber.Ctx) error { return h.action(h.uc.Delete)(c) }

// Recalculate godoc
// @Summary      Recalcular y grabar totales
// @Tags         quotes
// @Security     Bearer
// @Param        id    path  string                  true   "ID del presupuesto"
// @Param        body  body  dto.QuoteActionRequest  false  "Versión leída"
// @Success      200   {object}  dto.QuoteResponse
// @Router       /api/quotes/{id}/recalculate [post]
func (h *QuoteHandler) Recalculate(c *fiber.Ctx) error { return h.action(h.uc.RecalculateTotals)(c) }

// PDF godoc
// @Summary      Descargar PDF del presupuesto
// @Tags         quotes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del presupuesto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/quotes/{id}/pdf [get]
func (h *QuoteHandler) PDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdfBytes, filename, err := h.pdfUC.DownloadQuotePDF(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}
