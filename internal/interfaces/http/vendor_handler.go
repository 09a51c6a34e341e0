package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
)

// VendorHandler vendedores de la empresa.
type VendorHandler struct {
	uc *quoting.VendorUseCase
}

func NewVendorHandler(uc *quoting.VendorUseCase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear vendedor
// @Tags         vendors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVendorRequest  true  "Datos del vendedor"
// @Success      201   {object}  dto.VendorResponse
// @Router       /api/vendors [post]
func (h *VendorHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateVendorRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar vendedores
// @Tags         vendors
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VendorResponse
// @Router       /api/vendors [get]
func (h *VendorHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), companyID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
