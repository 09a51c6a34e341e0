package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
)

// writeError traduce un error de dominio a status HTTP + dto.ErrorResponse.
// Las validaciones acumuladas (errors.Join) se devuelven todas en dto.ValidationErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok && errors.Is(err, domain.ErrInvalidArgument) {
		msgs := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Errors: msgs,
		})
	}

	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrChecksumMismatch):
		status, code = fiber.StatusBadRequest, "INVALID_CUIT"
	case errors.Is(err, domain.ErrEmptyQuote):
		status, code = fiber.StatusUnprocessableEntity, "EMPTY_QUOTE"
	case errors.Is(err, domain.ErrInvalidArgument):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrImmutableState):
		status, code = fiber.StatusConflict, "IMMUTABLE_STATE"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "VERSION_CONFLICT"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
}

// pageParams lee limit/offset de la query con las reglas de dto.PageRequest.
func pageParams(c *fiber.Ctx) (int, int) {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultPageLimit),
		Offset: c.QueryInt("offset", 0),
	}
	page.Normalize()
	return page.Limit, page.Offset
}
