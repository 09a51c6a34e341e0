package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
)

func responder(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })
	resp, e := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_Mapeo(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"cuit inválido", &domain.ValidationError{Field: "cuit", Reason: "dígito", Kind: domain.ErrChecksumMismatch}, 400, "INVALID_CUIT"},
		{"validación simple", domain.NewValidationError("quantity", "debe ser mayor a 0"), 400, "VALIDATION"},
		{"sin líneas", domain.ErrEmptyQuote, 422, "EMPTY_QUOTE"},
		{"transición", &domain.TransitionError{From: "RECHAZADO", To: "APROBADO"}, 409, "INVALID_TRANSITION"},
		{"inmutable", fmt.Errorf("agregar línea: %w", domain.ErrImmutableState), 409, "IMMUTABLE_STATE"},
		{"versión", domain.ErrConflict, 409, "VERSION_CONFLICT"},
		{"duplicado", domain.ErrDuplicate, 409, "DUPLICATE"},
		{"email duplicado", domain.ErrEmailAlreadyExists, 409, "DUPLICATE"},
		{"inexistente", domain.ErrNotFound, 404, "NOT_FOUND"},
		{"otra empresa", domain.ErrForbidden, 403, "FORBIDDEN"},
		{"credenciales", domain.ErrUnauthorized, 401, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := responder(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestWriteError_InternoNoExponeDetalle(t *testing.T) {
	status, body := responder(t, errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "error interno", body["message"])
}

func TestWriteError_ValidacionesAcumuladas(t *testing.T) {
	err := errors.Join(
		domain.NewValidationError("customerId", "requerido"),
		domain.NewValidationError("lines[0].quantity", "debe ser mayor a 0"),
	)
	status, body := responder(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Len(t, body["errors"], 2)
}

func TestPageParams(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		l, o := pageParams(c)
		return c.JSON(dto.PageResponse{Limit: l, Offset: o})
	})
	tests := []struct {
		query         string
		limit, offset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=1000", 100, 0},
		{"?limit=-1&offset=-3", 20, 0},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), -1)
		require.NoError(t, err)
		var page dto.PageResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		resp.Body.Close()
		assert.Equal(t, tt.limit, page.Limit, tt.query)
		assert.Equal(t, tt.offset, page.Offset, tt.query)
	}
}

func TestValidateBody_Registro(t *testing.T) {
	in := dto.RegisterRequest{Email: "no-es-email", Password: "corta", CompanyID: "empresa-1", Role: "root"}
	err := validateBody(&in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *domain.ValidationError
		require.ErrorAs(t, e, &ve)
		fields = append(fields, ve.Field)
	}
	assert.Equal(t, []string{"email", "password", "company_id", "role"}, fields)

	ok := dto.RegisterRequest{Email: "ana@ferreteria.com.ar", Password: "12345678", CompanyID: "5b0f4a52-7c1e-4d3b-9f6a-1e2d3c4b5a61"}
	assert.NoError(t, validateBody(&ok))
}
