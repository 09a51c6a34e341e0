package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	apphttp "github.com/jhoicas/Presupuestos-api/internal/interfaces/http"
)

// Estas rutas responden antes de llegar al caso de uso, por eso el handler se arma sin dependencias.
func appPresupuestos() *fiber.App {
	h := apphttp.NewQuoteHandler(nil, nil)
	app := fiber.New()
	app.Use(apphttp.AuthMiddleware(testJWTSecret))
	app.Get("/quotes", h.List)
	app.Post("/quotes", h.Create)
	app.Post("/quotes/:id/approve", apphttp.RequireRole("admin", "aprobador"), h.Approve)
	return app
}

func TestQuoteHandler_RechazosPrevios(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		role   string
		status int
		code   string
	}{
		{"estado de filtro desconocido", http.MethodGet, "/quotes?state=PENDIENTE", "", "vendedor", 400, "VALIDATION"},
		{"VENCIDO no es filtrable", http.MethodGet, "/quotes?state=VENCIDO", "", "vendedor", 400, "VALIDATION"},
		{"cuerpo no JSON", http.MethodPost, "/quotes", "{", "vendedor", 400, "INVALID_BODY"},
		{"vendedor no aprueba", http.MethodPost, "/quotes/q1/approve", "", "vendedor", 403, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Authorization", bearer(t, tt.role))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := appPresupuestos().Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.code)
		})
	}
}

// ── Validación del cuerpo ────────────────────────────────────────────────────

func TestQuoteHandler_CuerpoInvalido(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{
			"identificadores mal formados",
			`{"customer_id":"cli-1","lines":[{"product_id":"prod-1","quantity":"1"}]}`,
			[]string{"customer_id", "lines[0].product_id"},
		},
		{
			"cliente faltante y vendedor mal formado",
			`{"seller_id":"vendedor","lines":[]}`,
			[]string{"customer_id", "seller_id"},
		},
		{
			"producto faltante en la segunda línea",
			`{"customer_id":"0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c63","lines":[{"product_id":"9d8c7b6a-5f4e-4d3c-a2b1-0f9e8d7c6b01"},{"quantity":"2"}]}`,
			[]string{"lines[1].product_id"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(tt.body))
			req.Header.Set("Authorization", bearer(t, "vendedor"))
			req.Header.Set("Content-Type", "application/json")
			resp, err := appPresupuestos().Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body dto.ValidationErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "VALIDATION", body.Code)
			require.Len(t, body.Errors, len(tt.fields))
			for i, field := range tt.fields {
				assert.Contains(t, body.Errors[i], field+":")
			}
		})
	}
}
