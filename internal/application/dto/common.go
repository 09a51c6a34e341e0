package dto

// Paginación de los listados (productos, clientes, vendedores, presupuestos).
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset leídos de la query.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize completa el límite por defecto, lo recorta a MaxPageLimit y descarta
// offsets negativos.
func (p *PageRequest) Normalize() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse página devuelta; Total sólo cuando el listado lo calcula.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP: Code estable para el cliente, Message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse cuerpo 400 con todas las violaciones de un formulario.
type ValidationErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
