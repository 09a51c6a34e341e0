package quoting

import (
	"context"
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

// QuotingTxRunner ejecuta fn dentro de una transacción con el repositorio de presupuestos
// atado a ella. Si fn devuelve error se hace rollback.
type QuotingTxRunner interface {
	RunQuoting(ctx context.Context, fn func(quotes repository.QuoteRepository) error) error
}

// QuoteDocument datos completos para la representación impresa de un presupuesto.
type QuoteDocument struct {
	Quote        entity.QuoteView
	Company      *entity.Company
	Customer     *entity.Customer
	Seller       *entity.Vendor    // nil si no tiene vendedor
	ProductNames map[string]string // productID -> nombre
}

// QuotePDFGenerator genera el PDF de un presupuesto.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, doc QuoteDocument) ([]byte, error)
}

// Clock devuelve la fecha actual; se inyecta para calcular el estado efectivo (Vencido).
type Clock func() time.Time

// Config reglas de negocio configurables.
type Config struct {
	DefaultValidityDays int
	NumberPrefix        string
}
