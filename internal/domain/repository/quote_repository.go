package repository

import (
	"context"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

// QuoteFilter criterios de búsqueda de presupuestos. Los campos vacíos no filtran.
type QuoteFilter struct {
	CompanyID  string
	CustomerID string
	SellerID   string
	State      entity.QuoteState // 0 = todos los estados almacenados
	Limit      int
	Offset     int
}

// QuoteRepository define el puerto de persistencia del agregado Quote (cabecera + líneas).
//
// Update usa el token de versión del agregado: si la fila cambió desde que se leyó,
// devuelve domain.ErrConflict. Create y Update dejan en el agregado la nueva versión.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	Update(ctx context.Context, quote *entity.Quote) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	GetByCompanyAndNumber(ctx context.Context, companyID, number string) (*entity.Quote, error)
	List(ctx context.Context, filter QuoteFilter) ([]*entity.Quote, error)
}
