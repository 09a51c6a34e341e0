package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

// PriceListRepository define el puerto de lectura de listas de precios.
type PriceListRepository interface {
	// GetActive devuelve la lista vigente de la empresa en la fecha at, con sus ítems;
	// nil, nil si no hay ninguna.
	GetActive(ctx context.Context, companyID string, at time.Time) (*entity.PriceList, error)
}
