package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByCompanyAndCUIT(ctx context.Context, companyID, cuit string) (*entity.Customer, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// UpdateARBAAliquot aplica la alícuota del padrón a todos los clientes con ese CUIT.
	// Devuelve la cantidad de clientes actualizados.
	UpdateARBAAliquot(ctx context.Context, cuit string, aliquot decimal.Decimal) (int64, error)
}
