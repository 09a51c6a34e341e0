package repository

import (
	"context"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para Vendor.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	GetByCompanyAndCUIT(ctx context.Context, companyID, cuit string) (*entity.Vendor, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vendor, error)
}
