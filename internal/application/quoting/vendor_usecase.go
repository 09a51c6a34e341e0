package quoting

import (
	"context"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

// VendorUseCase casos de uso para vendedores.
type VendorUseCase struct {
	repo repository.VendorRepository
}

func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo}
}

// Create da de alta un vendedor activo.
func (uc *VendorUseCase) Create(ctx context.Context, companyID string, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	v, err := entity.NewVendor(companyID, in.Name, in.CUIT, in.CommissionPercent)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCompanyAndCUIT(ctx, companyID, v.CUIT)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVendorResponse(v), nil
}

// List lista vendedores de la empresa.
func (uc *VendorUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.VendorResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.Normalize()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VendorResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVendorResponse(v))
	}
	return out, nil
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:                v.ID,
		CompanyID:         v.CompanyID,
		Name:              v.Name,
		CUIT:              afip.FormatCUIT(v.CUIT),
		CommissionPercent: v.CommissionPercent,
		Active:            v.Active,
	}
}
