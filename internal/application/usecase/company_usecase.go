package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

// CompanyUseCase alta y configuración fiscal de la empresa.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create da de alta una empresa. Devuelve domain.ErrDuplicate si el CUIT ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	now := time.Now()
	company := &entity.Company{
		ID:           uuid.New().String(),
		Name:         in.Name,
		CUIT:         in.CUIT,
		IIBBNumber:   in.IIBBNumber,
		IVACondition: in.IVACondition,
		PointOfSale:  in.PointOfSale,
		ARBAAgent:    in.ARBAAgent,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if company.IVACondition == 0 {
		company.IVACondition = afip.IVAResponsableInscripto
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCUIT(ctx, company.CUIT)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene la empresa.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// Update cambia la configuración fiscal. El CUIT no se modifica.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		company.Name = *in.Name
	}
	if in.IIBBNumber != nil {
		company.IIBBNumber = *in.IIBBNumber
	}
	if in.IVACondition != nil {
		company.IVACondition = *in.IVACondition
	}
	if in.PointOfSale != nil {
		company.PointOfSale = *in.PointOfSale
	}
	if in.ARBAAgent != nil {
		company.ARBAAgent = *in.ARBAAgent
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = *in.Email
	}
	if err := company.Validate(); err != nil {
		return nil, err
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		CUIT:         afip.FormatCUIT(c.CUIT),
		IIBBNumber:   c.IIBBNumber,
		IVACondition: c.IVACondition,
		PointOfSale:  c.PointOfSale,
		ARBAAgent:    c.ARBAAgent,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
