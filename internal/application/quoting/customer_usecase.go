package quoting

import (
	"context"
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
	"github.com/jhoicas/Presupuestos-api/pkg/arba"
	"github.com/jhoicas/Presupuestos-api/pkg/logger"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	log  *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, log *logger.Logger) *CustomerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CustomerUseCase{repo: repo, log: log.Component("customers")}
}

// Create crea un cliente. El CUIT se valida con el dígito verificador y no puede repetirse en la empresa.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := entity.NewCustomer(companyID, in.BusinessName, in.CUIT, in.IVACondition)
	if err != nil {
		return nil, err
	}
	customer.ARBAAliquot = in.ARBAAliquot
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Address = in.Address
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByCompanyAndCUIT(ctx, companyID, customer.CUIT)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente de la empresa.
func (uc *CustomerUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(c), nil
}

// List lista clientes de la empresa.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.Normalize()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// PadronImport resultado de aplicar un padrón ARBA.
type PadronImport struct {
	Records  int   `json:"records"`  // percepciones vigentes leídas
	Updated  int64 `json:"updated"`  // clientes actualizados
	Rejected int   `json:"rejected"` // líneas inválidas del archivo
}

// ApplyARBAPadron actualiza la alícuota de percepción de los clientes con las filas de
// percepción vigentes en la fecha at.
func (uc *CustomerUseCase) ApplyARBAPadron(ctx context.Context, padron *arba.Result, at time.Time) (*PadronImport, error) {
	records := padron.Perceptions(at)
	res := &PadronImport{Records: len(records), Rejected: len(padron.Errors)}
	for _, r := range records {
		n, err := uc.repo.UpdateARBAAliquot(ctx, r.CUIT, r.Aliquot)
		if err != nil {
			return nil, err
		}
		res.Updated += n
	}
	uc.log.Info().
		Int("records", res.Records).
		Int64("updated", res.Updated).
		Int("rejected", res.Rejected).
		Msg("padrón ARBA aplicado")
	return res, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:               c.ID,
		CompanyID:        c.CompanyID,
		BusinessName:     c.BusinessName,
		CUIT:             c.FormattedCUIT(),
		IVACondition:     c.IVACondition,
		IVAConditionName: afip.IVAConditionNames[c.IVACondition],
		ARBAAliquot:      c.ARBAAliquot,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
	}
}
