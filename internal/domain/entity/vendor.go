package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
)

// Vendor es el vendedor asignado a un presupuesto.
type Vendor struct {
	ID                string
	CompanyID         string
	Name              string
	CUIT              string
	CommissionPercent decimal.Decimal
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewVendor crea un vendedor activo.
func NewVendor(companyID, name, cuit string, commission decimal.Decimal) (*Vendor, error) {
	v := &Vendor{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		Name:              name,
		CUIT:              cuit,
		CommissionPercent: commission,
		Active:            true,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	v.CreatedAt, v.UpdatedAt = now, now
	return v, nil
}

func (v *Vendor) Validate() error {
	var err error
	if v.Name, err = guard.Check("name", v.Name, guard.Trim, guard.Required, guard.MaxLen(100)); err != nil {
		return err
	}
	if v.CUIT, err = guard.Check("cuit", v.CUIT, guard.NormalizeCUIT, guard.Required, guard.CUIT); err != nil {
		return err
	}
	v.CommissionPercent, err = guard.Check("commissionPercent", v.CommissionPercent, nil, percentRules()...)
	return err
}
