package entity

import (
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

// Company es la configuración fiscal de la empresa que emite los presupuestos.
type Company struct {
	ID                string
	Name              string // razón social
	CUIT              string
	IIBBNumber        string // número de inscripción en Ingresos Brutos
	IVACondition      int
	PointOfSale       int // punto de venta AFIP
	ActivityStartDate *time.Time
	ARBAAgent         bool // agente de percepción de IIBB en Provincia de Buenos Aires
	Address           string
	Phone             string
	Email             string
	Status            string // active, suspended, inactive
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate normaliza y valida la configuración.
func (c *Company) Validate() error {
	var err error
	if c.Name, err = guard.Check("name", c.Name, guard.Trim, guard.Required, guard.MaxLen(150)); err != nil {
		return err
	}
	if c.CUIT, err = guard.Check("cuit", c.CUIT, guard.NormalizeCUIT, guard.Required, guard.CUIT); err != nil {
		return err
	}
	if c.IIBBNumber, err = guard.Check("iibbNumber", c.IIBBNumber, guard.Trim, guard.MaxLen(20)); err != nil {
		return err
	}
	if _, err = guard.Check("ivaCondition", c.IVACondition, nil, guard.Satisfies(afip.IsValidIVACondition, "condición de IVA desconocida")); err != nil {
		return err
	}
	_, err = guard.Check("pointOfSale", c.PointOfSale, nil, guard.IntBetween(1, 99999))
	return err
}
