package entity

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Customer representa un cliente de la empresa.
type Customer struct {
	ID           string
	CompanyID    string
	BusinessName string          // razón social
	CUIT         string          // 11 dígitos sin guiones
	IVACondition int             // ver afip.IVA*
	ARBAAliquot  decimal.Decimal // alícuota de percepción IIBB (porcentaje), según padrón ARBA
	Email        string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCustomer crea un cliente validando razón social, CUIT y condición de IVA.
func NewCustomer(companyID, businessName, cuit string, ivaCondition int) (*Customer, error) {
	c := &Customer{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		BusinessName: businessName,
		CUIT:         cuit,
		IVACondition: ivaCondition,
		ARBAAliquot:  decimal.Zero,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	return c, nil
}

// Validate normaliza y valida los campos del cliente; corta en el primer error.
func (c *Customer) Validate() error {
	var err error
	if c.BusinessName, err = guard.Check("businessName", c.BusinessName, guard.Trim, guard.Required, guard.MaxLen(150)); err != nil {
		return err
	}
	if c.CUIT, err = guard.Check("cuit", c.CUIT, guard.NormalizeCUIT, guard.Required, guard.CUIT); err != nil {
		return err
	}
	if _, err = guard.Check("ivaCondition", c.IVACondition, nil, guard.Satisfies(afip.IsValidIVACondition, "condición de IVA desconocida")); err != nil {
		return err
	}
	if c.ARBAAliquot, err = guard.Check("arbaAliquot", c.ARBAAliquot, nil, percentRules()...); err != nil {
		return err
	}
	if c.Email, err = guard.Check("email", c.Email, guard.TrimLower, guard.MaxLen(150), guard.Matches(emailPattern, "usuario@dominio")); err != nil {
		return err
	}
	if c.Phone, err = guard.Check("phone", c.Phone, guard.Trim, guard.MaxLen(30)); err != nil {
		return err
	}
	c.Address, err = guard.Check("address", c.Address, guard.Trim, guard.MaxLen(200))
	return err
}

// WithholdingApplies indica si al cliente se le percibe Ingresos Brutos: solo Responsables
// Inscriptos y Monotributistas con alícuota de padrón positiva.
func (c *Customer) WithholdingApplies() bool {
	if !c.ARBAAliquot.IsPositive() {
		return false
	}
	return c.IVACondition == afip.IVAResponsableInscripto || c.IVACondition == afip.IVAMonotributo
}

// FormattedCUIT devuelve el CUIT como XX-XXXXXXXX-X.
func (c *Customer) FormattedCUIT() string { return afip.FormatCUIT(c.CUIT) }
