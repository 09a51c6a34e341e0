package entity

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._-]*$`)

// Product producto del catálogo que se cotiza en los presupuestos.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de lista sin IVA
	TaxRate     decimal.Decimal // alícuota de IVA en porcentaje (21, 10.5, ...)
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate normaliza los campos y devuelve todas las violaciones juntas (errors.Join),
// para que el formulario de productos pueda mostrarlas a la vez.
func (p *Product) Validate() error {
	var c guard.Collector
	p.SKU = guard.Collect(&c, "sku", p.SKU, guard.TrimUpper, guard.Required, guard.MaxLen(50), guard.Matches(skuPattern, "letras, dígitos, '.', '_' o '-'"))
	p.Name = guard.Collect(&c, "name", p.Name, guard.Trim, guard.Required, guard.MaxLen(150))
	p.Description = guard.Collect(&c, "description", p.Description, guard.Trim, guard.MaxLen(500))
	guard.Collect(&c, "price", p.Price, nil, guard.DecimalBetween(decimal.Zero, MaxLineUnitPrice), guard.DecimalMaxScale(2))
	guard.Collect(&c, "taxRate", p.TaxRate, nil, guard.Satisfies(afip.IsStandardIVARate, "no es una alícuota de IVA vigente"))
	return c.Err()
}
