package quoting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

// ComputeWithholding calcula la percepción de Ingresos Brutos ARBA sobre el subtotal:
// subtotal × alícuota / 100, redondeado a centavos. Es cero si la empresa no es agente de
// percepción o si al cliente no le corresponde (ver Customer.WithholdingApplies).
func ComputeWithholding(subtotal decimal.Decimal, customer *entity.Customer, company *entity.Company) decimal.Decimal {
	if customer == nil || company == nil || !company.ARBAAgent || !customer.WithholdingApplies() {
		return decimal.Zero
	}
	return subtotal.Mul(customer.ARBAAliquot).Div(decimal.NewFromInt(100)).Round(2)
}

// commitTotals recalcula los totales desde las líneas y los graba en el presupuesto.
func commitTotals(q *entity.Quote, customer *entity.Customer, company *entity.Company) error {
	subtotal := q.ComputeSubtotal()
	tax := q.ComputeTax()
	withholding := ComputeWithholding(subtotal, customer, company)
	return q.SetTotals(subtotal, tax, subtotal.Add(tax).Add(withholding), withholding)
}
