// Package afip contiene catálogos y validaciones de identificadores fiscales
// argentinos (CUIT/CUIL) usados por clientes, vendedores y la configuración de la empresa.
package afip

import "github.com/shopspring/decimal"

// =============================================================================
// Condición frente al IVA (tabla de condiciones AFIP)
// =============================================================================

const (
	IVAResponsableInscripto = 1
	IVAExento               = 4
	IVAConsumidorFinal      = 5
	IVAMonotributo          = 6
	IVANoCategorizado       = 7
	IVAProveedorExterior    = 8
	IVAClienteExterior      = 9
	IVALiberado             = 10
	IVAMonotributoSocial    = 13
	IVANoAlcanzado          = 15
)

// IVAConditionNames descripción de cada condición frente al IVA.
var IVAConditionNames = map[int]string{
	IVAResponsableInscripto: "IVA Responsable Inscripto",
	IVAExento:               "IVA Sujeto Exento",
	IVAConsumidorFinal:      "Consumidor Final",
	IVAMonotributo:          "Responsable Monotributo",
	IVANoCategorizado:       "Sujeto No Categorizado",
	IVAProveedorExterior:    "Proveedor del Exterior",
	IVAClienteExterior:      "Cliente del Exterior",
	IVALiberado:             "IVA Liberado - Ley N° 19.640",
	IVAMonotributoSocial:    "Monotributista Social",
	IVANoAlcanzado:          "IVA No Alcanzado",
}

// IsValidIVACondition indica si el código existe en el catálogo.
func IsValidIVACondition(code int) bool {
	_, ok := IVAConditionNames[code]
	return ok
}

// =============================================================================
// Tipos de documento
// =============================================================================

const (
	DocTypeCUIT = 80
	DocTypeCUIL = 86
	DocTypeDNI  = 96
)

// =============================================================================
// Alícuotas de IVA vigentes (porcentaje)
// =============================================================================

var (
	IVARate0    = decimal.Zero
	IVARate2_5  = decimal.RequireFromString("2.5")
	IVARate5    = decimal.NewFromInt(5)
	IVARate10_5 = decimal.RequireFromString("10.5")
	IVARate21   = decimal.NewFromInt(21)
	IVARate27   = decimal.NewFromInt(27)
)

// IsStandardIVARate indica si rate (en porcentaje) es una alícuota de IVA vigente.
func IsStandardIVARate(rate decimal.Decimal) bool {
	for _, r := range []decimal.Decimal{IVARate0, IVARate2_5, IVARate5, IVARate10_5, IVARate21, IVARate27} {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}
