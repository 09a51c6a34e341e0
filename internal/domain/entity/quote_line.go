package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
)

// Límites de los importes de una línea.
var (
	MaxLineQuantity  = decimal.NewFromInt(999_999)
	MaxLineUnitPrice = decimal.NewFromInt(999_999_999)
	maxPercent       = decimal.NewFromInt(100)
)

// Decimales admitidos, iguales a la escala de las columnas de quote_lines.
const (
	QuantityScale = 4
	PriceScale    = 4
	PercentScale  = 2
)

func quantityRules() []guard.Rule[decimal.Decimal] {
	return []guard.Rule[decimal.Decimal]{guard.DecimalPositiveUpTo(MaxLineQuantity), guard.DecimalMaxScale(QuantityScale)}
}

func unitPriceRules() []guard.Rule[decimal.Decimal] {
	return []guard.Rule[decimal.Decimal]{guard.DecimalBetween(decimal.Zero, MaxLineUnitPrice), guard.DecimalMaxScale(PriceScale)}
}

func percentRules() []guard.Rule[decimal.Decimal] {
	return []guard.Rule[decimal.Decimal]{guard.DecimalBetween(decimal.Zero, maxPercent), guard.DecimalMaxScale(PercentScale)}
}

// PriceSource provee el precio sugerido de un producto (lista de precios).
// Solo se consulta en SeedUnitPrice, nunca de forma automática.
type PriceSource interface {
	PriceFor(productID string) (decimal.Decimal, bool)
}

// QuoteLine es una línea de producto dentro de un presupuesto. Pertenece a un único
// Quote: el número de línea y el presupuesto padre solo los asigna el agregado.
//
// PersistedTotal es el neto grabado la última vez que se llamó a RecalculateTotal;
// los setters no lo recalculan para que los totales históricos no cambien solos.
type QuoteLine struct {
	id              string
	quoteID         string
	productID       string
	quantity        decimal.Decimal
	unitPrice       decimal.Decimal
	discountPercent decimal.Decimal
	taxPercent      decimal.Decimal
	lineNumber      int
	persistedTotal  decimal.Decimal
}

// NewQuoteLine crea una línea suelta (sin presupuesto) con su total ya calculado.
func NewQuoteLine(productID string, quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) (*QuoteLine, error) {
	pid, err := checkProductID(productID)
	if err != nil {
		return nil, err
	}
	figures, err := checkFigures(quantity, unitPrice, discountPercent, taxPercent)
	if err != nil {
		return nil, err
	}
	l := &QuoteLine{id: uuid.New().String(), productID: pid}
	l.applyFigures(figures)
	l.RecalculateTotal()
	return l, nil
}

// NewSeededQuoteLine crea una línea tomando el precio unitario de la lista de precios.
// Si el producto no figura en la lista el precio queda en cero.
func NewSeededQuoteLine(productID string, quantity, discountPercent, taxPercent decimal.Decimal, prices PriceSource) (*QuoteLine, error) {
	l, err := NewQuoteLine(productID, quantity, decimal.Zero, discountPercent, taxPercent)
	if err != nil {
		return nil, err
	}
	if _, err := l.SeedUnitPrice(prices); err != nil {
		return nil, err
	}
	l.RecalculateTotal()
	return l, nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (l *QuoteLine) ID() string                       { return l.id }
func (l *QuoteLine) QuoteID() string                  { return l.quoteID }
func (l *QuoteLine) ProductID() string                { return l.productID }
func (l *QuoteLine) Quantity() decimal.Decimal        { return l.quantity }
func (l *QuoteLine) UnitPrice() decimal.Decimal       { return l.unitPrice }
func (l *QuoteLine) DiscountPercent() decimal.Decimal { return l.discountPercent }
func (l *QuoteLine) TaxPercent() decimal.Decimal      { return l.taxPercent }
func (l *QuoteLine) LineNumber() int                  { return l.lineNumber }
func (l *QuoteLine) PersistedTotal() decimal.Decimal  { return l.persistedTotal }

// ── Cálculo en cascada ───────────────────────────────────────────────────────
// Todo en aritmética decimal exacta; los porcentajes se dividen por 100 con Shift(-2).

// GrossAmount = cantidad × precio unitario.
func (l *QuoteLine) GrossAmount() decimal.Decimal {
	return l.quantity.Mul(l.unitPrice)
}

// DiscountAmount = bruto × descuento/100.
func (l *QuoteLine) DiscountAmount() decimal.Decimal {
	return l.GrossAmount().Mul(l.discountPercent.Shift(-2))
}

// NetAmount = bruto − descuento.
func (l *QuoteLine) NetAmount() decimal.Decimal {
	return l.GrossAmount().Sub(l.DiscountAmount())
}

// TaxAmount = neto × IVA/100.
func (l *QuoteLine) TaxAmount() decimal.Decimal {
	return l.NetAmount().Mul(l.taxPercent.Shift(-2))
}

// NetWithTax = neto + IVA.
func (l *QuoteLine) NetWithTax() decimal.Decimal {
	return l.NetAmount().Add(l.TaxAmount())
}

// ComputeTotal devuelve el neto redondeado a centavos, el valor que grabaría RecalculateTotal.
func (l *QuoteLine) ComputeTotal() decimal.Decimal {
	return l.NetAmount().Round(2)
}

// RecalculateTotal graba ComputeTotal en PersistedTotal.
func (l *QuoteLine) RecalculateTotal() {
	l.persistedTotal = l.ComputeTotal()
}

// ── Modificación ─────────────────────────────────────────────────────────────

// SetQuantity valida y cambia la cantidad. No recalcula el total persistido.
func (l *QuoteLine) SetQuantity(q decimal.Decimal) error {
	v, err := guard.Check("quantity", q, nil, quantityRules()...)
	if err != nil {
		return err
	}
	l.quantity = v
	return nil
}

// SetUnitPrice valida y cambia el precio unitario. No recalcula el total persistido.
func (l *QuoteLine) SetUnitPrice(p decimal.Decimal) error {
	v, err := guard.Check("unitPrice", p, nil, unitPriceRules()...)
	if err != nil {
		return err
	}
	l.unitPrice = v
	return nil
}

// SetDiscountPercent valida y cambia el descuento. No recalcula el total persistido.
func (l *QuoteLine) SetDiscountPercent(d decimal.Decimal) error {
	v, err := guard.Check("discountPercent", d, nil, percentRules()...)
	if err != nil {
		return err
	}
	l.discountPercent = v
	return nil
}

// SetTaxPercent valida y cambia la alícuota de IVA. No recalcula el total persistido.
func (l *QuoteLine) SetTaxPercent(t decimal.Decimal) error {
	v, err := guard.Check("taxPercent", t, nil, percentRules()...)
	if err != nil {
		return err
	}
	l.taxPercent = v
	return nil
}

// UpdateFigures valida los cuatro valores antes de tocar ninguno; si todos son válidos
// los aplica y recalcula el total persistido.
func (l *QuoteLine) UpdateFigures(quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) error {
	figures, err := checkFigures(quantity, unitPrice, discountPercent, taxPercent)
	if err != nil {
		return err
	}
	l.applyFigures(figures)
	l.RecalculateTotal()
	return nil
}

// SeedUnitPrice toma el precio del producto desde prices. Devuelve false si la lista
// no tiene precio para el producto (el precio actual no cambia). No recalcula.
func (l *QuoteLine) SeedUnitPrice(prices PriceSource) (bool, error) {
	if prices == nil {
		return false, nil
	}
	price, ok := prices.PriceFor(l.productID)
	if !ok {
		return false, nil
	}
	if err := l.SetUnitPrice(price); err != nil {
		return false, err
	}
	return true, nil
}

// CheckLineFigures valida una línea completa acumulando todas las violaciones,
// para formularios que muestran todos los errores juntos.
func CheckLineFigures(productID string, quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) []error {
	var c guard.Collector
	guard.Collect(&c, "productId", productID, guard.Trim, guard.Required)
	guard.Collect(&c, "quantity", quantity, nil, quantityRules()...)
	guard.Collect(&c, "unitPrice", unitPrice, nil, unitPriceRules()...)
	guard.Collect(&c, "discountPercent", discountPercent, nil, percentRules()...)
	guard.Collect(&c, "taxPercent", taxPercent, nil, percentRules()...)
	return c.Violations()
}

// ── Acceso reservado al agregado ─────────────────────────────────────────────

func (l *QuoteLine) attachTo(quoteID string, lineNumber int) {
	l.quoteID = quoteID
	l.lineNumber = lineNumber
}

func (l *QuoteLine) setLineNumber(n int) {
	l.lineNumber = n
}

func isZeroID(id string) bool {
	return id == "" || id == uuid.Nil.String()
}

func (l *QuoteLine) clone() *QuoteLine {
	c := *l
	return &c
}

type lineFigures struct {
	quantity, unitPrice, discountPercent, taxPercent decimal.Decimal
}

func checkFigures(quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) (lineFigures, error) {
	var f lineFigures
	var err error
	if f.quantity, err = guard.Check("quantity", quantity, nil, quantityRules()...); err != nil {
		return f, err
	}
	if f.unitPrice, err = guard.Check("unitPrice", unitPrice, nil, unitPriceRules()...); err != nil {
		return f, err
	}
	if f.discountPercent, err = guard.Check("discountPercent", discountPercent, nil, percentRules()...); err != nil {
		return f, err
	}
	if f.taxPercent, err = guard.Check("taxPercent", taxPercent, nil, percentRules()...); err != nil {
		return f, err
	}
	return f, nil
}

func (l *QuoteLine) applyFigures(f lineFigures) {
	l.quantity = f.quantity
	l.unitPrice = f.unitPrice
	l.discountPercent = f.discountPercent
	l.taxPercent = f.taxPercent
}

func checkProductID(productID string) (string, error) {
	return guard.Check("productId", productID, guard.Trim, guard.Required, guard.MaxLen(64))
}

// ── Persistencia ─────────────────────────────────────────────────────────────

// QuoteLineSnapshot estado completo de una línea para el repositorio.
type QuoteLineSnapshot struct {
	ID              string
	QuoteID         string
	ProductID       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	LineNumber      int
	PersistedTotal  decimal.Decimal
}

// Snapshot exporta el estado de la línea.
func (l *QuoteLine) Snapshot() QuoteLineSnapshot {
	return QuoteLineSnapshot{
		ID:              l.id,
		QuoteID:         l.quoteID,
		ProductID:       l.productID,
		Quantity:        l.quantity,
		UnitPrice:       l.unitPrice,
		DiscountPercent: l.discountPercent,
		TaxPercent:      l.taxPercent,
		LineNumber:      l.lineNumber,
		PersistedTotal:  l.persistedTotal,
	}
}

// HydrateQuoteLine reconstruye una línea leída del repositorio. No aplica reglas de
// negocio (los datos se validaron al grabarse) salvo exigir un ID.
func HydrateQuoteLine(s QuoteLineSnapshot) (*QuoteLine, error) {
	if isZeroID(s.ID) {
		return nil, domain.NewValidationError("id", "es obligatorio")
	}
	return &QuoteLine{
		id:              s.ID,
		quoteID:         s.QuoteID,
		productID:       s.ProductID,
		quantity:        s.Quantity,
		unitPrice:       s.UnitPrice,
		discountPercent: s.DiscountPercent,
		taxPercent:      s.TaxPercent,
		lineNumber:      s.LineNumber,
		persistedTotal:  s.PersistedTotal,
	}, nil
}
