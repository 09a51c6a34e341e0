package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceList lista de precios de la empresa. Es la fuente opcional del precio sugerido de una
// línea de presupuesto (ver QuoteLine.SeedUnitPrice).
type PriceList struct {
	ID        string
	CompanyID string
	Name      string
	ValidFrom *time.Time
	ValidTo   *time.Time
	Items     []PriceListItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceListItem precio de un producto en la lista.
type PriceListItem struct {
	ProductID string
	Price     decimal.Decimal
}

// PriceFor implementa PriceSource.
func (pl *PriceList) PriceFor(productID string) (decimal.Decimal, bool) {
	if pl == nil {
		return decimal.Zero, false
	}
	for _, it := range pl.Items {
		if it.ProductID == productID {
			return it.Price, true
		}
	}
	return decimal.Zero, false
}

// IsActiveOn indica si la lista está vigente en el instante t, por día calendario del negocio.
func (pl *PriceList) IsActiveOn(t time.Time) bool {
	day := dateOnly(t)
	if pl.ValidFrom != nil && day.Before(calendarDate(*pl.ValidFrom)) {
		return false
	}
	if pl.ValidTo != nil && day.After(calendarDate(*pl.ValidTo)) {
		return false
	}
	return true
}
