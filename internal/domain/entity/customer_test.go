package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
)

func TestNewCustomer(t *testing.T) {
	c, err := entity.NewCustomer("company-1", "  Ferretería Sur SRL ", "30-50001091-2", afip.IVAResponsableInscripto)
	require.NoError(t, err)
	assert.Equal(t, "Ferretería Sur SRL", c.BusinessName)
	assert.Equal(t, "30500010912", c.CUIT, "CUIT sin guiones")
	assert.Equal(t, "30-50001091-2", c.FormattedCUIT())
}

func TestNewCustomer_CUITInvalido(t *testing.T) {
	_, err := entity.NewCustomer("company-1", "Cliente", "30-50001091-3", afip.IVAResponsableInscripto)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)

	_, err = entity.NewCustomer("company-1", "Cliente", "30-500", afip.IVAResponsableInscripto)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = entity.NewCustomer("company-1", "Cliente", "20123456786", 99)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "condición de IVA desconocida")
}

func TestCustomer_WithholdingApplies(t *testing.T) {
	tests := []struct {
		name      string
		condition int
		aliquot   string
		want      bool
	}{
		{"responsable inscripto con alícuota", afip.IVAResponsableInscripto, "3.5", true},
		{"monotributo con alícuota", afip.IVAMonotributo, "1.75", true},
		{"consumidor final", afip.IVAConsumidorFinal, "3.5", false},
		{"exento", afip.IVAExento, "3.5", false},
		{"sin alícuota", afip.IVAResponsableInscripto, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := entity.Customer{IVACondition: tt.condition, ARBAAliquot: d(tt.aliquot)}
			assert.Equal(t, tt.want, c.WithholdingApplies())
		})
	}
}

func TestVendor_Validate(t *testing.T) {
	v, err := entity.NewVendor("company-1", "Juan Pérez", "20-12345678-6", d("5"))
	require.NoError(t, err)
	assert.True(t, v.Active)
	assert.Equal(t, "20123456786", v.CUIT)

	_, err = entity.NewVendor("company-1", "Juan Pérez", "20-12345678-6", d("120"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCompany_Validate(t *testing.T) {
	c := entity.Company{Name: "Presupuestos SA", CUIT: "33-69345023-9", IVACondition: afip.IVAResponsableInscripto, PointOfSale: 3}
	require.NoError(t, c.Validate())
	assert.Equal(t, "33693450239", c.CUIT)

	c.PointOfSale = 0
	assert.ErrorIs(t, c.Validate(), domain.ErrInvalidArgument)
}

func TestProduct_ValidateAcumulaErrores(t *testing.T) {
	p := entity.Product{SKU: " tor-01 ", Name: "", Price: d("-1"), TaxRate: d("19")}
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "errors.Join")
	assert.Len(t, joined.Unwrap(), 3, "nombre, precio y alícuota")
	assert.Equal(t, "TOR-01", p.SKU)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)
}

func TestPriceList_PriceFor(t *testing.T) {
	pl := &entity.PriceList{Items: []entity.PriceListItem{{ProductID: "p1", Price: d("10.50")}}}
	price, ok := pl.PriceFor("p1")
	assert.True(t, ok)
	assert.True(t, price.Equal(d("10.5")))

	_, ok = pl.PriceFor("p2")
	assert.False(t, ok)

	var none *entity.PriceList
	_, ok = none.PriceFor("p1")
	assert.False(t, ok, "lista nula")

	l, err := entity.NewSeededQuoteLine("p1", d("2"), d("0"), d("21"), pl)
	require.NoError(t, err)
	assert.True(t, l.PersistedTotal().Equal(d("21")))
}
