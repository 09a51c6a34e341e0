package guard_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
)

func TestCheck_NormalizaAntesDeValidar(t *testing.T) {
	got, err := guard.Check("number", "  p-0001 ", guard.TrimUpper, guard.Required, guard.LenBetween(1, 50))
	require.NoError(t, err)
	assert.Equal(t, "P-0001", got)
}

func TestCheck_IdentificaElCampo(t *testing.T) {
	_, err := guard.Check("customerId", "   ", guard.Trim, guard.Required)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "customerId", ve.Field)
}

func TestCheck_PrimeraReglaQueFallaCorta(t *testing.T) {
	calls := 0
	counting := func(string) error { calls++; return nil }
	_, err := guard.Check("x", "", nil, guard.Required, counting)
	require.Error(t, err)
	assert.Equal(t, 0, calls, "las reglas posteriores no deben evaluarse")
}

func TestCheck_CUIT(t *testing.T) {
	got, err := guard.Check("cuit", "20-12345678-6", guard.NormalizeCUIT, guard.Required, guard.CUIT)
	require.NoError(t, err)
	assert.Equal(t, "20123456786", got)

	_, err = guard.Check("cuit", "20-12345678-5", guard.NormalizeCUIT, guard.Required, guard.CUIT)
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
	assert.NotErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = guard.Check("cuit", "20-1234", guard.NormalizeCUIT, guard.Required, guard.CUIT)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestDecimalRules(t *testing.T) {
	between := guard.DecimalBetween(decimal.Zero, decimal.NewFromInt(100))
	assert.NoError(t, between(decimal.Zero))
	assert.NoError(t, between(decimal.NewFromInt(100)))
	assert.Error(t, between(decimal.RequireFromString("100.01")))
	assert.Error(t, between(decimal.RequireFromString("-0.01")))

	positive := guard.DecimalPositiveUpTo(decimal.NewFromInt(999_999))
	assert.Error(t, positive(decimal.Zero))
	assert.NoError(t, positive(decimal.RequireFromString("0.01")))
	assert.NoError(t, positive(decimal.NewFromInt(999_999)))
	assert.Error(t, positive(decimal.NewFromInt(1_000_000)))

	assert.Error(t, guard.DecimalNonNegative(decimal.NewFromInt(-1)))

	twoPlaces := guard.DecimalMaxScale(2)
	assert.NoError(t, twoPlaces(decimal.RequireFromString("12.34")))
	assert.NoError(t, twoPlaces(decimal.RequireFromString("12.3400")), "los ceros a la derecha no cuentan")
	assert.NoError(t, twoPlaces(decimal.NewFromInt(7)))
	assert.Error(t, twoPlaces(decimal.RequireFromString("12.345")))
	assert.Error(t, guard.DecimalMaxScale(4)(decimal.RequireFromString("0.00001")))
}

func TestOtherRules(t *testing.T) {
	assert.Error(t, guard.UUID(uuid.Nil.String()))
	assert.Error(t, guard.UUID(""))
	assert.Error(t, guard.UUID("abc"))
	assert.NoError(t, guard.UUID(uuid.New().String()))

	oneOf := guard.OneOf(1, 4, 5)
	assert.NoError(t, oneOf(4))
	assert.Error(t, oneOf(2))

	re := regexp.MustCompile(`^[A-Z]{3}-\d+$`)
	assert.NoError(t, guard.Matches(re, "AAA-999")("SKU-12"))
	assert.NoError(t, guard.Matches(re, "AAA-999")(""))
	assert.Error(t, guard.Matches(re, "AAA-999")("sku"))

	assert.Error(t, guard.MaxLen(3)("ñandú"))
	assert.NoError(t, guard.MaxLen(5)("ñandú"))
}

func TestCollector_AcumulaTodasLasViolaciones(t *testing.T) {
	var c guard.Collector
	name := guard.Collect(&c, "name", "  ", guard.Trim, guard.Required)
	price := guard.Collect(&c, "price", decimal.NewFromInt(-5), nil, guard.DecimalNonNegative)
	sku := guard.Collect(&c, "sku", " ab ", guard.TrimUpper, guard.Required)

	assert.Equal(t, "", name)
	assert.True(t, price.IsZero())
	assert.Equal(t, "AB", sku)

	require.Len(t, c.Violations(), 2)
	assert.Len(t, c.Messages(), 2)
	err := c.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCollector_SinViolaciones(t *testing.T) {
	var c guard.Collector
	guard.Collect(&c, "name", "ok", guard.Trim, guard.Required)
	assert.NoError(t, c.Err())
	assert.Empty(t, c.Violations())
}
