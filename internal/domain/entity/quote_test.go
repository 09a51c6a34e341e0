package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
)

var issue = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newQuote(t *testing.T) *entity.Quote {
	t.Helper()
	q, err := entity.NewQuote("company-1", " p-0001 ", "customer-1", issue)
	require.NoError(t, err)
	return q
}

func addLine(t *testing.T, q *entity.Quote, product, qty, price, discount, tax string) *entity.QuoteLine {
	t.Helper()
	l, err := entity.NewQuoteLine(product, d(qty), d(price), d(discount), d(tax))
	require.NoError(t, err)
	attached, err := q.AddLine(l)
	require.NoError(t, err)
	return attached
}

// ── Creación ─────────────────────────────────────────────────────────────────

func TestNewQuote(t *testing.T) {
	q := newQuote(t)
	assert.Equal(t, "P-0001", q.Number(), "número normalizado")
	assert.Equal(t, entity.QuoteStateIssued, q.State(), "estado inicial")
	assert.NotEmpty(t, q.ID())
	assert.Zero(t, q.LineCount())
	assert.False(t, q.IsEmitted())

	_, err := entity.NewQuote("company-1", "P-1", "  ", issue)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "cliente obligatorio")

	_, err = entity.NewQuote("company-1", "", "customer-1", issue)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "número obligatorio")

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'A'
	}
	_, err = entity.NewQuote("company-1", string(long), "customer-1", issue)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "número de más de 50 caracteres")
}

func TestQuote_Vencimiento(t *testing.T) {
	q := newQuote(t)

	err := q.SetExpirationDate(issue.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "no puede ser anterior a la emisión")

	// Mismo día calendario, hora anterior: se acepta.
	require.NoError(t, q.SetExpirationDate(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, q.SetExpirationDate(issue.AddDate(0, 0, 15)))

	now := issue.AddDate(0, 0, 15)
	assert.Equal(t, entity.QuoteStateIssued, q.EffectiveState(now), "vence al terminar el día")
	assert.Equal(t, entity.QuoteStateExpired, q.EffectiveState(now.AddDate(0, 0, 1)))
	assert.True(t, q.IsExpired(now.AddDate(0, 0, 1)))
	assert.Equal(t, entity.QuoteStateIssued, q.State(), "Vencido nunca se almacena")

	q.ClearExpirationDate()
	assert.Nil(t, q.ExpirationDate())
	assert.Equal(t, entity.QuoteStateIssued, q.EffectiveState(now.AddDate(1, 0, 0)))
}

// El día calendario se cuenta en hora argentina: 01:30 UTC del 11 todavía es el 10.
func TestQuote_VencimientoEnHoraArgentina(t *testing.T) {
	exp := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	lateNight := time.Date(2024, 3, 11, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, entity.QuoteStateIssued, entity.EffectiveQuoteState(entity.QuoteStateIssued, &exp, lateNight),
		"22:30 del 10 en Buenos Aires, todavía vigente")

	nextMorning := time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.QuoteStateExpired, entity.EffectiveQuoteState(entity.QuoteStateIssued, &exp, nextMorning))

	// El mismo instante expresado en otra zona da el mismo resultado.
	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, entity.QuoteStateIssued, entity.EffectiveQuoteState(entity.QuoteStateIssued, &exp, lateNight.In(tokyo)))

	q := newQuote(t)
	err := q.SetExpirationDate(time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "23:00 del 9 en Buenos Aires es anterior a la emisión")
}

func TestPriceList_IsActiveOn(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	pl := &entity.PriceList{ValidFrom: &from, ValidTo: &to}

	assert.True(t, pl.IsActiveOn(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)), "primer día")
	assert.True(t, pl.IsActiveOn(time.Date(2024, 4, 1, 2, 0, 0, 0, time.UTC)), "23:00 del 31 en Buenos Aires")
	assert.False(t, pl.IsActiveOn(time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)), "23:00 del 29/02 en Buenos Aires")
	assert.False(t, pl.IsActiveOn(time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)))
}

func TestEffectiveQuoteState_SoloEmitidoOAprobado(t *testing.T) {
	exp := issue
	later := issue.AddDate(0, 1, 0)
	for _, s := range []entity.QuoteState{entity.QuoteStateRejected, entity.QuoteStateDeleted, entity.QuoteStateInvoiced} {
		assert.Equal(t, s, entity.EffectiveQuoteState(s, &exp, later))
	}
	assert.Equal(t, entity.QuoteStateExpired, entity.EffectiveQuoteState(entity.QuoteStateApproved, &exp, later))
}

// ── Máquina de estados ───────────────────────────────────────────────────────

func TestQuote_RechazarYLuegoAprobarFalla(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "prod", "1", "10", "0", "21")

	require.NoError(t, q.Reject())
	err := q.Approve()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "RECHAZADO", te.From)
	assert.Equal(t, "APROBADO", te.To)
}

func TestQuote_FacturadoEsTerminal(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "prod", "1", "10", "0", "21")

	require.NoError(t, q.Approve())
	require.NoError(t, q.Invoice())
	assert.Equal(t, entity.QuoteStateInvoiced, q.State())

	for _, target := range []entity.QuoteState{
		entity.QuoteStateDeleted, entity.QuoteStateIssued, entity.QuoteStateApproved,
		entity.QuoteStateRejected, entity.QuoteStateExpired, entity.QuoteStateInvoiced,
	} {
		assert.ErrorIs(t, q.TransitionTo(target), domain.ErrInvalidTransition, "desde FACTURADO hacia %s", target)
	}
	assert.ErrorIs(t, q.Reject(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, q.Delete(), domain.ErrInvalidTransition)
}

func TestQuote_TablaDeTransiciones(t *testing.T) {
	allowed := map[entity.QuoteState][]entity.QuoteState{
		entity.QuoteStateIssued:   {entity.QuoteStateApproved, entity.QuoteStateRejected, entity.QuoteStateDeleted},
		entity.QuoteStateApproved: {entity.QuoteStateInvoiced},
	}
	all := []entity.QuoteState{1, 2, 3, 4, 5, 6}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s → %s", from, to)
		}
	}
}

func TestQuote_CodigoDeEstadoFueraDeRango(t *testing.T) {
	q := newQuote(t)
	for _, code := range []entity.QuoteState{0, 7, -1} {
		err := q.TransitionTo(code)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.NotErrorIs(t, err, domain.ErrInvalidTransition)
	}
}

func TestQuote_VencidoNoEsDestino(t *testing.T) {
	q := newQuote(t)
	assert.ErrorIs(t, q.TransitionTo(entity.QuoteStateExpired), domain.ErrInvalidTransition)
}

func TestQuote_EmitSinLineas(t *testing.T) {
	q := newQuote(t)
	assert.ErrorIs(t, q.Emit(), domain.ErrEmptyQuote)
	assert.ErrorIs(t, q.Approve(), domain.ErrEmptyQuote)

	addLine(t, q, "prod", "1", "10", "0", "21")
	require.NoError(t, q.Emit())
	first := q.EmittedAt()
	require.NotNil(t, first)

	require.NoError(t, q.Emit(), "volver a emitir no es error")
	assert.Equal(t, *first, *q.EmittedAt(), "la fecha de emisión no cambia")
}

func TestQuote_EmitFueraDeEmitido(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "prod", "1", "10", "0", "21")
	require.NoError(t, q.Delete())
	assert.ErrorIs(t, q.Emit(), domain.ErrInvalidTransition)
}

// ── Líneas ───────────────────────────────────────────────────────────────────

func TestQuote_RenumeraAlQuitar(t *testing.T) {
	q := newQuote(t)
	l1 := addLine(t, q, "A", "1", "10", "0", "21")
	addLine(t, q, "B", "1", "20", "0", "21")
	addLine(t, q, "C", "1", "30", "0", "21")

	require.NoError(t, q.RemoveLine(l1.ID()))

	lines := q.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, []int{1, 2}, []int{lines[0].LineNumber(), lines[1].LineNumber()})
	assert.Equal(t, []string{"B", "C"}, []string{lines[0].ProductID(), lines[1].ProductID()})

	d4 := addLine(t, q, "D", "1", "40", "0", "21")
	assert.Equal(t, 3, d4.LineNumber())

	require.NoError(t, q.RemoveLineAt(2))
	lines = q.Lines()
	assert.Equal(t, []string{"B", "D"}, []string{lines[0].ProductID(), lines[1].ProductID()})
	assert.Equal(t, 2, lines[1].LineNumber())
}

func TestQuote_AddLineAsignaPresupuesto(t *testing.T) {
	q := newQuote(t)
	l, err := entity.NewQuoteLine("prod", d("1"), d("10"), d("0"), d("21"))
	require.NoError(t, err)
	assert.Empty(t, l.QuoteID(), "línea suelta")

	attached, err := q.AddLine(l)
	require.NoError(t, err)
	assert.Equal(t, q.ID(), attached.QuoteID())
	assert.Equal(t, 1, attached.LineNumber())

	_, err = q.AddLine(l)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "la misma línea dos veces")
}

func TestQuote_LineasSonCopias(t *testing.T) {
	q := newQuote(t)
	l := addLine(t, q, "prod", "1", "10", "0", "21")

	require.NoError(t, l.SetQuantity(d("99")))
	got, ok := q.Line(l.ID())
	require.True(t, ok)
	assert.True(t, got.Quantity().Equal(d("1")), "modificar la copia no altera el presupuesto")
}

func TestQuote_InmutableFueraDeEmitido(t *testing.T) {
	q := newQuote(t)
	l := addLine(t, q, "prod", "1", "10", "0", "21")
	require.NoError(t, q.Approve())

	extra, err := entity.NewQuoteLine("otro", d("1"), d("1"), d("0"), d("21"))
	require.NoError(t, err)
	_, err = q.AddLine(extra)
	assert.ErrorIs(t, err, domain.ErrImmutableState)
	assert.ErrorIs(t, q.RemoveLine(l.ID()), domain.ErrImmutableState)
	_, err = q.UpdateLine(l.ID(), d("2"), d("10"), d("0"), d("21"))
	assert.ErrorIs(t, err, domain.ErrImmutableState)
}

func TestQuote_NoQuitaLaUltimaLineaEmitida(t *testing.T) {
	q := newQuote(t)
	l := addLine(t, q, "prod", "1", "10", "0", "21")
	require.NoError(t, q.Emit())
	assert.ErrorIs(t, q.RemoveLine(l.ID()), domain.ErrEmptyQuote)

	assert.ErrorIs(t, q.RemoveLine(uuid.New().String()), domain.ErrNotFound)
}

func TestQuote_UpdateLine(t *testing.T) {
	q := newQuote(t)
	l := addLine(t, q, "prod", "1", "10", "0", "21")

	updated, err := q.UpdateLine(l.ID(), d("4"), d("25"), d("50"), d("10.5"))
	require.NoError(t, err)
	assert.True(t, updated.PersistedTotal().Equal(d("50")))
	assert.True(t, q.ComputeSubtotal().Equal(d("50")))
}

// ── Totales ──────────────────────────────────────────────────────────────────

func TestQuote_EjemploDeTotales(t *testing.T) {
	q := newQuote(t)
	l1 := addLine(t, q, "prod-1", "2", "100", "10", "21")
	l2 := addLine(t, q, "prod-2", "1", "50", "0", "21")

	assert.True(t, l1.NetAmount().Equal(d("180.00")))
	assert.True(t, l1.TaxAmount().Equal(d("37.80")))
	assert.True(t, l2.NetAmount().Equal(d("50.00")))
	assert.True(t, l2.TaxAmount().Equal(d("10.50")))

	assert.True(t, q.ComputeSubtotal().Equal(d("230.00")))
	assert.True(t, q.ComputeTax().Equal(d("48.30")))
	assert.True(t, q.ComputeTotal().Equal(d("278.30")))

	// Hasta grabarlos, los totales persistidos siguen en cero.
	assert.True(t, q.Totals().Total.IsZero())

	require.NoError(t, q.SetTotals(q.ComputeSubtotal(), q.ComputeTax(), q.ComputeTotal(), d("0")))
	assert.True(t, q.Totals().Total.Equal(d("278.30")))
	assert.NoError(t, q.CheckTotalsConsistency())
}

func TestQuote_SetTotals(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "prod", "1", "100", "0", "21")

	err := q.SetTotals(d("-1"), d("0"), d("0"), d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	err = q.SetTotals(d("100"), d("21"), d("121"), d("-0.01"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	// No valida coherencia: se graba tal cual y el diagnóstico lo informa.
	require.NoError(t, q.SetTotals(d("100"), d("21"), d("500"), d("0")))
	assert.True(t, q.Totals().Total.Equal(d("500")))
	assert.Error(t, q.CheckTotalsConsistency())

	require.NoError(t, q.SetTotals(d("100"), d("21"), d("124.50"), d("3.50")))
	assert.NoError(t, q.CheckTotalsConsistency(), "la percepción integra el total")
}

func TestQuote_SetTotalsEnEstadoTerminal(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "prod", "1", "100", "0", "21")
	require.NoError(t, q.Reject())
	assert.ErrorIs(t, q.SetTotals(d("1"), d("0"), d("1"), d("0")), domain.ErrImmutableState)
}

// ── Copia ────────────────────────────────────────────────────────────────────

func TestQuote_CopyAsNew(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "A", "2", "100", "10", "21")
	addLine(t, q, "B", "1", "50", "0", "21")
	require.NoError(t, q.SetExpirationDate(issue.AddDate(0, 0, 30)))
	require.NoError(t, q.Reject())

	newIssue := issue.AddDate(0, 2, 0)
	c, err := q.CopyAsNew("P-0002", newIssue)
	require.NoError(t, err)

	assert.NotEqual(t, q.ID(), c.ID())
	assert.Equal(t, q.ID(), c.ParentQuoteID())
	assert.Equal(t, entity.QuoteStateIssued, c.State())
	require.NotNil(t, c.ExpirationDate())
	assert.Equal(t, newIssue.AddDate(0, 0, 30), *c.ExpirationDate(), "conserva el plazo de validez")
	assert.True(t, c.Totals().Total.IsZero())
	assert.True(t, c.ComputeTotal().Equal(d("278.30")))

	orig, copied := q.Lines(), c.Lines()
	require.Len(t, copied, 2)
	for i := range copied {
		assert.NotEqual(t, orig[i].ID(), copied[i].ID())
		assert.Equal(t, c.ID(), copied[i].QuoteID())
		assert.Equal(t, i+1, copied[i].LineNumber())
	}

	// Una copia de la copia apunta al original.
	cc, err := c.CopyAsNew("P-0003", newIssue)
	require.NoError(t, err)
	assert.Equal(t, q.ID(), cc.ParentQuoteID())
}

func TestQuote_SetParent(t *testing.T) {
	q := newQuote(t)
	assert.ErrorIs(t, q.SetParent(q.ID()), domain.ErrInvalidArgument)
	require.NoError(t, q.SetParent("otro"))
	assert.Equal(t, "otro", q.ParentQuoteID())
}

// ── Persistencia ─────────────────────────────────────────────────────────────

func TestQuote_SnapshotHydrate(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "A", "2", "100", "10", "21")
	addLine(t, q, "B", "1", "50", "0", "21")
	require.NoError(t, q.SetTotals(d("230"), d("48.30"), d("278.30"), d("0")))
	q.SetVersion(7)

	snap := q.Snapshot()
	// El repositorio puede devolver las líneas en cualquier orden.
	snap.Lines[0], snap.Lines[1] = snap.Lines[1], snap.Lines[0]

	h, err := entity.HydrateQuote(snap)
	require.NoError(t, err)
	assert.Equal(t, q.ID(), h.ID())
	assert.Equal(t, int64(7), h.Version(), "el token se conserva sin interpretar")
	assert.True(t, h.Totals().Total.Equal(d("278.30")))
	lines := h.Lines()
	assert.Equal(t, "A", lines[0].ProductID())
	assert.Equal(t, "B", lines[1].ProductID())

	_, err = entity.HydrateQuote(entity.QuoteSnapshot{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestQuote_View(t *testing.T) {
	q := newQuote(t)
	addLine(t, q, "A", "2", "100", "10", "21")
	require.NoError(t, q.SetExpirationDate(issue))

	v := q.View(issue.AddDate(0, 0, 1))
	assert.Equal(t, entity.QuoteStateExpired, v.State)
	require.Len(t, v.Lines, 1)
	assert.True(t, v.Lines[0].TaxAmount.Equal(d("37.80")))
}
