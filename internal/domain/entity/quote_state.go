package entity

import (
	"fmt"
	"time"
)

// QuoteState estado del ciclo de vida de un presupuesto. Los códigos se persisten tal cual.
type QuoteState int

const (
	QuoteStateDeleted  QuoteState = 1
	QuoteStateIssued   QuoteState = 2 // Emitido: estado inicial, único estado editable
	QuoteStateApproved QuoteState = 3
	QuoteStateRejected QuoteState = 4
	QuoteStateExpired  QuoteState = 5 // Derivado: nunca se almacena
	QuoteStateInvoiced QuoteState = 6
)

var quoteStateNames = map[QuoteState]string{
	QuoteStateDeleted:  "ELIMINADO",
	QuoteStateIssued:   "EMITIDO",
	QuoteStateApproved: "APROBADO",
	QuoteStateRejected: "RECHAZADO",
	QuoteStateExpired:  "VENCIDO",
	QuoteStateInvoiced: "FACTURADO",
}

// String devuelve el nombre del estado.
func (s QuoteState) String() string {
	if n, ok := quoteStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("ESTADO(%d)", int(s))
}

// IsValid indica si el código está en el rango 1–6.
func (s QuoteState) IsValid() bool {
	return s >= QuoteStateDeleted && s <= QuoteStateInvoiced
}

// IsTerminal indica si no existe ninguna transición desde s.
func (s QuoteState) IsTerminal() bool {
	return len(quoteTransitions[s]) == 0
}

// quoteTransitions tabla de transiciones sobre estados almacenados. Vencido no participa.
var quoteTransitions = map[QuoteState][]QuoteState{
	QuoteStateIssued:   {QuoteStateApproved, QuoteStateRejected, QuoteStateDeleted},
	QuoteStateApproved: {QuoteStateInvoiced},
	QuoteStateRejected: nil,
	QuoteStateDeleted:  nil,
	QuoteStateInvoiced: nil,
}

// CanTransitionTo indica si la tabla permite pasar de s a target.
func (s QuoteState) CanTransitionTo(target QuoteState) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseQuoteState convierte un nombre (EMITIDO, APROBADO, ...) en su código.
func ParseQuoteState(name string) (QuoteState, bool) {
	for s, n := range quoteStateNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// EffectiveQuoteState calcula el estado visible: un presupuesto Emitido o Aprobado cuya
// fecha de vencimiento (por día calendario) es anterior a hoy se informa como Vencido.
func EffectiveQuoteState(stored QuoteState, expiration *time.Time, now time.Time) QuoteState {
	if stored != QuoteStateIssued && stored != QuoteStateApproved {
		return stored
	}
	if expiration == nil {
		return stored
	}
	if dateOnly(*expiration).Before(dateOnly(now)) {
		return QuoteStateExpired
	}
	return stored
}

// BusinessLocation zona horaria del negocio (Argentina, UTC-3 sin horario de verano).
// Los vencimientos y la vigencia de listas se cuentan por día calendario en esta zona.
var BusinessLocation = time.FixedZone("ART", -3*60*60)

// dateOnly devuelve el día calendario del instante t en BusinessLocation, expresado como
// medianoche UTC para poder compararlo con columnas DATE (ver calendarDate).
func dateOnly(t time.Time) time.Time {
	y, m, d := t.In(BusinessLocation).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// calendarDate conserva la fecha tal como viene de una columna DATE (medianoche UTC),
// sin convertirla de zona.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
