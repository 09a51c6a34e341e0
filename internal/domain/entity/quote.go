package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
)

// Quote es el agregado Presupuesto: cabecera, estado y líneas.
//
// Los totales (subtotal, IVA, total, percepción ARBA) son los grabados por SetTotals y
// son la referencia para auditoría; ComputeSubtotal/ComputeTax/ComputeTotal recalculan
// a partir de las líneas sin modificarlos.
//
// Un Quote no es seguro para uso concurrente.
type Quote struct {
	id             string
	companyID      string
	number         string
	customerID     string
	sellerID       string
	parentQuoteID  string
	issueDate      time.Time
	expirationDate *time.Time
	emittedAt      *time.Time
	state          QuoteState
	notes          string
	lines          []*QuoteLine

	subtotal    decimal.Decimal
	totalTax    decimal.Decimal
	total       decimal.Decimal
	withholding decimal.Decimal

	version   int64 // token de concurrencia optimista; el dominio no lo interpreta
	createdAt time.Time
	updatedAt time.Time
}

// NewQuote crea un presupuesto en estado Emitido y sin líneas.
func NewQuote(companyID, number, customerID string, issueDate time.Time) (*Quote, error) {
	company, err := guard.Check("companyId", companyID, guard.Trim, guard.Required)
	if err != nil {
		return nil, err
	}
	num, err := guard.Check("number", number, guard.TrimUpper, guard.Required, guard.LenBetween(1, 50))
	if err != nil {
		return nil, err
	}
	customer, err := guard.Check("customerId", customerID, guard.Trim, guard.Required)
	if err != nil {
		return nil, err
	}
	if issueDate.IsZero() {
		return nil, domain.NewValidationError("issueDate", "es obligatoria")
	}
	now := time.Now()
	return &Quote{
		id:          uuid.New().String(),
		companyID:   company,
		number:      num,
		customerID:  customer,
		issueDate:   issueDate,
		state:       QuoteStateIssued,
		lines:       make([]*QuoteLine, 0),
		subtotal:    decimal.Zero,
		totalTax:    decimal.Zero,
		total:       decimal.Zero,
		withholding: decimal.Zero,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (q *Quote) ID() string                  { return q.id }
func (q *Quote) CompanyID() string           { return q.companyID }
func (q *Quote) Number() string              { return q.number }
func (q *Quote) CustomerID() string          { return q.customerID }
func (q *Quote) SellerID() string            { return q.sellerID }
func (q *Quote) ParentQuoteID() string       { return q.parentQuoteID }
func (q *Quote) IssueDate() time.Time        { return q.issueDate }
func (q *Quote) State() QuoteState           { return q.state }
func (q *Quote) Notes() string               { return q.notes }
func (q *Quote) Version() int64              { return q.version }
func (q *Quote) CreatedAt() time.Time        { return q.createdAt }
func (q *Quote) UpdatedAt() time.Time        { return q.updatedAt }
func (q *Quote) LineCount() int              { return len(q.lines) }
func (q *Quote) IsEmitted() bool             { return q.emittedAt != nil }
func (q *Quote) ExpirationDate() *time.Time  { return copyTime(q.expirationDate) }
func (q *Quote) EmittedAt() *time.Time       { return copyTime(q.emittedAt) }

// Lines devuelve copias de las líneas en orden. Modificar las copias no afecta al presupuesto.
func (q *Quote) Lines() []*QuoteLine {
	out := make([]*QuoteLine, len(q.lines))
	for i, l := range q.lines {
		out[i] = l.clone()
	}
	return out
}

// Line devuelve una copia de la línea con ese ID.
func (q *Quote) Line(lineID string) (*QuoteLine, bool) {
	if idx := q.indexOf(lineID); idx >= 0 {
		return q.lines[idx].clone(), true
	}
	return nil, false
}

// EffectiveState estado visible a la fecha now (incluye el estado derivado Vencido).
func (q *Quote) EffectiveState(now time.Time) QuoteState {
	return EffectiveQuoteState(q.state, q.expirationDate, now)
}

// IsExpired indica si el presupuesto está vencido a la fecha now.
func (q *Quote) IsExpired(now time.Time) bool {
	return q.EffectiveState(now) == QuoteStateExpired
}

// ── Cabecera ─────────────────────────────────────────────────────────────────

// SetExpirationDate fija el vencimiento; no puede ser anterior a la fecha de emisión.
func (q *Quote) SetExpirationDate(exp time.Time) error {
	if exp.IsZero() {
		return domain.NewValidationError("expirationDate", "es inválida")
	}
	if dateOnly(exp).Before(dateOnly(q.issueDate)) {
		return domain.NewValidationError("expirationDate", "no puede ser anterior a la fecha de emisión")
	}
	q.expirationDate = &exp
	q.touch()
	return nil
}

// ClearExpirationDate quita el vencimiento.
func (q *Quote) ClearExpirationDate() {
	q.expirationDate = nil
	q.touch()
}

// SetSeller asigna el vendedor; vacío lo quita.
func (q *Quote) SetSeller(sellerID string) error {
	v, err := guard.Check("sellerId", sellerID, guard.Trim, guard.MaxLen(64))
	if err != nil {
		return err
	}
	q.sellerID = v
	q.touch()
	return nil
}

// SetNotes fija las observaciones del presupuesto.
func (q *Quote) SetNotes(notes string) error {
	v, err := guard.Check("notes", notes, guard.Trim, guard.MaxLen(500))
	if err != nil {
		return err
	}
	q.notes = v
	q.touch()
	return nil
}

// SetParent registra el presupuesto original del que proviene este. Un presupuesto no puede
// ser su propio origen.
func (q *Quote) SetParent(parentID string) error {
	v, err := guard.Check("parentQuoteId", parentID, guard.Trim, guard.MaxLen(64))
	if err != nil {
		return err
	}
	if v != "" && v == q.id {
		return domain.NewValidationError("parentQuoteId", "no puede ser el propio presupuesto")
	}
	q.parentQuoteID = v
	q.touch()
	return nil
}

// SetVersion guarda el token de concurrencia devuelto por el repositorio.
func (q *Quote) SetVersion(v int64) { q.version = v }

// ── Líneas ───────────────────────────────────────────────────────────────────

// AddLine incorpora una copia de line al final del presupuesto, le asigna el presupuesto
// y el siguiente número de línea, y devuelve la copia incorporada.
func (q *Quote) AddLine(line *QuoteLine) (*QuoteLine, error) {
	if err := q.ensureMutable(); err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.NewValidationError("line", "es obligatoria")
	}
	if line.quoteID != "" && line.quoteID != q.id {
		return nil, domain.NewValidationError("line", "pertenece a otro presupuesto")
	}
	if q.indexOf(line.id) >= 0 {
		return nil, domain.NewValidationError("line", "ya está incluida en el presupuesto")
	}
	owned := line.clone()
	owned.attachTo(q.id, len(q.lines)+1)
	q.lines = append(q.lines, owned)
	q.touch()
	return owned.clone(), nil
}

// RemoveLine quita la línea y renumera las restantes desde 1 conservando el orden.
func (q *Quote) RemoveLine(lineID string) error {
	if err := q.ensureMutable(); err != nil {
		return err
	}
	idx := q.indexOf(lineID)
	if idx < 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	if q.IsEmitted() && len(q.lines) == 1 {
		return fmt.Errorf("%w: no se puede quitar la última línea de un presupuesto emitido", domain.ErrEmptyQuote)
	}
	q.lines = append(q.lines[:idx], q.lines[idx+1:]...)
	q.renumber()
	q.touch()
	return nil
}

// RemoveLineAt quita la línea por su número (base 1).
func (q *Quote) RemoveLineAt(lineNumber int) error {
	if lineNumber < 1 || lineNumber > len(q.lines) {
		return domain.NewValidationError("lineNumber", fmt.Sprintf("debe estar entre 1 y %d", len(q.lines)))
	}
	return q.RemoveLine(q.lines[lineNumber-1].id)
}

// UpdateLine cambia cantidad, precio, descuento e IVA de una línea y recalcula su total.
func (q *Quote) UpdateLine(lineID string, quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) (*QuoteLine, error) {
	if err := q.ensureMutable(); err != nil {
		return nil, err
	}
	idx := q.indexOf(lineID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: línea %s", domain.ErrNotFound, lineID)
	}
	if err := q.lines[idx].UpdateFigures(quantity, unitPrice, discountPercent, taxPercent); err != nil {
		return nil, err
	}
	q.touch()
	return q.lines[idx].clone(), nil
}

func (q *Quote) renumber() {
	for i, l := range q.lines {
		l.setLineNumber(i + 1)
	}
}

func (q *Quote) indexOf(lineID string) int {
	for i, l := range q.lines {
		if l.id == lineID {
			return i
		}
	}
	return -1
}

func (q *Quote) ensureMutable() error {
	if q.state != QuoteStateIssued {
		return fmt.Errorf("%w: estado %s", domain.ErrImmutableState, q.state)
	}
	return nil
}

// ── Ciclo de vida ────────────────────────────────────────────────────────────

// TransitionTo aplica la tabla de transiciones. Un código fuera de 1–6 es ErrInvalidArgument;
// Vencido nunca es destino porque es un estado derivado.
func (q *Quote) TransitionTo(target QuoteState) error {
	if !target.IsValid() {
		return domain.NewValidationError("state", fmt.Sprintf("código de estado %d fuera de rango", int(target)))
	}
	if !q.state.CanTransitionTo(target) {
		return &domain.TransitionError{From: q.state.String(), To: target.String()}
	}
	q.state = target
	q.touch()
	return nil
}

// Emit confirma la emisión del presupuesto: debe estar Emitido y tener al menos una línea.
// Volver a emitir un presupuesto ya emitido no cambia la fecha de emisión original.
func (q *Quote) Emit() error {
	if q.state != QuoteStateIssued {
		return &domain.TransitionError{From: q.state.String(), To: QuoteStateIssued.String()}
	}
	if len(q.lines) == 0 {
		return domain.ErrEmptyQuote
	}
	if q.emittedAt == nil {
		now := time.Now()
		q.emittedAt = &now
		q.touch()
	}
	return nil
}

// Approve pasa de Emitido a Aprobado.
func (q *Quote) Approve() error {
	if err := q.requireState(QuoteStateIssued, QuoteStateApproved); err != nil {
		return err
	}
	if len(q.lines) == 0 {
		return domain.ErrEmptyQuote
	}
	return q.TransitionTo(QuoteStateApproved)
}

// Reject pasa de Emitido a Rechazado.
func (q *Quote) Reject() error {
	if err := q.requireState(QuoteStateIssued, QuoteStateRejected); err != nil {
		return err
	}
	return q.TransitionTo(QuoteStateRejected)
}

// Invoice pasa de Aprobado a Facturado.
func (q *Quote) Invoice() error {
	if err := q.requireState(QuoteStateApproved, QuoteStateInvoiced); err != nil {
		return err
	}
	return q.TransitionTo(QuoteStateInvoiced)
}

// Delete es la baja lógica: de Emitido a Eliminado.
func (q *Quote) Delete() error {
	if err := q.requireState(QuoteStateIssued, QuoteStateDeleted); err != nil {
		return err
	}
	return q.TransitionTo(QuoteStateDeleted)
}

func (q *Quote) requireState(required, target QuoteState) error {
	if q.state != required {
		return &domain.TransitionError{From: q.state.String(), To: target.String()}
	}
	return nil
}

// ── Totales ──────────────────────────────────────────────────────────────────

// ComputeSubtotal suma los netos de las líneas, redondeado a centavos.
func (q *Quote) ComputeSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range q.lines {
		sum = sum.Add(l.NetAmount())
	}
	return sum.Round(2)
}

// ComputeTax suma el IVA de las líneas, redondeado a centavos.
func (q *Quote) ComputeTax() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range q.lines {
		sum = sum.Add(l.TaxAmount())
	}
	return sum.Round(2)
}

// ComputeTotal = ComputeSubtotal + ComputeTax (sin percepciones).
func (q *Quote) ComputeTotal() decimal.Decimal {
	return q.ComputeSubtotal().Add(q.ComputeTax())
}

// Totals totales grabados.
type Totals struct {
	Subtotal    decimal.Decimal
	TotalTax    decimal.Decimal
	Total       decimal.Decimal
	Withholding decimal.Decimal // percepción de Ingresos Brutos ARBA
}

// Totals devuelve los totales grabados (no los recalcula).
func (q *Quote) Totals() Totals {
	return Totals{Subtotal: q.subtotal, TotalTax: q.totalTax, Total: q.total, Withholding: q.withholding}
}

// SetTotals graba los cuatro totales. Rechaza negativos pero no verifica que sean
// coherentes entre sí: el llamador es responsable del cálculo (ver CheckTotalsConsistency).
// Un presupuesto en estado terminal conserva sus totales.
func (q *Quote) SetTotals(subtotal, totalTax, total, withholding decimal.Decimal) error {
	if q.state.IsTerminal() {
		return fmt.Errorf("%w: estado %s", domain.ErrImmutableState, q.state)
	}
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"subtotal", subtotal},
		{"totalTax", totalTax},
		{"total", total},
		{"taxWithholdingAmount", withholding},
	}
	for _, f := range fields {
		if _, err := guard.Check(f.name, f.value, nil, guard.DecimalNonNegative); err != nil {
			return err
		}
	}
	q.subtotal = subtotal
	q.totalTax = totalTax
	q.total = total
	q.withholding = withholding
	q.touch()
	return nil
}

// CheckTotalsConsistency es un diagnóstico: informa si los totales grabados no cumplen
// total = subtotal + IVA + percepción o no coinciden con lo que dan las líneas. No modifica nada.
func (q *Quote) CheckTotalsConsistency() error {
	var c guard.Collector
	expected := q.subtotal.Add(q.totalTax).Add(q.withholding)
	if !q.total.Equal(expected) {
		c.Add(domain.NewValidationError("total", fmt.Sprintf("%s no coincide con subtotal + IVA + percepción (%s)", q.total, expected)))
	}
	if sub := q.ComputeSubtotal(); !q.subtotal.Equal(sub) {
		c.Add(domain.NewValidationError("subtotal", fmt.Sprintf("%s no coincide con la suma de líneas (%s)", q.subtotal, sub)))
	}
	if tax := q.ComputeTax(); !q.totalTax.Equal(tax) {
		c.Add(domain.NewValidationError("totalTax", fmt.Sprintf("%s no coincide con el IVA de las líneas (%s)", q.totalTax, tax)))
	}
	return c.Err()
}

// ── Copia ────────────────────────────────────────────────────────────────────

// CopyAsNew crea un presupuesto Emitido con las mismas líneas (IDs nuevos). El origen de
// la copia siempre es un presupuesto original: copiar una copia apunta al original de esta.
// Los totales quedan en cero hasta que el llamador los grabe.
func (q *Quote) CopyAsNew(number string, issueDate time.Time) (*Quote, error) {
	c, err := NewQuote(q.companyID, number, q.customerID, issueDate)
	if err != nil {
		return nil, err
	}
	c.parentQuoteID = q.id
	if q.parentQuoteID != "" {
		c.parentQuoteID = q.parentQuoteID
	}
	c.sellerID = q.sellerID
	c.notes = q.notes
	if q.expirationDate != nil {
		validity := dateOnly(*q.expirationDate).Sub(dateOnly(q.issueDate))
		exp := issueDate.Add(validity)
		c.expirationDate = &exp
	}
	for _, l := range q.lines {
		nl := l.clone()
		nl.id = uuid.New().String()
		nl.attachTo(c.id, len(c.lines)+1)
		nl.RecalculateTotal()
		c.lines = append(c.lines, nl)
	}
	return c, nil
}

func (q *Quote) touch() { q.updatedAt = time.Now() }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// ── Proyección de lectura ────────────────────────────────────────────────────

// QuoteLineView datos de una línea para reportes.
type QuoteLineView struct {
	LineNumber      int
	ProductID       string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
	NetAmount       decimal.Decimal
	TaxAmount       decimal.Decimal
	PersistedTotal  decimal.Decimal
}

// QuoteView proyección de solo lectura usada por PDF y listados.
type QuoteView struct {
	ID             string
	Number         string
	CustomerID     string
	SellerID       string
	ParentQuoteID  string
	IssueDate      time.Time
	ExpirationDate *time.Time
	State          QuoteState
	Notes          string
	Totals         Totals
	Lines          []QuoteLineView
}

// View arma la proyección con el estado efectivo a la fecha now.
func (q *Quote) View(now time.Time) QuoteView {
	v := QuoteView{
		ID:             q.id,
		Number:         q.number,
		CustomerID:     q.customerID,
		SellerID:       q.sellerID,
		ParentQuoteID:  q.parentQuoteID,
		IssueDate:      q.issueDate,
		ExpirationDate: copyTime(q.expirationDate),
		State:          q.EffectiveState(now),
		Notes:          q.notes,
		Totals:         q.Totals(),
		Lines:          make([]QuoteLineView, 0, len(q.lines)),
	}
	for _, l := range q.lines {
		v.Lines = append(v.Lines, QuoteLineView{
			LineNumber:      l.lineNumber,
			ProductID:       l.productID,
			Quantity:        l.quantity,
			UnitPrice:       l.unitPrice,
			DiscountPercent: l.discountPercent,
			TaxPercent:      l.taxPercent,
			NetAmount:       l.NetAmount().Round(2),
			TaxAmount:       l.TaxAmount().Round(2),
			PersistedTotal:  l.persistedTotal,
		})
	}
	return v
}

// ── Persistencia ─────────────────────────────────────────────────────────────

// QuoteSnapshot estado completo del agregado para el repositorio.
type QuoteSnapshot struct {
	ID             string
	CompanyID      string
	Number         string
	CustomerID     string
	SellerID       string
	ParentQuoteID  string
	IssueDate      time.Time
	ExpirationDate *time.Time
	EmittedAt      *time.Time
	State          QuoteState
	Notes          string
	Subtotal       decimal.Decimal
	TotalTax       decimal.Decimal
	Total          decimal.Decimal
	Withholding    decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Lines          []QuoteLineSnapshot
}

// Snapshot exporta el estado del agregado, líneas incluidas.
func (q *Quote) Snapshot() QuoteSnapshot {
	s := QuoteSnapshot{
		ID:             q.id,
		CompanyID:      q.companyID,
		Number:         q.number,
		CustomerID:     q.customerID,
		SellerID:       q.sellerID,
		ParentQuoteID:  q.parentQuoteID,
		IssueDate:      q.issueDate,
		ExpirationDate: copyTime(q.expirationDate),
		EmittedAt:      copyTime(q.emittedAt),
		State:          q.state,
		Notes:          q.notes,
		Subtotal:       q.subtotal,
		TotalTax:       q.totalTax,
		Total:          q.total,
		Withholding:    q.withholding,
		Version:        q.version,
		CreatedAt:      q.createdAt,
		UpdatedAt:      q.updatedAt,
		Lines:          make([]QuoteLineSnapshot, 0, len(q.lines)),
	}
	for _, l := range q.lines {
		s.Lines = append(s.Lines, l.Snapshot())
	}
	return s
}

// HydrateQuote reconstruye el agregado desde el repositorio sin reglas de negocio:
// solo exige un ID. Las líneas se ordenan por su número grabado.
func HydrateQuote(s QuoteSnapshot) (*Quote, error) {
	if isZeroID(s.ID) {
		return nil, domain.NewValidationError("id", "es obligatorio")
	}
	q := &Quote{
		id:             s.ID,
		companyID:      s.CompanyID,
		number:         s.Number,
		customerID:     s.CustomerID,
		sellerID:       s.SellerID,
		parentQuoteID:  s.ParentQuoteID,
		issueDate:      s.IssueDate,
		expirationDate: copyTime(s.ExpirationDate),
		emittedAt:      copyTime(s.EmittedAt),
		state:          s.State,
		notes:          s.Notes,
		subtotal:       s.Subtotal,
		totalTax:       s.TotalTax,
		total:          s.Total,
		withholding:    s.Withholding,
		version:        s.Version,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
		lines:          make([]*QuoteLine, 0, len(s.Lines)),
	}
	for _, ls := range s.Lines {
		l, err := HydrateQuoteLine(ls)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", ls.LineNumber, err)
		}
		q.lines = append(q.lines, l)
	}
	sortLinesByNumber(q.lines)
	return q, nil
}

func sortLinesByNumber(lines []*QuoteLine) {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].lineNumber < lines[j].lineNumber })
}
