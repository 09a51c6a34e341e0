package quoting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
	"github.com/jhoicas/Presupuestos-api/pkg/logger"
)

// QuoteUseCase casos de uso del ciclo de vida de un presupuesto. Toda escritura lee el
// agregado, lo modifica y lo graba dentro de una misma transacción.
type QuoteUseCase struct {
	txRunner     QuotingTxRunner
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	companyRepo  repository.CompanyRepository
	productRepo  repository.ProductRepository
	priceRepo    repository.PriceListRepository
	cfg          Config
	clock        Clock
	log          *logger.Logger
}

// NewQuoteUseCase construye el caso de uso. clock nil usa time.Now.
func NewQuoteUseCase(
	txRunner QuotingTxRunner,
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	priceRepo repository.PriceListRepository,
	cfg Config,
	clock Clock,
	log *logger.Logger,
) *QuoteUseCase {
	if clock == nil {
		clock = time.Now
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "P"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &QuoteUseCase{
		txRunner:     txRunner,
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		companyRepo:  companyRepo,
		productRepo:  productRepo,
		priceRepo:    priceRepo,
		cfg:          cfg,
		clock:        clock,
		log:          log.Component("quoting"),
	}
}

// ── Creación ─────────────────────────────────────────────────────────────────

// Create crea un presupuesto Emitido con sus líneas y totales grabados.
func (uc *QuoteUseCase) Create(ctx context.Context, companyID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	customer, err := uc.ownedCustomer(ctx, companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if in.SellerID != "" {
		if _, err := uc.ownedVendor(ctx, companyID, in.SellerID); err != nil {
			return nil, err
		}
	}
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	issueDate := now
	if in.IssueDate != nil {
		issueDate = *in.IssueDate
	}
	number := in.Number
	if number == "" {
		number = uc.generateNumber(now)
	}

	q, err := entity.NewQuote(companyID, number, customer.ID, issueDate)
	if err != nil {
		return nil, err
	}
	if err := uc.applyHeader(q, in, issueDate); err != nil {
		return nil, err
	}

	var prices entity.PriceSource
	for _, line := range in.Lines {
		if line.SeedPrice && prices == nil {
			if prices, err = uc.activePriceList(ctx, companyID, issueDate); err != nil {
				return nil, err
			}
		}
		l, err := uc.buildLine(ctx, companyID, line, prices)
		if err != nil {
			return nil, err
		}
		if _, err := q.AddLine(l); err != nil {
			return nil, err
		}
	}
	if err := commitTotals(q, customer, company); err != nil {
		return nil, err
	}

	err = uc.txRunner.RunQuoting(ctx, func(quotes repository.QuoteRepository) error {
		existing, err := quotes.GetByCompanyAndNumber(ctx, companyID, q.Number())
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe el presupuesto %s", domain.ErrDuplicate, q.Number())
		}
		return quotes.Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("quote_id", q.ID()).
		Str("number", q.Number()).
		Int("lines", q.LineCount()).
		Str("total", q.Totals().Total.StringFixed(2)).
		Msg("presupuesto creado")
	return toQuoteResponse(q, uc.clock()), nil
}

func (uc *QuoteUseCase) applyHeader(q *entity.Quote, in dto.CreateQuoteRequest, issueDate time.Time) error {
	switch {
	case in.ExpirationDate != nil:
		if err := q.SetExpirationDate(*in.ExpirationDate); err != nil {
			return err
		}
	case uc.cfg.DefaultValidityDays > 0:
		if err := q.SetExpirationDate(issueDate.AddDate(0, 0, uc.cfg.DefaultValidityDays)); err != nil {
			return err
		}
	}
	if err := q.SetSeller(in.SellerID); err != nil {
		return err
	}
	return q.SetNotes(in.Notes)
}

func (uc *QuoteUseCase) buildLine(ctx context.Context, companyID string, in dto.QuoteLineRequest, prices entity.PriceSource) (*entity.QuoteLine, error) {
	product, err := uc.ownedProduct(ctx, companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.SeedPrice {
		return entity.NewSeededQuoteLine(product.ID, in.Quantity, in.DiscountPercent, in.TaxPercent, prices)
	}
	return entity.NewQuoteLine(product.ID, in.Quantity, in.UnitPrice, in.DiscountPercent, in.TaxPercent)
}

// Copy crea un presupuesto nuevo a partir de otro (de cualquier estado salvo Eliminado).
func (uc *QuoteUseCase) Copy(ctx context.Context, companyID, quoteID string, in dto.CopyQuoteRequest) (*dto.QuoteResponse, error) {
	src, err := uc.ownedQuote(ctx, uc.quoteRepo, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	if src.State() == entity.QuoteStateDeleted {
		return nil, fmt.Errorf("%w: no se puede copiar un presupuesto eliminado", domain.ErrInvalidArgument)
	}
	customer, err := uc.ownedCustomer(ctx, companyID, src.CustomerID())
	if err != nil {
		return nil, err
	}
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	number := in.Number
	if number == "" {
		number = uc.generateNumber(now)
	}
	c, err := src.CopyAsNew(number, now)
	if err != nil {
		return nil, err
	}
	if err := commitTotals(c, customer, company); err != nil {
		return nil, err
	}
	err = uc.txRunner.RunQuoting(ctx, func(quotes repository.QuoteRepository) error {
		existing, err := quotes.GetByCompanyAndNumber(ctx, companyID, c.Number())
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe el presupuesto %s", domain.ErrDuplicate, c.Number())
		}
		return quotes.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote_id", c.ID()).Str("parent_quote_id", c.ParentQuoteID()).Msg("presupuesto copiado")
	return toQuoteResponse(c, uc.clock()), nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

// Get devuelve el presupuesto con su estado efectivo a la fecha actual.
func (uc *QuoteUseCase) Get(ctx context.Context, companyID, quoteID string) (*dto.QuoteResponse, error) {
	q, err := uc.ownedQuote(ctx, uc.quoteRepo, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, uc.clock()), nil
}

// List lista presupuestos de la empresa. El estado informado es el efectivo.
func (uc *QuoteUseCase) List(ctx context.Context, companyID string, filter repository.QuoteFilter) (*dto.QuoteListResponse, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}
	page.Normalize()
	filter.CompanyID = companyID
	filter.Limit, filter.Offset = page.Limit, page.Offset

	list, err := uc.quoteRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	items := make([]dto.QuoteSummary, 0, len(list))
	for _, q := range list {
		items = append(items, dto.QuoteSummary{
			ID:         q.ID(),
			Number:     q.Number(),
			CustomerID: q.CustomerID(),
			IssueDate:  q.IssueDate(),
			State:      q.EffectiveState(now).String(),
			Total:      q.Totals().Total,
		})
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ── Líneas ───────────────────────────────────────────────────────────────────

// AddLine agrega una línea al final. No modifica los totales grabados.
func (uc *QuoteUseCase) AddLine(ctx context.Context, companyID, quoteID string, version int64, in dto.QuoteLineRequest) (*dto.QuoteResponse, error) {
	var prices entity.PriceSource
	if in.SeedPrice {
		pl, err := uc.activePriceList(ctx, companyID, uc.clock())
		if err != nil {
			return nil, err
		}
		prices = pl
	}
	line, err := uc.buildLine(ctx, companyID, in, prices)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, companyID, quoteID, version, "agregar línea", func(q *entity.Quote) error {
		_, err := q.AddLine(line)
		return err
	})
}

// UpdateLine cambia los importes de una línea y recalcula su total.
func (uc *QuoteUseCase) UpdateLine(ctx context.Context, companyID, quoteID, lineID string, in dto.UpdateQuoteLineRequest) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, in.Version, "modificar línea", func(q *entity.Quote) error {
		_, err := q.UpdateLine(lineID, in.Quantity, in.UnitPrice, in.DiscountPercent, in.TaxPercent)
		return err
	})
}

// RemoveLine quita una línea; las restantes se renumeran.
func (uc *QuoteUseCase) RemoveLine(ctx context.Context, companyID, quoteID, lineID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "quitar línea", func(q *entity.Quote) error {
		return q.RemoveLine(lineID)
	})
}

// ── Ciclo de vida ────────────────────────────────────────────────────────────

// Emit confirma la emisión: valida que el cliente y el vendedor existan y graba los totales.
func (uc *QuoteUseCase) Emit(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "emitir", func(q *entity.Quote) error {
		if err := uc.rejectExpired(q, entity.QuoteStateIssued); err != nil {
			return err
		}
		customer, company, err := uc.resolveParties(ctx, q)
		if err != nil {
			return err
		}
		if err := q.Emit(); err != nil {
			return err
		}
		return commitTotals(q, customer, company)
	})
}

// Approve aprueba un presupuesto emitido y vigente.
func (uc *QuoteUseCase) Approve(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "aprobar", func(q *entity.Quote) error {
		if err := uc.rejectExpired(q, entity.QuoteStateApproved); err != nil {
			return err
		}
		return q.Approve()
	})
}

// Reject rechaza un presupuesto emitido.
func (uc *QuoteUseCase) Reject(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "rechazar", func(q *entity.Quote) error {
		return q.Reject()
	})
}

// Invoice graba los totales definitivos (con percepción ARBA) y pasa el presupuesto a Facturado.
func (uc *QuoteUseCase) Invoice(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "facturar", func(q *entity.Quote) error {
		if err := uc.rejectExpired(q, entity.QuoteStateInvoiced); err != nil {
			return err
		}
		if q.State() != entity.QuoteStateApproved {
			return &domain.TransitionError{From: q.State().String(), To: entity.QuoteStateInvoiced.String()}
		}
		customer, company, err := uc.resolveParties(ctx, q)
		if err != nil {
			return err
		}
		if err := commitTotals(q, customer, company); err != nil {
			return err
		}
		return q.Invoice()
	})
}

// Delete es la baja lógica (Eliminado).
func (uc *QuoteUseCase) Delete(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "eliminar", func(q *entity.Quote) error {
		return q.Delete()
	})
}

// RecalculateTotals vuelve a calcular los totales desde las líneas y los graba.
// Antes informa en el log si los totales grabados no eran coherentes.
func (uc *QuoteUseCase) RecalculateTotals(ctx context.Context, companyID, quoteID string, version int64) (*dto.QuoteResponse, error) {
	return uc.mutate(ctx, companyID, quoteID, version, "recalcular totales", func(q *entity.Quote) error {
		if err := q.CheckTotalsConsistency(); err != nil {
			uc.log.Warn().Str("quote_id", q.ID()).Err(err).Msg("totales grabados inconsistentes")
		}
		customer, company, err := uc.resolveParties(ctx, q)
		if err != nil {
			return err
		}
		return commitTotals(q, customer, company)
	})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// mutate lee el presupuesto dentro de la transacción, verifica la versión esperada
// (0 = sin verificación), aplica fn y graba.
func (uc *QuoteUseCase) mutate(
	ctx context.Context,
	companyID, quoteID string,
	expectedVersion int64,
	action string,
	fn func(q *entity.Quote) error,
) (*dto.QuoteResponse, error) {
	var result *entity.Quote
	var from entity.QuoteState
	err := uc.txRunner.RunQuoting(ctx, func(quotes repository.QuoteRepository) error {
		q, err := uc.ownedQuote(ctx, quotes, companyID, quoteID)
		if err != nil {
			return err
		}
		if expectedVersion != 0 && q.Version() != expectedVersion {
			return fmt.Errorf("%w: versión %d, actual %d", domain.ErrConflict, expectedVersion, q.Version())
		}
		from = q.State()
		if err := fn(q); err != nil {
			return err
		}
		if err := quotes.Update(ctx, q); err != nil {
			return err
		}
		result = q
		return nil
	})
	if err != nil {
		uc.log.Debug().Str("quote_id", quoteID).Str("action", action).Err(err).Msg("operación rechazada")
		return nil, err
	}

	ev := uc.log.Info().Str("quote_id", result.ID()).Str("action", action).Int64("version", result.Version())
	if from != result.State() {
		ev = ev.Str("from", from.String()).Str("to", result.State().String())
	}
	ev.Msg("presupuesto actualizado")
	return toQuoteResponse(result, uc.clock()), nil
}

// rejectExpired impide avanzar un presupuesto vencido.
func (uc *QuoteUseCase) rejectExpired(q *entity.Quote, target entity.QuoteState) error {
	if q.IsExpired(uc.clock()) {
		return &domain.TransitionError{From: entity.QuoteStateExpired.String(), To: target.String()}
	}
	return nil
}

// resolveParties carga cliente, vendedor (si tiene) y empresa del presupuesto.
func (uc *QuoteUseCase) resolveParties(ctx context.Context, q *entity.Quote) (*entity.Customer, *entity.Company, error) {
	customer, err := uc.ownedCustomer(ctx, q.CompanyID(), q.CustomerID())
	if err != nil {
		return nil, nil, err
	}
	if q.SellerID() != "" {
		if _, err := uc.ownedVendor(ctx, q.CompanyID(), q.SellerID()); err != nil {
			return nil, nil, err
		}
	}
	company, err := uc.company(ctx, q.CompanyID())
	if err != nil {
		return nil, nil, err
	}
	return customer, company, nil
}

func (uc *QuoteUseCase) ownedQuote(ctx context.Context, quotes repository.QuoteRepository, companyID, quoteID string) (*entity.Quote, error) {
	if guard.UUID(quoteID) != nil {
		return nil, fmt.Errorf("%w: presupuesto %s", domain.ErrNotFound, quoteID)
	}
	q, err := quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: presupuesto %s", domain.ErrNotFound, quoteID)
	}
	if q.CompanyID() != companyID {
		return nil, domain.ErrForbidden
	}
	return q, nil
}

func (uc *QuoteUseCase) ownedCustomer(ctx context.Context, companyID, customerID string) (*entity.Customer, error) {
	customerID, err := guard.Check("customerId", customerID, guard.Trim, guard.Required, guard.UUID)
	if err != nil {
		return nil, err
	}
	c, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, customerID)
	}
	if c.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (uc *QuoteUseCase) ownedVendor(ctx context.Context, companyID, vendorID string) (*entity.Vendor, error) {
	if _, err := guard.Check("sellerId", vendorID, nil, guard.UUID); err != nil {
		return nil, err
	}
	v, err := uc.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.CompanyID != companyID {
		return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, vendorID)
	}
	return v, nil
}

// ownedProduct resuelve el producto de una línea: tiene que existir y ser de la empresa.
func (uc *QuoteUseCase) ownedProduct(ctx context.Context, companyID, productID string) (*entity.Product, error) {
	productID, err := guard.Check("productId", productID, guard.Trim, guard.Required, guard.UUID)
	if err != nil {
		return nil, err
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (uc *QuoteUseCase) company(ctx context.Context, companyID string) (*entity.Company, error) {
	c, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, companyID)
	}
	return c, nil
}

func (uc *QuoteUseCase) activePriceList(ctx context.Context, companyID string, at time.Time) (*entity.PriceList, error) {
	pl, err := uc.priceRepo.GetActive(ctx, companyID, at)
	if err != nil {
		return nil, err
	}
	if pl == nil {
		return nil, fmt.Errorf("%w: no hay lista de precios vigente", domain.ErrNotFound)
	}
	return pl, nil
}

func (uc *QuoteUseCase) generateNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d", uc.cfg.NumberPrefix, now.UnixMilli())
}

func toQuoteResponse(q *entity.Quote, now time.Time) *dto.QuoteResponse {
	v := q.View(now)
	out := &dto.QuoteResponse{
		ID:                   q.ID(),
		CompanyID:            q.CompanyID(),
		Number:               v.Number,
		CustomerID:           v.CustomerID,
		SellerID:             v.SellerID,
		ParentQuoteID:        v.ParentQuoteID,
		IssueDate:            v.IssueDate,
		ExpirationDate:       v.ExpirationDate,
		EmittedAt:            q.EmittedAt(),
		State:                v.State.String(),
		StateCode:            int(v.State),
		Notes:                v.Notes,
		Subtotal:             v.Totals.Subtotal,
		TotalTax:             v.Totals.TotalTax,
		TaxWithholdingAmount: v.Totals.Withholding,
		Total:                v.Totals.Total,
		Version:              q.Version(),
		Lines:                make([]dto.QuoteLineResponse, 0, len(v.Lines)),
	}
	for _, l := range q.Lines() {
		out.Lines = append(out.Lines, dto.QuoteLineResponse{
			ID:              l.ID(),
			LineNumber:      l.LineNumber(),
			ProductID:       l.ProductID(),
			Quantity:        l.Quantity(),
			UnitPrice:       l.UnitPrice(),
			DiscountPercent: l.DiscountPercent(),
			TaxPercent:      l.TaxPercent(),
			NetAmount:       l.NetAmount().Round(2),
			TaxAmount:       l.TaxAmount().Round(2),
			Total:           l.PersistedTotal(),
		})
	}
	return out
}
