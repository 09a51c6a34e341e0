package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx). Cabecera en quotes,
// líneas en quote_lines; la columna version es el token de concurrencia optimista.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, company_id, number, customer_id, seller_id, parent_quote_id,
	issue_date, expiration_date, emitted_at, state, notes,
	subtotal, total_tax, tax_withholding_amount, total, version, created_at, updated_at`

// Create persiste cabecera y líneas con version = 1.
func (r *QuoteRepo) Create(ctx context.Context, quote *entity.Quote) error {
	s := quote.Snapshot()
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.Number, s.CustomerID, nullIfEmpty(s.SellerID), nullIfEmpty(s.ParentQuoteID),
		s.IssueDate, s.ExpirationDate, s.EmittedAt, int(s.State), nullIfEmpty(s.Notes),
		s.Subtotal, s.TotalTax, s.Withholding, s.Total, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número %s", domain.ErrDuplicate, s.Number)
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	if err := r.insertLines(ctx, s.Lines); err != nil {
		return err
	}
	quote.SetVersion(1)
	return nil
}

// Update graba la cabecera solo si la versión no cambió desde la lectura y reemplaza las líneas.
// Devuelve domain.ErrConflict si otra escritura llegó antes.
func (r *QuoteRepo) Update(ctx context.Context, quote *entity.Quote) error {
	s := quote.Snapshot()
	query := `
		UPDATE quotes
		SET seller_id = $3, expiration_date = $4, emitted_at = $5, state = $6, notes = $7,
		    subtotal = $8, total_tax = $9, tax_withholding_amount = $10, total = $11,
		    updated_at = $12, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`
	var version int64
	err := r.q.QueryRow(ctx, query,
		s.ID, s.Version, nullIfEmpty(s.SellerID), s.ExpirationDate, s.EmittedAt, int(s.State), nullIfEmpty(s.Notes),
		s.Subtotal, s.TotalTax, s.Withholding, s.Total, s.UpdatedAt,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: presupuesto %s versión %d", domain.ErrConflict, s.ID, s.Version)
		}
		return fmt.Errorf("update quote: %w", err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM quote_lines WHERE quote_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete quote lines: %w", err)
	}
	if err := r.insertLines(ctx, s.Lines); err != nil {
		return err
	}
	quote.SetVersion(version)
	return nil
}

func (r *QuoteRepo) insertLines(ctx context.Context, lines []entity.QuoteLineSnapshot) error {
	query := `
		INSERT INTO quote_lines (id, quote_id, line_number, product_id, quantity, unit_price, discount_percent, tax_percent, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, query,
			l.ID, l.QuoteID, l.LineNumber, l.ProductID, l.Quantity, l.UnitPrice, l.DiscountPercent, l.TaxPercent, l.PersistedTotal,
		)
		if err != nil {
			return fmt.Errorf("insert quote line %d: %w", l.LineNumber, err)
		}
	}
	return nil
}

// GetByID obtiene el presupuesto con sus líneas. nil, nil si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.getOne(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
}

// GetByCompanyAndNumber busca por número dentro de la empresa.
func (r *QuoteRepo) GetByCompanyAndNumber(ctx context.Context, companyID, number string) (*entity.Quote, error) {
	return r.getOne(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE company_id = $1 AND number = $2`, companyID, number)
}

func (r *QuoteRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Quote, error) {
	s, err := scanQuote(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	lines, err := r.linesOf(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Lines = lines[s.ID]
	return entity.HydrateQuote(s)
}

// List devuelve los presupuestos que cumplen el filtro, más recientes primero.
func (r *QuoteRepo) List(ctx context.Context, filter repository.QuoteFilter) ([]*entity.Quote, error) {
	where := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		where = append(where, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if filter.State != 0 {
		args = append(args, int(filter.State))
		where = append(where, fmt.Sprintf("state = $%d", len(args)))
	}
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM quotes WHERE %s ORDER BY issue_date DESC, number DESC LIMIT $%d OFFSET $%d`,
		quoteColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	var snaps []entity.QuoteSnapshot
	for rows.Next() {
		s, err := scanQuote(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		snaps = append(snaps, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(snaps))
	for _, s := range snaps {
		ids = append(ids, s.ID)
	}
	lines, err := r.linesOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Quote, 0, len(snaps))
	for _, s := range snaps {
		s.Lines = lines[s.ID]
		q, err := entity.HydrateQuote(s)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, nil
}

func (r *QuoteRepo) linesOf(ctx context.Context, quoteIDs []string) (map[string][]entity.QuoteLineSnapshot, error) {
	query := `
		SELECT id, quote_id, line_number, product_id, quantity, unit_price, discount_percent, tax_percent, total
		FROM quote_lines WHERE quote_id = ANY($1) ORDER BY quote_id, line_number`
	rows, err := r.q.Query(ctx, query, quoteIDs)
	if err != nil {
		return nil, fmt.Errorf("list quote lines: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.QuoteLineSnapshot, len(quoteIDs))
	for rows.Next() {
		var l entity.QuoteLineSnapshot
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.LineNumber, &l.ProductID,
			&l.Quantity, &l.UnitPrice, &l.DiscountPercent, &l.TaxPercent, &l.PersistedTotal); err != nil {
			return nil, fmt.Errorf("scan quote line: %w", err)
		}
		out[l.QuoteID] = append(out[l.QuoteID], l)
	}
	return out, rows.Err()
}

func scanQuote(row pgx.Row) (entity.QuoteSnapshot, error) {
	var s entity.QuoteSnapshot
	var sellerID, parentID, notes *string
	var state int
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Number, &s.CustomerID, &sellerID, &parentID,
		&s.IssueDate, &s.ExpirationDate, &s.EmittedAt, &state, &notes,
		&s.Subtotal, &s.TotalTax, &s.Withholding, &s.Total, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}
	s.SellerID = derefString(sellerID)
	s.ParentQuoteID = derefString(parentID)
	s.Notes = derefString(notes)
	s.State = entity.QuoteState(state)
	return s, nil
}
