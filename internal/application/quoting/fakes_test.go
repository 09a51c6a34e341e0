package quoting_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

// ── Presupuestos: se guardan como snapshots para no compartir punteros ───────

type fakeQuoteRepo struct {
	mu   sync.Mutex
	rows map[string]entity.QuoteSnapshot
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{rows: make(map[string]entity.QuoteSnapshot)}
}

func (r *fakeQuoteRepo) Create(_ context.Context, q *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.CompanyID == q.CompanyID() && s.Number == q.Number() {
			return domain.ErrDuplicate
		}
	}
	q.SetVersion(1)
	r.rows[q.ID()] = q.Snapshot()
	return nil
}

func (r *fakeQuoteRepo) Update(_ context.Context, q *entity.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[q.ID()]
	if !ok {
		return domain.ErrNotFound
	}
	if row.Version != q.Version() {
		return domain.ErrConflict
	}
	q.SetVersion(row.Version + 1)
	r.rows[q.ID()] = q.Snapshot()
	return nil
}

func (r *fakeQuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return entity.HydrateQuote(row)
}

func (r *fakeQuoteRepo) GetByCompanyAndNumber(_ context.Context, companyID, number string) (*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.CompanyID == companyID && s.Number == number {
			return entity.HydrateQuote(s)
		}
	}
	return nil, nil
}

func (r *fakeQuoteRepo) List(_ context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Quote
	for _, s := range r.rows {
		if s.CompanyID != f.CompanyID || (f.State != 0 && s.State != f.State) {
			continue
		}
		q, err := entity.HydrateQuote(s)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// bump simula una escritura concurrente de otra sesión.
func (r *fakeQuoteRepo) bump(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.rows[id]
	row.Version++
	r.rows[id] = row
}

// fakeTx restaura el estado del repositorio si fn falla.
type fakeTx struct {
	repo *fakeQuoteRepo
}

func (t *fakeTx) RunQuoting(_ context.Context, fn func(quotes repository.QuoteRepository) error) error {
	t.repo.mu.Lock()
	backup := make(map[string]entity.QuoteSnapshot, len(t.repo.rows))
	for k, v := range t.repo.rows {
		backup[k] = v
	}
	t.repo.mu.Unlock()

	if err := fn(t.repo); err != nil {
		t.repo.mu.Lock()
		t.repo.rows = backup
		t.repo.mu.Unlock()
		return err
	}
	return nil
}

// ── Colaboradores ────────────────────────────────────────────────────────────

type fakeCustomerRepo struct {
	byID map[string]*entity.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.byID[id], nil
}

func (r *fakeCustomerRepo) GetByCompanyAndCUIT(_ context.Context, companyID, cuit string) (*entity.Customer, error) {
	for _, c := range r.byID {
		if c.CompanyID == companyID && c.CUIT == cuit {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) UpdateARBAAliquot(_ context.Context, cuit string, aliquot decimal.Decimal) (int64, error) {
	var n int64
	for _, c := range r.byID {
		if c.CUIT == cuit {
			c.ARBAAliquot = aliquot
			n++
		}
	}
	return n, nil
}

type fakeVendorRepo struct {
	byID map[string]*entity.Vendor
}

func (r *fakeVendorRepo) Create(_ context.Context, v *entity.Vendor) error {
	r.byID[v.ID] = v
	return nil
}

func (r *fakeVendorRepo) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	return r.byID[id], nil
}

func (r *fakeVendorRepo) GetByCompanyAndCUIT(_ context.Context, companyID, cuit string) (*entity.Vendor, error) {
	for _, v := range r.byID {
		if v.CompanyID == companyID && v.CUIT == cuit {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVendorRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	for _, v := range r.byID {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeCompanyRepo struct {
	byID map[string]*entity.Company
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.byID[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.byID[id], nil
}

func (r *fakeCompanyRepo) GetByCUIT(_ context.Context, cuit string) (*entity.Company, error) {
	for _, c := range r.byID {
		if c.CUIT == cuit {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.byID[c.ID] = c
	return nil
}

type fakePriceRepo struct {
	list *entity.PriceList
}

func (r *fakePriceRepo) GetActive(_ context.Context, companyID string, at time.Time) (*entity.PriceList, error) {
	if r.list == nil || r.list.CompanyID != companyID || !r.list.IsActiveOn(at) {
		return nil, nil
	}
	return r.list, nil
}

type fakeProductRepo struct {
	byID map[string]*entity.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.byID[id], nil
}

func (r *fakeProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePDFGenerator struct {
	last *quoting.QuoteDocument
}

func (g *fakePDFGenerator) GenerateQuotePDF(_ context.Context, doc quoting.QuoteDocument) ([]byte, error) {
	g.last = &doc
	return []byte("%PDF-fake"), nil
}
