package quoting

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/guard"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

// PDFUseCase genera la representación impresa (PDF) de un presupuesto.
// Los presupuestos eliminados no se imprimen.
type PDFUseCase struct {
	quoteRepo    repository.QuoteRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	productRepo  repository.ProductRepository
	generator    QuotePDFGenerator
	clock        Clock
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	quoteRepo repository.QuoteRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
	generator QuotePDFGenerator,
	clock Clock,
) *PDFUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &PDFUseCase{
		quoteRepo:    quoteRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		productRepo:  productRepo,
		generator:    generator,
		clock:        clock,
	}
}

// DownloadQuotePDF arma el documento del presupuesto y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el presupuesto no existe.
//   - domain.ErrForbidden        si pertenece a otra empresa.
//   - domain.ErrInvalidArgument  si está eliminado.
func (uc *PDFUseCase) DownloadQuotePDF(ctx context.Context, companyID, quoteID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Presupuesto ────────────────────────────────────────────────────────
	if guard.UUID(quoteID) != nil {
		return nil, "", domain.ErrNotFound
	}
	q, err := uc.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener presupuesto: %w", err)
	}
	if q == nil {
		return nil, "", domain.ErrNotFound
	}
	if q.CompanyID() != companyID {
		return nil, "", domain.ErrForbidden
	}
	if q.State() == entity.QuoteStateDeleted {
		return nil, "", fmt.Errorf("%w: el presupuesto %s está eliminado", domain.ErrInvalidArgument, q.Number())
	}

	// ── 2. Empresa y cliente ──────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", fmt.Errorf("pdf: %w: empresa %s", domain.ErrNotFound, companyID)
	}
	customer, err := uc.customerRepo.GetByID(ctx, q.CustomerID())
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", fmt.Errorf("pdf: %w: cliente %s", domain.ErrNotFound, q.CustomerID())
	}

	// ── 3. Vendedor (opcional) ────────────────────────────────────────────────
	var seller *entity.Vendor
	if q.SellerID() != "" {
		if seller, err = uc.vendorRepo.GetByID(ctx, q.SellerID()); err != nil {
			return nil, "", fmt.Errorf("pdf: obtener vendedor: %w", err)
		}
	}

	// ── 4. Nombres de producto (sólo fichas de la propia empresa) ────────────
	view := q.View(uc.clock())
	names := make(map[string]string, len(view.Lines))
	for _, l := range view.Lines {
		if _, ok := names[l.ProductID]; ok {
			continue
		}
		name := "Producto " + l.ProductID
		if p, pErr := uc.productRepo.GetByID(ctx, l.ProductID); pErr == nil && p != nil && p.CompanyID == companyID {
			name = p.Name
		}
		names[l.ProductID] = name
	}

	// ── 5. Generar ────────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateQuotePDF(ctx, QuoteDocument{
		Quote:        view,
		Company:      company,
		Customer:     customer,
		Seller:       seller,
		ProductNames: names,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("presupuesto_%s.pdf", q.Number()), nil
}
