package quoting_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Presupuestos-api/internal/application/dto"
	"github.com/jhoicas/Presupuestos-api/internal/application/quoting"
	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/pkg/afip"
	"github.com/jhoicas/Presupuestos-api/pkg/arba"
	"github.com/jhoicas/Presupuestos-api/pkg/logger"
)

func TestCustomerCreate(t *testing.T) {
	repo := &fakeCustomerRepo{byID: map[string]*entity.Customer{}}
	uc := quoting.NewCustomerUseCase(repo, logger.Nop())
	ctx := context.Background()

	in := dto.CreateCustomerRequest{
		BusinessName: "Ferretería Sur SRL",
		CUIT:         "30-50001091-2",
		IVACondition: afip.IVAResponsableInscripto,
		ARBAAliquot:  d("2.5"),
	}
	out, err := uc.Create(ctx, companyID, in)
	require.NoError(t, err)
	assert.Equal(t, "30-50001091-2", out.CUIT)
	assert.Equal(t, "IVA Responsable Inscripto", out.IVAConditionName)

	_, err = uc.Create(ctx, companyID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "mismo CUIT en la empresa")

	in.CUIT = "30-50001091-3"
	_, err = uc.Create(ctx, companyID, in)
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
}

func TestApplyARBAPadron(t *testing.T) {
	repo := &fakeCustomerRepo{byID: map[string]*entity.Customer{
		"c1": {ID: "c1", CompanyID: companyID, CUIT: "20123456786", IVACondition: afip.IVAMonotributo},
		"c2": {ID: "c2", CompanyID: companyID, CUIT: "20000000019", IVACondition: afip.IVAResponsableInscripto, ARBAAliquot: d("4")},
	}}
	uc := quoting.NewCustomerUseCase(repo, logger.Nop())

	padron := "P;25102024;01112024;30112024;20123456786;D;S;N;1,75;00;\n" +
		"P;25102024;01112024;30112024;30500010912;C;N;S;3,00;05;\n" +
		"P;25102024;01112024;30112024;20123456785;D;S;N;1,75;00;\n"
	parsed, err := arba.ParsePadron(bytes.NewBufferString(padron))
	require.NoError(t, err)

	res, err := uc.ApplyARBAPadron(context.Background(), parsed, time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, int64(1), res.Updated, "sólo c1 está en el padrón")
	assert.Equal(t, 1, res.Rejected)

	assert.True(t, repo.byID["c1"].ARBAAliquot.Equal(d("1.75")))
	assert.True(t, repo.byID["c2"].ARBAAliquot.Equal(d("4")), "sin cambios")
}

// ── PDF ──────────────────────────────────────────────────────────────────────

func TestDownloadQuotePDF(t *testing.T) {
	f := newFixture(t)
	q := f.create(t)
	// La ficha pasó a otra empresa después de cargar la línea: su nombre no se imprime.
	f.products.byID[bitsID].CompanyID = otherCompanyID

	gen := &fakePDFGenerator{}
	uc := quoting.NewPDFUseCase(f.quotes, f.companies, f.customers, f.vendors, f.products, gen, func() time.Time { return f.now })

	data, filename, err := uc.DownloadQuotePDF(context.Background(), companyID, q.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "presupuesto_"+q.Number+".pdf", filename)

	require.NotNil(t, gen.last)
	assert.Equal(t, "Taladro percutor", gen.last.ProductNames[drillID])
	assert.Equal(t, "Producto "+bitsID, gen.last.ProductNames[bitsID], "ficha de otra empresa")
	require.NotNil(t, gen.last.Seller)
	assert.Equal(t, "Juan Pérez", gen.last.Seller.Name)
	assert.Equal(t, entity.QuoteStateIssued, gen.last.Quote.State)
}

func TestDownloadQuotePDF_Errores(t *testing.T) {
	f := newFixture(t)
	q := f.create(t)
	uc := quoting.NewPDFUseCase(f.quotes, f.companies, f.customers, f.vendors, f.products, &fakePDFGenerator{}, nil)
	ctx := context.Background()

	_, _, err := uc.DownloadQuotePDF(ctx, otherCompanyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.DownloadQuotePDF(ctx, companyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Delete(ctx, companyID, q.ID, 0)
	require.NoError(t, err)
	_, _, err = uc.DownloadQuotePDF(ctx, companyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument, "eliminado")
}
