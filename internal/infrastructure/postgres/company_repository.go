package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

const companyColumns = `id, name, cuit, COALESCE(iibb_number, ''), iva_condition, point_of_sale,
	activity_start_date, arba_agent, COALESCE(address, ''), COALESCE(phone, ''), COALESCE(email, ''),
	status, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.ID, &c.Name, &c.CUIT, &c.IIBBNumber, &c.IVACondition, &c.PointOfSale,
		&c.ActivityStartDate, &c.ARBAAgent, &c.Address, &c.Phone, &c.Email,
		&c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, cuit, iibb_number, iva_condition, point_of_sale, activity_start_date,
		                       arba_agent, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, company.CUIT, nullIfEmpty(company.IIBBNumber), company.IVACondition,
		company.PointOfSale, company.ActivityStartDate, company.ARBAAgent,
		nullIfEmpty(company.Address), nullIfEmpty(company.Phone), nullIfEmpty(company.Email),
		company.Status, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByCUIT obtiene una empresa por CUIT (sin guiones).
func (r *CompanyRepo) GetByCUIT(ctx context.Context, cuit string) (*entity.Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE cuit = $1`, cuit))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by cuit: %w", err)
	}
	return c, nil
}

// Update actualiza la configuración fiscal. El CUIT no cambia.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, iibb_number = $3, iva_condition = $4, point_of_sale = $5, arba_agent = $6,
		    address = $7, phone = $8, email = $9, status = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, nullIfEmpty(company.IIBBNumber), company.IVACondition, company.PointOfSale,
		company.ARBAAgent, nullIfEmpty(company.Address), nullIfEmpty(company.Phone), nullIfEmpty(company.Email),
		company.Status, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
