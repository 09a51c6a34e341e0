package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, business_name, cuit, iva_condition, arba_aliquot,
	COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.CompanyID, &c.BusinessName, &c.CUIT, &c.IVACondition, &c.ARBAAliquot,
		&c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, company_id, business_name, cuit, iva_condition, arba_aliquot, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.CompanyID, customer.BusinessName, customer.CUIT, customer.IVACondition, customer.ARBAAliquot,
		nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByCompanyAndCUIT obtiene un cliente por empresa y CUIT.
func (r *CustomerRepo) GetByCompanyAndCUIT(ctx context.Context, companyID, cuit string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND cuit = $2`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, companyID, cuit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by cuit: %w", err)
	}
	return c, nil
}

// ListByCompany lista clientes de la empresa con paginación.
func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 ORDER BY business_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers SET business_name = $2, cuit = $3, iva_condition = $4, arba_aliquot = $5,
		       email = $6, phone = $7, address = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.BusinessName, customer.CUIT, customer.IVACondition, customer.ARBAAliquot,
		nullIfEmpty(customer.Email), nullIfEmpty(customer.Phone), nullIfEmpty(customer.Address), customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// UpdateARBAAliquot aplica la alícuota del padrón a los clientes con ese CUIT, en todas las empresas.
func (r *CustomerRepo) UpdateARBAAliquot(ctx context.Context, cuit string, aliquot decimal.Decimal) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET arba_aliquot = $2, updated_at = NOW() WHERE cuit = $1 AND arba_aliquot <> $2`,
		cuit, aliquot)
	if err != nil {
		return 0, fmt.Errorf("update arba aliquot: %w", err)
	}
	return tag.RowsAffected(), nil
}
