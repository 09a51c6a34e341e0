package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Presupuestos-api/internal/domain"
	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, company_id, name, cuit, commission_percent, active, created_at, updated_at`

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := row.Scan(&v.ID, &v.CompanyID, &v.Name, &v.CUIT, &v.CommissionPercent, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste un vendedor.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO vendors (`+vendorColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.CompanyID, v.Name, v.CUIT, v.CommissionPercent, v.Active, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor por ID.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// GetByCompanyAndCUIT obtiene un vendedor por empresa y CUIT.
func (r *VendorRepo) GetByCompanyAndCUIT(ctx context.Context, companyID, cuit string) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 AND cuit = $2`, companyID, cuit))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by cuit: %w", err)
	}
	return v, nil
}

// ListByCompany lista vendedores de la empresa.
func (r *VendorRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vendor, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
