package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Presupuestos-api/internal/domain/entity"
	"github.com/jhoicas/Presupuestos-api/internal/domain/repository"
)

var _ repository.PriceListRepository = (*PriceListRepo)(nil)

// PriceListRepo lectura de listas de precios.
type PriceListRepo struct {
	q Querier
}

// NewPriceListRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceListRepository(q Querier) *PriceListRepo {
	return &PriceListRepo{q: q}
}

// GetActive devuelve la lista vigente en at (día calendario en entity.BusinessLocation).
// Si hay varias, gana la de inicio más reciente.
func (r *PriceListRepo) GetActive(ctx context.Context, companyID string, at time.Time) (*entity.PriceList, error) {
	query := `
		SELECT id, company_id, name, valid_from, valid_to, created_at, updated_at
		FROM price_lists
		WHERE company_id = $1
		  AND (valid_from IS NULL OR valid_from <= $2::date)
		  AND (valid_to IS NULL OR valid_to >= $2::date)
		ORDER BY valid_from DESC NULLS LAST
		LIMIT 1`
	day := at.In(entity.BusinessLocation).Format(time.DateOnly)
	var pl entity.PriceList
	err := r.q.QueryRow(ctx, query, companyID, day).Scan(
		&pl.ID, &pl.CompanyID, &pl.Name, &pl.ValidFrom, &pl.ValidTo, &pl.CreatedAt, &pl.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active price list: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT product_id, price FROM price_list_items WHERE price_list_id = $1`, pl.ID)
	if err != nil {
		return nil, fmt.Errorf("list price list items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.PriceListItem
		if err := rows.Scan(&item.ProductID, &item.Price); err != nil {
			return nil, fmt.Errorf("scan price list item: %w", err)
		}
		pl.Items = append(pl.Items, item)
	}
	return &pl, rows.Err()
}
