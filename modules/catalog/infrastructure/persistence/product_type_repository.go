package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

const productTypeFindQuery = `
	SELECT pt.id, pt.tenant_id, pt.code, pt.name, pt.code_prefix, pt.created_at
	FROM product_types pt`

type PgProductTypeRepository struct{}

func NewProductTypeRepository() producttype.Repository {
	return &PgProductTypeRepository{}
}

func (g *PgProductTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*producttype.ProductType, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, productTypeFindQuery+" WHERE pt.id = $1 AND pt.tenant_id = $2", id, tenantID)
	pt, err := scanProductType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, producttype.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query product type")
	}
	return pt, nil
}

func (g *PgProductTypeRepository) GetAll(ctx context.Context) ([]*producttype.ProductType, error) {
	return g.query(ctx, productTypeFindQuery+" WHERE pt.tenant_id = $1 ORDER BY pt.name ASC")
}

func (g *PgProductTypeRepository) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*producttype.ProductType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return g.query(ctx, productTypeFindQuery+" WHERE pt.tenant_id = $1 AND pt.id = ANY($2)", ids)
}

func (g *PgProductTypeRepository) query(ctx context.Context, query string, extra ...any) ([]*producttype.ProductType, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	args := append([]any{tenantID}, extra...)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query product types")
	}
	defer rows.Close()

	var out []*producttype.ProductType
	for rows.Next() {
		pt, err := scanProductType(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan product type")
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func scanProductType(row pgx.Row) (*producttype.ProductType, error) {
	var pt producttype.ProductType
	if err := row.Scan(&pt.ID, &pt.TenantID, &pt.Code, &pt.Name, &pt.CodePrefix, &pt.CreatedAt); err != nil {
		return nil, err
	}
	return &pt, nil
}
