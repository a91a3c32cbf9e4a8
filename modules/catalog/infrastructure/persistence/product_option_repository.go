package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

const (
	optionFindQuery = `
		SELECT
			o.id,
			o.tenant_id,
			o.product_id,
			o.option_name,
			o.option_code,
			o.description,
			o.attributes,
			o.is_active,
			o.sort_order,
			o.created_at,
			o.updated_at
		FROM product_options o`

	optionCodeExistsQuery = `SELECT 1 FROM product_options o WHERE o.tenant_id = $1 AND o.product_id = $2 AND o.option_code = $3`
	optionNameExistsQuery = `SELECT 1 FROM product_options o WHERE o.tenant_id = $1 AND o.product_id = $2 AND o.option_name = $3`

	optionInsertQuery = `
		INSERT INTO product_options (
			id, tenant_id, product_id, option_name, option_code, description,
			attributes, is_active, sort_order
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	optionUpdateQuery = `
		UPDATE product_options
		SET option_name = $3, description = $4, attributes = $5, is_active = $6,
			sort_order = $7, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	optionDeleteQuery = `DELETE FROM product_options WHERE id = $1 AND tenant_id = $2`
)

type PgProductOptionRepository struct{}

func NewProductOptionRepository() productoption.Repository {
	return &PgProductOptionRepository{}
}

func (g *PgProductOptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*productoption.Option, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, optionFindQuery+" WHERE o.id = $1 AND o.tenant_id = $2", id, tenantID)
	o, err := scanOption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, productoption.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query product option")
	}
	return o, nil
}

func (g *PgProductOptionRepository) ByProduct(ctx context.Context, productID uuid.UUID) ([]*productoption.Option, error) {
	return g.query(ctx, optionFindQuery+" WHERE o.tenant_id = $1 AND o.product_id = $2 ORDER BY o.sort_order ASC, o.option_name ASC", productID)
}

func (g *PgProductOptionRepository) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*productoption.Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return g.query(ctx, optionFindQuery+" WHERE o.tenant_id = $1 AND o.id = ANY($2)", ids)
}

func (g *PgProductOptionRepository) query(ctx context.Context, query string, extra ...any) ([]*productoption.Option, error) {
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
		return nil, errors.Wrap(err, "failed to query product options")
	}
	defer rows.Close()

	var out []*productoption.Option
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan product option")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (g *PgProductOptionRepository) CodeExists(ctx context.Context, productID uuid.UUID, code string) (bool, error) {
	return g.exists(ctx, optionCodeExistsQuery, productID, code)
}

func (g *PgProductOptionRepository) NameExists(ctx context.Context, productID uuid.UUID, name string) (bool, error) {
	return g.exists(ctx, optionNameExistsQuery, productID, name)
}

func (g *PgProductOptionRepository) exists(ctx context.Context, query string, productID uuid.UUID, value string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, query, tenantID, productID, value).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe product option")
	}
	return true, nil
}

func (g *PgProductOptionRepository) Create(ctx context.Context, o *productoption.Option) (*productoption.Option, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		optionInsertQuery,
		o.ID,
		o.TenantID,
		o.ProductID,
		o.OptionName,
		o.OptionCode,
		o.Description,
		o.Attributes,
		o.IsActive,
		o.SortOrder,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert product option")
	}
	return o, nil
}

func (g *PgProductOptionRepository) Update(ctx context.Context, o *productoption.Option) (*productoption.Option, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(
		ctx,
		optionUpdateQuery,
		o.ID,
		tenantID,
		o.OptionName,
		o.Description,
		o.Attributes,
		o.IsActive,
		o.SortOrder,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, productoption.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update product option")
	}
	return o, nil
}

func (g *PgProductOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, optionDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete product option")
	}
	if tag.RowsAffected() == 0 {
		return productoption.ErrNotFound
	}
	return nil
}

func scanOption(row pgx.Row) (*productoption.Option, error) {
	var o productoption.Option
	if err := row.Scan(
		&o.ID,
		&o.TenantID,
		&o.ProductID,
		&o.OptionName,
		&o.OptionCode,
		&o.Description,
		&o.Attributes,
		&o.IsActive,
		&o.SortOrder,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
