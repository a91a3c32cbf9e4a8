package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	productFindQuery = `
		SELECT
			p.id,
			p.tenant_id,
			p.product_type_id,
			p.name,
			p.code,
			p.description,
			p.location,
			p.attributes,
			p.event_id,
			p.tags,
			p.media,
			p.is_active,
			p.created_at,
			p.updated_at
		FROM products p`

	productCountQuery = `SELECT COUNT(p.id) FROM products p`

	productExistsQuery = `SELECT 1 FROM products p WHERE p.tenant_id = $1 AND p.product_type_id = $2 AND p.code = $3`

	productCountByEventQuery = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM products
		WHERE tenant_id = $1 AND event_id = $2`

	productInsertQuery = `
		INSERT INTO products (
			id, tenant_id, product_type_id, name, code, description, location,
			attributes, event_id, tags, media, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	productUpdateQuery = `
		UPDATE products
		SET name = $3, description = $4, location = $5, attributes = $6,
			event_id = $7, tags = $8, media = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	productDeleteQuery = `DELETE FROM products WHERE id = $1 AND tenant_id = $2`
)

type PgProductRepository struct {
	fieldMap map[product.Field]string
}

func NewProductRepository() product.Repository {
	return &PgProductRepository{
		fieldMap: map[product.Field]string{
			product.NameField:      "p.name",
			product.CodeField:      "p.code",
			product.TypeIDField:    "p.product_type_id",
			product.EventIDField:   "p.event_id",
			product.IsActiveField:  "p.is_active",
			product.CreatedAtField: "p.created_at",
			product.UpdatedAtField: "p.updated_at",
		},
	}
}

func (g *PgProductRepository) buildFilters(ctx context.Context, params *product.FindParams) ([]string, []interface{}, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"p.tenant_id = $1"}
	args := []interface{}{tenantID}

	for _, filter := range params.Filters {
		column, ok := g.fieldMap[filter.Column]
		if !ok {
			return nil, nil, fmt.Errorf("unknown filter field: %v", filter.Column)
		}
		where = append(where, filter.Filter.String(column, len(args)+1))
		args = append(args, filter.Filter.Value()...)
	}

	if params.Q != "" {
		index := len(args) + 1
		where = append(where, fmt.Sprintf("(p.code ILIKE $%d OR p.name ILIKE $%d)", index, index))
		args = append(args, "%"+params.Q+"%")
	}
	return where, args, nil
}

func (g *PgProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, productFindQuery+" WHERE p.id = $1 AND p.tenant_id = $2", id, tenantID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query product")
	}
	return p, nil
}

func (g *PgProductRepository) GetPaginated(ctx context.Context, params *product.FindParams) ([]*product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args, err := g.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}

	orderBy, err := params.SortBy.ToSQL(g.fieldMap)
	if err != nil {
		return nil, err
	}
	if orderBy == "" {
		orderBy = "ORDER BY p.created_at DESC"
	}

	query := repo.Join(
		productFindQuery,
		"WHERE "+strings.Join(where, " AND "),
		orderBy,
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (g *PgProductRepository) Count(ctx context.Context, params *product.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args, err := g.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(
		ctx,
		repo.Join(productCountQuery, "WHERE "+strings.Join(where, " AND ")),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count products")
	}
	return count, nil
}

func (g *PgProductRepository) CodeExists(ctx context.Context, productTypeID uuid.UUID, code string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, productExistsQuery, tenantID, productTypeID, code).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe product code")
	}
	return true, nil
}

func (g *PgProductRepository) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, productFindQuery+" WHERE p.tenant_id = $1 AND p.id = ANY($2)", tenantID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products by ids")
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (g *PgProductRepository) ByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		productFindQuery,
		"WHERE p.tenant_id = $1 AND p.event_id = $2",
		"ORDER BY p.created_at DESC",
		repo.FormatLimitOffset(limit, 0),
	)
	rows, err := tx.Query(ctx, query, tenantID, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products by event")
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (g *PgProductRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, 0, err
	}

	var total, active int64
	if err := tx.QueryRow(ctx, productCountByEventQuery, tenantID, eventID).Scan(&total, &active); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count products by event")
	}
	return total, active, nil
}

func (g *PgProductRepository) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		productInsertQuery,
		p.ID,
		p.TenantID,
		p.ProductTypeID,
		p.Name,
		p.Code,
		p.Description,
		p.Location,
		p.Attributes,
		p.EventID,
		p.Tags,
		p.Media,
		p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert product")
	}
	return p, nil
}

func (g *PgProductRepository) Update(ctx context.Context, p *product.Product) (*product.Product, error) {
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
		productUpdateQuery,
		p.ID,
		tenantID,
		p.Name,
		p.Description,
		p.Location,
		p.Attributes,
		p.EventID,
		p.Tags,
		p.Media,
		p.IsActive,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update product")
	}
	return p, nil
}

func (g *PgProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, productDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	if err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.ProductTypeID,
		&p.Name,
		&p.Code,
		&p.Description,
		&p.Location,
		&p.Attributes,
		&p.EventID,
		&p.Tags,
		&p.Media,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*product.Product, error) {
	var out []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan product")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
