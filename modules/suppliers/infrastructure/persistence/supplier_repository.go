package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	supplierFindQuery = `
		SELECT
			s.id,
			s.tenant_id,
			s.name,
			s.code,
			s.type,
			s.contact_person,
			s.email,
			s.phone,
			s.address,
			s.city,
			s.country,
			s.default_currency,
			s.is_active,
			s.notes,
			s.created_at,
			s.updated_at
		FROM suppliers s`

	supplierCountQuery = `SELECT COUNT(s.id) FROM suppliers s`

	supplierExistsQuery = `SELECT 1 FROM suppliers s WHERE s.tenant_id = $1 AND s.code = $2`

	supplierInsertQuery = `
		INSERT INTO suppliers (
			id, tenant_id, name, code, type, contact_person, email, phone,
			address, city, country, default_currency, is_active, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	supplierUpdateQuery = `
		UPDATE suppliers
		SET name = $3, type = $4, contact_person = $5, email = $6, phone = $7,
			address = $8, city = $9, country = $10, default_currency = $11,
			is_active = $12, notes = $13, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	supplierDeleteQuery = `DELETE FROM suppliers WHERE id = $1 AND tenant_id = $2`
)

type PgSupplierRepository struct {
	fieldMap map[supplier.Field]string
}

func NewSupplierRepository() supplier.Repository {
	return &PgSupplierRepository{
		fieldMap: map[supplier.Field]string{
			supplier.NameField:      "s.name",
			supplier.CodeField:      "s.code",
			supplier.TypeField:      "s.type",
			supplier.IsActiveField:  "s.is_active",
			supplier.CreatedAtField: "s.created_at",
			supplier.UpdatedAtField: "s.updated_at",
		},
	}
}

func (g *PgSupplierRepository) buildFilters(ctx context.Context, params *supplier.FindParams) ([]string, []interface{}, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"s.tenant_id = $1"}
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
		where = append(where, fmt.Sprintf("(s.name ILIKE $%d OR s.code ILIKE $%d)", index, index))
		args = append(args, "%"+params.Q+"%")
	}
	return where, args, nil
}

func (g *PgSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, supplierFindQuery+" WHERE s.id = $1 AND s.tenant_id = $2", id, tenantID)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, supplier.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query supplier")
	}
	return s, nil
}

func (g *PgSupplierRepository) GetPaginated(ctx context.Context, params *supplier.FindParams) ([]*supplier.Supplier, error) {
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
		orderBy = "ORDER BY s.created_at DESC"
	}

	query := repo.Join(
		supplierFindQuery,
		"WHERE "+strings.Join(where, " AND "),
		orderBy,
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query suppliers")
	}
	defer rows.Close()

	var out []*supplier.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan supplier")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *PgSupplierRepository) Count(ctx context.Context, params *supplier.FindParams) (int64, error) {
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
		repo.Join(supplierCountQuery, "WHERE "+strings.Join(where, " AND ")),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count suppliers")
	}
	return count, nil
}

func (g *PgSupplierRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, supplierExistsQuery, tenantID, code).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe supplier code")
	}
	return true, nil
}

func (g *PgSupplierRepository) Create(ctx context.Context, s *supplier.Supplier) (*supplier.Supplier, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		supplierInsertQuery,
		s.ID,
		s.TenantID,
		s.Name,
		s.Code,
		s.Type,
		s.ContactPerson,
		s.Email,
		s.Phone,
		s.Address,
		s.City,
		s.Country,
		s.DefaultCurrency,
		s.IsActive,
		s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert supplier")
	}
	return s, nil
}

func (g *PgSupplierRepository) Update(ctx context.Context, s *supplier.Supplier) (*supplier.Supplier, error) {
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
		supplierUpdateQuery,
		s.ID,
		tenantID,
		s.Name,
		s.Type,
		s.ContactPerson,
		s.Email,
		s.Phone,
		s.Address,
		s.City,
		s.Country,
		s.DefaultCurrency,
		s.IsActive,
		s.Notes,
	).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, supplier.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update supplier")
	}
	return s, nil
}

func (g *PgSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, supplierDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete supplier")
	}
	if tag.RowsAffected() == 0 {
		return supplier.ErrNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (*supplier.Supplier, error) {
	var s supplier.Supplier
	if err := row.Scan(
		&s.ID,
		&s.TenantID,
		&s.Name,
		&s.Code,
		&s.Type,
		&s.ContactPerson,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.City,
		&s.Country,
		&s.DefaultCurrency,
		&s.IsActive,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
