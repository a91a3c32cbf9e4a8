package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	supplierRateFindQuery = `
		SELECT
			sr.id,
			sr.tenant_id,
			sr.rate_name,
			sr.supplier_id,
			sr.contract_id,
			sr.allocation_id,
			sr.product_id,
			sr.product_option_id,
			sr.valid_from,
			sr.valid_to,
			sr.base_cost,
			sr.currency,
			sr.markup_type,
			sr.markup_amount,
			sr.pricing_details,
			sr.is_active,
			sr.created_at,
			sr.updated_at
		FROM supplier_rates sr`

	supplierRateExistsQuery = `SELECT 1 FROM supplier_rates sr WHERE sr.tenant_id = $1 AND sr.rate_name = $2`

	supplierRateInsertQuery = `
		INSERT INTO supplier_rates (
			id, tenant_id, rate_name, supplier_id, contract_id, allocation_id,
			product_id, product_option_id, valid_from, valid_to, base_cost,
			currency, markup_type, markup_amount, pricing_details, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	supplierRateUpdateQuery = `
		UPDATE supplier_rates
		SET rate_name = $3, supplier_id = $4, contract_id = $5, allocation_id = $6,
			product_id = $7, product_option_id = $8, valid_from = $9, valid_to = $10,
			base_cost = $11, currency = $12, markup_type = $13, markup_amount = $14,
			pricing_details = $15, is_active = $16, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	supplierRateDeleteQuery = `DELETE FROM supplier_rates WHERE id = $1 AND tenant_id = $2`
)

type PgSupplierRateRepository struct{}

func NewSupplierRateRepository() supplierrate.Repository {
	return &PgSupplierRateRepository{}
}

func (g *PgSupplierRateRepository) GetByID(ctx context.Context, id uuid.UUID) (*supplierrate.SupplierRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, supplierRateFindQuery+" WHERE sr.id = $1 AND sr.tenant_id = $2", id, tenantID)
	r, err := scanSupplierRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, supplierrate.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query supplier rate")
	}
	return r, nil
}

func (g *PgSupplierRateRepository) ByContract(ctx context.Context, contractID uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	return g.findAll(ctx, "sr.contract_id = $2", contractID)
}

func (g *PgSupplierRateRepository) ByProduct(ctx context.Context, productID uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	return g.findAll(ctx, "sr.product_id = $2", productID)
}

func (g *PgSupplierRateRepository) findAll(ctx context.Context, cond string, arg any) ([]*supplierrate.SupplierRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		supplierRateFindQuery,
		"WHERE sr.tenant_id = $1 AND "+cond,
		"ORDER BY sr.valid_from ASC, sr.created_at ASC",
	)
	rows, err := tx.Query(ctx, query, tenantID, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query supplier rates")
	}
	defer rows.Close()

	var out []*supplierrate.SupplierRate
	for rows.Next() {
		r, err := scanSupplierRate(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan supplier rate")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (g *PgSupplierRateRepository) RateNameExists(ctx context.Context, name string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, supplierRateExistsQuery, tenantID, name).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe rate name")
	}
	return true, nil
}

func (g *PgSupplierRateRepository) Create(ctx context.Context, r *supplierrate.SupplierRate) (*supplierrate.SupplierRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		supplierRateInsertQuery,
		r.ID,
		r.TenantID,
		r.RateName,
		r.SupplierID,
		r.ContractID,
		r.AllocationID,
		r.ProductID,
		r.ProductOptionID,
		r.ValidFrom,
		r.ValidTo,
		r.BaseCost,
		r.Currency,
		r.MarkupType,
		r.MarkupAmount,
		r.PricingDetails,
		r.IsActive,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert supplier rate")
	}
	return r, nil
}

func (g *PgSupplierRateRepository) Update(ctx context.Context, r *supplierrate.SupplierRate) (*supplierrate.SupplierRate, error) {
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
		supplierRateUpdateQuery,
		r.ID,
		tenantID,
		r.RateName,
		r.SupplierID,
		r.ContractID,
		r.AllocationID,
		r.ProductID,
		r.ProductOptionID,
		r.ValidFrom,
		r.ValidTo,
		r.BaseCost,
		r.Currency,
		r.MarkupType,
		r.MarkupAmount,
		r.PricingDetails,
		r.IsActive,
	).Scan(&r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, supplierrate.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update supplier rate")
	}
	return r, nil
}

func (g *PgSupplierRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, supplierRateDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete supplier rate")
	}
	if tag.RowsAffected() == 0 {
		return supplierrate.ErrNotFound
	}
	return nil
}

func scanSupplierRate(row pgx.Row) (*supplierrate.SupplierRate, error) {
	var r supplierrate.SupplierRate
	if err := row.Scan(
		&r.ID,
		&r.TenantID,
		&r.RateName,
		&r.SupplierID,
		&r.ContractID,
		&r.AllocationID,
		&r.ProductID,
		&r.ProductOptionID,
		&r.ValidFrom,
		&r.ValidTo,
		&r.BaseCost,
		&r.Currency,
		&r.MarkupType,
		&r.MarkupAmount,
		&r.PricingDetails,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}
