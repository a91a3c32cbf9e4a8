package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/sellingrate"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

const (
	sellingRateFindQuery = `
		SELECT
			sr.id,
			sr.tenant_id,
			sr.rate_name,
			sr.product_id,
			sr.product_option_id,
			sr.valid_from,
			sr.valid_to,
			sr.rate_basis,
			sr.pricing_model,
			sr.base_price,
			sr.currency,
			sr.markup_type,
			sr.markup_amount,
			sr.pricing_details,
			sr.target_cost,
			sr.is_active,
			sr.created_at,
			sr.updated_at
		FROM selling_rates sr`

	sellingRateExistsQuery = `SELECT 1 FROM selling_rates sr WHERE sr.tenant_id = $1 AND sr.rate_name = $2`

	sellingRateInsertQuery = `
		INSERT INTO selling_rates (
			id, tenant_id, rate_name, product_id, product_option_id, valid_from,
			valid_to, rate_basis, pricing_model, base_price, currency,
			markup_type, markup_amount, pricing_details, target_cost, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	sellingRateUpdateQuery = `
		UPDATE selling_rates
		SET rate_name = $3, product_id = $4, product_option_id = $5,
			valid_from = $6, valid_to = $7, rate_basis = $8, pricing_model = $9,
			base_price = $10, currency = $11, markup_type = $12,
			markup_amount = $13, pricing_details = $14, target_cost = $15,
			is_active = $16, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	sellingRateDeleteQuery = `DELETE FROM selling_rates WHERE id = $1 AND tenant_id = $2`
)

type PgSellingRateRepository struct{}

func NewSellingRateRepository() sellingrate.Repository {
	return &PgSellingRateRepository{}
}

func (g *PgSellingRateRepository) GetByID(ctx context.Context, id uuid.UUID) (*sellingrate.SellingRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, sellingRateFindQuery+" WHERE sr.id = $1 AND sr.tenant_id = $2", id, tenantID)
	r, err := scanSellingRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sellingrate.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query selling rate")
	}
	return r, nil
}

func (g *PgSellingRateRepository) ByProduct(ctx context.Context, productID uuid.UUID) ([]*sellingrate.SellingRate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(
		ctx,
		sellingRateFindQuery+" WHERE sr.tenant_id = $1 AND sr.product_id = $2 ORDER BY sr.valid_from ASC, sr.created_at ASC",
		tenantID, productID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query selling rates")
	}
	defer rows.Close()

	var out []*sellingrate.SellingRate
	for rows.Next() {
		r, err := scanSellingRate(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan selling rate")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (g *PgSellingRateRepository) RateNameExists(ctx context.Context, name string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, sellingRateExistsQuery, tenantID, name).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe rate name")
	}
	return true, nil
}

func (g *PgSellingRateRepository) Create(ctx context.Context, r *sellingrate.SellingRate) (*sellingrate.SellingRate, error) {
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
		sellingRateInsertQuery,
		r.ID,
		r.TenantID,
		r.RateName,
		r.ProductID,
		r.ProductOptionID,
		r.ValidFrom,
		r.ValidTo,
		r.RateBasis,
		string(r.PricingModel),
		r.BasePrice,
		r.Currency,
		r.MarkupType,
		r.MarkupAmount,
		r.PricingDetails,
		r.TargetCost,
		r.IsActive,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert selling rate")
	}
	return r, nil
}

func (g *PgSellingRateRepository) Update(ctx context.Context, r *sellingrate.SellingRate) (*sellingrate.SellingRate, error) {
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
		sellingRateUpdateQuery,
		r.ID,
		tenantID,
		r.RateName,
		r.ProductID,
		r.ProductOptionID,
		r.ValidFrom,
		r.ValidTo,
		r.RateBasis,
		string(r.PricingModel),
		r.BasePrice,
		r.Currency,
		r.MarkupType,
		r.MarkupAmount,
		r.PricingDetails,
		r.TargetCost,
		r.IsActive,
	).Scan(&r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sellingrate.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update selling rate")
	}
	return r, nil
}

func (g *PgSellingRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, sellingRateDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete selling rate")
	}
	if tag.RowsAffected() == 0 {
		return sellingrate.ErrNotFound
	}
	return nil
}

func scanSellingRate(row pgx.Row) (*sellingrate.SellingRate, error) {
	var r sellingrate.SellingRate
	var model string
	if err := row.Scan(
		&r.ID,
		&r.TenantID,
		&r.RateName,
		&r.ProductID,
		&r.ProductOptionID,
		&r.ValidFrom,
		&r.ValidTo,
		&r.RateBasis,
		&model,
		&r.BasePrice,
		&r.Currency,
		&r.MarkupType,
		&r.MarkupAmount,
		&r.PricingDetails,
		&r.TargetCost,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	r.PricingModel = sellingrate.PricingModel(model)
	return &r, nil
}
