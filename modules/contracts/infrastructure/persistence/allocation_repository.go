package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	allocationFindQuery = `
		SELECT
			a.id,
			a.tenant_id,
			a.contract_id,
			a.product_id,
			a.product_option_id,
			a.total_quantity,
			a.valid_from,
			a.valid_to,
			a.notes,
			a.created_at,
			a.updated_at
		FROM contract_allocations a`

	allocationAvailabilityQuery = `
		SELECT
			av.id,
			av.allocation_id,
			av.date,
			av.total_available,
			av.booked,
			av.available,
			av.is_closed
		FROM allocation_availability av
		JOIN contract_allocations a ON a.id = av.allocation_id
		WHERE a.tenant_id = $1 AND av.allocation_id = ANY($2)
		ORDER BY av.date ASC`

	allocationReleasesQuery = `
		SELECT
			r.id,
			r.allocation_id,
			r.release_date,
			r.quantity,
			r.percentage,
			r.penalty_amount,
			r.notes
		FROM allocation_releases r
		JOIN contract_allocations a ON a.id = r.allocation_id
		WHERE a.tenant_id = $1 AND r.allocation_id = ANY($2)
		ORDER BY r.release_date ASC`

	allocationInsertQuery = `
		INSERT INTO contract_allocations (
			id, tenant_id, contract_id, product_id, product_option_id,
			total_quantity, valid_from, valid_to, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	allocationUpdateQuery = `
		UPDATE contract_allocations
		SET product_id = $3, product_option_id = $4, total_quantity = $5,
			valid_from = $6, valid_to = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	allocationDeleteQuery = `DELETE FROM contract_allocations WHERE id = $1 AND tenant_id = $2`
)

type PgAllocationRepository struct{}

func NewAllocationRepository() allocation.Repository {
	return &PgAllocationRepository{}
}

func (g *PgAllocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*allocation.Allocation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, allocationFindQuery+" WHERE a.id = $1 AND a.tenant_id = $2", id, tenantID)
	a, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, allocation.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query allocation")
	}
	return a, nil
}

func (g *PgAllocationRepository) ByContract(ctx context.Context, contractID uuid.UUID) ([]*allocation.Allocation, error) {
	return g.findAll(ctx, "a.contract_id = $2", contractID)
}

func (g *PgAllocationRepository) ByProduct(ctx context.Context, productID uuid.UUID) ([]*allocation.Allocation, error) {
	return g.findAll(ctx, "a.product_id = $2", productID)
}

func (g *PgAllocationRepository) findAll(ctx context.Context, cond string, arg any) ([]*allocation.Allocation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		allocationFindQuery,
		"WHERE a.tenant_id = $1 AND "+cond,
		"ORDER BY a.created_at ASC",
	)
	rows, err := tx.Query(ctx, query, tenantID, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query allocations")
	}
	defer rows.Close()

	var out []*allocation.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan allocation")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (g *PgAllocationRepository) AvailabilityByAllocationIDs(ctx context.Context, ids []uuid.UUID, limit int) ([]*allocation.Availability, error) {
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

	query := repo.Join(allocationAvailabilityQuery, repo.FormatLimitOffset(limit, 0))
	rows, err := tx.Query(ctx, query, tenantID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query allocation availability")
	}
	defer rows.Close()

	var out []*allocation.Availability
	for rows.Next() {
		var av allocation.Availability
		if err := rows.Scan(
			&av.ID,
			&av.AllocationID,
			&av.Date,
			&av.TotalAvailable,
			&av.Booked,
			&av.Available,
			&av.IsClosed,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan availability")
		}
		out = append(out, &av)
	}
	return out, rows.Err()
}

func (g *PgAllocationRepository) ReleasesByAllocationIDs(ctx context.Context, ids []uuid.UUID) ([]*allocation.Release, error) {
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

	rows, err := tx.Query(ctx, allocationReleasesQuery, tenantID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query allocation releases")
	}
	defer rows.Close()

	var out []*allocation.Release
	for rows.Next() {
		var r allocation.Release
		if err := rows.Scan(
			&r.ID,
			&r.AllocationID,
			&r.ReleaseDate,
			&r.Quantity,
			&r.Percentage,
			&r.PenaltyAmount,
			&r.Notes,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan release")
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (g *PgAllocationRepository) Create(ctx context.Context, a *allocation.Allocation) (*allocation.Allocation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		allocationInsertQuery,
		a.ID,
		a.TenantID,
		a.ContractID,
		a.ProductID,
		a.ProductOptionID,
		a.TotalQuantity,
		a.ValidFrom,
		a.ValidTo,
		a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert allocation")
	}
	return a, nil
}

func (g *PgAllocationRepository) Update(ctx context.Context, a *allocation.Allocation) (*allocation.Allocation, error) {
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
		allocationUpdateQuery,
		a.ID,
		tenantID,
		a.ProductID,
		a.ProductOptionID,
		a.TotalQuantity,
		a.ValidFrom,
		a.ValidTo,
		a.Notes,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, allocation.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update allocation")
	}
	return a, nil
}

func (g *PgAllocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, allocationDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete allocation")
	}
	if tag.RowsAffected() == 0 {
		return allocation.ErrNotFound
	}
	return nil
}

func scanAllocation(row pgx.Row) (*allocation.Allocation, error) {
	var a allocation.Allocation
	if err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.ContractID,
		&a.ProductID,
		&a.ProductOptionID,
		&a.TotalQuantity,
		&a.ValidFrom,
		&a.ValidTo,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
