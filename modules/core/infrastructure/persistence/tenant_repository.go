package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/core/domain/entities/tenant"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

const (
	tenantByIDQuery = `
		SELECT id, name, domain, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1`

	tenantInsertQuery = `
		INSERT INTO tenants (id, name, domain, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`
)

type PgTenantRepository struct{}

func NewTenantRepository() tenant.Repository {
	return &PgTenantRepository{}
}

func (r *PgTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var t tenant.Tenant
	err = tx.QueryRow(ctx, tenantByIDQuery, id).Scan(
		&t.ID,
		&t.Name,
		&t.Domain,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenant.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query tenant")
	}
	return &t, nil
}

func (r *PgTenantRepository) Create(ctx context.Context, t *tenant.Tenant) (*tenant.Tenant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, tenantInsertQuery, t.ID, t.Name, t.Domain, t.IsActive).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert tenant")
	}
	return t, nil
}
