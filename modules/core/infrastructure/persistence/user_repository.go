package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/core/domain/aggregates/user"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

const (
	userBySubjectQuery = `
		SELECT id, tenant_id, auth_subject, email, first_name, last_name, is_active, created_at, updated_at
		FROM users
		WHERE auth_subject = $1`

	userProfileQuery = `
		SELECT user_id, organization_id
		FROM user_profiles
		WHERE user_id = $1`

	userMembershipsQuery = `
		SELECT user_id, organization_id, is_default, created_at
		FROM organization_members
		WHERE user_id = $1
		ORDER BY created_at ASC`

	userInsertQuery = `
		INSERT INTO users (id, tenant_id, auth_subject, email, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (r *PgUserRepository) GetBySubject(ctx context.Context, subject string) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var u user.User
	err = tx.QueryRow(ctx, userBySubjectQuery, subject).Scan(
		&u.ID,
		&u.TenantID,
		&u.Subject,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query user by subject")
	}
	return &u, nil
}

func (r *PgUserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*user.Profile, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var p user.Profile
	err = tx.QueryRow(ctx, userProfileQuery, userID).Scan(&p.UserID, &p.OrganizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query user profile")
	}
	return &p, nil
}

func (r *PgUserRepository) GetMemberships(ctx context.Context, userID uuid.UUID) ([]*user.Membership, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, userMembershipsQuery, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query memberships")
	}
	defer rows.Close()

	var out []*user.Membership
	for rows.Next() {
		var m user.Membership
		if err := rows.Scan(&m.UserID, &m.OrganizationID, &m.IsDefault, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan membership")
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgUserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err = tx.QueryRow(
		ctx,
		userInsertQuery,
		u.ID,
		u.TenantID,
		u.Subject,
		u.Email,
		u.FirstName,
		u.LastName,
		u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert user")
	}
	return u, nil
}
