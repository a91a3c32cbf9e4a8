package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/tourhub-uz/tourhub/modules/core/domain/aggregates/user"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

// AuthContextService resolves the authenticated principal to an organization.
// Every tenant-scoped operation depends on its result.
type AuthContextService struct {
	users user.Repository
}

func NewAuthContextService(users user.Repository) *AuthContextService {
	return &AuthContextService{users: users}
}

// Resolve walks the fallback chain: direct user mapping, then profile, then
// default membership, then any membership. A principal with no resolvable
// organization yields an AuthContext with a nil OrganizationID, which
// dependents reject as unauthorized. Unexpected lookup errors always propagate:
// scoping must fail loudly rather than silently land on the wrong tenant.
func (s *AuthContextService) Resolve(ctx context.Context, subject string) (composables.AuthContext, error) {
	auth := composables.AuthContext{Subject: subject}

	u, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return auth, nil
		}
		return composables.AuthContext{}, errors.Wrap(err, "failed to resolve user for principal")
	}
	auth.UserID = u.ID

	if u.TenantID.Valid && u.IsActive {
		auth.OrganizationID = u.TenantID.UUID
		return auth, nil
	}

	profile, err := s.users.GetProfile(ctx, u.ID)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return composables.AuthContext{}, errors.Wrap(err, "failed to resolve profile for principal")
	}
	if profile != nil {
		auth.OrganizationID = profile.OrganizationID
		return auth, nil
	}

	memberships, err := s.users.GetMemberships(ctx, u.ID)
	if err != nil {
		return composables.AuthContext{}, errors.Wrap(err, "failed to resolve memberships for principal")
	}
	for _, m := range memberships {
		if m.IsDefault {
			auth.OrganizationID = m.OrganizationID
			return auth, nil
		}
	}
	if len(memberships) > 0 {
		auth.OrganizationID = memberships[0].OrganizationID
	}
	return auth, nil
}
