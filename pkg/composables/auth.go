package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/pkg/constants"
)

var (
	ErrNoAuthCtx      = errors.New("no auth context found in context")
	ErrNoOrganization = errors.New("no organization resolved for principal")
)

// AuthContext identifies the authenticated principal and the organization all
// reads and writes are scoped to. It is threaded explicitly through the
// context; nothing in the SDK consults ambient session state.
type AuthContext struct {
	Subject        string
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

func WithAuthCtx(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, constants.AuthCtxKey, auth)
}

func UseAuthCtx(ctx context.Context) (AuthContext, error) {
	auth, ok := ctx.Value(constants.AuthCtxKey).(AuthContext)
	if !ok {
		return AuthContext{}, ErrNoAuthCtx
	}
	return auth, nil
}

// UseTenantID returns the organization ID every query must be scoped to.
// Failing to resolve one is an authorization failure, never an implicit
// default: defaulting could scope a query to the wrong tenant.
func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	auth, err := UseAuthCtx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if auth.OrganizationID == uuid.Nil {
		return uuid.Nil, ErrNoOrganization
	}
	return auth.OrganizationID, nil
}

// UseUserID returns the acting user's ID, or uuid.Nil when the mutation is
// not attributable (system jobs, migrations).
func UseUserID(ctx context.Context) uuid.UUID {
	auth, err := UseAuthCtx(ctx)
	if err != nil {
		return uuid.Nil
	}
	return auth.UserID
}
