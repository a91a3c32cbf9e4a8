package services_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/core/domain/aggregates/user"
	"github.com/tourhub-uz/tourhub/modules/core/services"
)

type stubUserRepo struct {
	bySubject      map[string]*user.User
	profiles       map[uuid.UUID]*user.Profile
	memberships    map[uuid.UUID][]*user.Membership
	subjectErr     error
	profileErr     error
	membershipsErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		bySubject:   map[string]*user.User{},
		profiles:    map[uuid.UUID]*user.Profile{},
		memberships: map[uuid.UUID][]*user.Membership{},
	}
}

func (r *stubUserRepo) GetBySubject(_ context.Context, subject string) (*user.User, error) {
	if r.subjectErr != nil {
		return nil, r.subjectErr
	}
	u, ok := r.bySubject[subject]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) GetProfile(_ context.Context, userID uuid.UUID) (*user.Profile, error) {
	if r.profileErr != nil {
		return nil, r.profileErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return p, nil
}

func (r *stubUserRepo) GetMemberships(_ context.Context, userID uuid.UUID) ([]*user.Membership, error) {
	if r.membershipsErr != nil {
		return nil, r.membershipsErr
	}
	return r.memberships[userID], nil
}

func (r *stubUserRepo) Create(_ context.Context, u *user.User) (*user.User, error) {
	return u, nil
}

func TestAuthContextServiceResolve(t *testing.T) {
	const subject = "auth0|tester"

	t.Run("direct tenant mapping wins", func(t *testing.T) {
		repo := newStubUserRepo()
		tenantID := uuid.New()
		userID := uuid.New()
		repo.bySubject[subject] = &user.User{
			ID:       userID,
			TenantID: uuid.NullUUID{UUID: tenantID, Valid: true},
			Subject:  subject,
			IsActive: true,
		}
		// Profile rows must not shadow the direct mapping.
		repo.profiles[userID] = &user.Profile{UserID: userID, OrganizationID: uuid.New()}

		auth, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.NoError(t, err)
		assert.Equal(t, subject, auth.Subject)
		assert.Equal(t, userID, auth.UserID)
		assert.Equal(t, tenantID, auth.OrganizationID)
	})

	t.Run("inactive user falls through to profile", func(t *testing.T) {
		repo := newStubUserRepo()
		userID := uuid.New()
		orgID := uuid.New()
		repo.bySubject[subject] = &user.User{
			ID:       userID,
			TenantID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
			Subject:  subject,
			IsActive: false,
		}
		repo.profiles[userID] = &user.Profile{UserID: userID, OrganizationID: orgID}

		auth, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.NoError(t, err)
		assert.Equal(t, orgID, auth.OrganizationID)
	})

	t.Run("default membership beats earlier memberships", func(t *testing.T) {
		repo := newStubUserRepo()
		userID := uuid.New()
		defaultOrg := uuid.New()
		repo.bySubject[subject] = &user.User{ID: userID, Subject: subject, IsActive: true}
		repo.memberships[userID] = []*user.Membership{
			{UserID: userID, OrganizationID: uuid.New()},
			{UserID: userID, OrganizationID: defaultOrg, IsDefault: true},
		}

		auth, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.NoError(t, err)
		assert.Equal(t, defaultOrg, auth.OrganizationID)
	})

	t.Run("first membership when none is default", func(t *testing.T) {
		repo := newStubUserRepo()
		userID := uuid.New()
		firstOrg := uuid.New()
		repo.bySubject[subject] = &user.User{ID: userID, Subject: subject, IsActive: true}
		repo.memberships[userID] = []*user.Membership{
			{UserID: userID, OrganizationID: firstOrg},
			{UserID: userID, OrganizationID: uuid.New()},
		}

		auth, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.NoError(t, err)
		assert.Equal(t, firstOrg, auth.OrganizationID)
	})

	t.Run("unknown principal resolves to no organization", func(t *testing.T) {
		repo := newStubUserRepo()

		auth, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.NoError(t, err)
		assert.Equal(t, subject, auth.Subject)
		assert.Equal(t, uuid.Nil, auth.OrganizationID)
	})

	t.Run("user with no mappings resolves to no organization", func(t *testing.T) {
		repo := newStubUserRepo()
		userID := uuid.New()
		repo.bySubject[subject] = &user.User{ID: userID, Subject: subject, IsActive: true}

		auth, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.NoError(t, err)
		assert.Equal(t, userID, auth.UserID)
		assert.Equal(t, uuid.Nil, auth.OrganizationID)
	})

	t.Run("lookup errors propagate", func(t *testing.T) {
		repo := newStubUserRepo()
		repo.subjectErr = errors.New("connection reset")

		_, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.Error(t, err)
		assert.NotErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("membership lookup errors propagate", func(t *testing.T) {
		repo := newStubUserRepo()
		userID := uuid.New()
		repo.bySubject[subject] = &user.User{ID: userID, Subject: subject, IsActive: true}
		repo.membershipsErr = errors.New("connection reset")

		_, err := services.NewAuthContextService(repo).Resolve(context.Background(), subject)
		require.Error(t, err)
	})
}
