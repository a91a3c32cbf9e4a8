package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/modules/suppliers/services"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

// stubTx satisfies pgx.Tx so InTx joins it instead of opening a real
// transaction. None of its methods are reached: repositories are stubbed.
type stubTx struct{}

func (stubTx) Begin(context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(context.Context) error          { return nil }
func (stubTx) Rollback(context.Context) error        { return nil }
func (stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (stubTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (stubTx) Conn() *pgx.Conn                                         { return nil }

type stubSupplierRepo struct {
	byID   map[uuid.UUID]*supplier.Supplier
	byCode map[string]bool
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		byID:   map[uuid.UUID]*supplier.Supplier{},
		byCode: map[string]bool{},
	}
}

func (r *stubSupplierRepo) add(s *supplier.Supplier) *supplier.Supplier {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.byID[s.ID] = s
	r.byCode[s.Code] = true
	return s
}

func (r *stubSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, supplier.ErrNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) GetPaginated(context.Context, *supplier.FindParams) ([]*supplier.Supplier, error) {
	out := make([]*supplier.Supplier, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Count(context.Context, *supplier.FindParams) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubSupplierRepo) CodeExists(_ context.Context, code string) (bool, error) {
	return r.byCode[code], nil
}

func (r *stubSupplierRepo) Create(_ context.Context, s *supplier.Supplier) (*supplier.Supplier, error) {
	clone := *s
	return r.add(&clone), nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *supplier.Supplier) (*supplier.Supplier, error) {
	if _, ok := r.byID[s.ID]; !ok {
		return nil, supplier.ErrNotFound
	}
	clone := *s
	r.byID[s.ID] = &clone
	return &clone, nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	s, ok := r.byID[id]
	if !ok {
		return supplier.ErrNotFound
	}
	delete(r.byCode, s.Code)
	delete(r.byID, id)
	return nil
}

type stubAuditRepo struct {
	entries []*auditlog.Entry
}

func (r *stubAuditRepo) Create(_ context.Context, entry *auditlog.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubAuditRepo) List(context.Context, *auditlog.FindParams) ([]*auditlog.Entry, error) {
	return r.entries, nil
}

func (r *stubAuditRepo) Count(context.Context, *auditlog.FindParams) (int64, error) {
	return int64(len(r.entries)), nil
}

type stubContractCounter struct {
	counts map[uuid.UUID]int64
}

func (c *stubContractCounter) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	return c.counts[supplierID], nil
}

type fixture struct {
	svc      *services.SupplierService
	repo     *stubSupplierRepo
	audit    *stubAuditRepo
	counter  *stubContractCounter
	ctx      context.Context
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubSupplierRepo()
	audit := &stubAuditRepo{}
	counter := &stubContractCounter{counts: map[uuid.UUID]int64{}}
	svc := services.NewSupplierService(
		repo,
		counter,
		auditservices.NewAuditService(audit),
		eventbus.NewEventPublisher(logrus.New()),
		invalidation.Noop(),
	)

	tenantID := uuid.New()
	userID := uuid.New()
	ctx := composables.WithAuthCtx(context.Background(), composables.AuthContext{
		Subject:        "auth0|tester",
		UserID:         userID,
		OrganizationID: tenantID,
	})
	ctx = composables.WithTx(ctx, stubTx{})

	return &fixture{svc: svc, repo: repo, audit: audit, counter: counter, ctx: ctx, tenantID: tenantID, userID: userID}
}

func TestSupplierCreate(t *testing.T) {
	t.Parallel()

	t.Run("generates code from name", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		created, err := f.svc.Create(f.ctx, &supplier.CreateDTO{Name: "Hilton Hotels"})
		require.NoError(t, err)
		assert.Equal(t, "HILTON-HOTELS", created.Code)
		assert.True(t, created.IsActive)

		require.Len(t, f.audit.entries, 1)
		entry := f.audit.entries[0]
		assert.Equal(t, "supplier", entry.EntityType)
		assert.Equal(t, auditlog.ActionCreate, entry.Action)
		assert.Equal(t, created.ID, entry.EntityID)
		assert.Nil(t, entry.OldValues)
		assert.NotNil(t, entry.NewValues)
		require.True(t, entry.ChangedBy.Valid)
		assert.Equal(t, f.userID, entry.ChangedBy.UUID)
	})

	t.Run("suffixes a taken generated code", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.repo.add(&supplier.Supplier{Name: "Hilton Hotels", Code: "HILTON-HOTELS"})

		created, err := f.svc.Create(f.ctx, &supplier.CreateDTO{Name: "Hilton Hotels"})
		require.NoError(t, err)
		assert.Equal(t, "HILTON-HOTELS-1", created.Code)
	})

	t.Run("explicit taken code conflicts", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.repo.add(&supplier.Supplier{Name: "First", Code: "ACME"})

		_, err := f.svc.Create(f.ctx, &supplier.CreateDTO{Name: "Second", Code: "ACME"})
		require.Error(t, err)
		var base *serrors.Base
		require.ErrorAs(t, err, &base)
		assert.Equal(t, "CONFLICT", base.Code)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Create(f.ctx, &supplier.CreateDTO{Name: "", Country: "USA"})
		require.Error(t, err)
		var verrs serrors.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Empty(t, f.repo.byID)
	})

	t.Run("no tenant is unauthorized", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), &supplier.CreateDTO{Name: "Hilton"})
		var base *serrors.Base
		require.ErrorAs(t, err, &base)
		assert.Equal(t, "UNAUTHORIZED", base.Code)
	})
}

func TestSupplierUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	existing := f.repo.add(&supplier.Supplier{Name: "Old Name", Code: "OLD", IsActive: true})

	updated, err := f.svc.Update(f.ctx, existing.ID, &supplier.UpdateDTO{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "OLD", updated.Code)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, auditlog.ActionUpdate, entry.Action)
	assert.NotNil(t, entry.OldValues)
	assert.NotNil(t, entry.NewValues)
	assert.NotNil(t, entry.Changes)
}

func TestSupplierDelete(t *testing.T) {
	t.Parallel()

	t.Run("refused while contracts reference it", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		existing := f.repo.add(&supplier.Supplier{Name: "Linked", Code: "LINKED"})
		f.counter.counts[existing.ID] = 2

		err := f.svc.Delete(f.ctx, existing.ID)
		var base *serrors.Base
		require.ErrorAs(t, err, &base)
		assert.Equal(t, "CONFLICT", base.Code)
		assert.Contains(t, f.repo.byID, existing.ID)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("deletes and audits", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		existing := f.repo.add(&supplier.Supplier{Name: "Free", Code: "FREE"})

		require.NoError(t, f.svc.Delete(f.ctx, existing.ID))
		assert.NotContains(t, f.repo.byID, existing.ID)
		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, auditlog.ActionDelete, f.audit.entries[0].Action)
	})
}

func TestSupplierDuplicate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	source := f.repo.add(&supplier.Supplier{Name: "Hilton", Code: "HILTON", IsActive: true})

	first, err := f.svc.Duplicate(f.ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "HILTON-COPY", first.Code)
	assert.Equal(t, source.Name, first.Name)
	assert.NotEqual(t, source.ID, first.ID)

	second, err := f.svc.Duplicate(f.ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "HILTON-COPY-1", second.Code)

	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, auditlog.ActionDuplicate, f.audit.entries[0].Action)
}

func TestSupplierBulkDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	a := f.repo.add(&supplier.Supplier{Name: "A", Code: "A"})
	b := f.repo.add(&supplier.Supplier{Name: "B", Code: "B"})

	require.NoError(t, f.svc.BulkDelete(f.ctx, []uuid.UUID{a.ID, b.ID}))
	assert.Empty(t, f.repo.byID)
	// One entry per deleted row.
	require.Len(t, f.audit.entries, 2)
	for _, entry := range f.audit.entries {
		assert.Equal(t, auditlog.ActionBulkDelete, entry.Action)
	}
}

func TestSupplierBulkSetActive(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	active := f.repo.add(&supplier.Supplier{Name: "Active", Code: "A", IsActive: true})
	inactive := f.repo.add(&supplier.Supplier{Name: "Inactive", Code: "B", IsActive: false})

	require.NoError(t, f.svc.BulkSetActive(f.ctx, []uuid.UUID{active.ID, inactive.ID}, true))

	assert.True(t, f.repo.byID[inactive.ID].IsActive)
	// The already-active row is skipped, so only one entry is written.
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, auditlog.ActionActivate, f.audit.entries[0].Action)
	assert.Equal(t, inactive.ID, f.audit.entries[0].EntityID)
}
