package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/contracts/services"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
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

type stubInvalidator struct {
	paths []string
}

func (i *stubInvalidator) Invalidate(_ context.Context, paths ...string) {
	i.paths = append(i.paths, paths...)
}

type contractFixture struct {
	svc      *services.ContractService
	repo     *stubContractRepo
	audit    *stubAuditRepo
	inval    *stubInvalidator
	ctx      context.Context
	tenantID uuid.UUID
	userID   uuid.UUID
}

func newContractFixture(t *testing.T) *contractFixture {
	t.Helper()
	repo := newStubContractRepo()
	audit := &stubAuditRepo{}
	inval := &stubInvalidator{}
	svc := services.NewContractService(
		repo,
		auditservices.NewAuditService(audit),
		eventbus.NewEventPublisher(logrus.New()),
		inval,
	)

	tenantID := uuid.New()
	userID := uuid.New()
	ctx := composables.WithAuthCtx(context.Background(), composables.AuthContext{
		Subject:        "auth0|tester",
		UserID:         userID,
		OrganizationID: tenantID,
	})
	ctx = composables.WithTx(ctx, stubTx{})

	return &contractFixture{svc: svc, repo: repo, audit: audit, inval: inval, ctx: ctx, tenantID: tenantID, userID: userID}
}

func validCreateDTO(name string) *contract.CreateDTO {
	return &contract.CreateDTO{
		Name:      name,
		ValidFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Currency:  "USD",
	}
}

func TestContractCreate(t *testing.T) {
	t.Parallel()

	t.Run("generates number from name", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)

		created, err := f.svc.Create(f.ctx, validCreateDTO("Hilton Hotels 2026"))
		require.NoError(t, err)
		assert.Equal(t, "HILTON-HOTELS-2026", created.ContractNumber)
		assert.Equal(t, contract.StatusDraft, created.Status)
		require.True(t, created.OwnerID.Valid)
		assert.Equal(t, f.userID, created.OwnerID.UUID)

		require.Len(t, f.audit.entries, 1)
		entry := f.audit.entries[0]
		assert.Equal(t, "contract", entry.EntityType)
		assert.Equal(t, auditlog.ActionCreate, entry.Action)
		assert.Equal(t, created.ID, entry.EntityID)
	})

	t.Run("rejects a taken explicit number", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)
		f.repo.add(&contract.Contract{ContractNumber: "CNT-001"})

		dto := validCreateDTO("Second")
		dto.ContractNumber = "CNT-001"
		_, err := f.svc.Create(f.ctx, dto)
		var base *serrors.Base
		require.ErrorAs(t, err, &base)
		assert.Equal(t, "CONFLICT", base.Code)
		assert.Empty(t, f.audit.entries)
	})

	t.Run("validation failures stop before the store", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)

		dto := validCreateDTO("No Currency")
		dto.Currency = ""
		_, err := f.svc.Create(f.ctx, dto)
		require.Error(t, err)
		assert.Empty(t, f.repo.byID)
	})

	t.Run("requires a tenant", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)

		_, err := f.svc.Create(context.Background(), validCreateDTO("Orphan"))
		var base *serrors.Base
		require.ErrorAs(t, err, &base)
		assert.Equal(t, "UNAUTHORIZED", base.Code)
	})
}

func TestContractDuplicate(t *testing.T) {
	t.Parallel()

	t.Run("appends COPY to the source number", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)
		source := f.repo.add(&contract.Contract{ContractNumber: "CNT-001", Status: contract.StatusActive})

		copied, err := f.svc.Duplicate(f.ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, "CNT-001-COPY", copied.ContractNumber)
		assert.Equal(t, contract.StatusDraft, copied.Status)
		assert.NotEqual(t, source.ID, copied.ID)

		require.Len(t, f.audit.entries, 1)
		entry := f.audit.entries[0]
		assert.Equal(t, auditlog.ActionDuplicate, entry.Action)
		assert.NotNil(t, entry.OldValues)
		assert.NotNil(t, entry.NewValues)
	})

	t.Run("suffixes when the COPY number is taken", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)
		source := f.repo.add(&contract.Contract{ContractNumber: "CNT-001"})
		f.repo.add(&contract.Contract{ContractNumber: "CNT-001-COPY"})

		copied, err := f.svc.Duplicate(f.ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, "CNT-001-COPY-1", copied.ContractNumber)
	})

	t.Run("unknown source is not found", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)

		_, err := f.svc.Duplicate(f.ctx, uuid.New())
		assert.ErrorIs(t, err, contract.ErrNotFound)
	})
}

func TestContractBulkUpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("skips rows already at the target status", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)
		draft := f.repo.add(&contract.Contract{ContractNumber: "CNT-001", Status: contract.StatusDraft})
		active := f.repo.add(&contract.Contract{ContractNumber: "CNT-002", Status: contract.StatusActive})

		err := f.svc.BulkUpdateStatus(f.ctx, []uuid.UUID{draft.ID, active.ID}, contract.StatusActive)
		require.NoError(t, err)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, auditlog.ActionBulkUpdate, f.audit.entries[0].Action)
		assert.Equal(t, draft.ID, f.audit.entries[0].EntityID)
		assert.Equal(t, contract.StatusActive, f.repo.byID[draft.ID].Status)
		assert.Contains(t, f.inval.paths, "/contracts")
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)

		err := f.svc.BulkUpdateStatus(f.ctx, nil, contract.Status("archived"))
		var base *serrors.Base
		require.ErrorAs(t, err, &base)
		assert.Equal(t, "VALIDATION", base.Code)
	})
}

func TestContractInvalidation(t *testing.T) {
	t.Parallel()

	t.Run("update drops both supplier pages on relink", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)
		oldSupplier := uuid.New()
		newSupplier := uuid.New()
		source := f.repo.add(&contract.Contract{
			ContractNumber: "CNT-001",
			Name:           "Hilton 2026",
			SupplierID:     uuid.NullUUID{UUID: oldSupplier, Valid: true},
			Status:         contract.StatusActive,
		})

		raw := newSupplier.String()
		dto := &contract.UpdateDTO{
			Name:       "Hilton 2026",
			SupplierID: &raw,
			ValidFrom:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			ValidTo:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Currency:   "USD",
			Status:     string(contract.StatusActive),
		}
		updated, err := f.svc.Update(f.ctx, source.ID, dto)
		require.NoError(t, err)
		require.True(t, updated.SupplierID.Valid)

		assert.Contains(t, f.inval.paths, "/contracts")
		assert.Contains(t, f.inval.paths, "/contracts/"+source.ID.String())
		assert.Contains(t, f.inval.paths, "/suppliers/"+newSupplier.String())
		assert.Contains(t, f.inval.paths, "/suppliers/"+oldSupplier.String())
	})

	t.Run("delete drops the linked supplier page", func(t *testing.T) {
		t.Parallel()
		f := newContractFixture(t)
		supplierID := uuid.New()
		source := f.repo.add(&contract.Contract{
			ContractNumber: "CNT-001",
			SupplierID:     uuid.NullUUID{UUID: supplierID, Valid: true},
		})

		require.NoError(t, f.svc.Delete(f.ctx, source.ID))
		assert.Empty(t, f.repo.byID)

		require.Len(t, f.audit.entries, 1)
		assert.Equal(t, auditlog.ActionDelete, f.audit.entries[0].Action)
		assert.Contains(t, f.inval.paths, "/suppliers/"+supplierID.String())
	})
}
