package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeContract = "contract"

type ContractService struct {
	repo        contract.Repository
	audit       *auditservices.AuditService
	publisher   eventbus.EventBus
	invalidator invalidation.Invalidator
}

func NewContractService(
	repo contract.Repository,
	audit *auditservices.AuditService,
	publisher eventbus.EventBus,
	invalidator invalidation.Invalidator,
) *ContractService {
	return &ContractService{
		repo:        repo,
		audit:       audit,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ContractService) GetPaginatedWithTotal(ctx context.Context, params *contract.FindParams) ([]*contract.Contract, int64, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, 0, serrors.Unauthorized("")
	}
	if params == nil {
		params = &contract.FindParams{}
	}
	rows, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ContractService) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	return s.repo.CountBySupplier(ctx, supplierID)
}

// Create inserts a contract, deriving the org-scoped contract number from the
// name when the caller left it blank.
func (s *ContractService) Create(ctx context.Context, dto *contract.CreateDTO) (*contract.Contract, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*contract.Contract, error) {
		number := dto.ContractNumber
		if number == "" {
			var err error
			number, err = codegen.Generate(txCtx, codegen.Slugify(dto.Name), s.repo.NumberExists)
			if err != nil {
				return nil, err
			}
		} else {
			taken, err := s.repo.NumberExists(txCtx, number)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, serrors.Conflict("contract number already in use", "ContractNumber")
			}
		}

		status := contract.StatusDraft
		if dto.Status != "" {
			status = contract.Status(dto.Status)
		}

		entity := &contract.Contract{
			ContractNumber:     number,
			Name:               dto.Name,
			Type:               dto.Type,
			SupplierID:         parseNullUUID(dto.SupplierID),
			EventID:            parseNullUUID(dto.EventID),
			ValidFrom:          dto.ValidFrom,
			ValidTo:            dto.ValidTo,
			Currency:           dto.Currency,
			TotalCost:          dto.TotalCost,
			CommissionRate:     dto.CommissionRate,
			Status:             status,
			PaymentTerms:       dto.PaymentTerms,
			CancellationPolicy: dto.CancellationPolicy,
			Terms:              dto.Terms,
			Files:              dto.Files,
			Notes:              dto.Notes,
			OwnerID:            uuid.NullUUID{UUID: composables.UseUserID(txCtx), Valid: composables.UseUserID(txCtx) != uuid.Nil},
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeContract,
			EntityID:   created.ID,
			Action:     auditlog.ActionCreate,
			New:        created,
		}); err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created, nil)
	s.publisher.Publish(contract.CreatedEvent{Result: created})
	return created, nil
}

func (s *ContractService) Update(ctx context.Context, id uuid.UUID, dto *contract.UpdateDTO) (*contract.Contract, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	var before *contract.Contract
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*contract.Contract, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing
		before = &snapshot

		existing.Name = dto.Name
		existing.Type = dto.Type
		existing.SupplierID = parseNullUUID(dto.SupplierID)
		existing.EventID = parseNullUUID(dto.EventID)
		existing.ValidFrom = dto.ValidFrom
		existing.ValidTo = dto.ValidTo
		existing.Currency = dto.Currency
		existing.TotalCost = dto.TotalCost
		existing.CommissionRate = dto.CommissionRate
		existing.Status = contract.Status(dto.Status)
		existing.PaymentTerms = dto.PaymentTerms
		existing.CancellationPolicy = dto.CancellationPolicy
		existing.Terms = dto.Terms
		existing.Files = dto.Files
		existing.Notes = dto.Notes

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeContract,
			EntityID:   updated.ID,
			Action:     auditlog.ActionUpdate,
			Old:        before,
			New:        updated,
		}); err != nil {
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated, before)
	s.publisher.Publish(contract.UpdatedEvent{Before: before, Result: updated})
	return updated, nil
}

func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var deleted *contract.Contract
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = existing
		return s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeContract,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, deleted, nil)
	s.publisher.Publish(contract.DeletedEvent{Result: deleted})
	return nil
}

// Duplicate copies a contract under a fresh "-COPY" number. The copy always
// starts out as a draft.
func (s *ContractService) Duplicate(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*contract.Contract, error) {
		source, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		number, err := codegen.GenerateCopy(txCtx, source.ContractNumber, s.repo.NumberExists)
		if err != nil {
			return nil, err
		}

		clone := *source
		clone.ID = uuid.Nil
		clone.ContractNumber = number
		clone.Status = contract.StatusDraft
		created, err := s.repo.Create(txCtx, &clone)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeContract,
			EntityID:   created.ID,
			Action:     auditlog.ActionDuplicate,
			Old:        source,
			New:        created,
		}); err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created, nil)
	s.publisher.Publish(contract.CreatedEvent{Result: created})
	return created, nil
}

func (s *ContractService) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			existing, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if err := s.repo.Delete(txCtx, id); err != nil {
				return err
			}
			if err := s.audit.Record(txCtx, auditservices.RecordParams{
				EntityType: entityTypeContract,
				EntityID:   id,
				Action:     auditlog.ActionBulkDelete,
				Old:        existing,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/contracts")
	return nil
}

// BulkUpdateStatus moves each contract to the given status, skipping rows
// already there and recording one audit entry per changed row.
func (s *ContractService) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status contract.Status) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}
	if !status.IsValid() {
		return serrors.Validation("unknown contract status", "Status")
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			existing, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if existing.Status == status {
				continue
			}
			snapshot := *existing
			existing.Status = status
			updated, err := s.repo.Update(txCtx, existing)
			if err != nil {
				return err
			}
			if err := s.audit.Record(txCtx, auditservices.RecordParams{
				EntityType: entityTypeContract,
				EntityID:   id,
				Action:     auditlog.ActionBulkUpdate,
				Old:        &snapshot,
				New:        updated,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/contracts")
	return nil
}

// invalidate drops the contract list and detail pages, plus the supplier
// detail pages a changed contract is (or was) linked to.
func (s *ContractService) invalidate(ctx context.Context, c *contract.Contract, before *contract.Contract) {
	paths := []string{"/contracts", "/contracts/" + c.ID.String()}
	if c.SupplierID.Valid {
		paths = append(paths, "/suppliers/"+c.SupplierID.UUID.String())
	}
	if before != nil && before.SupplierID.Valid && before.SupplierID != c.SupplierID {
		paths = append(paths, "/suppliers/"+before.SupplierID.UUID.String())
	}
	s.invalidator.Invalidate(ctx, paths...)
}

func parseNullUUID(s *string) uuid.NullUUID {
	if s == nil || *s == "" {
		return uuid.NullUUID{}
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: id, Valid: true}
}
