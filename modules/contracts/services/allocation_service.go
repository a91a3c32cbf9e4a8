package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeAllocation = "contract_allocation"

type AllocationService struct {
	repo        allocation.Repository
	audit       *auditservices.AuditService
	invalidator invalidation.Invalidator
}

func NewAllocationService(
	repo allocation.Repository,
	audit *auditservices.AuditService,
	invalidator invalidation.Invalidator,
) *AllocationService {
	return &AllocationService{repo: repo, audit: audit, invalidator: invalidator}
}

func (s *AllocationService) GetByID(ctx context.Context, id uuid.UUID) (*allocation.Allocation, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *AllocationService) ByContract(ctx context.Context, contractID uuid.UUID) ([]*allocation.Allocation, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.ByContract(ctx, contractID)
}

func (s *AllocationService) Create(ctx context.Context, dto *allocation.CreateDTO) (*allocation.Allocation, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs := serrors.FromValidate(constants.Validate.Struct(dto)); len(errs) > 0 {
		return nil, errs
	}
	if dto.ValidTo.Before(dto.ValidFrom) {
		return nil, serrors.Validation("valid_to must not be before valid_from", "ValidTo")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*allocation.Allocation, error) {
		entity := &allocation.Allocation{
			ContractID:      dto.ContractID,
			ProductID:       parseNullUUID(dto.ProductID),
			ProductOptionID: parseNullUUID(dto.ProductOptionID),
			TotalQuantity:   dto.TotalQuantity,
			ValidFrom:       dto.ValidFrom,
			ValidTo:         dto.ValidTo,
			Notes:           dto.Notes,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeAllocation,
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

	s.invalidator.Invalidate(ctx, "/contracts/"+created.ContractID.String())
	return created, nil
}

func (s *AllocationService) Update(ctx context.Context, id uuid.UUID, dto *allocation.CreateDTO) (*allocation.Allocation, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs := serrors.FromValidate(constants.Validate.Struct(dto)); len(errs) > 0 {
		return nil, errs
	}

	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*allocation.Allocation, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing

		existing.ProductID = parseNullUUID(dto.ProductID)
		existing.ProductOptionID = parseNullUUID(dto.ProductOptionID)
		existing.TotalQuantity = dto.TotalQuantity
		existing.ValidFrom = dto.ValidFrom
		existing.ValidTo = dto.ValidTo
		existing.Notes = dto.Notes

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeAllocation,
			EntityID:   id,
			Action:     auditlog.ActionUpdate,
			Old:        &snapshot,
			New:        updated,
		}); err != nil {
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, "/contracts/"+updated.ContractID.String())
	return updated, nil
}

func (s *AllocationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var contractID uuid.UUID
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		contractID = existing.ContractID
		return s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeAllocation,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/contracts/"+contractID.String())
	return nil
}
