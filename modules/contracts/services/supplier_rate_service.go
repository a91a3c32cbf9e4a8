package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeSupplierRate = "supplier_rate"

type SupplierRateService struct {
	repo        supplierrate.Repository
	audit       *auditservices.AuditService
	invalidator invalidation.Invalidator
}

func NewSupplierRateService(
	repo supplierrate.Repository,
	audit *auditservices.AuditService,
	invalidator invalidation.Invalidator,
) *SupplierRateService {
	return &SupplierRateService{repo: repo, audit: audit, invalidator: invalidator}
}

func (s *SupplierRateService) GetByID(ctx context.Context, id uuid.UUID) (*supplierrate.SupplierRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *SupplierRateService) ByContract(ctx context.Context, contractID uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.ByContract(ctx, contractID)
}

func (s *SupplierRateService) Create(ctx context.Context, dto *supplierrate.CreateDTO) (*supplierrate.SupplierRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs := serrors.FromValidate(constants.Validate.Struct(dto)); len(errs) > 0 {
		return nil, errs
	}
	if dto.ValidTo.Before(dto.ValidFrom) {
		return nil, serrors.Validation("valid_to must not be before valid_from", "ValidTo")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*supplierrate.SupplierRate, error) {
		entity := &supplierrate.SupplierRate{
			RateName:        dto.RateName,
			SupplierID:      parseNullUUID(dto.SupplierID),
			ContractID:      parseNullUUID(dto.ContractID),
			AllocationID:    parseNullUUID(dto.AllocationID),
			ProductID:       parseNullUUID(dto.ProductID),
			ProductOptionID: parseNullUUID(dto.ProductOptionID),
			ValidFrom:       dto.ValidFrom,
			ValidTo:         dto.ValidTo,
			BaseCost:        dto.BaseCost,
			Currency:        dto.Currency,
			MarkupType:      dto.MarkupType,
			MarkupAmount:    dto.MarkupAmount,
			PricingDetails:  dto.PricingDetails,
			IsActive:        true,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplierRate,
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

	s.invalidateFor(ctx, created)
	return created, nil
}

func (s *SupplierRateService) Update(ctx context.Context, id uuid.UUID, dto *supplierrate.CreateDTO) (*supplierrate.SupplierRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs := serrors.FromValidate(constants.Validate.Struct(dto)); len(errs) > 0 {
		return nil, errs
	}

	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*supplierrate.SupplierRate, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing

		existing.RateName = dto.RateName
		existing.SupplierID = parseNullUUID(dto.SupplierID)
		existing.ContractID = parseNullUUID(dto.ContractID)
		existing.AllocationID = parseNullUUID(dto.AllocationID)
		existing.ProductID = parseNullUUID(dto.ProductID)
		existing.ProductOptionID = parseNullUUID(dto.ProductOptionID)
		existing.ValidFrom = dto.ValidFrom
		existing.ValidTo = dto.ValidTo
		existing.BaseCost = dto.BaseCost
		existing.Currency = dto.Currency
		existing.MarkupType = dto.MarkupType
		existing.MarkupAmount = dto.MarkupAmount
		existing.PricingDetails = dto.PricingDetails

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplierRate,
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

	s.invalidateFor(ctx, updated)
	return updated, nil
}

func (s *SupplierRateService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var deleted *supplierrate.SupplierRate
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
			EntityType: entityTypeSupplierRate,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.invalidateFor(ctx, deleted)
	return nil
}

// Duplicate copies a rate under a fresh "-COPY" name.
func (s *SupplierRateService) Duplicate(ctx context.Context, id uuid.UUID) (*supplierrate.SupplierRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*supplierrate.SupplierRate, error) {
		source, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		name, err := codegen.GenerateCopy(txCtx, source.RateName, s.repo.RateNameExists)
		if err != nil {
			return nil, err
		}

		clone := *source
		clone.ID = uuid.Nil
		clone.RateName = name
		created, err := s.repo.Create(txCtx, &clone)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplierRate,
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

	s.invalidateFor(ctx, created)
	return created, nil
}

func (s *SupplierRateService) invalidateFor(ctx context.Context, r *supplierrate.SupplierRate) {
	paths := []string{"/supplier-rates"}
	if r.ContractID.Valid {
		paths = append(paths, "/contracts/"+r.ContractID.UUID.String())
	}
	if r.ProductID.Valid {
		paths = append(paths, "/products/"+r.ProductID.UUID.String())
	}
	s.invalidator.Invalidate(ctx, paths...)
}
