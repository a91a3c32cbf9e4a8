package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/sellingrate"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeSellingRate = "selling_rate"

type SellingRateService struct {
	repo        sellingrate.Repository
	audit       *auditservices.AuditService
	invalidator invalidation.Invalidator
}

func NewSellingRateService(
	repo sellingrate.Repository,
	audit *auditservices.AuditService,
	invalidator invalidation.Invalidator,
) *SellingRateService {
	return &SellingRateService{repo: repo, audit: audit, invalidator: invalidator}
}

func (s *SellingRateService) GetByID(ctx context.Context, id uuid.UUID) (*sellingrate.SellingRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *SellingRateService) ByProduct(ctx context.Context, productID uuid.UUID) ([]*sellingrate.SellingRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.ByProduct(ctx, productID)
}

func (s *SellingRateService) Create(ctx context.Context, dto *sellingrate.CreateDTO) (*sellingrate.SellingRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*sellingrate.SellingRate, error) {
		entity := &sellingrate.SellingRate{
			RateName:        dto.RateName,
			ProductID:       parseNullUUID(dto.ProductID),
			ProductOptionID: parseNullUUID(dto.ProductOptionID),
			ValidFrom:       dto.ValidFrom,
			ValidTo:         dto.ValidTo,
			RateBasis:       dto.RateBasis,
			PricingModel:    sellingrate.PricingModel(dto.PricingModel),
			BasePrice:       dto.BasePrice,
			Currency:        dto.Currency,
			MarkupType:      dto.MarkupType,
			MarkupAmount:    dto.MarkupAmount,
			PricingDetails:  dto.PricingDetails,
			TargetCost:      dto.TargetCost,
			IsActive:        true,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSellingRate,
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

func (s *SellingRateService) Update(ctx context.Context, id uuid.UUID, dto *sellingrate.CreateDTO) (*sellingrate.SellingRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*sellingrate.SellingRate, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing

		existing.RateName = dto.RateName
		existing.ProductID = parseNullUUID(dto.ProductID)
		existing.ProductOptionID = parseNullUUID(dto.ProductOptionID)
		existing.ValidFrom = dto.ValidFrom
		existing.ValidTo = dto.ValidTo
		existing.RateBasis = dto.RateBasis
		existing.PricingModel = sellingrate.PricingModel(dto.PricingModel)
		existing.BasePrice = dto.BasePrice
		existing.Currency = dto.Currency
		existing.MarkupType = dto.MarkupType
		existing.MarkupAmount = dto.MarkupAmount
		existing.PricingDetails = dto.PricingDetails
		existing.TargetCost = dto.TargetCost

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSellingRate,
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

func (s *SellingRateService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var deleted *sellingrate.SellingRate
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
			EntityType: entityTypeSellingRate,
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
func (s *SellingRateService) Duplicate(ctx context.Context, id uuid.UUID) (*sellingrate.SellingRate, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*sellingrate.SellingRate, error) {
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
			EntityType: entityTypeSellingRate,
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

func (s *SellingRateService) invalidateFor(ctx context.Context, r *sellingrate.SellingRate) {
	paths := []string{"/selling-rates"}
	if r.ProductID.Valid {
		paths = append(paths, "/products/"+r.ProductID.UUID.String())
	}
	s.invalidator.Invalidate(ctx, paths...)
}
