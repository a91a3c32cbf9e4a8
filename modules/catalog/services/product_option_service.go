package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeProductOption = "product_option"

type ProductOptionService struct {
	repo        productoption.Repository
	audit       *auditservices.AuditService
	invalidator invalidation.Invalidator
}

func NewProductOptionService(
	repo productoption.Repository,
	audit *auditservices.AuditService,
	invalidator invalidation.Invalidator,
) *ProductOptionService {
	return &ProductOptionService{repo: repo, audit: audit, invalidator: invalidator}
}

func (s *ProductOptionService) GetByID(ctx context.Context, id uuid.UUID) (*productoption.Option, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductOptionService) ByProduct(ctx context.Context, productID uuid.UUID) ([]*productoption.Option, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.ByProduct(ctx, productID)
}

func (s *ProductOptionService) Create(ctx context.Context, dto *productoption.CreateDTO) (*productoption.Option, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*productoption.Option, error) {
		code := dto.OptionCode
		if code == "" {
			var err error
			code, err = codegen.Generate(txCtx, codegen.Slugify(dto.OptionName), func(ctx context.Context, candidate string) (bool, error) {
				return s.repo.CodeExists(ctx, dto.ProductID, candidate)
			})
			if err != nil {
				return nil, err
			}
		} else {
			taken, err := s.repo.CodeExists(txCtx, dto.ProductID, code)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, serrors.Conflict("option code already in use for this product", "OptionCode")
			}
		}

		entity := &productoption.Option{
			ProductID:   dto.ProductID,
			OptionName:  dto.OptionName,
			OptionCode:  code,
			Description: dto.Description,
			Attributes:  dto.Attributes,
			IsActive:    true,
			SortOrder:   dto.SortOrder,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProductOption,
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

	s.invalidator.Invalidate(ctx, "/products/"+created.ProductID.String())
	return created, nil
}

func (s *ProductOptionService) Update(ctx context.Context, id uuid.UUID, dto *productoption.UpdateDTO) (*productoption.Option, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*productoption.Option, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing

		existing.OptionName = dto.OptionName
		existing.Description = dto.Description
		existing.Attributes = dto.Attributes
		existing.SortOrder = dto.SortOrder
		if dto.IsActive != nil {
			existing.IsActive = *dto.IsActive
		}

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProductOption,
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

	s.invalidator.Invalidate(ctx, "/products/"+updated.ProductID.String())
	return updated, nil
}

func (s *ProductOptionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var productID uuid.UUID
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		productID = existing.ProductID
		return s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProductOption,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/products/"+productID.String())
	return nil
}

// Duplicate copies an option under a fresh "-COPY" code and name. The two
// keys are probed independently: either may already carry copies.
func (s *ProductOptionService) Duplicate(ctx context.Context, id uuid.UUID) (*productoption.Option, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*productoption.Option, error) {
		source, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}

		code, err := codegen.GenerateCopy(txCtx, source.OptionCode, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.CodeExists(ctx, source.ProductID, candidate)
		})
		if err != nil {
			return nil, err
		}
		name, err := codegen.GenerateCopy(txCtx, source.OptionName, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.NameExists(ctx, source.ProductID, candidate)
		})
		if err != nil {
			return nil, err
		}

		clone := *source
		clone.ID = uuid.Nil
		clone.OptionCode = code
		clone.OptionName = name
		created, err := s.repo.Create(txCtx, &clone)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProductOption,
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

	s.invalidator.Invalidate(ctx, "/products/"+created.ProductID.String())
	return created, nil
}
