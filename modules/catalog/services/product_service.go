package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const (
	entityTypeProduct = "product"

	// suggestedCodeMaxLen caps auto-suggested product codes.
	suggestedCodeMaxLen = 32
)

// MediaRemover deletes an uploaded image behind its stored public URL.
// Removal failures are logged, never fatal to the mutation.
type MediaRemover interface {
	Delete(ctx context.Context, publicURL string) error
}

type ProductService struct {
	repo        product.Repository
	types       producttype.Repository
	media       MediaRemover
	audit       *auditservices.AuditService
	publisher   eventbus.EventBus
	invalidator invalidation.Invalidator
}

func NewProductService(
	repo product.Repository,
	types producttype.Repository,
	media MediaRemover,
	audit *auditservices.AuditService,
	publisher eventbus.EventBus,
	invalidator invalidation.Invalidator,
) *ProductService {
	return &ProductService{
		repo:        repo,
		types:       types,
		media:       media,
		audit:       audit,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Types(ctx context.Context) ([]*producttype.ProductType, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.types.GetAll(ctx)
}

func (s *ProductService) GetPaginatedWithTotal(ctx context.Context, params *product.FindParams) ([]*product.Product, int64, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, 0, serrors.Unauthorized("")
	}
	if params == nil {
		params = &product.FindParams{}
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

// SuggestCode derives a free product code from the name: the product type's
// prefix is stripped from the slugified name, re-prepended, and the result is
// truncated before the uniqueness probe.
func (s *ProductService) SuggestCode(ctx context.Context, productTypeID uuid.UUID, name string) (string, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return "", serrors.Unauthorized("")
	}
	pt, err := s.types.GetByID(ctx, productTypeID)
	if err != nil {
		return "", err
	}

	slug := codegen.Slugify(name)
	if pt.CodePrefix != "" {
		slug = strings.TrimPrefix(slug, pt.CodePrefix+"-")
		slug = pt.CodePrefix + "-" + slug
	}
	base := codegen.Truncate(slug, suggestedCodeMaxLen)

	return codegen.Generate(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.CodeExists(ctx, productTypeID, candidate)
	})
}

func (s *ProductService) Create(ctx context.Context, dto *product.CreateDTO) (*product.Product, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}
	typeID, err := uuid.Parse(dto.ProductTypeID)
	if err != nil {
		return nil, serrors.Validation("product_type_id must be a UUID", "ProductTypeID")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*product.Product, error) {
		code := dto.Code
		if code == "" {
			var err error
			code, err = s.SuggestCode(txCtx, typeID, dto.Name)
			if err != nil {
				return nil, err
			}
		} else {
			taken, err := s.repo.CodeExists(txCtx, typeID, code)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, serrors.Conflict("product code already in use", "Code")
			}
		}

		entity := &product.Product{
			ProductTypeID: typeID,
			Name:          dto.Name,
			Code:          code,
			Description:   dto.Description,
			Location:      dto.Location,
			Attributes:    dto.Attributes,
			EventID:       parseNullUUID(dto.EventID),
			Tags:          dto.Tags,
			Media:         dto.Media,
			IsActive:      true,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProduct,
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
	s.publisher.Publish(product.CreatedEvent{Result: created})
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, dto *product.UpdateDTO) (*product.Product, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	var before *product.Product
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*product.Product, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing
		before = &snapshot

		existing.Name = dto.Name
		existing.Description = dto.Description
		existing.Location = dto.Location
		existing.Attributes = dto.Attributes
		existing.EventID = parseNullUUID(dto.EventID)
		existing.Tags = dto.Tags
		existing.Media = dto.Media
		if dto.IsActive != nil {
			existing.IsActive = *dto.IsActive
		}

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProduct,
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

	s.removeDroppedMedia(ctx, before.Media, updated.Media)
	s.invalidate(ctx, updated, before)
	s.publisher.Publish(product.UpdatedEvent{Before: before, Result: updated})
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var deleted *product.Product
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
			EntityType: entityTypeProduct,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.removeDroppedMedia(ctx, deleted.Media, nil)
	s.invalidate(ctx, deleted, nil)
	s.publisher.Publish(product.DeletedEvent{Result: deleted})
	return nil
}

// Duplicate copies a product under a fresh "-COPY" code.
func (s *ProductService) Duplicate(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*product.Product, error) {
		source, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		code, err := codegen.GenerateCopy(txCtx, source.Code, func(ctx context.Context, candidate string) (bool, error) {
			return s.repo.CodeExists(ctx, source.ProductTypeID, candidate)
		})
		if err != nil {
			return nil, err
		}

		clone := *source
		clone.ID = uuid.Nil
		clone.Code = code
		created, err := s.repo.Create(txCtx, &clone)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeProduct,
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
	s.publisher.Publish(product.CreatedEvent{Result: created})
	return created, nil
}

func (s *ProductService) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var removed []*product.Product
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
				EntityType: entityTypeProduct,
				EntityID:   id,
				Action:     auditlog.ActionBulkDelete,
				Old:        existing,
			}); err != nil {
				return err
			}
			removed = append(removed, existing)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range removed {
		s.removeDroppedMedia(ctx, p.Media, nil)
	}
	s.invalidator.Invalidate(ctx, "/products")
	return nil
}

func (s *ProductService) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	action := auditlog.ActionDeactivate
	if active {
		action = auditlog.ActionActivate
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			existing, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if existing.IsActive == active {
				continue
			}
			snapshot := *existing
			existing.IsActive = active
			updated, err := s.repo.Update(txCtx, existing)
			if err != nil {
				return err
			}
			if err := s.audit.Record(txCtx, auditservices.RecordParams{
				EntityType: entityTypeProduct,
				EntityID:   id,
				Action:     action,
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

	s.invalidator.Invalidate(ctx, "/products")
	return nil
}

// removeDroppedMedia deletes stored images no longer referenced after a
// mutation. Best-effort: a failed delete only leaks an object.
func (s *ProductService) removeDroppedMedia(ctx context.Context, before, after []string) {
	if s.media == nil {
		return
	}
	kept := make(map[string]bool, len(after))
	for _, url := range after {
		kept[url] = true
	}
	logger := composables.UseLogger(ctx)
	for _, url := range before {
		if kept[url] {
			continue
		}
		if err := s.media.Delete(ctx, url); err != nil {
			logger.WithError(err).WithField("url", url).Warn("failed to delete dropped media")
		}
	}
}

func (s *ProductService) invalidate(ctx context.Context, p *product.Product, before *product.Product) {
	paths := []string{"/products", "/products/" + p.ID.String()}
	if p.EventID.Valid {
		paths = append(paths, "/events/"+p.EventID.UUID.String())
	}
	if before != nil && before.EventID.Valid && before.EventID != p.EventID {
		paths = append(paths, "/events/"+before.EventID.UUID.String())
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
