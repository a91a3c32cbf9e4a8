package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/sellingrate"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/mapping"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const productDetailAuditLimit = 20

// OptionCounts are the per-option tallies shown alongside each option,
// derived by grouping each fetched collection on its option foreign key.
type OptionCounts struct {
	SellingRates     int
	SupplierRates    int
	Allocations      int
	UpcomingBookings int
}

type OptionDetail struct {
	Option *productoption.Option
	Counts OptionCounts
}

// ProductDetail is the full nested view of one product. Collections that
// failed to load are empty and flagged in LoadErrors.
type ProductDetail struct {
	Product       *product.Product
	ProductType   *producttype.ProductType
	Event         *event.Event
	Attributes    any
	Options       []*OptionDetail
	SellingRates  []*sellingrate.SellingRate
	SupplierRates []*supplierrate.SupplierRate
	Allocations   []*allocation.Allocation
	AuditTrail    []*auditlog.Entry
	LoadErrors    map[string]bool
}

type ProductQueryService struct {
	products      product.Repository
	types         producttype.Repository
	options       productoption.Repository
	sellingRates  sellingrate.Repository
	supplierRates supplierrate.Repository
	allocations   allocation.Repository
	bookings      booking.Repository
	events        event.Repository
	audit         *auditservices.AuditService
}

func NewProductQueryService(
	products product.Repository,
	types producttype.Repository,
	options productoption.Repository,
	sellingRates sellingrate.Repository,
	supplierRates supplierrate.Repository,
	allocations allocation.Repository,
	bookings booking.Repository,
	events event.Repository,
	audit *auditservices.AuditService,
) *ProductQueryService {
	return &ProductQueryService{
		products:      products,
		types:         types,
		options:       options,
		sellingRates:  sellingRates,
		supplierRates: supplierRates,
		allocations:   allocations,
		bookings:      bookings,
		events:        events,
		audit:         audit,
	}
}

// GetDetail assembles the product detail view. The root and product-type
// fetches are fatal; every other collection degrades to an empty slice plus
// a LoadErrors flag.
func (s *ProductQueryService) GetDetail(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	root, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pt, err := s.types.GetByID(ctx, root.ProductTypeID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		Product:     root,
		ProductType: pt,
		LoadErrors:  map[string]bool{},
	}
	if attrs, err := product.DecodeAttributes(pt.Code, root.Attributes); err == nil {
		detail.Attributes = attrs
	} else {
		detail.LoadErrors["attributes"] = true
	}

	logger := composables.UseLogger(ctx)
	var mu sync.Mutex
	fail := func(section string, err error) {
		logger.WithError(err).WithField("section", section).Warn("product detail section failed to load")
		mu.Lock()
		detail.LoadErrors[section] = true
		mu.Unlock()
	}

	var (
		options       []*productoption.Option
		sellingRates  []*sellingrate.SellingRate
		supplierRates []*supplierrate.SupplierRate
		allocations   []*allocation.Allocation
		items         []*booking.Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if options, err = s.options.ByProduct(gctx, id); err != nil {
			fail("options", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sellingRates, err = s.sellingRates.ByProduct(gctx, id); err != nil {
			fail("sellingRates", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if supplierRates, err = s.supplierRates.ByProduct(gctx, id); err != nil {
			fail("supplierRates", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if allocations, err = s.allocations.ByProduct(gctx, id); err != nil {
			fail("allocations", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if items, err = s.bookings.ItemsByProductIDs(gctx, []uuid.UUID{id}); err != nil {
			fail("bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		trail, err := s.audit.Trail(gctx, entityTypeProduct, id, productDetailAuditLimit)
		if err != nil {
			fail("auditTrail", err)
			return nil
		}
		detail.AuditTrail = trail
		return nil
	})
	if root.EventID.Valid {
		g.Go(func() error {
			ev, err := s.events.GetByID(gctx, root.EventID.UUID)
			if err != nil {
				fail("event", err)
				return nil
			}
			detail.Event = ev
			return nil
		})
	}
	_ = g.Wait()

	detail.SellingRates = sellingRates
	detail.SupplierRates = supplierRates
	detail.Allocations = allocations

	// Per-option tallies come from grouping the already-fetched collections
	// on the option foreign key, never from per-option queries.
	sellingByOption := mapping.GroupByKey(sellingRates, func(r *sellingrate.SellingRate) uuid.NullUUID { return r.ProductOptionID })
	supplierByOption := mapping.GroupByKey(supplierRates, func(r *supplierrate.SupplierRate) uuid.NullUUID { return r.ProductOptionID })
	allocationsByOption := mapping.GroupByKey(allocations, func(a *allocation.Allocation) uuid.NullUUID { return a.ProductOptionID })

	today := time.Now().UTC()
	upcomingByOption := map[uuid.NullUUID]int{}
	for _, item := range items {
		if item.Upcoming(today) {
			upcomingByOption[item.ProductOptionID]++
		}
	}

	for _, o := range options {
		key := uuid.NullUUID{UUID: o.ID, Valid: true}
		detail.Options = append(detail.Options, &OptionDetail{
			Option: o,
			Counts: OptionCounts{
				SellingRates:     len(sellingByOption[key]),
				SupplierRates:    len(supplierByOption[key]),
				Allocations:      len(allocationsByOption[key]),
				UpcomingBookings: upcomingByOption[key],
			},
		})
	}
	return detail, nil
}
