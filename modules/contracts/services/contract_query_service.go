package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/mapping"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const (
	contractDetailBookingLimit      = 10
	contractDetailAuditLimit        = 20
	contractDetailAvailabilityLimit = 200
)

// AllocationDetail is one allocation joined with its availability series,
// scheduled releases, and derived totals.
type AllocationDetail struct {
	Allocation   *allocation.Allocation
	Product      *product.Product
	Option       *productoption.Option
	Availability []*allocation.Availability
	Releases     []*allocation.Release
	Summary      allocation.Summary
}

// RateDetail is one supplier rate joined with its product and option.
type RateDetail struct {
	Rate    *supplierrate.SupplierRate
	Product *product.Product
	Option  *productoption.Option
}

// BookingItemDetail is one booking item joined with its booking header.
type BookingItemDetail struct {
	Item    *booking.Item
	Booking *booking.Booking
}

// ContractDetail is the full nested view of one contract. Collections that
// failed to load are empty and flagged in LoadErrors.
type ContractDetail struct {
	Contract       *contract.Contract
	Supplier       *supplier.Supplier
	Allocations    []*AllocationDetail
	SupplierRates  []*RateDetail
	RecentBookings []*BookingItemDetail
	AuditTrail     []*auditlog.Entry
	LoadErrors     map[string]bool
}

type ContractQueryService struct {
	contracts   contract.Repository
	suppliers   supplier.Repository
	allocations allocation.Repository
	rates       supplierrate.Repository
	bookings    booking.Repository
	products    product.Repository
	options     productoption.Repository
	audit       *auditservices.AuditService
}

func NewContractQueryService(
	contracts contract.Repository,
	suppliers supplier.Repository,
	allocations allocation.Repository,
	rates supplierrate.Repository,
	bookings booking.Repository,
	products product.Repository,
	options productoption.Repository,
	audit *auditservices.AuditService,
) *ContractQueryService {
	return &ContractQueryService{
		contracts:   contracts,
		suppliers:   suppliers,
		allocations: allocations,
		rates:       rates,
		bookings:    bookings,
		products:    products,
		options:     options,
		audit:       audit,
	}
}

// GetDetail assembles the contract detail view. The root fetch is fatal;
// each related collection degrades to an empty slice plus a LoadErrors flag
// so a single failing section never blanks the page.
func (s *ContractQueryService) GetDetail(ctx context.Context, id uuid.UUID) (*ContractDetail, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	root, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ContractDetail{
		Contract:   root,
		LoadErrors: map[string]bool{},
	}
	logger := composables.UseLogger(ctx)

	var mu sync.Mutex
	fail := func(section string, err error) {
		logger.WithError(err).WithField("section", section).Warn("contract detail section failed to load")
		mu.Lock()
		detail.LoadErrors[section] = true
		mu.Unlock()
	}

	var (
		allocations []*allocation.Allocation
		rates       []*supplierrate.SupplierRate
		items       []*booking.Item
	)

	// First round: fire every related-collection fetch before awaiting any,
	// so total latency is bounded by the slowest query.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if allocations, err = s.allocations.ByContract(gctx, id); err != nil {
			fail("allocations", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if rates, err = s.rates.ByContract(gctx, id); err != nil {
			fail("supplierRates", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if items, err = s.bookings.RecentItemsByContract(gctx, id, contractDetailBookingLimit); err != nil {
			fail("bookings", err)
		}
		return nil
	})
	g.Go(func() error {
		trail, err := s.audit.Trail(gctx, entityTypeContract, id, contractDetailAuditLimit)
		if err != nil {
			fail("auditTrail", err)
			return nil
		}
		detail.AuditTrail = trail
		return nil
	})
	if root.SupplierID.Valid {
		g.Go(func() error {
			sup, err := s.suppliers.GetByID(gctx, root.SupplierID.UUID)
			if err != nil {
				fail("supplier", err)
				return nil
			}
			detail.Supplier = sup
			return nil
		})
	}
	_ = g.Wait()

	// Second round: batch-fetch rows referenced by the first round. Each
	// repository skips the query entirely on an empty id set.
	allocationIDs := mapping.Keys(allocations, func(a *allocation.Allocation) uuid.UUID { return a.ID })

	availability, err := s.allocations.AvailabilityByAllocationIDs(ctx, allocationIDs, contractDetailAvailabilityLimit)
	if err != nil {
		fail("availability", err)
	}
	releases, err := s.allocations.ReleasesByAllocationIDs(ctx, allocationIDs)
	if err != nil {
		fail("releases", err)
	}

	productIDs, optionIDs := referencedCatalogIDs(allocations, rates)
	products, err := s.products.ByIDs(ctx, productIDs)
	if err != nil {
		fail("products", err)
	}
	options, err := s.options.ByIDs(ctx, optionIDs)
	if err != nil {
		fail("options", err)
	}

	bookingIDs := mapping.Keys(items, func(i *booking.Item) uuid.UUID { return i.BookingID })
	bookings, err := s.bookings.BookingsByIDs(ctx, bookingIDs)
	if err != nil {
		fail("bookings", err)
	}

	// In-memory joins only from here on.
	availabilityByAllocation := mapping.GroupByKey(availability, func(a *allocation.Availability) uuid.UUID { return a.AllocationID })
	releasesByAllocation := mapping.GroupByKey(releases, func(r *allocation.Release) uuid.UUID { return r.AllocationID })
	productByID := mapping.MapByKey(products, func(p *product.Product) uuid.UUID { return p.ID })
	optionByID := mapping.MapByKey(options, func(o *productoption.Option) uuid.UUID { return o.ID })
	bookingByID := mapping.MapByKey(bookings, func(b *booking.Booking) uuid.UUID { return b.ID })

	for _, a := range allocations {
		d := &AllocationDetail{
			Allocation:   a,
			Availability: availabilityByAllocation[a.ID],
			Releases:     releasesByAllocation[a.ID],
		}
		d.Summary = allocation.Summarize(d.Availability)
		if a.ProductID.Valid {
			d.Product = productByID[a.ProductID.UUID]
		}
		if a.ProductOptionID.Valid {
			d.Option = optionByID[a.ProductOptionID.UUID]
		}
		detail.Allocations = append(detail.Allocations, d)
	}
	for _, r := range rates {
		d := &RateDetail{Rate: r}
		if r.ProductID.Valid {
			d.Product = productByID[r.ProductID.UUID]
		}
		if r.ProductOptionID.Valid {
			d.Option = optionByID[r.ProductOptionID.UUID]
		}
		detail.SupplierRates = append(detail.SupplierRates, d)
	}
	for _, item := range items {
		detail.RecentBookings = append(detail.RecentBookings, &BookingItemDetail{
			Item:    item,
			Booking: bookingByID[item.BookingID],
		})
	}
	return detail, nil
}

func referencedCatalogIDs(allocations []*allocation.Allocation, rates []*supplierrate.SupplierRate) (productIDs, optionIDs []uuid.UUID) {
	seenProducts := map[uuid.UUID]bool{}
	seenOptions := map[uuid.UUID]bool{}
	addProduct := func(id uuid.NullUUID) {
		if id.Valid && !seenProducts[id.UUID] {
			seenProducts[id.UUID] = true
			productIDs = append(productIDs, id.UUID)
		}
	}
	addOption := func(id uuid.NullUUID) {
		if id.Valid && !seenOptions[id.UUID] {
			seenOptions[id.UUID] = true
			optionIDs = append(optionIDs, id.UUID)
		}
	}
	for _, a := range allocations {
		addProduct(a.ProductID)
		addOption(a.ProductOptionID)
	}
	for _, r := range rates {
		addProduct(r.ProductID)
		addOption(r.ProductOptionID)
	}
	return productIDs, optionIDs
}
