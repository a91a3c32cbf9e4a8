package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/mapping"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const (
	eventDetailDisplayLimit = 6
	eventDetailBookingLimit = 8
)

// BookingItemDetail is one booking item joined with its booking header.
type BookingItemDetail struct {
	Item    *booking.Item
	Booking *booking.Booking
}

// EventDetail is the full nested view of one event. Products and Contracts
// carry only the display rows; the count fields reflect the true totals.
type EventDetail struct {
	Event            *event.Event
	Products         []*product.Product
	ProductTotal     int64
	ProductActive    int64
	Contracts        []*contract.Contract
	ContractTotal    int64
	ContractActive   int64
	RecentBookings   []*BookingItemDetail
	UpcomingBookings int
	// Revenue sums total_price_base per item, falling back to total_price.
	// RevenueCurrency is the first non-empty currency encountered.
	Revenue         decimal.Decimal
	RevenueCurrency string
	LoadErrors      map[string]bool
}

type EventQueryService struct {
	events    event.Repository
	products  product.Repository
	contracts contract.Repository
	bookings  booking.Repository
}

func NewEventQueryService(
	events event.Repository,
	products product.Repository,
	contracts contract.Repository,
	bookings booking.Repository,
) *EventQueryService {
	return &EventQueryService{
		events:    events,
		products:  products,
		contracts: contracts,
		bookings:  bookings,
	}
}

// GetDetail assembles the event detail view. The root fetch is fatal; every
// related collection degrades to an empty value plus a LoadErrors flag.
func (s *EventQueryService) GetDetail(ctx context.Context, id uuid.UUID) (*EventDetail, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	root, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{
		Event:      root,
		LoadErrors: map[string]bool{},
	}
	logger := composables.UseLogger(ctx)

	var mu sync.Mutex
	fail := func(section string, err error) {
		logger.WithError(err).WithField("section", section).Warn("event detail section failed to load")
		mu.Lock()
		detail.LoadErrors[section] = true
		mu.Unlock()
	}

	var products []*product.Product

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// All of the event's products: the revenue and upcoming tallies
		// cover every linked booking item, not just the displayed rows.
		var err error
		if products, err = s.products.ByEvent(gctx, id, 0); err != nil {
			fail("products", err)
		}
		return nil
	})
	g.Go(func() error {
		total, active, err := s.products.CountByEvent(gctx, id)
		if err != nil {
			fail("products", err)
			return nil
		}
		detail.ProductTotal, detail.ProductActive = total, active
		return nil
	})
	g.Go(func() error {
		contracts, err := s.contracts.ByEvent(gctx, id, eventDetailDisplayLimit)
		if err != nil {
			fail("contracts", err)
			return nil
		}
		detail.Contracts = contracts
		return nil
	})
	g.Go(func() error {
		total, active, err := s.contracts.CountByEvent(gctx, id)
		if err != nil {
			fail("contracts", err)
			return nil
		}
		detail.ContractTotal, detail.ContractActive = total, active
		return nil
	})
	_ = g.Wait()

	eventProducts := mapping.MapByKey(products, func(p *product.Product) uuid.UUID { return p.ID })
	if len(products) > eventDetailDisplayLimit {
		detail.Products = products[:eventDetailDisplayLimit]
	} else {
		detail.Products = products
	}

	productIDs := mapping.Keys(products, func(p *product.Product) uuid.UUID { return p.ID })
	items, err := s.bookings.ItemsByProductIDs(ctx, productIDs)
	if err != nil {
		fail("bookings", err)
		items = nil
	}

	// Keep only items whose product still belongs to this event: a shared
	// product id must not pull another event's bookings into the view.
	kept := items[:0:0]
	for _, item := range items {
		if item.ProductID.Valid && eventProducts[item.ProductID.UUID] != nil {
			kept = append(kept, item)
		}
	}

	today := time.Now().UTC()
	for _, item := range kept {
		detail.Revenue = detail.Revenue.Add(item.RevenueAmount())
		if detail.RevenueCurrency == "" && item.Currency != "" {
			detail.RevenueCurrency = item.Currency
		}
		if item.Upcoming(today) {
			detail.UpcomingBookings++
		}
	}

	display := kept
	if len(display) > eventDetailBookingLimit {
		display = display[:eventDetailBookingLimit]
	}
	bookingIDs := mapping.Keys(display, func(i *booking.Item) uuid.UUID { return i.BookingID })
	bookings, err := s.bookings.BookingsByIDs(ctx, bookingIDs)
	if err != nil {
		fail("bookings", err)
	}
	bookingByID := mapping.MapByKey(bookings, func(b *booking.Booking) uuid.UUID { return b.ID })
	for _, item := range display {
		detail.RecentBookings = append(detail.RecentBookings, &BookingItemDetail{
			Item:    item,
			Booking: bookingByID[item.BookingID],
		})
	}
	return detail, nil
}
