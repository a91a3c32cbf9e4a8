package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/modules/events/services"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type stubEventRepo struct {
	byID map[uuid.UUID]*event.Event
}

func (r *stubEventRepo) GetByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, event.ErrNotFound
	}
	return e, nil
}

func (r *stubEventRepo) GetPaginated(context.Context, *event.FindParams) ([]*event.Event, error) {
	return nil, nil
}

func (r *stubEventRepo) Count(context.Context, *event.FindParams) (int64, error) { return 0, nil }

func (r *stubEventRepo) CodeExists(context.Context, string) (bool, error) { return false, nil }

func (r *stubEventRepo) NameExists(context.Context, string) (bool, error) { return false, nil }

func (r *stubEventRepo) Create(_ context.Context, e *event.Event) (*event.Event, error) {
	return e, nil
}

func (r *stubEventRepo) Update(_ context.Context, e *event.Event) (*event.Event, error) {
	return e, nil
}

func (r *stubEventRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubEventProductRepo struct {
	products []*product.Product
	total    int64
	active   int64
	err      error
}

func (r *stubEventProductRepo) GetByID(context.Context, uuid.UUID) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (r *stubEventProductRepo) GetPaginated(context.Context, *product.FindParams) ([]*product.Product, error) {
	return nil, nil
}

func (r *stubEventProductRepo) Count(context.Context, *product.FindParams) (int64, error) {
	return 0, nil
}

func (r *stubEventProductRepo) CodeExists(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *stubEventProductRepo) ByIDs(context.Context, []uuid.UUID) ([]*product.Product, error) {
	return nil, nil
}

func (r *stubEventProductRepo) ByEvent(context.Context, uuid.UUID, int) ([]*product.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.products, nil
}

func (r *stubEventProductRepo) CountByEvent(context.Context, uuid.UUID) (int64, int64, error) {
	if r.err != nil {
		return 0, 0, r.err
	}
	return r.total, r.active, nil
}

func (r *stubEventProductRepo) Create(_ context.Context, p *product.Product) (*product.Product, error) {
	return p, nil
}

func (r *stubEventProductRepo) Update(_ context.Context, p *product.Product) (*product.Product, error) {
	return p, nil
}

func (r *stubEventProductRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubEventContractRepo struct {
	contracts []*contract.Contract
	total     int64
	active    int64
}

func (r *stubEventContractRepo) GetByID(context.Context, uuid.UUID) (*contract.Contract, error) {
	return nil, contract.ErrNotFound
}

func (r *stubEventContractRepo) GetPaginated(context.Context, *contract.FindParams) ([]*contract.Contract, error) {
	return nil, nil
}

func (r *stubEventContractRepo) Count(context.Context, *contract.FindParams) (int64, error) {
	return 0, nil
}

func (r *stubEventContractRepo) NumberExists(context.Context, string) (bool, error) {
	return false, nil
}

func (r *stubEventContractRepo) CountBySupplier(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *stubEventContractRepo) ByEvent(_ context.Context, _ uuid.UUID, limit int) ([]*contract.Contract, error) {
	if limit > 0 && len(r.contracts) > limit {
		return r.contracts[:limit], nil
	}
	return r.contracts, nil
}

func (r *stubEventContractRepo) CountByEvent(context.Context, uuid.UUID) (int64, int64, error) {
	return r.total, r.active, nil
}

func (r *stubEventContractRepo) Create(_ context.Context, c *contract.Contract) (*contract.Contract, error) {
	return c, nil
}

func (r *stubEventContractRepo) Update(_ context.Context, c *contract.Contract) (*contract.Contract, error) {
	return c, nil
}

func (r *stubEventContractRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubEventBookingRepo struct {
	items    []*booking.Item
	bookings []*booking.Booking
	itemsErr error
}

func (r *stubEventBookingRepo) RecentItemsByContract(context.Context, uuid.UUID, int) ([]*booking.Item, error) {
	return nil, nil
}

func (r *stubEventBookingRepo) ItemsByProductIDs(_ context.Context, ids []uuid.UUID) ([]*booking.Item, error) {
	if r.itemsErr != nil {
		return nil, r.itemsErr
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.items, nil
}

func (r *stubEventBookingRepo) BookingsByIDs(_ context.Context, ids []uuid.UUID) ([]*booking.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.bookings, nil
}

type eventDetailFixture struct {
	svc       *services.EventQueryService
	events    *stubEventRepo
	products  *stubEventProductRepo
	contracts *stubEventContractRepo
	bookings  *stubEventBookingRepo
	ctx       context.Context
}

func newEventDetailFixture() *eventDetailFixture {
	f := &eventDetailFixture{
		events:    &stubEventRepo{byID: map[uuid.UUID]*event.Event{}},
		products:  &stubEventProductRepo{},
		contracts: &stubEventContractRepo{},
		bookings:  &stubEventBookingRepo{},
	}
	f.svc = services.NewEventQueryService(f.events, f.products, f.contracts, f.bookings)
	f.ctx = composables.WithAuthCtx(context.Background(), composables.AuthContext{
		Subject:        "auth0|tester",
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
	})
	return f
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func TestEventQueryServiceGetDetail(t *testing.T) {
	f := newEventDetailFixture()

	eventID := uuid.New()
	f.events.byID[eventID] = &event.Event{ID: eventID, Name: "Expo 2026", Code: "EXPO-2026"}

	productA := uuid.New()
	productB := uuid.New()
	f.products.products = []*product.Product{
		{ID: productA, Name: "Shuttle"},
		{ID: productB, Name: "Gala Dinner"},
	}
	f.products.total, f.products.active = 2, 1
	f.contracts.contracts = []*contract.Contract{
		{ID: uuid.New(), ContractNumber: "CNT-2026-001"},
	}
	f.contracts.total, f.contracts.active = 3, 2

	bookingID := uuid.New()
	otherProduct := uuid.New()
	past := time.Now().UTC().AddDate(0, 0, -10)
	future := time.Now().UTC().AddDate(0, 0, 10)
	f.bookings.items = []*booking.Item{
		{
			ID:              uuid.New(),
			BookingID:       bookingID,
			ProductID:       nullUUID(productA),
			ServiceDateFrom: future,
			TotalPrice:      decimal.NewFromInt(500),
			TotalPriceBase:  decimal.NullDecimal{Decimal: decimal.NewFromInt(450), Valid: true},
			Currency:        "USD",
		},
		{
			ID:              uuid.New(),
			BookingID:       bookingID,
			ProductID:       nullUUID(productB),
			ServiceDateFrom: past,
			TotalPrice:      decimal.NewFromInt(200),
			Currency:        "EUR",
		},
		// Shared product id from another event's catalog: must be dropped.
		{
			ID:              uuid.New(),
			BookingID:       bookingID,
			ProductID:       nullUUID(otherProduct),
			ServiceDateFrom: future,
			TotalPrice:      decimal.NewFromInt(9999),
			Currency:        "USD",
		},
	}
	f.bookings.bookings = []*booking.Booking{
		{ID: bookingID, Reference: "BK-2001"},
	}

	detail, err := f.svc.GetDetail(f.ctx, eventID)
	require.NoError(t, err)

	assert.Empty(t, detail.LoadErrors)
	assert.Equal(t, "EXPO-2026", detail.Event.Code)
	assert.Len(t, detail.Products, 2)
	assert.EqualValues(t, 2, detail.ProductTotal)
	assert.EqualValues(t, 1, detail.ProductActive)
	assert.Len(t, detail.Contracts, 1)
	assert.EqualValues(t, 3, detail.ContractTotal)
	assert.EqualValues(t, 2, detail.ContractActive)

	// 450 (base-currency amount preferred) + 200 (fallback to total_price);
	// the foreign-product item is excluded.
	assert.True(t, detail.Revenue.Equal(decimal.NewFromInt(650)), "revenue %s", detail.Revenue)
	assert.Equal(t, "USD", detail.RevenueCurrency)
	assert.Equal(t, 1, detail.UpcomingBookings)

	require.Len(t, detail.RecentBookings, 2)
	require.NotNil(t, detail.RecentBookings[0].Booking)
	assert.Equal(t, "BK-2001", detail.RecentBookings[0].Booking.Reference)
}

func TestEventQueryServiceGetDetailDisplayCaps(t *testing.T) {
	f := newEventDetailFixture()

	eventID := uuid.New()
	f.events.byID[eventID] = &event.Event{ID: eventID, Name: "Expo 2026"}

	for i := 0; i < 9; i++ {
		f.products.products = append(f.products.products, &product.Product{ID: uuid.New()})
	}
	f.products.total = 9

	bookingID := uuid.New()
	for _, p := range f.products.products {
		f.bookings.items = append(f.bookings.items, &booking.Item{
			ID:         uuid.New(),
			BookingID:  bookingID,
			ProductID:  nullUUID(p.ID),
			TotalPrice: decimal.NewFromInt(10),
		})
	}
	f.bookings.bookings = []*booking.Booking{{ID: bookingID}}

	detail, err := f.svc.GetDetail(f.ctx, eventID)
	require.NoError(t, err)

	// Display rows are capped while totals cover everything.
	assert.Len(t, detail.Products, 6)
	assert.EqualValues(t, 9, detail.ProductTotal)
	assert.Len(t, detail.RecentBookings, 8)
	assert.True(t, detail.Revenue.Equal(decimal.NewFromInt(90)), "revenue %s", detail.Revenue)
}

func TestEventQueryServiceGetDetailSectionFailure(t *testing.T) {
	f := newEventDetailFixture()

	eventID := uuid.New()
	f.events.byID[eventID] = &event.Event{ID: eventID, Name: "Expo 2026"}
	f.products.err = errors.New("product query timed out")
	f.contracts.contracts = []*contract.Contract{{ID: uuid.New()}}
	f.contracts.total = 1

	detail, err := f.svc.GetDetail(f.ctx, eventID)
	require.NoError(t, err)

	assert.True(t, detail.LoadErrors["products"])
	assert.Empty(t, detail.Products)
	assert.Len(t, detail.Contracts, 1)
	assert.True(t, detail.Revenue.IsZero())
}

func TestEventQueryServiceGetDetailRootNotFound(t *testing.T) {
	f := newEventDetailFixture()

	_, err := f.svc.GetDetail(f.ctx, uuid.New())
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestEventQueryServiceGetDetailUnauthorized(t *testing.T) {
	f := newEventDetailFixture()

	_, err := f.svc.GetDetail(context.Background(), uuid.New())
	var base *serrors.Base
	require.ErrorAs(t, err, &base)
	assert.Equal(t, "UNAUTHORIZED", base.Code)
}
