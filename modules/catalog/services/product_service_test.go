package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/sellingrate"
	"github.com/tourhub-uz/tourhub/modules/catalog/services"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
)

type stubProductRepo struct {
	byID  map[uuid.UUID]*product.Product
	taken map[string]bool
}

func (r *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (r *stubProductRepo) GetPaginated(context.Context, *product.FindParams) ([]*product.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) Count(context.Context, *product.FindParams) (int64, error) {
	return 0, nil
}

func (r *stubProductRepo) CodeExists(_ context.Context, _ uuid.UUID, code string) (bool, error) {
	return r.taken[code], nil
}

func (r *stubProductRepo) ByIDs(context.Context, []uuid.UUID) ([]*product.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) ByEvent(context.Context, uuid.UUID, int) ([]*product.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) CountByEvent(context.Context, uuid.UUID) (int64, int64, error) {
	return 0, 0, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *product.Product) (*product.Product, error) {
	return p, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *product.Product) (*product.Product, error) {
	return p, nil
}

func (r *stubProductRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubTypeRepo struct {
	byID map[uuid.UUID]*producttype.ProductType
}

func (r *stubTypeRepo) GetByID(_ context.Context, id uuid.UUID) (*producttype.ProductType, error) {
	pt, ok := r.byID[id]
	if !ok {
		return nil, producttype.ErrNotFound
	}
	return pt, nil
}

func (r *stubTypeRepo) GetAll(context.Context) ([]*producttype.ProductType, error) {
	var out []*producttype.ProductType
	for _, pt := range r.byID {
		out = append(out, pt)
	}
	return out, nil
}

func (r *stubTypeRepo) ByIDs(_ context.Context, ids []uuid.UUID) ([]*producttype.ProductType, error) {
	var out []*producttype.ProductType
	for _, id := range ids {
		if pt, ok := r.byID[id]; ok {
			out = append(out, pt)
		}
	}
	return out, nil
}

type stubOptionRepo struct {
	options []*productoption.Option
	err     error
}

func (r *stubOptionRepo) GetByID(context.Context, uuid.UUID) (*productoption.Option, error) {
	return nil, productoption.ErrNotFound
}

func (r *stubOptionRepo) ByProduct(context.Context, uuid.UUID) ([]*productoption.Option, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.options, nil
}

func (r *stubOptionRepo) ByIDs(context.Context, []uuid.UUID) ([]*productoption.Option, error) {
	return nil, nil
}

func (r *stubOptionRepo) CodeExists(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *stubOptionRepo) NameExists(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *stubOptionRepo) Create(_ context.Context, o *productoption.Option) (*productoption.Option, error) {
	return o, nil
}

func (r *stubOptionRepo) Update(_ context.Context, o *productoption.Option) (*productoption.Option, error) {
	return o, nil
}

func (r *stubOptionRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubSellingRateRepo struct {
	rates []*sellingrate.SellingRate
}

func (r *stubSellingRateRepo) GetByID(context.Context, uuid.UUID) (*sellingrate.SellingRate, error) {
	return nil, sellingrate.ErrNotFound
}

func (r *stubSellingRateRepo) ByProduct(context.Context, uuid.UUID) ([]*sellingrate.SellingRate, error) {
	return r.rates, nil
}

func (r *stubSellingRateRepo) RateNameExists(context.Context, string) (bool, error) {
	return false, nil
}

func (r *stubSellingRateRepo) Create(_ context.Context, rate *sellingrate.SellingRate) (*sellingrate.SellingRate, error) {
	return rate, nil
}

func (r *stubSellingRateRepo) Update(_ context.Context, rate *sellingrate.SellingRate) (*sellingrate.SellingRate, error) {
	return rate, nil
}

func (r *stubSellingRateRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubSupplierRateRepo struct {
	rates []*supplierrate.SupplierRate
}

func (r *stubSupplierRateRepo) GetByID(context.Context, uuid.UUID) (*supplierrate.SupplierRate, error) {
	return nil, supplierrate.ErrNotFound
}

func (r *stubSupplierRateRepo) ByContract(context.Context, uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	return nil, nil
}

func (r *stubSupplierRateRepo) ByProduct(context.Context, uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	return r.rates, nil
}

func (r *stubSupplierRateRepo) RateNameExists(context.Context, string) (bool, error) {
	return false, nil
}

func (r *stubSupplierRateRepo) Create(_ context.Context, rate *supplierrate.SupplierRate) (*supplierrate.SupplierRate, error) {
	return rate, nil
}

func (r *stubSupplierRateRepo) Update(_ context.Context, rate *supplierrate.SupplierRate) (*supplierrate.SupplierRate, error) {
	return rate, nil
}

func (r *stubSupplierRateRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubAllocationRepo struct {
	allocations []*allocation.Allocation
}

func (r *stubAllocationRepo) GetByID(context.Context, uuid.UUID) (*allocation.Allocation, error) {
	return nil, allocation.ErrNotFound
}

func (r *stubAllocationRepo) ByContract(context.Context, uuid.UUID) ([]*allocation.Allocation, error) {
	return nil, nil
}

func (r *stubAllocationRepo) AvailabilityByAllocationIDs(context.Context, []uuid.UUID, int) ([]*allocation.Availability, error) {
	return nil, nil
}

func (r *stubAllocationRepo) ReleasesByAllocationIDs(context.Context, []uuid.UUID) ([]*allocation.Release, error) {
	return nil, nil
}

func (r *stubAllocationRepo) ByProduct(context.Context, uuid.UUID) ([]*allocation.Allocation, error) {
	return r.allocations, nil
}

func (r *stubAllocationRepo) Create(_ context.Context, a *allocation.Allocation) (*allocation.Allocation, error) {
	return a, nil
}

func (r *stubAllocationRepo) Update(_ context.Context, a *allocation.Allocation) (*allocation.Allocation, error) {
	return a, nil
}

func (r *stubAllocationRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubBookingRepo struct {
	items []*booking.Item
}

func (r *stubBookingRepo) RecentItemsByContract(context.Context, uuid.UUID, int) ([]*booking.Item, error) {
	return nil, nil
}

func (r *stubBookingRepo) ItemsByProductIDs(context.Context, []uuid.UUID) ([]*booking.Item, error) {
	return r.items, nil
}

func (r *stubBookingRepo) BookingsByIDs(context.Context, []uuid.UUID) ([]*booking.Booking, error) {
	return nil, nil
}

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

type stubAuditRepo struct {
	entries []*auditlog.Entry
}

func (r *stubAuditRepo) Create(_ context.Context, entry *auditlog.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubAuditRepo) List(context.Context, *auditlog.FindParams) ([]*auditlog.Entry, error) {
	return r.entries, nil
}

func (r *stubAuditRepo) Count(context.Context, *auditlog.FindParams) (int64, error) {
	return int64(len(r.entries)), nil
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func authedCtx() context.Context {
	return composables.WithAuthCtx(context.Background(), composables.AuthContext{
		Subject:        "auth0|tester",
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
	})
}

func TestProductServiceSuggestCode(t *testing.T) {
	repo := &stubProductRepo{byID: map[uuid.UUID]*product.Product{}, taken: map[string]bool{}}
	types := &stubTypeRepo{byID: map[uuid.UUID]*producttype.ProductType{}}
	svc := services.NewProductService(
		repo,
		types,
		nil,
		auditservices.NewAuditService(&stubAuditRepo{}),
		eventbus.NewEventPublisher(logrus.New()),
		invalidation.Noop(),
	)
	ctx := authedCtx()

	typeID := uuid.New()
	types.byID[typeID] = &producttype.ProductType{ID: typeID, Code: producttype.CodeAccommodation, CodePrefix: "HTL"}

	t.Run("prefixes the slugified name", func(t *testing.T) {
		code, err := svc.SuggestCode(ctx, typeID, "Grand Plaza")
		require.NoError(t, err)
		assert.Equal(t, "HTL-GRAND-PLAZA", code)
	})

	t.Run("does not double an existing prefix", func(t *testing.T) {
		code, err := svc.SuggestCode(ctx, typeID, "HTL Grand Plaza")
		require.NoError(t, err)
		assert.Equal(t, "HTL-GRAND-PLAZA", code)
	})

	t.Run("suffixes on collision", func(t *testing.T) {
		repo.taken["HTL-GRAND-PLAZA"] = true
		code, err := svc.SuggestCode(ctx, typeID, "Grand Plaza")
		require.NoError(t, err)
		assert.Equal(t, "HTL-GRAND-PLAZA-1", code)
		delete(repo.taken, "HTL-GRAND-PLAZA")
	})

	t.Run("truncates long names without a trailing hyphen", func(t *testing.T) {
		code, err := svc.SuggestCode(ctx, typeID, "Grand Plaza Hotel and Convention Center Downtown")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(code), 32)
		assert.NotEqual(t, byte('-'), code[len(code)-1])
	})

	t.Run("unknown product type is fatal", func(t *testing.T) {
		_, err := svc.SuggestCode(ctx, uuid.New(), "Grand Plaza")
		assert.ErrorIs(t, err, producttype.ErrNotFound)
	})
}

type productDetailFixture struct {
	svc           *services.ProductQueryService
	products      *stubProductRepo
	types         *stubTypeRepo
	options       *stubOptionRepo
	sellingRates  *stubSellingRateRepo
	supplierRates *stubSupplierRateRepo
	allocations   *stubAllocationRepo
	bookings      *stubBookingRepo
	events        *stubEventRepo
	ctx           context.Context
}

func newProductDetailFixture() *productDetailFixture {
	f := &productDetailFixture{
		products:      &stubProductRepo{byID: map[uuid.UUID]*product.Product{}, taken: map[string]bool{}},
		types:         &stubTypeRepo{byID: map[uuid.UUID]*producttype.ProductType{}},
		options:       &stubOptionRepo{},
		sellingRates:  &stubSellingRateRepo{},
		supplierRates: &stubSupplierRateRepo{},
		allocations:   &stubAllocationRepo{},
		bookings:      &stubBookingRepo{},
		events:        &stubEventRepo{byID: map[uuid.UUID]*event.Event{}},
	}
	f.svc = services.NewProductQueryService(
		f.products,
		f.types,
		f.options,
		f.sellingRates,
		f.supplierRates,
		f.allocations,
		f.bookings,
		f.events,
		auditservices.NewAuditService(&stubAuditRepo{}),
	)
	f.ctx = authedCtx()
	return f
}

func TestProductQueryServiceGetDetail(t *testing.T) {
	f := newProductDetailFixture()

	typeID := uuid.New()
	f.types.byID[typeID] = &producttype.ProductType{ID: typeID, Code: producttype.CodeAccommodation}

	eventID := uuid.New()
	f.events.byID[eventID] = &event.Event{ID: eventID, Name: "Expo 2026"}

	productID := uuid.New()
	f.products.byID[productID] = &product.Product{
		ID:            productID,
		ProductTypeID: typeID,
		Name:          "Grand Plaza",
		EventID:       nullUUID(eventID),
		Attributes:    json.RawMessage(`{"board_basis":"BB"}`),
	}

	optionID := uuid.New()
	f.options.options = []*productoption.Option{
		{ID: optionID, OptionName: "Double Room"},
		{ID: uuid.New(), OptionName: "Suite"},
	}
	f.sellingRates.rates = []*sellingrate.SellingRate{
		{ID: uuid.New(), ProductOptionID: nullUUID(optionID), BasePrice: decimal.NewFromInt(120)},
		{ID: uuid.New(), ProductOptionID: nullUUID(optionID), BasePrice: decimal.NewFromInt(150)},
	}
	f.supplierRates.rates = []*supplierrate.SupplierRate{
		{ID: uuid.New(), ProductOptionID: nullUUID(optionID)},
	}
	f.allocations.allocations = []*allocation.Allocation{
		{ID: uuid.New(), ProductOptionID: nullUUID(optionID)},
		{ID: uuid.New()},
	}
	f.bookings.items = []*booking.Item{
		{
			ID:              uuid.New(),
			ProductID:       nullUUID(productID),
			ProductOptionID: nullUUID(optionID),
			ServiceDateFrom: time.Now().UTC().AddDate(0, 0, 5),
		},
		{
			ID:              uuid.New(),
			ProductID:       nullUUID(productID),
			ProductOptionID: nullUUID(optionID),
			ServiceDateFrom: time.Now().UTC().AddDate(0, 0, -5),
		},
	}

	detail, err := f.svc.GetDetail(f.ctx, productID)
	require.NoError(t, err)

	assert.Empty(t, detail.LoadErrors)
	assert.Equal(t, "Grand Plaza", detail.Product.Name)
	require.NotNil(t, detail.Event)
	assert.Equal(t, "Expo 2026", detail.Event.Name)

	attrs, ok := detail.Attributes.(*product.AccommodationAttributes)
	require.True(t, ok)
	assert.Equal(t, "BB", attrs.BoardBasis)

	require.Len(t, detail.Options, 2)
	first := detail.Options[0]
	assert.Equal(t, "Double Room", first.Option.OptionName)
	assert.Equal(t, 2, first.Counts.SellingRates)
	assert.Equal(t, 1, first.Counts.SupplierRates)
	assert.Equal(t, 1, first.Counts.Allocations)
	assert.Equal(t, 1, first.Counts.UpcomingBookings)

	second := detail.Options[1]
	assert.Equal(t, services.OptionCounts{}, second.Counts)

	assert.Len(t, detail.SellingRates, 2)
	assert.Len(t, detail.SupplierRates, 1)
	assert.Len(t, detail.Allocations, 2)
}

func TestProductQueryServiceGetDetailSectionFailure(t *testing.T) {
	f := newProductDetailFixture()

	typeID := uuid.New()
	f.types.byID[typeID] = &producttype.ProductType{ID: typeID, Code: producttype.CodeTour}

	productID := uuid.New()
	f.products.byID[productID] = &product.Product{ID: productID, ProductTypeID: typeID}
	f.options.err = errors.New("option query timed out")
	f.sellingRates.rates = []*sellingrate.SellingRate{{ID: uuid.New()}}

	detail, err := f.svc.GetDetail(f.ctx, productID)
	require.NoError(t, err)

	assert.True(t, detail.LoadErrors["options"])
	assert.Empty(t, detail.Options)
	assert.Len(t, detail.SellingRates, 1)
}

func TestProductQueryServiceGetDetailMissingTypeIsFatal(t *testing.T) {
	f := newProductDetailFixture()

	productID := uuid.New()
	f.products.byID[productID] = &product.Product{ID: productID, ProductTypeID: uuid.New()}

	_, err := f.svc.GetDetail(f.ctx, productID)
	assert.ErrorIs(t, err, producttype.ErrNotFound)
}
