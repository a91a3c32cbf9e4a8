package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/modules/contracts/services"
	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type stubContractRepo struct {
	byID     map[uuid.UUID]*contract.Contract
	byNumber map[string]bool
}

func newStubContractRepo() *stubContractRepo {
	return &stubContractRepo{
		byID:     map[uuid.UUID]*contract.Contract{},
		byNumber: map[string]bool{},
	}
}

func (r *stubContractRepo) add(c *contract.Contract) *contract.Contract {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.byID[c.ID] = c
	r.byNumber[c.ContractNumber] = true
	return c
}

func (r *stubContractRepo) GetByID(_ context.Context, id uuid.UUID) (*contract.Contract, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, contract.ErrNotFound
	}
	return c, nil
}

func (r *stubContractRepo) GetPaginated(context.Context, *contract.FindParams) ([]*contract.Contract, error) {
	out := make([]*contract.Contract, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubContractRepo) Count(context.Context, *contract.FindParams) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubContractRepo) NumberExists(_ context.Context, number string) (bool, error) {
	return r.byNumber[number], nil
}

func (r *stubContractRepo) CountBySupplier(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *stubContractRepo) ByEvent(context.Context, uuid.UUID, int) ([]*contract.Contract, error) {
	return nil, nil
}

func (r *stubContractRepo) CountByEvent(context.Context, uuid.UUID) (int64, int64, error) {
	return 0, 0, nil
}

func (r *stubContractRepo) Create(_ context.Context, c *contract.Contract) (*contract.Contract, error) {
	clone := *c
	return r.add(&clone), nil
}

func (r *stubContractRepo) Update(_ context.Context, c *contract.Contract) (*contract.Contract, error) {
	if _, ok := r.byID[c.ID]; !ok {
		return nil, contract.ErrNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return &clone, nil
}

func (r *stubContractRepo) Delete(_ context.Context, id uuid.UUID) error {
	c, ok := r.byID[id]
	if !ok {
		return contract.ErrNotFound
	}
	delete(r.byNumber, c.ContractNumber)
	delete(r.byID, id)
	return nil
}

type stubSupplierRepo struct {
	byID map[uuid.UUID]*supplier.Supplier
	err  error
}

func (r *stubSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, supplier.ErrNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) GetPaginated(context.Context, *supplier.FindParams) ([]*supplier.Supplier, error) {
	return nil, nil
}

func (r *stubSupplierRepo) Count(context.Context, *supplier.FindParams) (int64, error) {
	return 0, nil
}

func (r *stubSupplierRepo) CodeExists(context.Context, string) (bool, error) { return false, nil }

func (r *stubSupplierRepo) Create(_ context.Context, s *supplier.Supplier) (*supplier.Supplier, error) {
	return s, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *supplier.Supplier) (*supplier.Supplier, error) {
	return s, nil
}

func (r *stubSupplierRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubAllocationRepo struct {
	allocations   []*allocation.Allocation
	availability  []*allocation.Availability
	releases      []*allocation.Release
	byContractErr error
}

func (r *stubAllocationRepo) GetByID(context.Context, uuid.UUID) (*allocation.Allocation, error) {
	return nil, allocation.ErrNotFound
}

func (r *stubAllocationRepo) ByContract(context.Context, uuid.UUID) ([]*allocation.Allocation, error) {
	if r.byContractErr != nil {
		return nil, r.byContractErr
	}
	return r.allocations, nil
}

func (r *stubAllocationRepo) AvailabilityByAllocationIDs(_ context.Context, ids []uuid.UUID, _ int) ([]*allocation.Availability, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.availability, nil
}

func (r *stubAllocationRepo) ReleasesByAllocationIDs(_ context.Context, ids []uuid.UUID) ([]*allocation.Release, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.releases, nil
}

func (r *stubAllocationRepo) ByProduct(context.Context, uuid.UUID) ([]*allocation.Allocation, error) {
	return nil, nil
}

func (r *stubAllocationRepo) Create(_ context.Context, a *allocation.Allocation) (*allocation.Allocation, error) {
	return a, nil
}

func (r *stubAllocationRepo) Update(_ context.Context, a *allocation.Allocation) (*allocation.Allocation, error) {
	return a, nil
}

func (r *stubAllocationRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubRateRepo struct {
	rates []*supplierrate.SupplierRate
}

func (r *stubRateRepo) GetByID(context.Context, uuid.UUID) (*supplierrate.SupplierRate, error) {
	return nil, supplierrate.ErrNotFound
}

func (r *stubRateRepo) ByContract(context.Context, uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	return r.rates, nil
}

func (r *stubRateRepo) ByProduct(context.Context, uuid.UUID) ([]*supplierrate.SupplierRate, error) {
	return nil, nil
}

func (r *stubRateRepo) RateNameExists(context.Context, string) (bool, error) { return false, nil }

func (r *stubRateRepo) Create(_ context.Context, rate *supplierrate.SupplierRate) (*supplierrate.SupplierRate, error) {
	return rate, nil
}

func (r *stubRateRepo) Update(_ context.Context, rate *supplierrate.SupplierRate) (*supplierrate.SupplierRate, error) {
	return rate, nil
}

func (r *stubRateRepo) Delete(context.Context, uuid.UUID) error { return nil }

type stubBookingRepo struct {
	items    []*booking.Item
	bookings []*booking.Booking
}

func (r *stubBookingRepo) RecentItemsByContract(context.Context, uuid.UUID, int) ([]*booking.Item, error) {
	return r.items, nil
}

func (r *stubBookingRepo) ItemsByProductIDs(context.Context, []uuid.UUID) ([]*booking.Item, error) {
	return nil, nil
}

func (r *stubBookingRepo) BookingsByIDs(_ context.Context, ids []uuid.UUID) ([]*booking.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.bookings, nil
}

type stubProductRepo struct {
	byID map[uuid.UUID]*product.Product
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

func (r *stubProductRepo) CodeExists(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *stubProductRepo) ByIDs(_ context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	var out []*product.Product
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
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

type stubOptionRepo struct {
	byID map[uuid.UUID]*productoption.Option
}

func (r *stubOptionRepo) GetByID(_ context.Context, id uuid.UUID) (*productoption.Option, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, productoption.ErrNotFound
	}
	return o, nil
}

func (r *stubOptionRepo) ByProduct(context.Context, uuid.UUID) ([]*productoption.Option, error) {
	return nil, nil
}

func (r *stubOptionRepo) ByIDs(_ context.Context, ids []uuid.UUID) ([]*productoption.Option, error) {
	var out []*productoption.Option
	for _, id := range ids {
		if o, ok := r.byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
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

type stubAuditRepo struct {
	entries []*auditlog.Entry
	err     error
}

func (r *stubAuditRepo) Create(_ context.Context, entry *auditlog.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubAuditRepo) List(context.Context, *auditlog.FindParams) ([]*auditlog.Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.entries, nil
}

func (r *stubAuditRepo) Count(context.Context, *auditlog.FindParams) (int64, error) {
	return int64(len(r.entries)), nil
}

type detailFixture struct {
	svc         *services.ContractQueryService
	contracts   *stubContractRepo
	suppliers   *stubSupplierRepo
	allocations *stubAllocationRepo
	rates       *stubRateRepo
	bookings    *stubBookingRepo
	products    *stubProductRepo
	options     *stubOptionRepo
	audit       *stubAuditRepo
	ctx         context.Context
	tenantID    uuid.UUID
}

func newDetailFixture() *detailFixture {
	f := &detailFixture{
		contracts:   newStubContractRepo(),
		suppliers:   &stubSupplierRepo{byID: map[uuid.UUID]*supplier.Supplier{}},
		allocations: &stubAllocationRepo{},
		rates:       &stubRateRepo{},
		bookings:    &stubBookingRepo{},
		products:    &stubProductRepo{byID: map[uuid.UUID]*product.Product{}},
		options:     &stubOptionRepo{byID: map[uuid.UUID]*productoption.Option{}},
		audit:       &stubAuditRepo{},
		tenantID:    uuid.New(),
	}
	f.svc = services.NewContractQueryService(
		f.contracts,
		f.suppliers,
		f.allocations,
		f.rates,
		f.bookings,
		f.products,
		f.options,
		auditservices.NewAuditService(f.audit),
	)
	f.ctx = composables.WithAuthCtx(context.Background(), composables.AuthContext{
		Subject:        "auth0|tester",
		UserID:         uuid.New(),
		OrganizationID: f.tenantID,
	})
	return f
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func TestContractQueryServiceGetDetail(t *testing.T) {
	f := newDetailFixture()

	supplierID := uuid.New()
	f.suppliers.byID[supplierID] = &supplier.Supplier{ID: supplierID, Name: "Hilton Hotels"}

	productID := uuid.New()
	optionID := uuid.New()
	f.products.byID[productID] = &product.Product{ID: productID, Name: "City Tour"}
	f.options.byID[optionID] = &productoption.Option{ID: optionID, OptionName: "Adult"}

	contractID := uuid.New()
	f.contracts.byID[contractID] = &contract.Contract{
		ID:             contractID,
		ContractNumber: "CNT-2026-001",
		SupplierID:     nullUUID(supplierID),
	}

	allocID := uuid.New()
	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	f.allocations.allocations = []*allocation.Allocation{
		{ID: allocID, ContractID: contractID, ProductID: nullUUID(productID), ProductOptionID: nullUUID(optionID)},
		{ID: uuid.New(), ContractID: contractID},
	}
	f.allocations.availability = []*allocation.Availability{
		{AllocationID: allocID, Date: day1, TotalAvailable: 10, Booked: 10, Available: 0},
		{AllocationID: allocID, Date: day2, TotalAvailable: 10, Booked: 4, Available: 6},
	}
	f.allocations.releases = []*allocation.Release{
		{ID: uuid.New(), AllocationID: allocID, ReleaseDate: day2},
	}
	f.rates.rates = []*supplierrate.SupplierRate{
		{ID: uuid.New(), RateName: "Standard 2026", ProductID: nullUUID(productID)},
	}

	bookingID := uuid.New()
	f.bookings.items = []*booking.Item{
		{ID: uuid.New(), BookingID: bookingID, ContractID: nullUUID(contractID)},
	}
	f.bookings.bookings = []*booking.Booking{
		{ID: bookingID, Reference: "BK-1001"},
	}
	f.audit.entries = []*auditlog.Entry{
		{ID: uuid.New(), EntityType: "contract", EntityID: contractID, Action: auditlog.ActionCreate},
	}

	detail, err := f.svc.GetDetail(f.ctx, contractID)
	require.NoError(t, err)

	assert.Empty(t, detail.LoadErrors)
	assert.Equal(t, "CNT-2026-001", detail.Contract.ContractNumber)
	require.NotNil(t, detail.Supplier)
	assert.Equal(t, "Hilton Hotels", detail.Supplier.Name)

	require.Len(t, detail.Allocations, 2)
	first := detail.Allocations[0]
	require.NotNil(t, first.Product)
	assert.Equal(t, "City Tour", first.Product.Name)
	require.NotNil(t, first.Option)
	assert.Equal(t, "Adult", first.Option.OptionName)
	assert.Len(t, first.Availability, 2)
	assert.Len(t, first.Releases, 1)
	assert.Equal(t, 20, first.Summary.TotalAvailable)
	assert.Equal(t, 6, first.Summary.TotalRemaining)
	require.NotNil(t, first.Summary.NextAvailabilityDate)
	assert.True(t, day2.Equal(*first.Summary.NextAvailabilityDate))

	second := detail.Allocations[1]
	assert.Nil(t, second.Product)
	assert.Empty(t, second.Availability)
	assert.Equal(t, 0, second.Summary.TotalAvailable)

	require.Len(t, detail.SupplierRates, 1)
	require.NotNil(t, detail.SupplierRates[0].Product)
	assert.Equal(t, "City Tour", detail.SupplierRates[0].Product.Name)
	assert.Nil(t, detail.SupplierRates[0].Option)

	require.Len(t, detail.RecentBookings, 1)
	require.NotNil(t, detail.RecentBookings[0].Booking)
	assert.Equal(t, "BK-1001", detail.RecentBookings[0].Booking.Reference)

	require.Len(t, detail.AuditTrail, 1)
}

func TestContractQueryServiceGetDetailRootNotFound(t *testing.T) {
	f := newDetailFixture()

	_, err := f.svc.GetDetail(f.ctx, uuid.New())
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestContractQueryServiceGetDetailSectionFailure(t *testing.T) {
	f := newDetailFixture()

	contractID := uuid.New()
	f.contracts.byID[contractID] = &contract.Contract{ID: contractID, ContractNumber: "CNT-2026-002"}
	f.allocations.byContractErr = errors.New("allocation query timed out")
	f.rates.rates = []*supplierrate.SupplierRate{
		{ID: uuid.New(), RateName: "Standard 2026"},
	}

	detail, err := f.svc.GetDetail(f.ctx, contractID)
	require.NoError(t, err)

	assert.True(t, detail.LoadErrors["allocations"])
	assert.Empty(t, detail.Allocations)
	assert.Len(t, detail.SupplierRates, 1)
}

func TestContractQueryServiceGetDetailSupplierFailureIsNonFatal(t *testing.T) {
	f := newDetailFixture()

	supplierID := uuid.New()
	contractID := uuid.New()
	f.contracts.byID[contractID] = &contract.Contract{
		ID:             contractID,
		ContractNumber: "CNT-2026-003",
		SupplierID:     nullUUID(supplierID),
	}
	f.suppliers.err = errors.New("supplier query failed")

	detail, err := f.svc.GetDetail(f.ctx, contractID)
	require.NoError(t, err)

	assert.True(t, detail.LoadErrors["supplier"])
	assert.Nil(t, detail.Supplier)
}

func TestContractQueryServiceGetDetailUnauthorized(t *testing.T) {
	f := newDetailFixture()

	_, err := f.svc.GetDetail(context.Background(), uuid.New())
	var base *serrors.Base
	require.ErrorAs(t, err, &base)
	assert.Equal(t, "UNAUTHORIZED", base.Code)
}
