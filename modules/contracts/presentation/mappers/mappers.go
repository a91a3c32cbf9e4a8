package mappers

import (
	auditmappers "github.com/tourhub-uz/tourhub/modules/audit/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/modules/contracts/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/contracts/services"
)

func ContractToViewModel(c *contract.Contract) *viewmodels.Contract {
	vm := &viewmodels.Contract{
		ID:                 c.ID.String(),
		ContractNumber:     c.ContractNumber,
		Name:               c.Name,
		Type:               c.Type,
		ValidFrom:          c.ValidFrom,
		ValidTo:            c.ValidTo,
		Currency:           c.Currency,
		Status:             string(c.Status),
		PaymentTerms:       c.PaymentTerms,
		CancellationPolicy: c.CancellationPolicy,
		Terms:              c.Terms,
		Files:              c.Files,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if c.SupplierID.Valid {
		vm.SupplierID = c.SupplierID.UUID.String()
	}
	if c.EventID.Valid {
		vm.EventID = c.EventID.UUID.String()
	}
	if c.TotalCost.Valid {
		vm.TotalCost = c.TotalCost.Decimal.String()
	}
	if c.CommissionRate.Valid {
		vm.CommissionRate = c.CommissionRate.Decimal.String()
	}
	if c.OwnerID.Valid {
		vm.OwnerID = c.OwnerID.UUID.String()
	}
	return vm
}

func ContractsToViewModels(items []*contract.Contract) []*viewmodels.Contract {
	out := make([]*viewmodels.Contract, 0, len(items))
	for _, c := range items {
		out = append(out, ContractToViewModel(c))
	}
	return out
}

func DetailToViewModel(d *services.ContractDetail) *viewmodels.ContractDetail {
	vm := &viewmodels.ContractDetail{
		Contract:       ContractToViewModel(d.Contract),
		Allocations:    []*viewmodels.Allocation{},
		SupplierRates:  []*viewmodels.SupplierRate{},
		RecentBookings: []*viewmodels.BookingItem{},
		AuditTrail:     auditmappers.EntriesToViewModels(d.AuditTrail),
		LoadErrors:     d.LoadErrors,
	}
	if d.Supplier != nil {
		vm.SupplierName = d.Supplier.Name
	}
	for _, a := range d.Allocations {
		vm.Allocations = append(vm.Allocations, allocationDetailToViewModel(a))
	}
	for _, r := range d.SupplierRates {
		vm.SupplierRates = append(vm.SupplierRates, rateDetailToViewModel(r))
	}
	for _, b := range d.RecentBookings {
		vm.RecentBookings = append(vm.RecentBookings, bookingItemToViewModel(b))
	}
	return vm
}

// AllocationToViewModel maps a bare allocation without the availability and
// product joins the detail view carries.
func AllocationToViewModel(a *allocation.Allocation) *viewmodels.Allocation {
	vm := &viewmodels.Allocation{
		ID:            a.ID.String(),
		ContractID:    a.ContractID.String(),
		TotalQuantity: a.TotalQuantity,
		ValidFrom:     a.ValidFrom,
		ValidTo:       a.ValidTo,
		Notes:         a.Notes,
	}
	if a.ProductID.Valid {
		vm.ProductID = a.ProductID.UUID.String()
	}
	if a.ProductOptionID.Valid {
		vm.ProductOptionID = a.ProductOptionID.UUID.String()
	}
	return vm
}

func SupplierRateToViewModel(r *supplierrate.SupplierRate) *viewmodels.SupplierRate {
	vm := &viewmodels.SupplierRate{
		ID:             r.ID.String(),
		RateName:       r.RateName,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		BaseCost:       r.BaseCost.String(),
		Currency:       r.Currency,
		MarkupType:     r.MarkupType,
		PricingDetails: r.PricingDetails,
		IsActive:       r.IsActive,
	}
	if r.ProductID.Valid {
		vm.ProductID = r.ProductID.UUID.String()
	}
	if r.ProductOptionID.Valid {
		vm.ProductOptionID = r.ProductOptionID.UUID.String()
	}
	if r.MarkupAmount.Valid {
		vm.MarkupAmount = r.MarkupAmount.Decimal.String()
	}
	return vm
}

func allocationDetailToViewModel(d *services.AllocationDetail) *viewmodels.Allocation {
	a := d.Allocation
	vm := &viewmodels.Allocation{
		ID:            a.ID.String(),
		ContractID:    a.ContractID.String(),
		TotalQuantity: a.TotalQuantity,
		ValidFrom:     a.ValidFrom,
		ValidTo:       a.ValidTo,
		Notes:         a.Notes,
		Summary: viewmodels.AvailabilitySummary{
			TotalAvailable:       d.Summary.TotalAvailable,
			TotalBooked:          d.Summary.TotalBooked,
			TotalRemaining:       d.Summary.TotalRemaining,
			NextAvailabilityDate: d.Summary.NextAvailabilityDate,
		},
	}
	if a.ProductID.Valid {
		vm.ProductID = a.ProductID.UUID.String()
	}
	if d.Product != nil {
		vm.ProductName = d.Product.Name
	}
	if a.ProductOptionID.Valid {
		vm.ProductOptionID = a.ProductOptionID.UUID.String()
	}
	if d.Option != nil {
		vm.OptionName = d.Option.OptionName
	}
	for _, row := range d.Availability {
		vm.Availability = append(vm.Availability, &viewmodels.AvailabilityRow{
			Date:           row.Date,
			TotalAvailable: row.TotalAvailable,
			Booked:         row.Booked,
			Available:      row.Available,
			IsClosed:       row.IsClosed,
		})
	}
	for _, rel := range d.Releases {
		vm.Releases = append(vm.Releases, releaseToViewModel(rel))
	}
	return vm
}

func releaseToViewModel(r *allocation.Release) *viewmodels.Release {
	vm := &viewmodels.Release{
		ReleaseDate: r.ReleaseDate,
		Quantity:    r.Quantity,
		Notes:       r.Notes,
	}
	if r.Percentage.Valid {
		vm.Percentage = r.Percentage.Decimal.String()
	}
	if r.PenaltyAmount.Valid {
		vm.PenaltyAmount = r.PenaltyAmount.Decimal.String()
	}
	return vm
}

func rateDetailToViewModel(d *services.RateDetail) *viewmodels.SupplierRate {
	r := d.Rate
	vm := &viewmodels.SupplierRate{
		ID:             r.ID.String(),
		RateName:       r.RateName,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		BaseCost:       r.BaseCost.String(),
		Currency:       r.Currency,
		MarkupType:     r.MarkupType,
		PricingDetails: r.PricingDetails,
		IsActive:       r.IsActive,
	}
	if r.ProductID.Valid {
		vm.ProductID = r.ProductID.UUID.String()
	}
	if d.Product != nil {
		vm.ProductName = d.Product.Name
	}
	if r.ProductOptionID.Valid {
		vm.ProductOptionID = r.ProductOptionID.UUID.String()
	}
	if d.Option != nil {
		vm.OptionName = d.Option.OptionName
	}
	if r.MarkupAmount.Valid {
		vm.MarkupAmount = r.MarkupAmount.Decimal.String()
	}
	return vm
}

func bookingItemToViewModel(d *services.BookingItemDetail) *viewmodels.BookingItem {
	vm := &viewmodels.BookingItem{
		ID:              d.Item.ID.String(),
		ServiceDateFrom: d.Item.ServiceDateFrom,
		ServiceDateTo:   d.Item.ServiceDateTo,
		Quantity:        d.Item.Quantity,
		TotalPrice:      d.Item.TotalPrice.String(),
		Currency:        d.Item.Currency,
		Status:          d.Item.Status,
		CreatedAt:       d.Item.CreatedAt,
	}
	if d.Booking != nil {
		vm.BookingReference = d.Booking.Reference
		vm.CustomerName = d.Booking.CustomerName
	}
	return vm
}
