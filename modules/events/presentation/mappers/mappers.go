package mappers

import (
	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/modules/events/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/events/services"
)

func EventToViewModel(e *event.Event) *viewmodels.Event {
	return &viewmodels.Event{
		ID:          e.ID.String(),
		Name:        e.Name,
		Code:        e.Code,
		Type:        e.Type,
		Venue:       e.Venue,
		City:        e.City,
		Country:     e.Country,
		DateFrom:    e.DateFrom,
		DateTo:      e.DateTo,
		Status:      string(e.Status),
		Description: e.Description,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func EventsToViewModels(items []*event.Event) []*viewmodels.Event {
	out := make([]*viewmodels.Event, 0, len(items))
	for _, e := range items {
		out = append(out, EventToViewModel(e))
	}
	return out
}

func DetailToViewModel(d *services.EventDetail) *viewmodels.EventDetail {
	vm := &viewmodels.EventDetail{
		Event:            EventToViewModel(d.Event),
		Products:         []*viewmodels.ProductSummary{},
		ProductTotal:     d.ProductTotal,
		ProductActive:    d.ProductActive,
		Contracts:        []*viewmodels.ContractSummary{},
		ContractTotal:    d.ContractTotal,
		ContractActive:   d.ContractActive,
		RecentBookings:   []*viewmodels.BookingItem{},
		UpcomingBookings: d.UpcomingBookings,
		Revenue:          d.Revenue.String(),
		RevenueCurrency:  d.RevenueCurrency,
		LoadErrors:       d.LoadErrors,
	}
	for _, p := range d.Products {
		vm.Products = append(vm.Products, &viewmodels.ProductSummary{
			ID:       p.ID.String(),
			Name:     p.Name,
			Code:     p.Code,
			IsActive: p.IsActive,
		})
	}
	for _, c := range d.Contracts {
		vm.Contracts = append(vm.Contracts, &viewmodels.ContractSummary{
			ID:             c.ID.String(),
			ContractNumber: c.ContractNumber,
			Name:           c.Name,
			Status:         string(c.Status),
			ValidFrom:      c.ValidFrom,
			ValidTo:        c.ValidTo,
		})
	}
	for _, b := range d.RecentBookings {
		item := &viewmodels.BookingItem{
			ID:              b.Item.ID.String(),
			ServiceDateFrom: b.Item.ServiceDateFrom,
			ServiceDateTo:   b.Item.ServiceDateTo,
			Quantity:        b.Item.Quantity,
			TotalPrice:      b.Item.TotalPrice.String(),
			Currency:        b.Item.Currency,
			Status:          b.Item.Status,
		}
		if b.Booking != nil {
			item.BookingReference = b.Booking.Reference
			item.CustomerName = b.Booking.CustomerName
		}
		vm.RecentBookings = append(vm.RecentBookings, item)
	}
	return vm
}
