package mappers

import (
	auditmappers "github.com/tourhub-uz/tourhub/modules/audit/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/sellingrate"
	"github.com/tourhub-uz/tourhub/modules/catalog/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/catalog/services"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
)

func ProductToViewModel(p *product.Product) *viewmodels.Product {
	vm := &viewmodels.Product{
		ID:            p.ID.String(),
		ProductTypeID: p.ProductTypeID.String(),
		Name:          p.Name,
		Code:          p.Code,
		Description:   p.Description,
		Attributes:    p.Attributes,
		Tags:          p.Tags,
		Media:         p.Media,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.EventID.Valid {
		vm.EventID = p.EventID.UUID.String()
	}
	if p.Location != nil {
		loc := &viewmodels.Location{
			AddressLine: p.Location.AddressLine,
			City:        p.Location.City,
			Country:     p.Location.Country,
		}
		if p.Location.Latitude.Valid {
			loc.Latitude = p.Location.Latitude.Decimal.String()
		}
		if p.Location.Longitude.Valid {
			loc.Longitude = p.Location.Longitude.Decimal.String()
		}
		vm.Location = loc
	}
	return vm
}

func ProductsToViewModels(items []*product.Product) []*viewmodels.Product {
	out := make([]*viewmodels.Product, 0, len(items))
	for _, p := range items {
		out = append(out, ProductToViewModel(p))
	}
	return out
}

func ProductTypeToViewModel(t *producttype.ProductType) *viewmodels.ProductType {
	return &viewmodels.ProductType{
		ID:         t.ID.String(),
		Code:       t.Code,
		Name:       t.Name,
		CodePrefix: t.CodePrefix,
	}
}

func OptionToViewModel(o *productoption.Option) *viewmodels.ProductOption {
	return &viewmodels.ProductOption{
		ID:          o.ID.String(),
		ProductID:   o.ProductID.String(),
		OptionName:  o.OptionName,
		OptionCode:  o.OptionCode,
		Description: o.Description,
		Attributes:  o.Attributes,
		IsActive:    o.IsActive,
		SortOrder:   o.SortOrder,
	}
}

func OptionsToViewModels(items []*productoption.Option) []*viewmodels.ProductOption {
	out := make([]*viewmodels.ProductOption, 0, len(items))
	for _, o := range items {
		out = append(out, OptionToViewModel(o))
	}
	return out
}

func SellingRateToViewModel(r *sellingrate.SellingRate) *viewmodels.SellingRate {
	vm := &viewmodels.SellingRate{
		ID:             r.ID.String(),
		RateName:       r.RateName,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		RateBasis:      r.RateBasis,
		PricingModel:   string(r.PricingModel),
		BasePrice:      r.BasePrice.String(),
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
	if r.TargetCost.Valid {
		vm.TargetCost = r.TargetCost.Decimal.String()
	}
	return vm
}

func supplierRateToViewModel(r *supplierrate.SupplierRate) *viewmodels.SupplierRate {
	vm := &viewmodels.SupplierRate{
		ID:         r.ID.String(),
		RateName:   r.RateName,
		ValidFrom:  r.ValidFrom,
		ValidTo:    r.ValidTo,
		BaseCost:   r.BaseCost.String(),
		Currency:   r.Currency,
		MarkupType: r.MarkupType,
		IsActive:   r.IsActive,
	}
	if r.ContractID.Valid {
		vm.ContractID = r.ContractID.UUID.String()
	}
	if r.MarkupAmount.Valid {
		vm.MarkupAmount = r.MarkupAmount.Decimal.String()
	}
	return vm
}

func allocationToViewModel(a *allocation.Allocation) *viewmodels.Allocation {
	return &viewmodels.Allocation{
		ID:            a.ID.String(),
		ContractID:    a.ContractID.String(),
		TotalQuantity: a.TotalQuantity,
		ValidFrom:     a.ValidFrom,
		ValidTo:       a.ValidTo,
		Notes:         a.Notes,
	}
}

func DetailToViewModel(d *services.ProductDetail) *viewmodels.ProductDetail {
	vm := &viewmodels.ProductDetail{
		Product:       ProductToViewModel(d.Product),
		ProductType:   ProductTypeToViewModel(d.ProductType),
		Attributes:    d.Attributes,
		Options:       []*viewmodels.ProductOption{},
		SellingRates:  []*viewmodels.SellingRate{},
		SupplierRates: []*viewmodels.SupplierRate{},
		Allocations:   []*viewmodels.Allocation{},
		AuditTrail:    auditmappers.EntriesToViewModels(d.AuditTrail),
		LoadErrors:    d.LoadErrors,
	}
	if d.Event != nil {
		vm.Event = &viewmodels.EventSummary{
			ID:       d.Event.ID.String(),
			Code:     d.Event.Code,
			Name:     d.Event.Name,
			DateFrom: d.Event.DateFrom,
			DateTo:   d.Event.DateTo,
			Status:   string(d.Event.Status),
		}
	}
	for _, o := range d.Options {
		ovm := OptionToViewModel(o.Option)
		ovm.Counts = &viewmodels.OptionCounts{
			SellingRates:     o.Counts.SellingRates,
			SupplierRates:    o.Counts.SupplierRates,
			Allocations:      o.Counts.Allocations,
			UpcomingBookings: o.Counts.UpcomingBookings,
		}
		vm.Options = append(vm.Options, ovm)
	}
	for _, r := range d.SellingRates {
		vm.SellingRates = append(vm.SellingRates, SellingRateToViewModel(r))
	}
	for _, r := range d.SupplierRates {
		vm.SupplierRates = append(vm.SupplierRates, supplierRateToViewModel(r))
	}
	for _, a := range d.Allocations {
		vm.Allocations = append(vm.Allocations, allocationToViewModel(a))
	}
	return vm
}
