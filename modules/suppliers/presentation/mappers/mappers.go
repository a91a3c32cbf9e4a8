package mappers

import (
	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/modules/suppliers/presentation/viewmodels"
)

func SupplierToViewModel(s *supplier.Supplier) *viewmodels.Supplier {
	return &viewmodels.Supplier{
		ID:              s.ID.String(),
		Name:            s.Name,
		Code:            s.Code,
		Type:            s.Type,
		ContactPerson:   s.ContactPerson,
		Email:           s.Email,
		Phone:           s.Phone,
		Address:         s.Address,
		City:            s.City,
		Country:         s.Country,
		DefaultCurrency: s.DefaultCurrency,
		IsActive:        s.IsActive,
		Notes:           s.Notes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func SuppliersToViewModels(items []*supplier.Supplier) []*viewmodels.Supplier {
	out := make([]*viewmodels.Supplier, 0, len(items))
	for _, s := range items {
		out = append(out, SupplierToViewModel(s))
	}
	return out
}
