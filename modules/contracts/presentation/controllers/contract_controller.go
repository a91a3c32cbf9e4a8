package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/allocation"
	"github.com/tourhub-uz/tourhub/modules/contracts/domain/entities/supplierrate"
	"github.com/tourhub-uz/tourhub/modules/contracts/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/contracts/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/contracts/services"
	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/repo"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

var contractSortFields = map[string]contract.Field{
	"contract_number": contract.NumberField,
	"name":            contract.NameField,
	"type":            contract.TypeField,
	"status":          contract.StatusField,
	"valid_from":      contract.ValidFromField,
	"valid_to":        contract.ValidToField,
	"created_at":      contract.CreatedAtField,
	"updated_at":      contract.UpdatedAtField,
}

type ContractController struct {
	app application.Application
}

func NewContractController(app application.Application) application.Controller {
	return &ContractController{app: app}
}

func (c *ContractController) Key() string {
	return "/contracts"
}

func (c *ContractController) Register(r *mux.Router) {
	router := r.PathPrefix("/contracts").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/bulk/delete", c.BulkDelete).Methods(http.MethodPost)
	router.HandleFunc("/bulk/status", c.BulkUpdateStatus).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/detail", c.Detail).Methods(http.MethodGet)
	router.HandleFunc("/{id}/duplicate", c.Duplicate).Methods(http.MethodPost)
	router.HandleFunc("/{id}/allocations", c.CreateAllocation).Methods(http.MethodPost)
	router.HandleFunc("/{id}/supplier-rates", c.CreateSupplierRate).Methods(http.MethodPost)

	r.HandleFunc("/allocations/{id}", c.UpdateAllocation).Methods(http.MethodPut)
	r.HandleFunc("/allocations/{id}", c.DeleteAllocation).Methods(http.MethodDelete)
	r.HandleFunc("/supplier-rates/{id}", c.UpdateSupplierRate).Methods(http.MethodPut)
	r.HandleFunc("/supplier-rates/{id}", c.DeleteSupplierRate).Methods(http.MethodDelete)
	r.HandleFunc("/supplier-rates/{id}/duplicate", c.DuplicateSupplierRate).Methods(http.MethodPost)
}

func (c *ContractController) contracts() *services.ContractService {
	return c.app.Service(services.ContractService{}).(*services.ContractService)
}

func (c *ContractController) allocations() *services.AllocationService {
	return c.app.Service(services.AllocationService{}).(*services.AllocationService)
}

func (c *ContractController) rates() *services.SupplierRateService {
	return c.app.Service(services.SupplierRateService{}).(*services.SupplierRateService)
}

func (c *ContractController) query() *services.ContractQueryService {
	return c.app.Service(services.ContractQueryService{}).(*services.ContractQueryService)
}

func (c *ContractController) List(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	params := &contract.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if field, asc, ok, err := api.ParseSort(r, contractSortFields); err != nil {
		api.WriteError(w, r, err)
		return
	} else if ok {
		params.SortBy.Fields = append(params.SortBy.Fields, repo.SortByField[contract.Field]{Field: field, Ascending: asc})
	}
	if status := r.URL.Query().Get("status"); status != "" {
		params.Filters = append(params.Filters, repo.FieldFilter[contract.Field]{
			Column: contract.StatusField,
			Filter: repo.Eq(status),
		})
	}
	if raw := r.URL.Query().Get("supplier_id"); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, r, serrors.Validation("supplier_id must be a UUID", "supplier_id"))
			return
		}
		params.Filters = append(params.Filters, repo.FieldFilter[contract.Field]{
			Column: contract.SupplierIDField,
			Filter: repo.Eq(supplierID),
		})
	}
	if raw := r.URL.Query().Get("event_id"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, r, serrors.Validation("event_id must be a UUID", "event_id"))
			return
		}
		params.Filters = append(params.Filters, repo.FieldFilter[contract.Field]{
			Column: contract.EventIDField,
			Filter: repo.Eq(eventID),
		})
	}

	rows, total, err := c.contracts().GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse[*viewmodels.Contract]{
		Rows:  mappers.ContractsToViewModels(rows),
		Total: total,
	})
}

func (c *ContractController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	found, err := c.contracts().GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.ContractToViewModel(found))
}

func (c *ContractController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	detail, err := c.query().GetDetail(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.DetailToViewModel(detail))
}

func (c *ContractController) Create(w http.ResponseWriter, r *http.Request) {
	var dto contract.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.contracts().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.ContractToViewModel(created))
}

func (c *ContractController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto contract.UpdateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.contracts().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.ContractToViewModel(updated))
}

func (c *ContractController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.contracts().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContractController) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.contracts().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.ContractToViewModel(created))
}

func (c *ContractController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var body api.BodyIDs
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.contracts().BulkDelete(r.Context(), body.IDs); err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContractController) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		api.BodyIDs
		Status string `json:"status"`
	}
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.contracts().BulkUpdateStatus(r.Context(), body.IDs, contract.Status(body.Status)); err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContractController) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	contractID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto allocation.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	dto.ContractID = contractID
	created, err := c.allocations().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.AllocationToViewModel(created))
}

func (c *ContractController) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto allocation.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.allocations().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.AllocationToViewModel(updated))
}

func (c *ContractController) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.allocations().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContractController) CreateSupplierRate(w http.ResponseWriter, r *http.Request) {
	contractID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto supplierrate.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	raw := contractID.String()
	dto.ContractID = &raw
	created, err := c.rates().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.SupplierRateToViewModel(created))
}

func (c *ContractController) UpdateSupplierRate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto supplierrate.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.rates().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.SupplierRateToViewModel(updated))
}

func (c *ContractController) DeleteSupplierRate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.rates().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ContractController) DuplicateSupplierRate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.rates().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapContractErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.SupplierRateToViewModel(created))
}

func mapContractErr(err error) error {
	switch {
	case errors.Is(err, contract.ErrNotFound):
		return serrors.NotFound("contract")
	case errors.Is(err, allocation.ErrNotFound):
		return serrors.NotFound("allocation")
	case errors.Is(err, supplierrate.ErrNotFound):
		return serrors.NotFound("supplier rate")
	}
	return err
}
