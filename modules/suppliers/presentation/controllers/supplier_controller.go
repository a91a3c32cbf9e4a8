package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/modules/suppliers/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/suppliers/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/suppliers/services"
	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/repo"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

var supplierSortFields = map[string]supplier.Field{
	"name":       supplier.NameField,
	"code":       supplier.CodeField,
	"type":       supplier.TypeField,
	"is_active":  supplier.IsActiveField,
	"created_at": supplier.CreatedAtField,
	"updated_at": supplier.UpdatedAtField,
}

type SupplierController struct {
	app application.Application
}

func NewSupplierController(app application.Application) application.Controller {
	return &SupplierController{app: app}
}

func (c *SupplierController) Key() string {
	return "/suppliers"
}

func (c *SupplierController) Register(r *mux.Router) {
	router := r.PathPrefix("/suppliers").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/bulk/delete", c.BulkDelete).Methods(http.MethodPost)
	router.HandleFunc("/bulk/activate", c.BulkActivate).Methods(http.MethodPost)
	router.HandleFunc("/bulk/deactivate", c.BulkDeactivate).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/duplicate", c.Duplicate).Methods(http.MethodPost)
}

func (c *SupplierController) service() *services.SupplierService {
	return c.app.Service(services.SupplierService{}).(*services.SupplierService)
}

func (c *SupplierController) List(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	params := &supplier.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if field, asc, ok, err := api.ParseSort(r, supplierSortFields); err != nil {
		api.WriteError(w, r, err)
		return
	} else if ok {
		params.SortBy.Fields = append(params.SortBy.Fields, repo.SortByField[supplier.Field]{Field: field, Ascending: asc})
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		params.Filters = append(params.Filters, repo.FieldFilter[supplier.Field]{
			Column: supplier.IsActiveField,
			Filter: repo.Eq(active == "true"),
		})
	}
	if typ := r.URL.Query().Get("type"); typ != "" {
		params.Filters = append(params.Filters, repo.FieldFilter[supplier.Field]{
			Column: supplier.TypeField,
			Filter: repo.Eq(typ),
		})
	}

	rows, total, err := c.service().GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse[*viewmodels.Supplier]{
		Rows:  mappers.SuppliersToViewModels(rows),
		Total: total,
	})
}

func (c *SupplierController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	s, err := c.service().GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.SupplierToViewModel(s))
}

func (c *SupplierController) Create(w http.ResponseWriter, r *http.Request) {
	var dto supplier.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.service().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.SupplierToViewModel(created))
}

func (c *SupplierController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto supplier.UpdateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.service().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.SupplierToViewModel(updated))
}

func (c *SupplierController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.service().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *SupplierController) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.service().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.SupplierToViewModel(created))
}

func (c *SupplierController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var body api.BodyIDs
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.service().BulkDelete(r.Context(), body.IDs); err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *SupplierController) BulkActivate(w http.ResponseWriter, r *http.Request) {
	c.bulkSetActive(w, r, true)
}

func (c *SupplierController) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	c.bulkSetActive(w, r, false)
}

func (c *SupplierController) bulkSetActive(w http.ResponseWriter, r *http.Request, active bool) {
	var body api.BodyIDs
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.service().BulkSetActive(r.Context(), body.IDs, active); err != nil {
		api.WriteError(w, r, mapSupplierErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func mapSupplierErr(err error) error {
	if errors.Is(err, supplier.ErrNotFound) {
		return serrors.NotFound("supplier")
	}
	return err
}
