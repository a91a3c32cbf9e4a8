package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/modules/catalog/domain/aggregates/product"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/productoption"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/sellingrate"
	"github.com/tourhub-uz/tourhub/modules/catalog/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/catalog/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/catalog/services"
	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/repo"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

var productSortFields = map[string]product.Field{
	"name":       product.NameField,
	"code":       product.CodeField,
	"is_active":  product.IsActiveField,
	"created_at": product.CreatedAtField,
	"updated_at": product.UpdatedAtField,
}

type ProductController struct {
	app application.Application
}

func NewProductController(app application.Application) application.Controller {
	return &ProductController{app: app}
}

func (c *ProductController) Key() string {
	return "/products"
}

func (c *ProductController) Register(r *mux.Router) {
	r.HandleFunc("/product-types", c.ListTypes).Methods(http.MethodGet)

	router := r.PathPrefix("/products").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/suggest-code", c.SuggestCode).Methods(http.MethodGet)
	router.HandleFunc("/bulk/delete", c.BulkDelete).Methods(http.MethodPost)
	router.HandleFunc("/bulk/activate", c.BulkActivate).Methods(http.MethodPost)
	router.HandleFunc("/bulk/deactivate", c.BulkDeactivate).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/detail", c.Detail).Methods(http.MethodGet)
	router.HandleFunc("/{id}/duplicate", c.Duplicate).Methods(http.MethodPost)
	router.HandleFunc("/{id}/options", c.ListOptions).Methods(http.MethodGet)
	router.HandleFunc("/{id}/options", c.CreateOption).Methods(http.MethodPost)
	router.HandleFunc("/{id}/selling-rates", c.CreateSellingRate).Methods(http.MethodPost)

	r.HandleFunc("/product-options/{id}", c.UpdateOption).Methods(http.MethodPut)
	r.HandleFunc("/product-options/{id}", c.DeleteOption).Methods(http.MethodDelete)
	r.HandleFunc("/product-options/{id}/duplicate", c.DuplicateOption).Methods(http.MethodPost)
	r.HandleFunc("/selling-rates/{id}", c.UpdateSellingRate).Methods(http.MethodPut)
	r.HandleFunc("/selling-rates/{id}", c.DeleteSellingRate).Methods(http.MethodDelete)
	r.HandleFunc("/selling-rates/{id}/duplicate", c.DuplicateSellingRate).Methods(http.MethodPost)
}

func (c *ProductController) products() *services.ProductService {
	return c.app.Service(services.ProductService{}).(*services.ProductService)
}

func (c *ProductController) options() *services.ProductOptionService {
	return c.app.Service(services.ProductOptionService{}).(*services.ProductOptionService)
}

func (c *ProductController) sellingRates() *services.SellingRateService {
	return c.app.Service(services.SellingRateService{}).(*services.SellingRateService)
}

func (c *ProductController) query() *services.ProductQueryService {
	return c.app.Service(services.ProductQueryService{}).(*services.ProductQueryService)
}

func (c *ProductController) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := c.products().Types(r.Context())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	out := make([]*viewmodels.ProductType, 0, len(types))
	for _, t := range types {
		out = append(out, mappers.ProductTypeToViewModel(t))
	}
	api.WriteJSON(w, http.StatusOK, out)
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	params := &product.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if field, asc, ok, err := api.ParseSort(r, productSortFields); err != nil {
		api.WriteError(w, r, err)
		return
	} else if ok {
		params.SortBy.Fields = append(params.SortBy.Fields, repo.SortByField[product.Field]{Field: field, Ascending: asc})
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		params.Filters = append(params.Filters, repo.FieldFilter[product.Field]{
			Column: product.IsActiveField,
			Filter: repo.Eq(active == "true"),
		})
	}
	if raw := r.URL.Query().Get("product_type_id"); raw != "" {
		typeID, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, r, serrors.Validation("product_type_id must be a UUID", "product_type_id"))
			return
		}
		params.Filters = append(params.Filters, repo.FieldFilter[product.Field]{
			Column: product.TypeIDField,
			Filter: repo.Eq(typeID),
		})
	}
	if raw := r.URL.Query().Get("event_id"); raw != "" {
		eventID, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, r, serrors.Validation("event_id must be a UUID", "event_id"))
			return
		}
		params.Filters = append(params.Filters, repo.FieldFilter[product.Field]{
			Column: product.EventIDField,
			Filter: repo.Eq(eventID),
		})
	}

	rows, total, err := c.products().GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse[*viewmodels.Product]{
		Rows:  mappers.ProductsToViewModels(rows),
		Total: total,
	})
}

func (c *ProductController) SuggestCode(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		api.WriteError(w, r, serrors.Validation("name is required", "name"))
		return
	}
	typeID, err := uuid.Parse(r.URL.Query().Get("product_type_id"))
	if err != nil {
		api.WriteError(w, r, serrors.Validation("product_type_id must be a UUID", "product_type_id"))
		return
	}
	code, err := c.products().SuggestCode(r.Context(), typeID, name)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, viewmodels.SuggestedCode{Code: code})
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	found, err := c.products().GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.ProductToViewModel(found))
}

func (c *ProductController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	detail, err := c.query().GetDetail(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.DetailToViewModel(detail))
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var dto product.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.products().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.ProductToViewModel(created))
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto product.UpdateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.products().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.ProductToViewModel(updated))
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.products().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProductController) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.products().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.ProductToViewModel(created))
}

func (c *ProductController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var body api.BodyIDs
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.products().BulkDelete(r.Context(), body.IDs); err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProductController) BulkActivate(w http.ResponseWriter, r *http.Request) {
	c.bulkSetActive(w, r, true)
}

func (c *ProductController) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	c.bulkSetActive(w, r, false)
}

func (c *ProductController) bulkSetActive(w http.ResponseWriter, r *http.Request, active bool) {
	var body api.BodyIDs
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.products().BulkSetActive(r.Context(), body.IDs, active); err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProductController) ListOptions(w http.ResponseWriter, r *http.Request) {
	productID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	rows, err := c.options().ByProduct(r.Context(), productID)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.OptionsToViewModels(rows))
}

func (c *ProductController) CreateOption(w http.ResponseWriter, r *http.Request) {
	productID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto productoption.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	dto.ProductID = productID
	created, err := c.options().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.OptionToViewModel(created))
}

func (c *ProductController) UpdateOption(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto productoption.UpdateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.options().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.OptionToViewModel(updated))
}

func (c *ProductController) DeleteOption(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.options().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProductController) DuplicateOption(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.options().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.OptionToViewModel(created))
}

func (c *ProductController) CreateSellingRate(w http.ResponseWriter, r *http.Request) {
	productID, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto sellingrate.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	raw := productID.String()
	dto.ProductID = &raw
	created, err := c.sellingRates().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.SellingRateToViewModel(created))
}

func (c *ProductController) UpdateSellingRate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto sellingrate.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.sellingRates().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.SellingRateToViewModel(updated))
}

func (c *ProductController) DeleteSellingRate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.sellingRates().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProductController) DuplicateSellingRate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.sellingRates().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapProductErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.SellingRateToViewModel(created))
}

func mapProductErr(err error) error {
	switch {
	case errors.Is(err, product.ErrNotFound):
		return serrors.NotFound("product")
	case errors.Is(err, producttype.ErrNotFound):
		return serrors.NotFound("product type")
	case errors.Is(err, productoption.ErrNotFound):
		return serrors.NotFound("product option")
	case errors.Is(err, sellingrate.ErrNotFound):
		return serrors.NotFound("selling rate")
	}
	return err
}
