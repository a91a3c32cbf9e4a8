package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/modules/events/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/events/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/events/services"
	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/repo"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

var eventSortFields = map[string]event.Field{
	"name":       event.NameField,
	"code":       event.CodeField,
	"type":       event.TypeField,
	"status":     event.StatusField,
	"city":       event.CityField,
	"country":    event.CountryField,
	"date_from":  event.DateFromField,
	"date_to":    event.DateToField,
	"created_at": event.CreatedAtField,
	"updated_at": event.UpdatedAtField,
}

type EventController struct {
	app application.Application
}

func NewEventController(app application.Application) application.Controller {
	return &EventController{app: app}
}

func (c *EventController) Key() string {
	return "/events"
}

func (c *EventController) Register(r *mux.Router) {
	router := r.PathPrefix("/events").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/bulk/status", c.BulkUpdateStatus).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/detail", c.Detail).Methods(http.MethodGet)
	router.HandleFunc("/{id}/duplicate", c.Duplicate).Methods(http.MethodPost)
}

func (c *EventController) events() *services.EventService {
	return c.app.Service(services.EventService{}).(*services.EventService)
}

func (c *EventController) query() *services.EventQueryService {
	return c.app.Service(services.EventQueryService{}).(*services.EventQueryService)
}

func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	params := &event.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if field, asc, ok, err := api.ParseSort(r, eventSortFields); err != nil {
		api.WriteError(w, r, err)
		return
	} else if ok {
		params.SortBy.Fields = append(params.SortBy.Fields, repo.SortByField[event.Field]{Field: field, Ascending: asc})
	}
	if status := r.URL.Query().Get("status"); status != "" {
		params.Filters = append(params.Filters, repo.FieldFilter[event.Field]{
			Column: event.StatusField,
			Filter: repo.Eq(status),
		})
	}
	if country := r.URL.Query().Get("country"); country != "" {
		params.Filters = append(params.Filters, repo.FieldFilter[event.Field]{
			Column: event.CountryField,
			Filter: repo.Eq(country),
		})
	}

	rows, total, err := c.events().GetPaginatedWithTotal(r.Context(), params)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse[*viewmodels.Event]{
		Rows:  mappers.EventsToViewModels(rows),
		Total: total,
	})
}

func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	found, err := c.events().GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.EventToViewModel(found))
}

func (c *EventController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	detail, err := c.query().GetDetail(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.DetailToViewModel(detail))
}

func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var dto event.CreateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.events().Create(r.Context(), &dto)
	if err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.EventToViewModel(created))
}

func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	var dto event.UpdateDTO
	if err := api.DecodeJSON(r, &dto); err != nil {
		api.WriteError(w, r, err)
		return
	}
	updated, err := c.events().Update(r.Context(), id, &dto)
	if err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	api.WriteJSON(w, http.StatusOK, mappers.EventToViewModel(updated))
}

func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.events().Delete(r.Context(), id); err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *EventController) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := api.PathUUID(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	created, err := c.events().Duplicate(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	api.WriteJSON(w, http.StatusCreated, mappers.EventToViewModel(created))
}

func (c *EventController) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		api.BodyIDs
		Status string `json:"status"`
	}
	if err := api.DecodeJSON(r, &body); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := c.events().BulkUpdateStatus(r.Context(), body.IDs, event.Status(body.Status)); err != nil {
		api.WriteError(w, r, mapEventErr(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func mapEventErr(err error) error {
	if errors.Is(err, event.ErrNotFound) {
		return serrors.NotFound("event")
	}
	return err
}
