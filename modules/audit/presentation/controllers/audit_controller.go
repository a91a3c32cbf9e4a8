package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	"github.com/tourhub-uz/tourhub/modules/audit/presentation/mappers"
	"github.com/tourhub-uz/tourhub/modules/audit/presentation/viewmodels"
	"github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
)

type AuditController struct {
	app application.Application
}

func NewAuditController(app application.Application) application.Controller {
	return &AuditController{app: app}
}

func (c *AuditController) Key() string {
	return "/audit-logs"
}

func (c *AuditController) Register(r *mux.Router) {
	r.HandleFunc("/audit-logs", c.List).Methods(http.MethodGet)
}

func (c *AuditController) List(w http.ResponseWriter, r *http.Request) {
	svc := c.app.Service(services.AuditService{}).(*services.AuditService)

	p := api.ParsePagination(r)
	q := r.URL.Query()
	params := &auditlog.FindParams{
		EntityType: q.Get("entity_type"),
		Action:     auditlog.Action(q.Get("action")),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}
	if raw := q.Get("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err == nil {
			params.EntityID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}

	entries, total, err := svc.List(r.Context(), params)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.ListResponse[*viewmodels.AuditEntry]{
		Rows:  mappers.EntriesToViewModels(entries),
		Total: total,
	})
}
