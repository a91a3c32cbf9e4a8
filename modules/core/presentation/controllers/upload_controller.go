package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/pkg/api"
	"github.com/tourhub-uz/tourhub/pkg/application"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

// 10 MiB request cap for image uploads.
const maxUploadBytes = 10 << 20

type UploadController struct {
	app application.Application
}

func NewUploadController(app application.Application) application.Controller {
	return &UploadController{app: app}
}

func (c *UploadController) Key() string {
	return "/uploads"
}

func (c *UploadController) Register(r *mux.Router) {
	r.HandleFunc("/uploads", c.Upload).Methods(http.MethodPost)
}

func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	media := c.app.Media()
	if media == nil {
		api.WriteError(w, r, serrors.Conflict("media storage is not configured", ""))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.WriteError(w, r, serrors.Validation("file exceeds the upload limit", "file"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, r, serrors.Validation("file is required", "file"))
		return
	}
	defer file.Close()

	url, err := media.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}
