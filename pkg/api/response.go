// Package api carries the JSON request/response conventions shared by every
// controller.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ListResponse is the envelope for paginated listings.
type ListResponse[T any] struct {
	Rows  []T   `json:"rows"`
	Total int64 `json:"total"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a coded error body. Validation errors carry per-field
// messages; anything uncoded maps to a generic 500 so store internals never
// leak to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ve serrors.ValidationErrors
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{
			Code:    "VALIDATION",
			Message: "validation failed",
			Fields:  ve,
		})
		return
	}

	var base *serrors.Base
	if errors.As(err, &base) {
		WriteJSON(w, serrors.HTTPStatus(err), errorBody{
			Code:    base.Code,
			Message: base.Message,
			Field:   base.Field,
		})
		return
	}

	composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	WriteJSON(w, http.StatusInternalServerError, errorBody{
		Code:    "STORE",
		Message: "internal error",
	})
}

// DecodeJSON parses the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return serrors.Validation("request body is not valid JSON: "+err.Error(), "")
	}
	return nil
}
