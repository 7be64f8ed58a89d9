package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// Envelope is the uniform response body. Success responses carry data and
// optionally message/meta; error responses carry error and success=false.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries pagination details for list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: true, Data: data, Message: message})
}

func respondList(w http.ResponseWriter, r *http.Request, data interface{}, meta Meta) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, Envelope{Success: true, Data: data, Meta: &meta})
}

// respondError maps domain errors onto status codes: validation problems
// and cycle rejections are 400, missing records 404, uniqueness and
// in-use conflicts 409, anything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var validationErr *contentengine.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, contentengine.ErrCategoryCycle),
		errors.Is(err, contentengine.ErrInvalidContentStatus),
		errors.Is(err, contentengine.ErrEmptySchema):
		status = http.StatusBadRequest
	case contentengine.IsNotFound(err):
		status = http.StatusNotFound
	case contentengine.IsConflict(err):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, Envelope{Success: false, Error: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Envelope{Success: false, Error: message})
}
