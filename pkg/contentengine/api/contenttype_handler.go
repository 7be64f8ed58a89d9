package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// ContentTypeHandler handles HTTP requests for content type definitions
type ContentTypeHandler struct {
	service contentengine.Service
}

// NewContentTypeHandler creates a new content type handler
func NewContentTypeHandler(service contentengine.Service) *ContentTypeHandler {
	return &ContentTypeHandler{service: service}
}

// Routes returns the routes for content types
func (h *ContentTypeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContentTypes)
	r.Post("/", h.CreateContentType)
	r.Get("/{id}", h.GetContentType)
	r.Put("/{id}", h.UpdateContentType)
	r.Delete("/{id}", h.DeleteContentType)
	r.Post("/{id}/validate", h.ValidateDocument)

	return r
}

// CreateContentType defines a new content type with its field schema
func (h *ContentTypeHandler) CreateContentType(w http.ResponseWriter, r *http.Request) {
	var req contentengine.CreateContentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	contentType, err := h.service.CreateContentType(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content type created", "type_id", contentType.ID.String(), "name", contentType.Name)
	respond(w, r, http.StatusCreated, contentType)
}

// GetContentType retrieves a content type by ID
func (h *ContentTypeHandler) GetContentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content type ID")
		return
	}

	contentType, err := h.service.GetContentType(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, contentType)
}

// ListContentTypes lists all content types, newest first
func (h *ContentTypeHandler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	contentTypes, err := h.service.ListContentTypes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if contentTypes == nil {
		contentTypes = []*contentengine.ContentType{}
	}
	respond(w, r, http.StatusOK, contentTypes)
}

type updateContentTypeBody struct {
	Name   string                          `json:"name"`
	Schema []contentengine.FieldDefinition `json:"schema"`
}

// UpdateContentType updates a content type's name and/or schema
func (h *ContentTypeHandler) UpdateContentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content type ID")
		return
	}

	var body updateContentTypeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	contentType, err := h.service.UpdateContentType(r.Context(), contentengine.UpdateContentTypeRequest{
		ID:     id,
		Name:   body.Name,
		Schema: body.Schema,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content type updated", "type_id", id.String())
	respond(w, r, http.StatusOK, contentType)
}

// DeleteContentType deletes a content type that no content references
func (h *ContentTypeHandler) DeleteContentType(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content type ID")
		return
	}

	if err := h.service.DeleteContentType(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content type deleted", "type_id", id.String())
	respondMessage(w, r, http.StatusOK, nil, "content type deleted")
}

// ValidateDocument checks a document against the type's schema without
// persisting anything. Always 200; the result carries the error list.
func (h *ContentTypeHandler) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content type ID")
		return
	}

	var doc contentengine.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	result, err := h.service.ValidateAgainstType(r.Context(), id, doc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}
