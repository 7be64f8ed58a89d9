package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// TagHandler handles HTTP requests for tags
type TagHandler struct {
	service contentengine.Service
}

// NewTagHandler creates a new tag handler
func NewTagHandler(service contentengine.Service) *TagHandler {
	return &TagHandler{service: service}
}

// Routes returns the routes for tags
func (h *TagHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTags)
	r.Post("/", h.CreateTag)
	r.Post("/batch", h.BatchCreateTags)
	r.Get("/slug/{slug}", h.GetTagBySlug)
	r.Get("/{id}", h.GetTag)
	r.Put("/{id}", h.UpdateTag)
	r.Delete("/{id}", h.DeleteTag)

	return r
}

// CreateTag creates a single tag
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req contentengine.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	tag, err := h.service.CreateTag(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Tag created", "tag_id", tag.ID.String(), "slug", tag.Slug)
	respond(w, r, http.StatusCreated, tag)
}

// BatchCreateTagsBody is the request body for a batch tag create
type BatchCreateTagsBody struct {
	Tags []contentengine.CreateTagRequest `json:"tags"`
	Type string                           `json:"type,omitempty"`
}

// BatchCreateTags creates several tags in one call with partial success:
// invalid items are reported per index, the valid subset is inserted in one
// transaction. The envelope reports success=false when any item failed.
func (h *TagHandler) BatchCreateTags(w http.ResponseWriter, r *http.Request) {
	var body BatchCreateTagsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	result, err := h.service.BatchCreateTags(r.Context(), contentengine.BatchCreateTagsRequest{
		Tags: body.Tags,
		Type: body.Type,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Tags batch created", "created", len(result.Created), "failed", len(result.Errors))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Envelope{Success: len(result.Errors) == 0, Data: result})
}

// GetTag retrieves a tag by ID
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid tag ID")
		return
	}

	tag, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tag)
}

// GetTagBySlug retrieves a tag by its slug
func (h *TagHandler) GetTagBySlug(w http.ResponseWriter, r *http.Request) {
	tag, err := h.service.GetTagBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tag)
}

// ListTags lists tags, optionally filtered by type
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if tags == nil {
		tags = []*contentengine.Tag{}
	}
	respond(w, r, http.StatusOK, tags)
}

// UpdateTagBody is the request body for a partial tag update
type UpdateTagBody struct {
	NameEN *string `json:"name_en"`
	NameZH *string `json:"name_zh"`
	Slug   *string `json:"slug"`
	Type   *string `json:"type"`
}

// UpdateTag applies a partial update to a tag
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid tag ID")
		return
	}

	var body UpdateTagBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	tag, err := h.service.UpdateTag(r.Context(), contentengine.UpdateTagRequest{
		ID:     id,
		NameEN: body.NameEN,
		NameZH: body.NameZH,
		Slug:   body.Slug,
		Type:   body.Type,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Tag updated", "tag_id", id.String())
	respond(w, r, http.StatusOK, tag)
}

// DeleteTag deletes a tag that no content references
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid tag ID")
		return
	}

	if err := h.service.DeleteTag(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Tag deleted", "tag_id", id.String())
	respondMessage(w, r, http.StatusOK, nil, "tag deleted")
}
