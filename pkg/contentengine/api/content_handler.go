package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// ContentHandler handles HTTP requests for content records
type ContentHandler struct {
	service contentengine.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service contentengine.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// Routes returns the routes for content
func (h *ContentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListContent)
	r.Post("/", h.CreateContent)
	r.Get("/search", h.SearchContent)
	// Alternate path for the same search, kept clear of the {id} route.
	r.Get("/api-search", h.SearchContent)
	r.Get("/by-slug/{slug}", h.GetContentBySlug)
	r.Get("/{id}", h.GetContent)
	r.Put("/{id}", h.UpdateContent)
	r.Delete("/{id}", h.DeleteContent)
	r.Patch("/{id}/status", h.UpdateContentStatus)

	r.Get("/{id}/categories", h.ListContentCategories)
	r.Get("/{id}/tags", h.ListContentTags)

	return r
}

// CreateContentBody is the request body for creating a content record
type CreateContentBody struct {
	TypeID        string                 `json:"typeId"`
	Slug          string                 `json:"slug"`
	Payload       contentengine.Document `json:"payload"`
	FeaturedImage string                 `json:"featuredImage,omitempty"`
	Status        string                 `json:"status,omitempty"`
	Metadata      contentengine.Document `json:"metadata,omitempty"`
	CategoryIDs   []string               `json:"categoryIds,omitempty"`
	TagIDs        []string               `json:"tagIds,omitempty"`
}

// CreateContent creates a new content record validated against its type
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var body CreateContentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	typeID, err := uuid.Parse(body.TypeID)
	if err != nil {
		respondBadRequest(w, r, "invalid type ID")
		return
	}
	categoryIDs, err := parseIDList(body.CategoryIDs)
	if err != nil {
		respondBadRequest(w, r, "invalid category ID")
		return
	}
	tagIDs, err := parseIDList(body.TagIDs)
	if err != nil {
		respondBadRequest(w, r, "invalid tag ID")
		return
	}

	content, err := h.service.CreateContent(r.Context(), contentengine.CreateContentRequest{
		TypeID:        typeID,
		Slug:          body.Slug,
		Payload:       body.Payload,
		FeaturedImage: body.FeaturedImage,
		Status:        contentengine.ContentStatus(body.Status),
		Metadata:      body.Metadata,
		CategoryIDs:   categoryIDs,
		TagIDs:        tagIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content created", "content_id", content.ID.String(), "slug", content.Slug)
	respond(w, r, http.StatusCreated, content)
}

// GetContent retrieves a content record by ID. A locale query parameter
// ("en" or "zh") returns the flattened projected document instead of the
// raw record.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content ID")
		return
	}

	content, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondContent(w, r, content)
}

// GetContentBySlug retrieves a content record by its slug
func (h *ContentHandler) GetContentBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	content, err := h.service.GetContentBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondContent(w, r, content)
}

func (h *ContentHandler) respondContent(w http.ResponseWriter, r *http.Request, content *contentengine.Content) {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		respond(w, r, http.StatusOK, contentengine.Project(content, locale))
		return
	}
	respond(w, r, http.StatusOK, content)
}

// ListContent lists content with filtering, paging and sorting
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	contents, total, err := h.service.ListContent(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	params.Normalize()
	respondList(w, r, h.projectAll(r, contents), Meta{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	})
}

func parseListParams(r *http.Request) (contentengine.ContentListParams, error) {
	q := r.URL.Query()
	var params contentengine.ContentListParams

	if s := q.Get("typeId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return params, errInvalidParam("typeId")
		}
		params.TypeID = &id
	}
	if s := q.Get("status"); s != "" {
		status := contentengine.ContentStatus(s)
		params.Status = &status
	}
	if s := q.Get("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return params, errInvalidParam("categoryId")
		}
		params.CategoryID = &id
	}
	if s := q.Get("tagId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return params, errInvalidParam("tagId")
		}
		params.TagID = &id
	}
	if s := q.Get("page"); s != "" {
		params.Page, _ = strconv.Atoi(s)
	}
	if s := q.Get("limit"); s != "" {
		params.Limit, _ = strconv.Atoi(s)
	}
	params.SortBy = q.Get("sort")
	params.SortOrder = q.Get("order")

	return params, nil
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errInvalidParam(name string) error { return paramError("invalid " + name) }

func (h *ContentHandler) projectAll(r *http.Request, contents []*contentengine.Content) interface{} {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		if contents == nil {
			return []*contentengine.Content{}
		}
		return contents
	}
	docs := make([]contentengine.Document, 0, len(contents))
	for _, c := range contents {
		docs = append(docs, contentengine.Project(c, locale))
	}
	return docs
}

// UpdateContentBody is the request body for a partial content update
type UpdateContentBody struct {
	Slug          *string                `json:"slug"`
	Payload       contentengine.Document `json:"payload"`
	FeaturedImage *string                `json:"featuredImage"`
	Status        *string                `json:"status"`
	PublishedAt   *time.Time             `json:"publishedAt"`
	Metadata      contentengine.Document `json:"metadata"`
	CategoryIDs   []string               `json:"categoryIds"`
	TagIDs        []string               `json:"tagIds"`
}

// UpdateContent applies a partial update to a content record
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content ID")
		return
	}

	var body UpdateContentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	req := contentengine.UpdateContentRequest{
		ID:            id,
		Slug:          body.Slug,
		Payload:       body.Payload,
		FeaturedImage: body.FeaturedImage,
		PublishedAt:   body.PublishedAt,
		Metadata:      body.Metadata,
	}
	if body.Status != nil {
		status := contentengine.ContentStatus(*body.Status)
		req.Status = &status
	}
	if body.CategoryIDs != nil {
		ids, err := parseIDList(body.CategoryIDs)
		if err != nil {
			respondBadRequest(w, r, "invalid category ID")
			return
		}
		if ids == nil {
			ids = []uuid.UUID{}
		}
		req.CategoryIDs = ids
	}
	if body.TagIDs != nil {
		ids, err := parseIDList(body.TagIDs)
		if err != nil {
			respondBadRequest(w, r, "invalid tag ID")
			return
		}
		if ids == nil {
			ids = []uuid.UUID{}
		}
		req.TagIDs = ids
	}

	content, err := h.service.UpdateContent(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content updated", "content_id", id.String())
	respond(w, r, http.StatusOK, content)
}

type updateStatusBody struct {
	Status string `json:"status"`
}

// UpdateContentStatus moves a content record through its lifecycle. The
// first transition into published stamps published_at; later transitions
// leave it untouched.
func (h *ContentHandler) UpdateContentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content ID")
		return
	}

	var body updateStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	content, err := h.service.UpdateContentStatus(r.Context(), id, contentengine.ContentStatus(body.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content status updated", "content_id", id.String(), "status", body.Status)
	respond(w, r, http.StatusOK, content)
}

// DeleteContent deletes a content record and its taxonomy links
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content ID")
		return
	}

	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Content deleted", "content_id", id.String())
	respondMessage(w, r, http.StatusOK, nil, "content deleted")
}

// SearchContent is the token search: the query is lowercased and split on
// whitespace, and a record matches when any token appears as a substring of
// its searchable text. Results come back newest first.
func (h *ContentHandler) SearchContent(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	contents, err := h.service.SearchContent(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h.projectAll(r, contents))
}

func parseSearchParams(r *http.Request) (contentengine.SearchParams, error) {
	params := contentengine.SearchParams{Query: r.URL.Query().Get("query")}
	if s := r.URL.Query().Get("typeId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return params, errInvalidParam("typeId")
		}
		params.TypeID = &id
	}
	return params, nil
}

// ListContentCategories lists the categories linked to a content record
func (h *ContentHandler) ListContentCategories(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content ID")
		return
	}

	categories, err := h.service.ListContentCategories(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []*contentengine.Category{}
	}
	respond(w, r, http.StatusOK, categories)
}

// ListContentTags lists the tags linked to a content record
func (h *ContentHandler) ListContentTags(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid content ID")
		return
	}

	tags, err := h.service.ListContentTags(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if tags == nil {
		tags = []*contentengine.Tag{}
	}
	respond(w, r, http.StatusOK, tags)
}

func parseIDList(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
