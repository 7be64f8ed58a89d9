package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// CategoryHandler handles HTTP requests for the category taxonomy
type CategoryHandler struct {
	service contentengine.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service contentengine.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Routes returns the routes for categories
func (h *CategoryHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCategories)
	r.Post("/", h.CreateCategory)
	r.Get("/tree", h.CategoryTree)
	r.Get("/tree/{type}", h.CategoryTree)
	r.Get("/slug/{slug}", h.GetCategoryBySlug)
	r.Get("/{id}", h.GetCategory)
	r.Put("/{id}", h.UpdateCategory)
	r.Delete("/{id}", h.DeleteCategory)

	return r
}

// CreateCategoryBody is the request body for creating a category
type CreateCategoryBody struct {
	NameEN        string `json:"name_en"`
	NameZH        string `json:"name_zh"`
	Slug          string `json:"slug"`
	ParentID      string `json:"parent_id,omitempty"`
	Type          string `json:"type,omitempty"`
	DescriptionEN string `json:"description_en,omitempty"`
	DescriptionZH string `json:"description_zh,omitempty"`
}

// CreateCategory creates a category, optionally under a parent
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var body CreateCategoryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	req := contentengine.CreateCategoryRequest{
		NameEN:        body.NameEN,
		NameZH:        body.NameZH,
		Slug:          body.Slug,
		Type:          body.Type,
		DescriptionEN: body.DescriptionEN,
		DescriptionZH: body.DescriptionZH,
	}
	if body.ParentID != "" {
		parentID, err := uuid.Parse(body.ParentID)
		if err != nil {
			respondBadRequest(w, r, "invalid parent ID")
			return
		}
		req.ParentID = &parentID
	}

	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Category created", "category_id", category.ID.String(), "slug", category.Slug)
	respond(w, r, http.StatusCreated, category)
}

// GetCategory retrieves a category by ID
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid category ID")
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, category)
}

// GetCategoryBySlug retrieves a category by its slug
func (h *CategoryHandler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, category)
}

// ListCategories lists categories as a flat list, optionally filtered by
// taxonomy type
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []*contentengine.Category{}
	}
	respond(w, r, http.StatusOK, categories)
}

// CategoryTree returns the category forest, optionally filtered by the
// taxonomy type path segment. Roots are categories without a parent.
func (h *CategoryHandler) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.CategoryTree(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if tree == nil {
		tree = []*contentengine.CategoryNode{}
	}
	respond(w, r, http.StatusOK, tree)
}

// UpdateCategoryBody is the request body for a partial category update.
// Setting parent_id to the empty string detaches the category from its
// parent; omitting it leaves the parent unchanged.
type UpdateCategoryBody struct {
	NameEN        *string `json:"name_en"`
	NameZH        *string `json:"name_zh"`
	Slug          *string `json:"slug"`
	ParentID      *string `json:"parent_id"`
	Type          *string `json:"type"`
	DescriptionEN *string `json:"description_en"`
	DescriptionZH *string `json:"description_zh"`
}

// UpdateCategory applies a partial update, including re-parenting. Moving a
// category under its own descendant is rejected.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid category ID")
		return
	}

	var body UpdateCategoryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	req := contentengine.UpdateCategoryRequest{
		ID:            id,
		NameEN:        body.NameEN,
		NameZH:        body.NameZH,
		Slug:          body.Slug,
		Type:          body.Type,
		DescriptionEN: body.DescriptionEN,
		DescriptionZH: body.DescriptionZH,
	}
	if body.ParentID != nil {
		if *body.ParentID == "" {
			req.ClearParent = true
		} else {
			parentID, err := uuid.Parse(*body.ParentID)
			if err != nil {
				respondBadRequest(w, r, "invalid parent ID")
				return
			}
			req.ParentID = &parentID
		}
	}

	category, err := h.service.UpdateCategory(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Category updated", "category_id", id.String())
	respond(w, r, http.StatusOK, category)
}

// DeleteCategory deletes a category that has no children and no linked
// content
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, r, "invalid category ID")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	slog.Info("Category deleted", "category_id", id.String())
	respondMessage(w, r, http.StatusOK, nil, "category deleted")
}
