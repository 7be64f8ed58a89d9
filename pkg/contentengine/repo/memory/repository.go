// Package memory provides a non-durable Repository for development and
// tests. All guards the postgres schema enforces with constraints are
// checked inline under one mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// Repository is an in-memory implementation of contentengine.Repository
type Repository struct {
	mu sync.RWMutex

	contentTypes map[uuid.UUID]*contentengine.ContentType
	contents     map[uuid.UUID]*contentengine.Content
	contentOrder []uuid.UUID // insertion order, the "natural scan order" of full-text search
	categories   map[uuid.UUID]*contentengine.Category
	tags         map[uuid.UUID]*contentengine.Tag

	contentCategories map[uuid.UUID][]uuid.UUID
	contentTags       map[uuid.UUID][]uuid.UUID
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		contentTypes:      make(map[uuid.UUID]*contentengine.ContentType),
		contents:          make(map[uuid.UUID]*contentengine.Content),
		categories:        make(map[uuid.UUID]*contentengine.Category),
		tags:              make(map[uuid.UUID]*contentengine.Tag),
		contentCategories: make(map[uuid.UUID][]uuid.UUID),
		contentTags:       make(map[uuid.UUID][]uuid.UUID),
	}
}

// Content type operations

func (r *Repository) CreateContentType(ctx context.Context, ct *contentengine.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.contentTypes {
		if existing.Name == ct.Name {
			return contentengine.ErrDuplicateName
		}
	}
	r.contentTypes[ct.ID] = copyContentType(ct)
	return nil
}

func (r *Repository) GetContentType(ctx context.Context, id uuid.UUID) (*contentengine.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, exists := r.contentTypes[id]
	if !exists {
		return nil, contentengine.ErrContentTypeNotFound
	}
	return copyContentType(ct), nil
}

func (r *Repository) GetContentTypeByName(ctx context.Context, name string) (*contentengine.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ct := range r.contentTypes {
		if ct.Name == name {
			return copyContentType(ct), nil
		}
	}
	return nil, contentengine.ErrContentTypeNotFound
}

func (r *Repository) ListContentTypes(ctx context.Context) ([]*contentengine.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*contentengine.ContentType, 0, len(r.contentTypes))
	for _, ct := range r.contentTypes {
		result = append(result, copyContentType(ct))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateContentType(ctx context.Context, ct *contentengine.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contentTypes[ct.ID]; !exists {
		return contentengine.ErrContentTypeNotFound
	}
	for _, existing := range r.contentTypes {
		if existing.ID != ct.ID && existing.Name == ct.Name {
			return contentengine.ErrDuplicateName
		}
	}
	r.contentTypes[ct.ID] = copyContentType(ct)
	return nil
}

func (r *Repository) DeleteContentType(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contentTypes[id]; !exists {
		return contentengine.ErrContentTypeNotFound
	}
	delete(r.contentTypes, id)
	return nil
}

func (r *Repository) CountContentByType(ctx context.Context, typeID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, c := range r.contents {
		if c.TypeID == typeID {
			count++
		}
	}
	return count, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *contentengine.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.contents {
		if existing.Slug == content.Slug {
			return contentengine.ErrDuplicateSlug
		}
	}
	r.contents[content.ID] = copyContent(content)
	r.contentOrder = append(r.contentOrder, content.ID)
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*contentengine.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, contentengine.ErrContentNotFound
	}
	return copyContent(content), nil
}

func (r *Repository) GetContentBySlug(ctx context.Context, slug string) (*contentengine.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, content := range r.contents {
		if content.Slug == slug {
			return copyContent(content), nil
		}
	}
	return nil, contentengine.ErrContentNotFound
}

func (r *Repository) ListContent(ctx context.Context, params contentengine.ContentListParams) ([]*contentengine.Content, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*contentengine.Content
	for _, id := range r.contentOrder {
		content := r.contents[id]
		if params.TypeID != nil && content.TypeID != *params.TypeID {
			continue
		}
		if params.Status != nil && content.Status != *params.Status {
			continue
		}
		if params.CategoryID != nil && !containsID(r.contentCategories[id], *params.CategoryID) {
			continue
		}
		if params.TagID != nil && !containsID(r.contentTags[id], *params.TagID) {
			continue
		}
		matched = append(matched, content)
	}

	sortContent(matched, params.SortBy, params.SortOrder)

	total := int64(len(matched))
	offset := params.Offset()
	if offset >= len(matched) {
		return []*contentengine.Content{}, total, nil
	}
	end := offset + params.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*contentengine.Content, 0, end-offset)
	for _, c := range matched[offset:end] {
		page = append(page, copyContent(c))
	}
	return page, total, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *contentengine.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[content.ID]; !exists {
		return contentengine.ErrContentNotFound
	}
	for _, existing := range r.contents {
		if existing.ID != content.ID && existing.Slug == content.Slug {
			return contentengine.ErrDuplicateSlug
		}
	}
	r.contents[content.ID] = copyContent(content)
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[id]; !exists {
		return contentengine.ErrContentNotFound
	}
	delete(r.contents, id)
	// Join rows cascade with their content.
	delete(r.contentCategories, id)
	delete(r.contentTags, id)
	for i, ordered := range r.contentOrder {
		if ordered == id {
			r.contentOrder = append(r.contentOrder[:i], r.contentOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Search operations

// SearchContent is the token/substring variant: the query is lowercased and
// split on whitespace, and a record matches when any token appears in its
// searchable text. Results come back newest-first.
func (r *Repository) SearchContent(ctx context.Context, params contentengine.SearchParams) ([]*contentengine.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := strings.Fields(strings.ToLower(params.Query))
	var matched []*contentengine.Content
	for _, id := range r.contentOrder {
		content := r.contents[id]
		if params.TypeID != nil && content.TypeID != *params.TypeID {
			continue
		}
		text := searchableText(content)
		for _, token := range tokens {
			if strings.Contains(text, token) {
				matched = append(matched, copyContent(content))
				break
			}
		}
	}
	sortContent(matched, contentengine.DefaultSortBy, contentengine.DefaultSortOrder)
	return matched, nil
}

// SearchContentFullText approximates the postgres 'simple' full-text match:
// every word of the phrase must appear. Results keep natural scan order.
func (r *Repository) SearchContentFullText(ctx context.Context, params contentengine.SearchParams) ([]*contentengine.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := strings.Fields(strings.ToLower(params.Query))
	var matched []*contentengine.Content
	for _, id := range r.contentOrder {
		content := r.contents[id]
		if params.TypeID != nil && content.TypeID != *params.TypeID {
			continue
		}
		text := searchableText(content)
		all := true
		for _, token := range tokens {
			if !strings.Contains(text, token) {
				all = false
				break
			}
		}
		if all && len(tokens) > 0 {
			matched = append(matched, copyContent(content))
		}
	}
	return matched, nil
}

// searchPayloadKeys are the payload fields searched alongside the title,
// including their locale variants.
var searchPayloadKeys = []string{
	"body", "body_en", "body_zh",
	"excerpt", "excerpt_en", "excerpt_zh",
}

func searchableText(content *contentengine.Content) string {
	parts := []string{content.Title}
	for _, key := range searchPayloadKeys {
		if s, ok := content.Payload[key].(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *contentengine.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.categories {
		if existing.Slug == category.Slug {
			return contentengine.ErrDuplicateSlug
		}
	}
	r.categories[category.ID] = copyCategory(category)
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*contentengine.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, contentengine.ErrCategoryNotFound
	}
	return copyCategory(category), nil
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*contentengine.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, category := range r.categories {
		if category.Slug == slug {
			return copyCategory(category), nil
		}
	}
	return nil, contentengine.ErrCategoryNotFound
}

func (r *Repository) ListCategories(ctx context.Context, categoryType string) ([]*contentengine.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*contentengine.Category
	for _, category := range r.categories {
		if categoryType != "" && category.Type != categoryType {
			continue
		}
		result = append(result, copyCategory(category))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *contentengine.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[category.ID]; !exists {
		return contentengine.ErrCategoryNotFound
	}
	for _, existing := range r.categories {
		if existing.ID != category.ID && existing.Slug == category.Slug {
			return contentengine.ErrDuplicateSlug
		}
	}
	r.categories[category.ID] = copyCategory(category)
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return contentengine.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *Repository) CountCategoryChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, category := range r.categories {
		if category.ParentID != nil && *category.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (r *Repository) CountContentInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, ids := range r.contentCategories {
		if containsID(ids, id) {
			count++
		}
	}
	return count, nil
}

// Tag operations

func (r *Repository) CreateTag(ctx context.Context, tag *contentengine.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createTagLocked(tag)
}

// CreateTags inserts all tags or none, mirroring the transactional batch
// of the postgres repository.
func (r *Repository) CreateTags(ctx context.Context, tags []*contentengine.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if seen[tag.Slug] {
			return fmt.Errorf("%w: %q", contentengine.ErrDuplicateSlug, tag.Slug)
		}
		seen[tag.Slug] = true
		for _, existing := range r.tags {
			if existing.Slug == tag.Slug {
				return fmt.Errorf("%w: %q", contentengine.ErrDuplicateSlug, tag.Slug)
			}
		}
	}
	for _, tag := range tags {
		r.tags[tag.ID] = copyTag(tag)
	}
	return nil
}

func (r *Repository) createTagLocked(tag *contentengine.Tag) error {
	for _, existing := range r.tags {
		if existing.Slug == tag.Slug {
			return contentengine.ErrDuplicateSlug
		}
	}
	r.tags[tag.ID] = copyTag(tag)
	return nil
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*contentengine.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tag, exists := r.tags[id]
	if !exists {
		return nil, contentengine.ErrTagNotFound
	}
	return copyTag(tag), nil
}

func (r *Repository) GetTagBySlug(ctx context.Context, slug string) (*contentengine.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tag := range r.tags {
		if tag.Slug == slug {
			return copyTag(tag), nil
		}
	}
	return nil, contentengine.ErrTagNotFound
}

func (r *Repository) ListTags(ctx context.Context, tagType string) ([]*contentengine.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*contentengine.Tag
	for _, tag := range r.tags {
		if tagType != "" && tag.Type != tagType {
			continue
		}
		result = append(result, copyTag(tag))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UpdateTag(ctx context.Context, tag *contentengine.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[tag.ID]; !exists {
		return contentengine.ErrTagNotFound
	}
	for _, existing := range r.tags {
		if existing.ID != tag.ID && existing.Slug == tag.Slug {
			return contentengine.ErrDuplicateSlug
		}
	}
	r.tags[tag.ID] = copyTag(tag)
	return nil
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tags[id]; !exists {
		return contentengine.ErrTagNotFound
	}
	delete(r.tags, id)
	return nil
}

func (r *Repository) CountContentWithTag(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, ids := range r.contentTags {
		if containsID(ids, id) {
			count++
		}
	}
	return count, nil
}

// Content-taxonomy links

func (r *Repository) SetContentCategories(ctx context.Context, contentID uuid.UUID, categoryIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[contentID]; !exists {
		return contentengine.ErrContentNotFound
	}
	for _, id := range categoryIDs {
		if _, exists := r.categories[id]; !exists {
			return fmt.Errorf("%w: %s", contentengine.ErrCategoryNotFound, id)
		}
	}
	r.contentCategories[contentID] = append([]uuid.UUID(nil), categoryIDs...)
	return nil
}

func (r *Repository) SetContentTags(ctx context.Context, contentID uuid.UUID, tagIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contents[contentID]; !exists {
		return contentengine.ErrContentNotFound
	}
	for _, id := range tagIDs {
		if _, exists := r.tags[id]; !exists {
			return fmt.Errorf("%w: %s", contentengine.ErrTagNotFound, id)
		}
	}
	r.contentTags[contentID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

func (r *Repository) ListContentCategories(ctx context.Context, contentID uuid.UUID) ([]*contentengine.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.contents[contentID]; !exists {
		return nil, contentengine.ErrContentNotFound
	}
	result := make([]*contentengine.Category, 0, len(r.contentCategories[contentID]))
	for _, id := range r.contentCategories[contentID] {
		if category, exists := r.categories[id]; exists {
			result = append(result, copyCategory(category))
		}
	}
	return result, nil
}

func (r *Repository) ListContentTags(ctx context.Context, contentID uuid.UUID) ([]*contentengine.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, exists := r.contents[contentID]; !exists {
		return nil, contentengine.ErrContentNotFound
	}
	result := make([]*contentengine.Tag, 0, len(r.contentTags[contentID]))
	for _, id := range r.contentTags[contentID] {
		if tag, exists := r.tags[id]; exists {
			result = append(result, copyTag(tag))
		}
	}
	return result, nil
}

// helpers

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sortContent(contents []*contentengine.Content, sortBy, sortOrder string) {
	less := func(a, b *contentengine.Content) bool {
		switch sortBy {
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "title":
			return a.Title < b.Title
		case "slug":
			return a.Slug < b.Slug
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(contents, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(contents[i], contents[j])
		}
		return less(contents[j], contents[i])
	})
}

// Stored records are copied on the way in and out so callers can never
// alias repository state.

func copyContentType(ct *contentengine.ContentType) *contentengine.ContentType {
	clone := *ct
	clone.Schema = append([]contentengine.FieldDefinition(nil), ct.Schema...)
	return &clone
}

func copyContent(content *contentengine.Content) *contentengine.Content {
	clone := *content
	clone.Payload = copyDocument(content.Payload)
	clone.Metadata = copyDocument(content.Metadata)
	if content.PublishedAt != nil {
		published := *content.PublishedAt
		clone.PublishedAt = &published
	}
	return &clone
}

func copyCategory(category *contentengine.Category) *contentengine.Category {
	clone := *category
	if category.ParentID != nil {
		parent := *category.ParentID
		clone.ParentID = &parent
	}
	return &clone
}

func copyTag(tag *contentengine.Tag) *contentengine.Tag {
	clone := *tag
	return &clone
}

func copyDocument(doc contentengine.Document) contentengine.Document {
	if doc == nil {
		return nil
	}
	clone := make(contentengine.Document, len(doc))
	for k, v := range doc {
		clone[k] = v
	}
	return clone
}
