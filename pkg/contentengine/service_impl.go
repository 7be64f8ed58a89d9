package contentengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// Content type operations

func (s *service) CreateContentType(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewValidationError("name is required")
	}
	if err := validateSchema(req.Schema); err != nil {
		return nil, err
	}

	// Friendly pre-check; the storage UNIQUE constraint stays authoritative
	// when concurrent creates race past it.
	existing, err := s.repository.GetContentTypeByName(ctx, req.Name)
	if err != nil && !errors.Is(err, ErrContentTypeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateName
	}

	now := time.Now().UTC()
	ct := &ContentType{
		ID:        uuid.New(),
		Name:      req.Name,
		Schema:    req.Schema,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateContentType(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *service) GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error) {
	return s.repository.GetContentType(ctx, id)
}

func (s *service) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	return s.repository.ListContentTypes(ctx)
}

func (s *service) UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error) {
	ct, err := s.repository.GetContentType(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != ct.Name {
		other, err := s.repository.GetContentTypeByName(ctx, req.Name)
		if err != nil && !errors.Is(err, ErrContentTypeNotFound) {
			return nil, err
		}
		if other != nil && other.ID != ct.ID {
			return nil, ErrDuplicateName
		}
		ct.Name = req.Name
	}
	if req.Schema != nil {
		if err := validateSchema(req.Schema); err != nil {
			return nil, err
		}
		ct.Schema = req.Schema
	}

	ct.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateContentType(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *service) DeleteContentType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repository.GetContentType(ctx, id); err != nil {
		return err
	}
	count, err := s.repository.CountContentByType(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d content records reference it", ErrContentTypeInUse, count)
	}
	return s.repository.DeleteContentType(ctx, id)
}

func (s *service) ValidateAgainstType(ctx context.Context, typeID uuid.UUID, doc Document) (ValidationResult, error) {
	ct, err := s.repository.GetContentType(ctx, typeID)
	if err != nil {
		return ValidationResult{}, err
	}
	return ValidateDocument(ct.Schema, doc), nil
}

// Content operations

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	var missing []string
	if req.TypeID == uuid.Nil {
		missing = append(missing, "type_id is required")
	}
	if strings.TrimSpace(req.Slug) == "" {
		missing = append(missing, "slug is required")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Messages: missing}
	}

	status := req.Status
	if status == "" {
		status = ContentStatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentStatus, status)
	}

	ct, err := s.repository.GetContentType(ctx, req.TypeID)
	if err != nil {
		return nil, err
	}
	if result := ValidateDocument(ct.Schema, req.Payload); !result.Valid {
		return nil, &ValidationError{Messages: result.Errors}
	}

	if err := s.checkSlugFree(ctx, req.Slug); err != nil {
		return nil, err
	}

	payload := req.Payload
	if payload == nil {
		payload = Document{}
	}

	now := time.Now().UTC()
	content := &Content{
		ID:            uuid.New(),
		TypeID:        req.TypeID,
		Title:         DeriveTitle(payload),
		Slug:          req.Slug,
		Payload:       payload,
		FeaturedImage: req.FeaturedImage,
		Status:        status,
		Metadata:      req.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
		// PublishedAt stays unset on create even when created as published;
		// it is stamped on the first status transition.
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	if len(req.CategoryIDs) > 0 {
		if err := s.repository.SetContentCategories(ctx, content.ID, req.CategoryIDs); err != nil {
			return nil, &ContentError{ContentID: content.ID, Op: "attach_categories", Err: err}
		}
	}
	if len(req.TagIDs) > 0 {
		if err := s.repository.SetContentTags(ctx, content.ID, req.TagIDs); err != nil {
			return nil, &ContentError{ContentID: content.ID, Op: "attach_tags", Err: err}
		}
	}

	return content, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) GetContentBySlug(ctx context.Context, slug string) (*Content, error) {
	return s.repository.GetContentBySlug(ctx, slug)
}

func (s *service) ListContent(ctx context.Context, params ContentListParams) ([]*Content, int64, error) {
	params.Normalize()
	if params.Status != nil && !params.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidContentStatus, *params.Status)
	}
	return s.repository.ListContent(ctx, params)
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	content, err := s.repository.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != content.Slug {
		if strings.TrimSpace(*req.Slug) == "" {
			return nil, NewValidationError("slug cannot be empty")
		}
		if err := s.checkSlugFree(ctx, *req.Slug); err != nil {
			return nil, err
		}
		content.Slug = *req.Slug
	}
	if req.Payload != nil {
		content.Payload = req.Payload
		content.Title = DeriveTitle(req.Payload)
	}
	if req.FeaturedImage != nil {
		content.FeaturedImage = *req.FeaturedImage
	}
	if req.Metadata != nil {
		if content.Metadata == nil {
			content.Metadata = Document{}
		}
		// Shallow merge: keys absent from the update survive.
		for k, v := range req.Metadata {
			content.Metadata[k] = v
		}
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidContentStatus, *req.Status)
		}
		s.applyStatus(content, *req.Status, req.PublishedAt)
	} else if req.PublishedAt != nil {
		content.PublishedAt = req.PublishedAt
	}

	content.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "update", Err: err}
	}

	if req.CategoryIDs != nil {
		if err := s.repository.SetContentCategories(ctx, content.ID, req.CategoryIDs); err != nil {
			return nil, &ContentError{ContentID: content.ID, Op: "attach_categories", Err: err}
		}
	}
	if req.TagIDs != nil {
		if err := s.repository.SetContentTags(ctx, content.ID, req.TagIDs); err != nil {
			return nil, &ContentError{ContentID: content.ID, Op: "attach_tags", Err: err}
		}
	}

	return content, nil
}

func (s *service) UpdateContentStatus(ctx context.Context, id uuid.UUID, status ContentStatus) (*Content, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentStatus, status)
	}

	content, err := s.repository.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	s.applyStatus(content, status, nil)
	content.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: id, Op: "update_status", Err: err}
	}
	return content, nil
}

// applyStatus moves a content into a new status. published_at is stamped on
// the first transition into published only; an explicit timestamp wins, and
// a repeat transition never re-stamps.
func (s *service) applyStatus(content *Content, status ContentStatus, explicit *time.Time) {
	if status == ContentStatusPublished && content.PublishedAt == nil {
		if explicit != nil {
			content.PublishedAt = explicit
		} else {
			now := time.Now().UTC()
			content.PublishedAt = &now
		}
	}
	content.Status = status
}

func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteContent(ctx, id); err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) checkSlugFree(ctx context.Context, slug string) error {
	existing, err := s.repository.GetContentBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrContentNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
	}
	return nil
}

// Search operations

func (s *service) SearchContent(ctx context.Context, params SearchParams) ([]*Content, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, NewValidationError("query is required")
	}
	return s.repository.SearchContent(ctx, params)
}

func (s *service) SearchContentFullText(ctx context.Context, params SearchParams) ([]*Content, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, NewValidationError("query is required")
	}
	return s.repository.SearchContentFullText(ctx, params)
}

// Category operations

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	var messages []string
	if strings.TrimSpace(req.Slug) == "" {
		messages = append(messages, "slug is required")
	}
	if req.NameEN == "" && req.NameZH == "" {
		messages = append(messages, "a name in at least one language is required")
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	if err := s.checkCategorySlugFree(ctx, req.Slug, uuid.Nil); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if _, err := s.repository.GetCategory(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	category := &Category{
		ID:            uuid.New(),
		NameEN:        req.NameEN,
		NameZH:        req.NameZH,
		Slug:          req.Slug,
		ParentID:      req.ParentID,
		Type:          req.Type,
		DescriptionEN: req.DescriptionEN,
		DescriptionZH: req.DescriptionZH,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repository.CreateCategory(ctx, category); err != nil {
		return nil, &TaxonomyError{Kind: "category", ID: category.ID, Op: "create", Err: err}
	}
	return category, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repository.GetCategory(ctx, id)
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.repository.GetCategoryBySlug(ctx, slug)
}

func (s *service) ListCategories(ctx context.Context, categoryType string) ([]*Category, error) {
	return s.repository.ListCategories(ctx, categoryType)
}

func (s *service) CategoryTree(ctx context.Context, categoryType string) ([]*CategoryNode, error) {
	categories, err := s.repository.ListCategories(ctx, categoryType)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories, categoryType), nil
}

func (s *service) UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*Category, error) {
	category, err := s.repository.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != category.Slug {
		if strings.TrimSpace(*req.Slug) == "" {
			return nil, NewValidationError("slug cannot be empty")
		}
		if err := s.checkCategorySlugFree(ctx, *req.Slug, category.ID); err != nil {
			return nil, err
		}
		category.Slug = *req.Slug
	}
	if req.NameEN != nil {
		category.NameEN = *req.NameEN
	}
	if req.NameZH != nil {
		category.NameZH = *req.NameZH
	}
	if req.Type != nil {
		category.Type = *req.Type
	}
	if req.DescriptionEN != nil {
		category.DescriptionEN = *req.DescriptionEN
	}
	if req.DescriptionZH != nil {
		category.DescriptionZH = *req.DescriptionZH
	}
	if req.ClearParent {
		category.ParentID = nil
	} else if req.ParentID != nil {
		if err := s.checkNoCycle(ctx, category.ID, *req.ParentID); err != nil {
			return nil, err
		}
		parentID := *req.ParentID
		category.ParentID = &parentID
	}

	category.UpdatedAt = time.Now().UTC()
	if err := s.repository.UpdateCategory(ctx, category); err != nil {
		return nil, &TaxonomyError{Kind: "category", ID: category.ID, Op: "update", Err: err}
	}
	return category, nil
}

// checkNoCycle rejects a parent assignment that would close a cycle by
// walking the candidate ancestor chain before anything is persisted.
func (s *service) checkNoCycle(ctx context.Context, categoryID, parentID uuid.UUID) error {
	current := parentID
	for {
		if current == categoryID {
			return ErrCategoryCycle
		}
		ancestor, err := s.repository.GetCategory(ctx, current)
		if err != nil {
			return err
		}
		if ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repository.GetCategory(ctx, id); err != nil {
		return err
	}
	children, err := s.repository.CountCategoryChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: %d child categories", ErrCategoryInUse, children)
	}
	refs, err := s.repository.CountContentInCategory(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d content records reference it", ErrCategoryInUse, refs)
	}
	return s.repository.DeleteCategory(ctx, id)
}

func (s *service) checkCategorySlugFree(ctx context.Context, slug string, selfID uuid.UUID) error {
	existing, err := s.repository.GetCategoryBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
	}
	return nil
}

// Tag operations

func (s *service) CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	tag, err := s.buildTag(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repository.CreateTag(ctx, tag); err != nil {
		return nil, &TaxonomyError{Kind: "tag", ID: tag.ID, Op: "create", Err: err}
	}
	return tag, nil
}

// BatchCreateTags validates every item and inserts the valid subset in a
// single transaction. Failed items are reported keyed by request index;
// the caller decides how to surface the partial outcome.
func (s *service) BatchCreateTags(ctx context.Context, req BatchCreateTagsRequest) (*BatchCreateTagsResult, error) {
	if len(req.Tags) == 0 {
		return nil, NewValidationError("tags list is empty")
	}

	result := &BatchCreateTagsResult{Errors: map[int]string{}}
	seen := make(map[string]bool, len(req.Tags))
	var valid []*Tag

	for i, item := range req.Tags {
		if item.Type == "" {
			item.Type = req.Type
		}
		tag, err := s.buildTag(ctx, item, seen)
		if err != nil {
			result.Errors[i] = err.Error()
			continue
		}
		seen[tag.Slug] = true
		valid = append(valid, tag)
	}

	if len(valid) > 0 {
		if err := s.repository.CreateTags(ctx, valid); err != nil {
			return nil, err
		}
		result.Created = valid
	}
	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

func (s *service) buildTag(ctx context.Context, req CreateTagRequest, batchSeen map[string]bool) (*Tag, error) {
	var messages []string
	if strings.TrimSpace(req.Slug) == "" {
		messages = append(messages, "slug is required")
	}
	if req.NameEN == "" && req.NameZH == "" {
		messages = append(messages, "a name in at least one language is required")
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	if batchSeen != nil && batchSeen[req.Slug] {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, req.Slug)
	}
	existing, err := s.repository.GetTagBySlug(ctx, req.Slug)
	if err != nil && !errors.Is(err, ErrTagNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, req.Slug)
	}

	return &Tag{
		ID:        uuid.New(),
		NameEN:    req.NameEN,
		NameZH:    req.NameZH,
		Slug:      req.Slug,
		Type:      req.Type,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *service) GetTag(ctx context.Context, id uuid.UUID) (*Tag, error) {
	return s.repository.GetTag(ctx, id)
}

func (s *service) GetTagBySlug(ctx context.Context, slug string) (*Tag, error) {
	return s.repository.GetTagBySlug(ctx, slug)
}

func (s *service) ListTags(ctx context.Context, tagType string) ([]*Tag, error) {
	return s.repository.ListTags(ctx, tagType)
}

func (s *service) UpdateTag(ctx context.Context, req UpdateTagRequest) (*Tag, error) {
	tag, err := s.repository.GetTag(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != tag.Slug {
		if strings.TrimSpace(*req.Slug) == "" {
			return nil, NewValidationError("slug cannot be empty")
		}
		existing, err := s.repository.GetTagBySlug(ctx, *req.Slug)
		if err != nil && !errors.Is(err, ErrTagNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != tag.ID {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, *req.Slug)
		}
		tag.Slug = *req.Slug
	}
	if req.NameEN != nil {
		tag.NameEN = *req.NameEN
	}
	if req.NameZH != nil {
		tag.NameZH = *req.NameZH
	}
	if req.Type != nil {
		tag.Type = *req.Type
	}

	if err := s.repository.UpdateTag(ctx, tag); err != nil {
		return nil, &TaxonomyError{Kind: "tag", ID: tag.ID, Op: "update", Err: err}
	}
	return tag, nil
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repository.GetTag(ctx, id); err != nil {
		return err
	}
	refs, err := s.repository.CountContentWithTag(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: %d content records reference it", ErrTagInUse, refs)
	}
	return s.repository.DeleteTag(ctx, id)
}

// Content-taxonomy reads

func (s *service) ListContentCategories(ctx context.Context, contentID uuid.UUID) ([]*Category, error) {
	return s.repository.ListContentCategories(ctx, contentID)
}

func (s *service) ListContentTags(ctx context.Context, contentID uuid.UUID) ([]*Tag, error) {
	return s.repository.ListContentTags(ctx, contentID)
}
