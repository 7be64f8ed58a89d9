package contentengine

import (
	"time"

	"github.com/google/uuid"
)

// CreateContentTypeRequest contains parameters for defining a content type.
type CreateContentTypeRequest struct {
	Name   string            `json:"name"`
	Schema []FieldDefinition `json:"schema"`
}

// UpdateContentTypeRequest contains parameters for updating a content type.
// Nil/empty fields are left unchanged.
type UpdateContentTypeRequest struct {
	ID     uuid.UUID
	Name   string
	Schema []FieldDefinition
}

// CreateContentRequest contains parameters for creating a content record.
// TypeID and Slug are required; Status defaults to draft.
type CreateContentRequest struct {
	TypeID        uuid.UUID
	Slug          string
	Payload       Document
	FeaturedImage string
	Status        ContentStatus
	Metadata      Document
	CategoryIDs   []uuid.UUID
	TagIDs        []uuid.UUID
}

// UpdateContentRequest contains parameters for a partial content update.
// Pointer/nil fields are left unchanged. A supplied Payload replaces the
// stored payload wholesale and the title is re-derived; supplied Metadata
// keys shallow-merge over the existing metadata.
type UpdateContentRequest struct {
	ID            uuid.UUID
	Slug          *string
	Payload       Document
	FeaturedImage *string
	Status        *ContentStatus
	PublishedAt   *time.Time
	Metadata      Document
	CategoryIDs   []uuid.UUID // nil = unchanged, empty = detach all
	TagIDs        []uuid.UUID
}

// CreateCategoryRequest contains parameters for creating a category.
type CreateCategoryRequest struct {
	NameEN        string
	NameZH        string
	Slug          string
	ParentID      *uuid.UUID
	Type          string
	DescriptionEN string
	DescriptionZH string
}

// UpdateCategoryRequest contains parameters for a partial category update.
// ClearParent detaches the category from its parent; otherwise a non-nil
// ParentID re-parents it (subject to the cycle check).
type UpdateCategoryRequest struct {
	ID            uuid.UUID
	NameEN        *string
	NameZH        *string
	Slug          *string
	ParentID      *uuid.UUID
	ClearParent   bool
	Type          *string
	DescriptionEN *string
	DescriptionZH *string
}

// CreateTagRequest contains parameters for creating a tag.
type CreateTagRequest struct {
	NameEN string `json:"name_en"`
	NameZH string `json:"name_zh"`
	Slug   string `json:"slug"`
	Type   string `json:"type,omitempty"`
}

// UpdateTagRequest contains parameters for a partial tag update.
type UpdateTagRequest struct {
	ID     uuid.UUID
	NameEN *string
	NameZH *string
	Slug   *string
	Type   *string
}

// BatchCreateTagsRequest creates several tags in one call. Type, when set,
// applies to every item that does not carry its own.
type BatchCreateTagsRequest struct {
	Tags []CreateTagRequest
	Type string
}

// BatchCreateTagsResult reports per-item outcomes of a batch tag create.
// Items that fail validation are keyed by their index in the request; the
// remaining valid subset is inserted in a single transaction.
type BatchCreateTagsResult struct {
	Created []*Tag         `json:"created"`
	Errors  map[int]string `json:"errors,omitempty"`
}
