package contentengine

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus is the domain type for content lifecycle states.
type ContentStatus string

// Content status constants (typed).
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s ContentStatus) IsValid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// FieldType is the domain type for content type field kinds.
type FieldType string

// Field type constants (typed).
const (
	FieldTypeString   FieldType = "string"
	FieldTypeText     FieldType = "text"
	FieldTypeRichText FieldType = "richtext"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypeImage    FieldType = "image"
)

// IsValid reports whether the field type is recognized.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeRichText,
		FieldTypeNumber, FieldTypeEmail, FieldTypeImage:
		return true
	}
	return false
}

// Locale codes for payload key suffixes. Only these two are modeled; any
// other value passed to Project behaves as "no projection".
const (
	LocaleEN = "en"
	LocaleZH = "zh"
)

// Document is an open string-keyed payload. Values are whatever the JSON
// decoder produced (string, float64, bool, nested map, array). Keys may carry
// a locale suffix ("title_en", "title_zh") alongside plain keys.
type Document map[string]interface{}

// FieldDefinition is one named, typed, optionally-required slot in a
// content type's schema.
type FieldDefinition struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Label    string    `json:"label,omitempty"`
}

// ContentType is a named schema describing the fields a content of that
// type may or must carry. The schema is ordered and never empty.
type ContentType struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Schema    []FieldDefinition `json:"schema"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Content is a stored record of a content type: relational columns plus an
// open payload document matching the type's schema. Title is derived from
// the payload (title_zh, else title_en, else ""). PublishedAt is stamped
// once, on the first transition into the published status.
type Content struct {
	ID            uuid.UUID     `json:"id"`
	TypeID        uuid.UUID     `json:"type_id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Payload       Document      `json:"payload"`
	FeaturedImage string        `json:"featured_image,omitempty"`
	Status        ContentStatus `json:"status"`
	Metadata      Document      `json:"metadata,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
}

// Category is a node in a per-type taxonomy tree. ParentID is a nullable
// self-reference; the parent chain is kept acyclic at write time.
type Category struct {
	ID            uuid.UUID  `json:"id"`
	NameEN        string     `json:"name_en"`
	NameZH        string     `json:"name_zh"`
	Slug          string     `json:"slug"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"`
	Type          string     `json:"type,omitempty"`
	DescriptionEN string     `json:"description_en,omitempty"`
	DescriptionZH string     `json:"description_zh,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CategoryNode is a category with its recursively selected children.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// Tag is a flat bilingual label attachable to content.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	NameEN    string    `json:"name_en"`
	NameZH    string    `json:"name_zh"`
	Slug      string    `json:"slug"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentListParams defines filtering and paging for listing content.
type ContentListParams struct {
	TypeID     *uuid.UUID
	Status     *ContentStatus
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// SearchParams defines a token/substring search over title, body and excerpt.
type SearchParams struct {
	Query  string
	TypeID *uuid.UUID
}

// Default paging values applied when a caller leaves them unset.
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	DefaultSortBy    = "created_at"
	DefaultSortOrder = "desc"
)

// Normalize fills unset paging and sorting fields with defaults and clamps
// obviously invalid values.
func (p *ContentListParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder != "asc" {
		p.SortOrder = DefaultSortOrder
	}
}

// Offset returns the row offset implied by page and limit.
func (p ContentListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
