package contentengine

import (
	"context"

	"github.com/google/uuid"
)

// Service is the main interface of the content engine. It validates writes
// against the owning content type's schema, enforces slug/name uniqueness
// and in-use deletion guards, and orchestrates taxonomy links.
type Service interface {
	// Content type operations
	CreateContentType(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error)
	GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)
	UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error)
	DeleteContentType(ctx context.Context, id uuid.UUID) error

	// ValidateAgainstType checks a document against the named type's schema
	// without persisting anything.
	ValidateAgainstType(ctx context.Context, typeID uuid.UUID, doc Document) (ValidationResult, error)

	// Content operations
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, slug string) (*Content, error)
	ListContent(ctx context.Context, params ContentListParams) ([]*Content, int64, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error)
	UpdateContentStatus(ctx context.Context, id uuid.UUID, status ContentStatus) (*Content, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// Search operations. SearchContent is the token/substring variant
	// (OR across tokens, created_at desc); SearchContentFullText matches a
	// single phrase against the normalized full-text index.
	SearchContent(ctx context.Context, params SearchParams) ([]*Content, error)
	SearchContentFullText(ctx context.Context, params SearchParams) ([]*Content, error)

	// Category operations
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(ctx context.Context, categoryType string) ([]*Category, error)
	CategoryTree(ctx context.Context, categoryType string) ([]*CategoryNode, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Tag operations
	CreateTag(ctx context.Context, req CreateTagRequest) (*Tag, error)
	BatchCreateTags(ctx context.Context, req BatchCreateTagsRequest) (*BatchCreateTagsResult, error)
	GetTag(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
	ListTags(ctx context.Context, tagType string) ([]*Tag, error)
	UpdateTag(ctx context.Context, req UpdateTagRequest) (*Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

	// Content-taxonomy reads
	ListContentCategories(ctx context.Context, contentID uuid.UUID) ([]*Category, error)
	ListContentTags(ctx context.Context, contentID uuid.UUID) ([]*Tag, error)
}
