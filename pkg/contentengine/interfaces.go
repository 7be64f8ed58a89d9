package contentengine

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for content, schema and taxonomy
// persistence. Implementations live in repo/memory and repo/postgres.
type Repository interface {
	// Content type operations
	CreateContentType(ctx context.Context, ct *ContentType) error
	GetContentType(ctx context.Context, id uuid.UUID) (*ContentType, error)
	GetContentTypeByName(ctx context.Context, name string) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)
	UpdateContentType(ctx context.Context, ct *ContentType) error
	DeleteContentType(ctx context.Context, id uuid.UUID) error
	CountContentByType(ctx context.Context, typeID uuid.UUID) (int64, error)

	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, slug string) (*Content, error)
	ListContent(ctx context.Context, params ContentListParams) ([]*Content, int64, error)
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// Search operations
	SearchContent(ctx context.Context, params SearchParams) ([]*Content, error)
	SearchContentFullText(ctx context.Context, params SearchParams) ([]*Content, error)

	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(ctx context.Context, categoryType string) ([]*Category, error)
	UpdateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CountCategoryChildren(ctx context.Context, id uuid.UUID) (int64, error)
	CountContentInCategory(ctx context.Context, id uuid.UUID) (int64, error)

	// Tag operations
	CreateTag(ctx context.Context, tag *Tag) error
	CreateTags(ctx context.Context, tags []*Tag) error
	GetTag(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
	ListTags(ctx context.Context, tagType string) ([]*Tag, error)
	UpdateTag(ctx context.Context, tag *Tag) error
	DeleteTag(ctx context.Context, id uuid.UUID) error
	CountContentWithTag(ctx context.Context, id uuid.UUID) (int64, error)

	// Content-taxonomy links. Set* replaces the full link set for a content
	// in one atomic step; both cascade away with their content.
	SetContentCategories(ctx context.Context, contentID uuid.UUID, categoryIDs []uuid.UUID) error
	SetContentTags(ctx context.Context, contentID uuid.UUID, tagIDs []uuid.UUID) error
	ListContentCategories(ctx context.Context, contentID uuid.UUID) ([]*Category, error)
	ListContentTags(ctx context.Context, contentID uuid.UUID) ([]*Tag, error)
}
