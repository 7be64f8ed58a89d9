package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenhub/content-engine/pkg/contentengine"
	"github.com/wenhub/content-engine/pkg/contentengine/repo/memory"
)

func newContent(slug, title string, createdAt time.Time) *contentengine.Content {
	return &contentengine.Content{
		ID:        uuid.New(),
		TypeID:    uuid.New(),
		Title:     title,
		Slug:      slug,
		Payload:   contentengine.Document{"title_en": title},
		Status:    contentengine.ContentStatusDraft,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryRepository_ContentOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	t.Run("CreateAndGetContent", func(t *testing.T) {
		content := newContent("create-get", "Create Get", time.Now())
		err := repo.CreateContent(ctx, content)
		require.NoError(t, err)

		retrieved, err := repo.GetContent(ctx, content.ID)
		assert.NoError(t, err)
		assert.Equal(t, content.Slug, retrieved.Slug)
		assert.Equal(t, content.Title, retrieved.Title)
	})

	t.Run("GetContent_NotFound", func(t *testing.T) {
		content, err := repo.GetContent(ctx, uuid.New())
		assert.Error(t, err)
		assert.Nil(t, content)
		assert.ErrorIs(t, err, contentengine.ErrContentNotFound)
	})

	t.Run("DuplicateSlugRejected", func(t *testing.T) {
		first := newContent("shared-slug", "First", time.Now())
		require.NoError(t, repo.CreateContent(ctx, first))

		second := newContent("shared-slug", "Second", time.Now())
		err := repo.CreateContent(ctx, second)
		assert.ErrorIs(t, err, contentengine.ErrDuplicateSlug)
	})

	t.Run("GetContentBySlug", func(t *testing.T) {
		content := newContent("by-slug", "By Slug", time.Now())
		require.NoError(t, repo.CreateContent(ctx, content))

		retrieved, err := repo.GetContentBySlug(ctx, "by-slug")
		assert.NoError(t, err)
		assert.Equal(t, content.ID, retrieved.ID)
	})

	t.Run("StoredRecordsAreIsolated", func(t *testing.T) {
		content := newContent("isolated", "Isolated", time.Now())
		require.NoError(t, repo.CreateContent(ctx, content))

		// Mutating the caller's payload must not leak into storage.
		content.Payload["title_en"] = "Mutated"

		retrieved, err := repo.GetContent(ctx, content.ID)
		require.NoError(t, err)
		assert.Equal(t, "Isolated", retrieved.Payload["title_en"])
	})

	t.Run("DeleteContentCascadesLinks", func(t *testing.T) {
		content := newContent("cascade", "Cascade", time.Now())
		require.NoError(t, repo.CreateContent(ctx, content))

		tag := &contentengine.Tag{ID: uuid.New(), NameEN: "T", Slug: "cascade-tag", CreatedAt: time.Now()}
		require.NoError(t, repo.CreateTag(ctx, tag))
		require.NoError(t, repo.SetContentTags(ctx, content.ID, []uuid.UUID{tag.ID}))

		require.NoError(t, repo.DeleteContent(ctx, content.ID))

		count, err := repo.CountContentWithTag(ctx, tag.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestMemoryRepository_ListContent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	typeID := uuid.New()
	for i := 0; i < 5; i++ {
		content := newContent(fmt.Sprintf("list-%d", i), fmt.Sprintf("Post %d", i), base.Add(time.Duration(i)*time.Minute))
		content.TypeID = typeID
		if i%2 == 0 {
			content.Status = contentengine.ContentStatusPublished
		}
		require.NoError(t, repo.CreateContent(ctx, content))
	}

	t.Run("DefaultSortNewestFirst", func(t *testing.T) {
		params := contentengine.ContentListParams{Page: 1, Limit: 10, SortBy: "created_at", SortOrder: "desc"}
		contents, total, err := repo.ListContent(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, contents, 5)
		assert.Equal(t, "list-4", contents[0].Slug)
		assert.Equal(t, "list-0", contents[4].Slug)
	})

	t.Run("StatusFilter", func(t *testing.T) {
		status := contentengine.ContentStatusPublished
		params := contentengine.ContentListParams{Status: &status, Page: 1, Limit: 10}
		contents, total, err := repo.ListContent(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, contents, 3)
	})

	t.Run("Paging", func(t *testing.T) {
		params := contentengine.ContentListParams{Page: 2, Limit: 2, SortBy: "created_at", SortOrder: "desc"}
		contents, total, err := repo.ListContent(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, contents, 2)
		assert.Equal(t, "list-2", contents[0].Slug)
	})

	t.Run("PageBeyondEnd", func(t *testing.T) {
		params := contentengine.ContentListParams{Page: 10, Limit: 10}
		contents, total, err := repo.ListContent(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Empty(t, contents)
	})

	t.Run("SortByTitleAsc", func(t *testing.T) {
		params := contentengine.ContentListParams{Page: 1, Limit: 10, SortBy: "title", SortOrder: "asc"}
		contents, _, err := repo.ListContent(ctx, params)
		require.NoError(t, err)
		require.Len(t, contents, 5)
		assert.Equal(t, "Post 0", contents[0].Title)
	})
}

func TestMemoryRepository_Search(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := newContent("old-match", "hello old", base)
	second := newContent("new-match", "hello new", base.Add(time.Hour))
	third := newContent("no-match", "unrelated", base.Add(2*time.Hour))
	third.Payload["excerpt_zh"] = "全文搜索"
	require.NoError(t, repo.CreateContent(ctx, first))
	require.NoError(t, repo.CreateContent(ctx, second))
	require.NoError(t, repo.CreateContent(ctx, third))

	t.Run("TokenSearchNewestFirst", func(t *testing.T) {
		results, err := repo.SearchContent(ctx, contentengine.SearchParams{Query: "hello"})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "new-match", results[0].Slug)
		assert.Equal(t, "old-match", results[1].Slug)
	})

	t.Run("LocalePayloadFieldsSearched", func(t *testing.T) {
		results, err := repo.SearchContent(ctx, contentengine.SearchParams{Query: "全文搜索"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "no-match", results[0].Slug)
	})

	t.Run("FullTextKeepsInsertionOrder", func(t *testing.T) {
		results, err := repo.SearchContentFullText(ctx, contentengine.SearchParams{Query: "hello"})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "old-match", results[0].Slug)
		assert.Equal(t, "new-match", results[1].Slug)
	})

	t.Run("TypeFilter", func(t *testing.T) {
		results, err := repo.SearchContent(ctx, contentengine.SearchParams{Query: "hello", TypeID: &first.TypeID})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "old-match", results[0].Slug)
	})
}

func TestMemoryRepository_TagBatch(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	t.Run("BatchIsAllOrNone", func(t *testing.T) {
		existing := &contentengine.Tag{ID: uuid.New(), NameEN: "Taken", Slug: "taken", CreatedAt: time.Now()}
		require.NoError(t, repo.CreateTag(ctx, existing))

		batch := []*contentengine.Tag{
			{ID: uuid.New(), NameEN: "Fresh", Slug: "fresh", CreatedAt: time.Now()},
			{ID: uuid.New(), NameEN: "Clash", Slug: "taken", CreatedAt: time.Now()},
		}
		err := repo.CreateTags(ctx, batch)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrDuplicateSlug)

		// Nothing from the failed batch was persisted.
		_, err = repo.GetTagBySlug(ctx, "fresh")
		assert.ErrorIs(t, err, contentengine.ErrTagNotFound)
	})

	t.Run("BatchSucceeds", func(t *testing.T) {
		batch := []*contentengine.Tag{
			{ID: uuid.New(), NameEN: "A", Slug: "batch-a", CreatedAt: time.Now()},
			{ID: uuid.New(), NameEN: "B", Slug: "batch-b", CreatedAt: time.Now()},
		}
		require.NoError(t, repo.CreateTags(ctx, batch))

		tags, err := repo.ListTags(ctx, "")
		require.NoError(t, err)
		assert.Len(t, tags, 3)
	})
}

func TestMemoryRepository_Links(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	content := newContent("linked", "Linked", time.Now())
	require.NoError(t, repo.CreateContent(ctx, content))

	catA := &contentengine.Category{ID: uuid.New(), NameEN: "A", Slug: "cat-a", CreatedAt: time.Now()}
	catB := &contentengine.Category{ID: uuid.New(), NameEN: "B", Slug: "cat-b", CreatedAt: time.Now().Add(time.Second)}
	require.NoError(t, repo.CreateCategory(ctx, catA))
	require.NoError(t, repo.CreateCategory(ctx, catB))

	t.Run("SetReplacesAtomically", func(t *testing.T) {
		require.NoError(t, repo.SetContentCategories(ctx, content.ID, []uuid.UUID{catA.ID}))
		require.NoError(t, repo.SetContentCategories(ctx, content.ID, []uuid.UUID{catB.ID}))

		categories, err := repo.ListContentCategories(ctx, content.ID)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, catB.ID, categories[0].ID)
	})

	t.Run("UnknownCategoryRejected", func(t *testing.T) {
		err := repo.SetContentCategories(ctx, content.ID, []uuid.UUID{uuid.New()})
		assert.ErrorIs(t, err, contentengine.ErrCategoryNotFound)
	})

	t.Run("EmptySetDetachesAll", func(t *testing.T) {
		require.NoError(t, repo.SetContentCategories(ctx, content.ID, []uuid.UUID{}))
		categories, err := repo.ListContentCategories(ctx, content.ID)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("CountContentInCategory", func(t *testing.T) {
		require.NoError(t, repo.SetContentCategories(ctx, content.ID, []uuid.UUID{catA.ID}))
		count, err := repo.CountContentInCategory(ctx, catA.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
