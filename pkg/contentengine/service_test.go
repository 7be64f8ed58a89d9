package contentengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenhub/content-engine/pkg/contentengine"
	"github.com/wenhub/content-engine/pkg/contentengine/repo/memory"
)

func newTestService(t *testing.T) contentengine.Service {
	t.Helper()
	svc, err := contentengine.New(contentengine.WithRepository(memory.New()))
	require.NoError(t, err)
	return svc
}

func createPostType(t *testing.T, svc contentengine.Service) *contentengine.ContentType {
	t.Helper()
	ct, err := svc.CreateContentType(context.Background(), contentengine.CreateContentTypeRequest{
		Name: "post",
		Schema: []contentengine.FieldDefinition{
			{Name: "title_en", Type: contentengine.FieldTypeString, Required: true},
			{Name: "title_zh", Type: contentengine.FieldTypeString},
			{Name: "body_en", Type: contentengine.FieldTypeRichText},
			{Name: "body_zh", Type: contentengine.FieldTypeRichText},
		},
	})
	require.NoError(t, err)
	return ct
}

func TestService_ContentTypes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("CreateContentType", func(t *testing.T) {
		ct := createPostType(t, svc)
		assert.Equal(t, "post", ct.Name)
		assert.Len(t, ct.Schema, 4)
	})

	t.Run("DuplicateNameRejected", func(t *testing.T) {
		_, err := svc.CreateContentType(ctx, contentengine.CreateContentTypeRequest{
			Name:   "post",
			Schema: []contentengine.FieldDefinition{{Name: "x", Type: contentengine.FieldTypeString}},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrDuplicateName)
		assert.True(t, contentengine.IsConflict(err))
	})

	t.Run("EmptySchemaRejected", func(t *testing.T) {
		_, err := svc.CreateContentType(ctx, contentengine.CreateContentTypeRequest{Name: "empty"})
		require.Error(t, err)
		var validationErr *contentengine.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("UnknownFieldTypeRejected", func(t *testing.T) {
		_, err := svc.CreateContentType(ctx, contentengine.CreateContentTypeRequest{
			Name:   "bad",
			Schema: []contentengine.FieldDefinition{{Name: "x", Type: "datetime"}},
		})
		require.Error(t, err)
		var validationErr *contentengine.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("DeleteInUseRejected", func(t *testing.T) {
		ct, err := svc.GetContentType(ctx, mustType(t, svc, "post").ID)
		require.NoError(t, err)

		_, err = svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    "guard-post",
			Payload: contentengine.Document{"title_en": "Guard"},
		})
		require.NoError(t, err)

		err = svc.DeleteContentType(ctx, ct.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrContentTypeInUse)
	})
}

func mustType(t *testing.T, svc contentengine.Service, name string) *contentengine.ContentType {
	t.Helper()
	types, err := svc.ListContentTypes(context.Background())
	require.NoError(t, err)
	for _, ct := range types {
		if ct.Name == name {
			return ct
		}
	}
	t.Fatalf("content type %q not found", name)
	return nil
}

func TestService_ContentLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ct := createPostType(t, svc)

	t.Run("CreateDerivesTitleAndDefaultsDraft", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    "first-post",
			Payload: contentengine.Document{"title_en": "Hello", "title_zh": "你好"},
		})
		require.NoError(t, err)
		assert.Equal(t, "你好", content.Title)
		assert.Equal(t, contentengine.ContentStatusDraft, content.Status)
		assert.Nil(t, content.PublishedAt)
	})

	t.Run("SchemaViolationRejected", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    "invalid-post",
			Payload: contentengine.Document{"body_en": "no title"},
		})
		require.Error(t, err)
		var validationErr *contentengine.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Messages, "title_en is required")
	})

	t.Run("DuplicateSlugRejected", func(t *testing.T) {
		_, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    "first-post",
			Payload: contentengine.Document{"title_en": "Again"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrDuplicateSlug)
	})

	t.Run("PublishedAtStampedOnce", func(t *testing.T) {
		content, err := svc.GetContentBySlug(ctx, "first-post")
		require.NoError(t, err)

		published, err := svc.UpdateContentStatus(ctx, content.ID, contentengine.ContentStatusPublished)
		require.NoError(t, err)
		require.NotNil(t, published.PublishedAt)
		first := *published.PublishedAt

		// Archive and re-publish; the original timestamp survives.
		_, err = svc.UpdateContentStatus(ctx, content.ID, contentengine.ContentStatusArchived)
		require.NoError(t, err)
		republished, err := svc.UpdateContentStatus(ctx, content.ID, contentengine.ContentStatusPublished)
		require.NoError(t, err)
		require.NotNil(t, republished.PublishedAt)
		assert.Equal(t, first, *republished.PublishedAt)
	})

	t.Run("ExplicitPublishedAtWins", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    "scheduled-post",
			Payload: contentengine.Document{"title_en": "Scheduled"},
		})
		require.NoError(t, err)

		when := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
		status := contentengine.ContentStatusPublished
		updated, err := svc.UpdateContent(ctx, contentengine.UpdateContentRequest{
			ID:          content.ID,
			Status:      &status,
			PublishedAt: &when,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)
		assert.Equal(t, when, *updated.PublishedAt)
	})

	t.Run("InvalidStatusRejected", func(t *testing.T) {
		content, err := svc.GetContentBySlug(ctx, "first-post")
		require.NoError(t, err)

		_, err = svc.UpdateContentStatus(ctx, content.ID, "live")
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrInvalidContentStatus)
	})

	t.Run("MetadataShallowMerge", func(t *testing.T) {
		content, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:   ct.ID,
			Slug:     "meta-post",
			Payload:  contentengine.Document{"title_en": "Meta"},
			Metadata: contentengine.Document{"seo_title": "Original", "keywords": "a,b"},
		})
		require.NoError(t, err)

		updated, err := svc.UpdateContent(ctx, contentengine.UpdateContentRequest{
			ID:       content.ID,
			Metadata: contentengine.Document{"seo_title": "Replaced"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Replaced", updated.Metadata["seo_title"])
		assert.Equal(t, "a,b", updated.Metadata["keywords"])
	})

	t.Run("PayloadReplaceRederivesTitle", func(t *testing.T) {
		content, err := svc.GetContentBySlug(ctx, "meta-post")
		require.NoError(t, err)

		updated, err := svc.UpdateContent(ctx, contentengine.UpdateContentRequest{
			ID:      content.ID,
			Payload: contentengine.Document{"title_en": "Renamed"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})
}

func TestService_Categories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent, err := svc.CreateCategory(ctx, contentengine.CreateCategoryRequest{
		NameEN: "Tech", Slug: "tech", Type: "blog",
	})
	require.NoError(t, err)

	child, err := svc.CreateCategory(ctx, contentengine.CreateCategoryRequest{
		NameEN: "Go", Slug: "golang", Type: "blog", ParentID: &parent.ID,
	})
	require.NoError(t, err)

	t.Run("CycleRejected", func(t *testing.T) {
		_, err := svc.UpdateCategory(ctx, contentengine.UpdateCategoryRequest{
			ID:       parent.ID,
			ParentID: &child.ID,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrCategoryCycle)
	})

	t.Run("SelfParentRejected", func(t *testing.T) {
		_, err := svc.UpdateCategory(ctx, contentengine.UpdateCategoryRequest{
			ID:       parent.ID,
			ParentID: &parent.ID,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrCategoryCycle)
	})

	t.Run("DeleteWithChildrenRejected", func(t *testing.T) {
		err := svc.DeleteCategory(ctx, parent.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrCategoryInUse)
	})

	t.Run("DeleteWithContentRejected", func(t *testing.T) {
		ct := createPostType(t, svc)
		_, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:      ct.ID,
			Slug:        "categorized",
			Payload:     contentengine.Document{"title_en": "Categorized"},
			CategoryIDs: []uuid.UUID{child.ID},
		})
		require.NoError(t, err)

		err = svc.DeleteCategory(ctx, child.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrCategoryInUse)
	})

	t.Run("ClearParent", func(t *testing.T) {
		updated, err := svc.UpdateCategory(ctx, contentengine.UpdateCategoryRequest{
			ID:          child.ID,
			ClearParent: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)
	})

	t.Run("Tree", func(t *testing.T) {
		// Re-attach and check shape.
		_, err := svc.UpdateCategory(ctx, contentengine.UpdateCategoryRequest{
			ID:       child.ID,
			ParentID: &parent.ID,
		})
		require.NoError(t, err)

		tree, err := svc.CategoryTree(ctx, "blog")
		require.NoError(t, err)
		require.Len(t, tree, 1)
		assert.Equal(t, "tech", tree[0].Slug)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "golang", tree[0].Children[0].Slug)
	})
}

func TestService_Tags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("BatchPartialSuccess", func(t *testing.T) {
		_, err := svc.CreateTag(ctx, contentengine.CreateTagRequest{
			NameEN: "Existing", Slug: "existing",
		})
		require.NoError(t, err)

		result, err := svc.BatchCreateTags(ctx, contentengine.BatchCreateTagsRequest{
			Type: "topic",
			Tags: []contentengine.CreateTagRequest{
				{NameEN: "Fresh", Slug: "fresh"},
				{NameEN: "Clash", Slug: "existing"},
				{NameEN: ""},
				{NameEN: "Dup", Slug: "twice"},
				{NameZH: "重复", Slug: "twice"},
			},
		})
		require.NoError(t, err)

		require.Len(t, result.Created, 2)
		assert.Equal(t, "fresh", result.Created[0].Slug)
		assert.Equal(t, "twice", result.Created[1].Slug)
		assert.Equal(t, "topic", result.Created[0].Type)

		require.Len(t, result.Errors, 3)
		assert.Contains(t, result.Errors, 1)
		assert.Contains(t, result.Errors, 2)
		assert.Contains(t, result.Errors, 4)
	})

	t.Run("BatchAllValidHasNoErrors", func(t *testing.T) {
		result, err := svc.BatchCreateTags(ctx, contentengine.BatchCreateTagsRequest{
			Tags: []contentengine.CreateTagRequest{
				{NameEN: "One", Slug: "one"},
				{NameEN: "Two", Slug: "two"},
			},
		})
		require.NoError(t, err)
		assert.Len(t, result.Created, 2)
		assert.Nil(t, result.Errors)
	})

	t.Run("EmptyBatchRejected", func(t *testing.T) {
		_, err := svc.BatchCreateTags(ctx, contentengine.BatchCreateTagsRequest{})
		require.Error(t, err)
		var validationErr *contentengine.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("DeleteReferencedTagRejected", func(t *testing.T) {
		tag, err := svc.CreateTag(ctx, contentengine.CreateTagRequest{
			NameEN: "Pinned", Slug: "pinned",
		})
		require.NoError(t, err)

		ct := createPostType(t, svc)
		_, err = svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    "tagged-post",
			Payload: contentengine.Document{"title_en": "Tagged"},
			TagIDs:  []uuid.UUID{tag.ID},
		})
		require.NoError(t, err)

		err = svc.DeleteTag(ctx, tag.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, contentengine.ErrTagInUse)
	})
}

func TestService_Search(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ct := createPostType(t, svc)

	mustCreate := func(slug, titleEN, bodyEN string) {
		t.Helper()
		_, err := svc.CreateContent(ctx, contentengine.CreateContentRequest{
			TypeID:  ct.ID,
			Slug:    slug,
			Payload: contentengine.Document{"title_en": titleEN, "body_en": bodyEN},
		})
		require.NoError(t, err)
	}

	mustCreate("greeting", "Hello there", "a warm welcome")
	mustCreate("planet", "About the world", "geography notes")
	mustCreate("unrelated", "Cooking rice", "kitchen basics")

	t.Run("TokensMatchedWithOr", func(t *testing.T) {
		results, err := svc.SearchContent(ctx, contentengine.SearchParams{Query: "hello world"})
		require.NoError(t, err)

		slugs := make([]string, 0, len(results))
		for _, c := range results {
			slugs = append(slugs, c.Slug)
		}
		assert.ElementsMatch(t, []string{"greeting", "planet"}, slugs)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		results, err := svc.SearchContent(ctx, contentengine.SearchParams{Query: "HELLO"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "greeting", results[0].Slug)
	})

	t.Run("BodySearched", func(t *testing.T) {
		results, err := svc.SearchContent(ctx, contentengine.SearchParams{Query: "kitchen"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "unrelated", results[0].Slug)
	})

	t.Run("EmptyQueryRejected", func(t *testing.T) {
		_, err := svc.SearchContent(ctx, contentengine.SearchParams{Query: "   "})
		require.Error(t, err)
		var validationErr *contentengine.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		_, err = svc.SearchContentFullText(ctx, contentengine.SearchParams{Query: ""})
		require.Error(t, err)
	})

	t.Run("FullTextNeedsAllTokens", func(t *testing.T) {
		results, err := svc.SearchContentFullText(ctx, contentengine.SearchParams{Query: "warm welcome"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "greeting", results[0].Slug)

		results, err = svc.SearchContentFullText(ctx, contentengine.SearchParams{Query: "hello geography"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
