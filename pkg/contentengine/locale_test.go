package contentengine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

func TestProject(t *testing.T) {
	record := &contentengine.Content{
		ID:     uuid.New(),
		Slug:   "hello",
		Status: contentengine.ContentStatusDraft,
		Payload: contentengine.Document{
			"title_en": "Hello",
			"title_zh": "你好",
			"year":     float64(2024),
		},
	}

	t.Run("EnglishProjection", func(t *testing.T) {
		doc := contentengine.Project(record, "en")
		assert.Equal(t, "Hello", doc["title"])
		assert.Equal(t, float64(2024), doc["year"])
		assert.NotContains(t, doc, "title_en")
		assert.NotContains(t, doc, "title_zh")
	})

	t.Run("ChineseProjection", func(t *testing.T) {
		doc := contentengine.Project(record, "zh")
		assert.Equal(t, "你好", doc["title"])
		assert.Equal(t, float64(2024), doc["year"])
		assert.NotContains(t, doc, "title_en")
		assert.NotContains(t, doc, "title_zh")
	})

	t.Run("UnknownLocaleIsRawMerge", func(t *testing.T) {
		doc := contentengine.Project(record, "fr")
		assert.Equal(t, "Hello", doc["title_en"])
		assert.Equal(t, "你好", doc["title_zh"])
		assert.NotContains(t, doc, "title")
	})

	t.Run("CaseVariantLocaleIsRawMerge", func(t *testing.T) {
		doc := contentengine.Project(record, "EN")
		assert.Equal(t, "Hello", doc["title_en"])
		assert.Equal(t, "你好", doc["title_zh"])
	})

	t.Run("UnsuffixedKeysPassThrough", func(t *testing.T) {
		r := &contentengine.Content{Payload: contentengine.Document{"a": float64(1)}}
		doc := contentengine.Project(r, "en")
		assert.Equal(t, float64(1), doc["a"])
	})

	t.Run("StrippedKeyWinsCollision", func(t *testing.T) {
		r := &contentengine.Content{Payload: contentengine.Document{
			"body":    "plain",
			"body_en": "english",
		}}
		doc := contentengine.Project(r, "en")
		assert.Equal(t, "english", doc["body"])
	})

	t.Run("TopLevelFieldsMergedUnderPayload", func(t *testing.T) {
		doc := contentengine.Project(record, "en")
		assert.Equal(t, record.ID.String(), doc["id"])
		assert.Equal(t, "hello", doc["slug"])
		assert.Equal(t, "draft", doc["status"])
	})

	t.Run("PayloadWinsOverTopLevel", func(t *testing.T) {
		r := &contentengine.Content{
			Slug:    "column-slug",
			Payload: contentengine.Document{"slug": "payload-slug"},
		}
		doc := contentengine.Project(r, "en")
		assert.Equal(t, "payload-slug", doc["slug"])
	})

	t.Run("NilRecord", func(t *testing.T) {
		doc := contentengine.Project(nil, "en")
		assert.Empty(t, doc)
	})
}

func TestDeriveTitle(t *testing.T) {
	t.Run("ChinesePreferred", func(t *testing.T) {
		title := contentengine.DeriveTitle(contentengine.Document{
			"title_en": "Hello",
			"title_zh": "你好",
		})
		assert.Equal(t, "你好", title)
	})

	t.Run("EnglishFallback", func(t *testing.T) {
		title := contentengine.DeriveTitle(contentengine.Document{"title_en": "Hello"})
		assert.Equal(t, "Hello", title)
	})

	t.Run("EmptyChineseFallsThrough", func(t *testing.T) {
		title := contentengine.DeriveTitle(contentengine.Document{
			"title_zh": "",
			"title_en": "Hello",
		})
		assert.Equal(t, "Hello", title)
	})

	t.Run("NonStringIgnored", func(t *testing.T) {
		title := contentengine.DeriveTitle(contentengine.Document{"title_zh": 42})
		assert.Equal(t, "", title)
	})

	t.Run("NoTitleKeys", func(t *testing.T) {
		assert.Equal(t, "", contentengine.DeriveTitle(contentengine.Document{"body": "x"}))
	})
}
