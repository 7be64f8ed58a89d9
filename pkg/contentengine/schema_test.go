package contentengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

func TestValidateDocument(t *testing.T) {
	schema := []contentengine.FieldDefinition{
		{Name: "title_en", Type: contentengine.FieldTypeString, Required: true, Label: "English title"},
		{Name: "body_en", Type: contentengine.FieldTypeRichText},
		{Name: "year", Type: contentengine.FieldTypeNumber},
		{Name: "contact", Type: contentengine.FieldTypeEmail},
	}

	t.Run("ValidDocument", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{
			"title_en": "Hello",
			"body_en":  "<p>Body</p>",
			"year":     float64(2024),
			"contact":  "someone@example.com",
		})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"English title is required"}, result.Errors)
	})

	t.Run("EmptyStringCountsAsMissing", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{"title_en": ""})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"English title is required"}, result.Errors)
	})

	t.Run("NilCountsAsMissing", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{"title_en": nil})
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("MissingOptionalFieldSkipsTypeCheck", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{"title_en": "ok"})
		assert.True(t, result.Valid)
	})

	t.Run("InvalidNumber", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{
			"title_en": "ok",
			"year":     "not-a-number",
		})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"year must be a valid number"}, result.Errors)
	})

	t.Run("NumericStringAccepted", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{
			"title_en": "ok",
			"year":     "2024",
		})
		assert.True(t, result.Valid)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{
			"title_en": "ok",
			"contact":  "not-an-email",
		})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{"contact must be a valid email address"}, result.Errors)
	})

	t.Run("CollectsAllErrors", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{
			"year":    "abc",
			"contact": "nope",
		})
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 3)
	})

	t.Run("UndeclaredKeysIgnored", func(t *testing.T) {
		result := contentengine.ValidateDocument(schema, contentengine.Document{
			"title_en":  "ok",
			"extra_key": 42,
		})
		assert.True(t, result.Valid)
	})

	t.Run("LabelFallsBackToName", func(t *testing.T) {
		unlabeled := []contentengine.FieldDefinition{
			{Name: "subject", Type: contentengine.FieldTypeString, Required: true},
		}
		result := contentengine.ValidateDocument(unlabeled, contentengine.Document{})
		assert.Equal(t, []string{"subject is required"}, result.Errors)
	})
}
