package contentengine

import (
	"strings"

	"github.com/google/uuid"
)

const (
	suffixEN = "_en"
	suffixZH = "_zh"
)

// Project derives a flattened document view of a content record for a
// locale. Top-level record fields are merged in under their original names,
// then payload fields on top (payload wins on key collision).
//
// With locale "en" or "zh", every payload key carrying the matching suffix
// is re-emitted under its base name (suffix stripped); keys carrying the
// other locale's suffix are dropped; unsuffixed keys pass through. A
// stripped key replaces a same-named unsuffixed or top-level field.
//
// Any other locale value, including case variants like "EN", behaves as
// "omitted": a raw merge with the suffixed keys left intact. This mirrors
// the exact two-locale convention of the site, not general i18n.
func Project(record *Content, locale string) Document {
	out := topLevelFields(record)
	if record == nil {
		return out
	}

	if locale != LocaleEN && locale != LocaleZH {
		for k, v := range record.Payload {
			out[k] = v
		}
		return out
	}

	keep := "_" + locale
	drop := suffixZH
	if locale == LocaleZH {
		drop = suffixEN
	}

	// Unsuffixed keys first so a stripped locale key wins the collision
	// regardless of map iteration order.
	for k, v := range record.Payload {
		if strings.HasSuffix(k, keep) || strings.HasSuffix(k, drop) {
			continue
		}
		out[k] = v
	}
	for k, v := range record.Payload {
		if strings.HasSuffix(k, keep) {
			out[strings.TrimSuffix(k, keep)] = v
		}
	}

	return out
}

// topLevelFields flattens the relational columns of a record into a
// document, skipping zero values so a bare payload projects cleanly.
func topLevelFields(record *Content) Document {
	out := Document{}
	if record == nil {
		return out
	}
	if record.ID != uuid.Nil {
		out["id"] = record.ID.String()
	}
	if record.TypeID != uuid.Nil {
		out["type_id"] = record.TypeID.String()
	}
	if record.Title != "" {
		out["title"] = record.Title
	}
	if record.Slug != "" {
		out["slug"] = record.Slug
	}
	if record.FeaturedImage != "" {
		out["featured_image"] = record.FeaturedImage
	}
	if record.Status != "" {
		out["status"] = string(record.Status)
	}
	if !record.CreatedAt.IsZero() {
		out["created_at"] = record.CreatedAt
	}
	if !record.UpdatedAt.IsZero() {
		out["updated_at"] = record.UpdatedAt
	}
	if record.PublishedAt != nil {
		out["published_at"] = *record.PublishedAt
	}
	return out
}

// DeriveTitle computes the stored title column from a payload:
// title_zh, else title_en, else "". Only non-empty string values count.
func DeriveTitle(payload Document) string {
	if s, ok := payload["title_zh"].(string); ok && s != "" {
		return s
	}
	if s, ok := payload["title_en"].(string); ok && s != "" {
		return s
	}
	return ""
}
