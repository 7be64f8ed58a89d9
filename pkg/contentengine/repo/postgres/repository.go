package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wenhub/content-engine/pkg/contentengine"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction. Begin is needed for the batch operations that must be atomic.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements contentengine.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) contentengine.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) contentengine.Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps constraint violations onto domain errors. The
// UNIQUE constraints are the authoritative uniqueness check: a pre-check
// race surfaces here as 23505 and still comes back as the conflict error.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "name") {
				return contentengine.ErrDuplicateName
			}
			return contentengine.ErrDuplicateSlug
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found: %s", pgErr.ConstraintName)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Content type operations

func (r *Repository) CreateContentType(ctx context.Context, ct *contentengine.ContentType) error {
	schemaJSON, err := json.Marshal(ct.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	query := `
		INSERT INTO content_type (id, name, schema, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, query, ct.ID, ct.Name, schemaJSON, ct.CreatedAt, ct.UpdatedAt); err != nil {
		return r.handlePostgresError("create content type", err)
	}
	return nil
}

func (r *Repository) GetContentType(ctx context.Context, id uuid.UUID) (*contentengine.ContentType, error) {
	query := `
		SELECT id, name, schema, created_at, updated_at
		FROM content_type WHERE id = $1`

	return r.scanContentType(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetContentTypeByName(ctx context.Context, name string) (*contentengine.ContentType, error) {
	query := `
		SELECT id, name, schema, created_at, updated_at
		FROM content_type WHERE name = $1`

	return r.scanContentType(r.db.QueryRow(ctx, query, name))
}

func (r *Repository) scanContentType(row pgx.Row) (*contentengine.ContentType, error) {
	var ct contentengine.ContentType
	var schemaJSON []byte
	err := row.Scan(&ct.ID, &ct.Name, &schemaJSON, &ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentengine.ErrContentTypeNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(schemaJSON, &ct.Schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return &ct, nil
}

func (r *Repository) ListContentTypes(ctx context.Context) ([]*contentengine.ContentType, error) {
	query := `
		SELECT id, name, schema, created_at, updated_at
		FROM content_type ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list content types", err)
	}
	defer rows.Close()

	var result []*contentengine.ContentType
	for rows.Next() {
		var ct contentengine.ContentType
		var schemaJSON []byte
		if err := rows.Scan(&ct.ID, &ct.Name, &schemaJSON, &ct.CreatedAt, &ct.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(schemaJSON, &ct.Schema); err != nil {
			return nil, fmt.Errorf("unmarshal schema: %w", err)
		}
		result = append(result, &ct)
	}
	return result, rows.Err()
}

func (r *Repository) UpdateContentType(ctx context.Context, ct *contentengine.ContentType) error {
	schemaJSON, err := json.Marshal(ct.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	query := `
		UPDATE content_type
		SET name = $2, schema = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, ct.ID, ct.Name, schemaJSON, ct.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update content type", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrContentTypeNotFound
	}
	return nil
}

func (r *Repository) DeleteContentType(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_type WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content type", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrContentTypeNotFound
	}
	return nil
}

func (r *Repository) CountContentByType(ctx context.Context, typeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM content WHERE type_id = $1`, typeID).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count content by type", err)
	}
	return count, nil
}

// Content operations

const contentColumns = `id, type_id, title, slug, payload, featured_image, status, metadata, created_at, updated_at, published_at`

func (r *Repository) CreateContent(ctx context.Context, content *contentengine.Content) error {
	payloadJSON, metadataJSON, err := marshalContentDocs(content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO content (` + contentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.Exec(ctx, query,
		content.ID, content.TypeID, content.Title, content.Slug, payloadJSON,
		content.FeaturedImage, content.Status, metadataJSON,
		content.CreatedAt, content.UpdatedAt, content.PublishedAt)
	if err != nil {
		return r.handlePostgresError("create content", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*contentengine.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE id = $1`
	return scanContent(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetContentBySlug(ctx context.Context, slug string) (*contentengine.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content WHERE slug = $1`
	return scanContent(r.db.QueryRow(ctx, query, slug))
}

// sortColumns whitelists the ORDER BY targets; anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
	"slug":         "slug",
}

func (r *Repository) ListContent(ctx context.Context, params contentengine.ContentListParams) ([]*contentengine.Content, int64, error) {
	where, args := buildContentFilter(params)

	countQuery := `SELECT COUNT(*) FROM content c` + where
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count content", err)
	}

	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM content c%s ORDER BY c.%s %s LIMIT $%d OFFSET $%d`,
		prefixColumns("c"), where, column, direction, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list content", err)
	}
	defer rows.Close()

	contents, err := collectContent(rows)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func buildContentFilter(params contentengine.ContentListParams) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func() int { return len(args) + 1 }

	if params.TypeID != nil {
		clauses = append(clauses, fmt.Sprintf("c.type_id = $%d", next()))
		args = append(args, *params.TypeID)
	}
	if params.Status != nil {
		clauses = append(clauses, fmt.Sprintf("c.status = $%d", next()))
		args = append(args, *params.Status)
	}
	if params.CategoryID != nil {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM content_category cc WHERE cc.content_id = c.id AND cc.category_id = $%d)", next()))
		args = append(args, *params.CategoryID)
	}
	if params.TagID != nil {
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM content_tag ct WHERE ct.content_id = c.id AND ct.tag_id = $%d)", next()))
		args = append(args, *params.TagID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func prefixColumns(alias string) string {
	return prefixList(contentColumns, alias)
}

func (r *Repository) UpdateContent(ctx context.Context, content *contentengine.Content) error {
	payloadJSON, metadataJSON, err := marshalContentDocs(content)
	if err != nil {
		return err
	}

	query := `
		UPDATE content
		SET type_id = $2, title = $3, slug = $4, payload = $5, featured_image = $6,
		    status = $7, metadata = $8, updated_at = $9, published_at = $10
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		content.ID, content.TypeID, content.Title, content.Slug, payloadJSON,
		content.FeaturedImage, content.Status, metadataJSON,
		content.UpdatedAt, content.PublishedAt)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrContentNotFound
	}
	return nil
}

// DeleteContent removes the row outright; the join rows cascade away with
// the ON DELETE CASCADE constraints on content_category and content_tag.
func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrContentNotFound
	}
	return nil
}

// Search operations

// searchText is the concatenation searched by both variants: the title
// column plus the body/excerpt payload fields and their locale variants.
const searchText = `concat_ws(' ', c.title,
	c.payload->>'body', c.payload->>'body_en', c.payload->>'body_zh',
	c.payload->>'excerpt', c.payload->>'excerpt_en', c.payload->>'excerpt_zh')`

func (r *Repository) SearchContent(ctx context.Context, params contentengine.SearchParams) ([]*contentengine.Content, error) {
	tokens := strings.Fields(strings.ToLower(params.Query))
	if len(tokens) == 0 {
		return []*contentengine.Content{}, nil
	}

	var clauses []string
	var args []interface{}
	for _, token := range tokens {
		clauses = append(clauses, fmt.Sprintf(searchText+" ILIKE $%d", len(args)+1))
		args = append(args, "%"+token+"%")
	}
	where := " WHERE (" + strings.Join(clauses, " OR ") + ")"
	if params.TypeID != nil {
		where += fmt.Sprintf(" AND c.type_id = $%d", len(args)+1)
		args = append(args, *params.TypeID)
	}

	query := `SELECT ` + prefixColumns("c") + ` FROM content c` + where + ` ORDER BY c.created_at DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("search content", err)
	}
	defer rows.Close()

	return collectContent(rows)
}

// SearchContentFullText matches the whole phrase against a 'simple'
// (language-agnostic) full-text vector. No ranking, natural scan order.
func (r *Repository) SearchContentFullText(ctx context.Context, params contentengine.SearchParams) ([]*contentengine.Content, error) {
	where := ` WHERE to_tsvector('simple', ` + searchText + `) @@ plainto_tsquery('simple', $1)`
	args := []interface{}{params.Query}
	if params.TypeID != nil {
		where += " AND c.type_id = $2"
		args = append(args, *params.TypeID)
	}

	query := `SELECT ` + prefixColumns("c") + ` FROM content c` + where
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("full-text search content", err)
	}
	defer rows.Close()

	return collectContent(rows)
}

// Category operations

const categoryColumns = `id, name_en, name_zh, slug, parent_id, type, description_en, description_zh, created_at, updated_at`

func (r *Repository) CreateCategory(ctx context.Context, category *contentengine.Category) error {
	query := `
		INSERT INTO category (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		category.ID, category.NameEN, category.NameZH, category.Slug, category.ParentID,
		category.Type, category.DescriptionEN, category.DescriptionZH,
		category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create category", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*contentengine.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE id = $1`
	return scanCategory(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*contentengine.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE slug = $1`
	return scanCategory(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) ListCategories(ctx context.Context, categoryType string) ([]*contentengine.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category`
	var args []interface{}
	if categoryType != "" {
		query += ` WHERE type = $1`
		args = append(args, categoryType)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list categories", err)
	}
	defer rows.Close()

	var result []*contentengine.Category
	for rows.Next() {
		var category contentengine.Category
		if err := rows.Scan(
			&category.ID, &category.NameEN, &category.NameZH, &category.Slug, &category.ParentID,
			&category.Type, &category.DescriptionEN, &category.DescriptionZH,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &category)
	}
	return result, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, category *contentengine.Category) error {
	query := `
		UPDATE category
		SET name_en = $2, name_zh = $3, slug = $4, parent_id = $5, type = $6,
		    description_en = $7, description_zh = $8, updated_at = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		category.ID, category.NameEN, category.NameZH, category.Slug, category.ParentID,
		category.Type, category.DescriptionEN, category.DescriptionZH, category.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM category WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrCategoryNotFound
	}
	return nil
}

func (r *Repository) CountCategoryChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM category WHERE parent_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count category children", err)
	}
	return count, nil
}

func (r *Repository) CountContentInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM content_category WHERE category_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count content in category", err)
	}
	return count, nil
}

// Tag operations

const tagColumns = `id, name_en, name_zh, slug, type, created_at`

func (r *Repository) CreateTag(ctx context.Context, tag *contentengine.Tag) error {
	query := `INSERT INTO tag (` + tagColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, tag.ID, tag.NameEN, tag.NameZH, tag.Slug, tag.Type, tag.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create tag", err)
	}
	return nil
}

// CreateTags inserts the whole batch in one transaction: a failure partway
// rolls back every prior insert in the call.
func (r *Repository) CreateTags(ctx context.Context, tags []*contentengine.Tag) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("begin tag batch", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO tag (` + tagColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	for _, tag := range tags {
		if _, err := tx.Exec(ctx, query, tag.ID, tag.NameEN, tag.NameZH, tag.Slug, tag.Type, tag.CreatedAt); err != nil {
			return r.handlePostgresError("create tag in batch", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*contentengine.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag WHERE id = $1`
	return scanTag(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetTagBySlug(ctx context.Context, slug string) (*contentengine.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag WHERE slug = $1`
	return scanTag(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) ListTags(ctx context.Context, tagType string) ([]*contentengine.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tag`
	var args []interface{}
	if tagType != "" {
		query += ` WHERE type = $1`
		args = append(args, tagType)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list tags", err)
	}
	defer rows.Close()

	var result []*contentengine.Tag
	for rows.Next() {
		var tag contentengine.Tag
		if err := rows.Scan(&tag.ID, &tag.NameEN, &tag.NameZH, &tag.Slug, &tag.Type, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &tag)
	}
	return result, rows.Err()
}

func (r *Repository) UpdateTag(ctx context.Context, tag *contentengine.Tag) error {
	query := `UPDATE tag SET name_en = $2, name_zh = $3, slug = $4, type = $5 WHERE id = $1`
	commandTag, err := r.db.Exec(ctx, query, tag.ID, tag.NameEN, tag.NameZH, tag.Slug, tag.Type)
	if err != nil {
		return r.handlePostgresError("update tag", err)
	}
	if commandTag.RowsAffected() == 0 {
		return contentengine.ErrTagNotFound
	}
	return nil
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tag WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete tag", err)
	}
	if tag.RowsAffected() == 0 {
		return contentengine.ErrTagNotFound
	}
	return nil
}

func (r *Repository) CountContentWithTag(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM content_tag WHERE tag_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, r.handlePostgresError("count content with tag", err)
	}
	return count, nil
}

// Content-taxonomy links

// SetContentCategories replaces the category links of a content in one
// transaction, so a failure partway never leaves a partial set persisted.
func (r *Repository) SetContentCategories(ctx context.Context, contentID uuid.UUID, categoryIDs []uuid.UUID) error {
	return r.replaceLinks(ctx, "content_category", "category_id", contentID, categoryIDs)
}

// SetContentTags replaces the tag links of a content in one transaction.
func (r *Repository) SetContentTags(ctx context.Context, contentID uuid.UUID, tagIDs []uuid.UUID) error {
	return r.replaceLinks(ctx, "content_tag", "tag_id", contentID, tagIDs)
}

func (r *Repository) replaceLinks(ctx context.Context, table, column string, contentID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return r.handlePostgresError("begin link replace", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE content_id = $1`, table), contentID); err != nil {
		return r.handlePostgresError("clear links", err)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (content_id, %s) VALUES ($1, $2)`, table, column)
	for _, id := range ids {
		if _, err := tx.Exec(ctx, insert, contentID, id); err != nil {
			return r.handlePostgresError("insert link", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repository) ListContentCategories(ctx context.Context, contentID uuid.UUID) ([]*contentengine.Category, error) {
	query := `
		SELECT ` + prefixList(categoryColumns, "cat") + `
		FROM category cat
		JOIN content_category cc ON cc.category_id = cat.id
		WHERE cc.content_id = $1
		ORDER BY cat.created_at ASC`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, r.handlePostgresError("list content categories", err)
	}
	defer rows.Close()

	var result []*contentengine.Category
	for rows.Next() {
		var category contentengine.Category
		if err := rows.Scan(
			&category.ID, &category.NameEN, &category.NameZH, &category.Slug, &category.ParentID,
			&category.Type, &category.DescriptionEN, &category.DescriptionZH,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &category)
	}
	return result, rows.Err()
}

func (r *Repository) ListContentTags(ctx context.Context, contentID uuid.UUID) ([]*contentengine.Tag, error) {
	query := `
		SELECT ` + prefixList(tagColumns, "t") + `
		FROM tag t
		JOIN content_tag ct ON ct.tag_id = t.id
		WHERE ct.content_id = $1
		ORDER BY t.created_at ASC`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, r.handlePostgresError("list content tags", err)
	}
	defer rows.Close()

	var result []*contentengine.Tag
	for rows.Next() {
		var tag contentengine.Tag
		if err := rows.Scan(&tag.ID, &tag.NameEN, &tag.NameZH, &tag.Slug, &tag.Type, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &tag)
	}
	return result, rows.Err()
}

// scan helpers

func scanContent(row pgx.Row) (*contentengine.Content, error) {
	var content contentengine.Content
	var payloadJSON, metadataJSON []byte
	err := row.Scan(
		&content.ID, &content.TypeID, &content.Title, &content.Slug, &payloadJSON,
		&content.FeaturedImage, &content.Status, &metadataJSON,
		&content.CreatedAt, &content.UpdatedAt, &content.PublishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentengine.ErrContentNotFound
		}
		return nil, err
	}
	if err := unmarshalContentDocs(&content, payloadJSON, metadataJSON); err != nil {
		return nil, err
	}
	return &content, nil
}

func collectContent(rows pgx.Rows) ([]*contentengine.Content, error) {
	var result []*contentengine.Content
	for rows.Next() {
		var content contentengine.Content
		var payloadJSON, metadataJSON []byte
		if err := rows.Scan(
			&content.ID, &content.TypeID, &content.Title, &content.Slug, &payloadJSON,
			&content.FeaturedImage, &content.Status, &metadataJSON,
			&content.CreatedAt, &content.UpdatedAt, &content.PublishedAt); err != nil {
			return nil, err
		}
		if err := unmarshalContentDocs(&content, payloadJSON, metadataJSON); err != nil {
			return nil, err
		}
		result = append(result, &content)
	}
	return result, rows.Err()
}

func scanCategory(row pgx.Row) (*contentengine.Category, error) {
	var category contentengine.Category
	err := row.Scan(
		&category.ID, &category.NameEN, &category.NameZH, &category.Slug, &category.ParentID,
		&category.Type, &category.DescriptionEN, &category.DescriptionZH,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentengine.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func scanTag(row pgx.Row) (*contentengine.Tag, error) {
	var tag contentengine.Tag
	err := row.Scan(&tag.ID, &tag.NameEN, &tag.NameZH, &tag.Slug, &tag.Type, &tag.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contentengine.ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func marshalContentDocs(content *contentengine.Content) (payload, metadata []byte, err error) {
	payload, err = json.Marshal(content.Payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payload: %w", err)
	}
	if content.Metadata != nil {
		metadata, err = json.Marshal(content.Metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal metadata: %w", err)
		}
	}
	return payload, metadata, nil
}

func unmarshalContentDocs(content *contentengine.Content, payloadJSON, metadataJSON []byte) error {
	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &content.Payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &content.Metadata); err != nil {
			return fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return nil
}

func prefixList(columns, alias string) string {
	cols := strings.Split(columns, ", ")
	for i, col := range cols {
		cols[i] = alias + "." + col
	}
	return strings.Join(cols, ", ")
}
