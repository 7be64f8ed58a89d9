package contentengine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrContentNotFound indicates a content was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrContentTypeNotFound indicates a content type was not found
	ErrContentTypeNotFound = errors.New("content type not found")

	// ErrCategoryNotFound indicates a category was not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTagNotFound indicates a tag was not found
	ErrTagNotFound = errors.New("tag not found")

	// ErrDuplicateSlug indicates the slug is already used by another record
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrDuplicateName indicates the name is already used by another content type
	ErrDuplicateName = errors.New("name already exists")

	// ErrContentTypeInUse indicates a content type is still referenced by content
	ErrContentTypeInUse = errors.New("content type is in use")

	// ErrCategoryInUse indicates a category has children or content references
	ErrCategoryInUse = errors.New("category is in use")

	// ErrTagInUse indicates a tag is still referenced by content
	ErrTagInUse = errors.New("tag is in use")

	// ErrInvalidContentStatus indicates an unknown content status value
	ErrInvalidContentStatus = errors.New("invalid content status")

	// ErrEmptySchema indicates a content type schema with no fields
	ErrEmptySchema = errors.New("schema must contain at least one field")

	// ErrCategoryCycle indicates a parent assignment that would close a cycle
	ErrCategoryCycle = errors.New("category parent chain would form a cycle")
)

// ValidationError carries field-level validation messages for a rejected
// write. It maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// ContentError represents an error related to content operations
type ContentError struct {
	ContentID uuid.UUID
	Op        string
	Err       error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for content %s: %v", e.Op, e.ContentID, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// TaxonomyError represents an error related to category or tag operations
type TaxonomyError struct {
	Kind string // "category" or "tag"
	ID   uuid.UUID
	Op   string
	Err  error
}

func (e *TaxonomyError) Error() string {
	return fmt.Sprintf("%s operation %s failed for %s: %v", e.Kind, e.Op, e.ID, e.Err)
}

func (e *TaxonomyError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrContentTypeNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrTagNotFound)
}

// IsConflict reports whether err is a uniqueness or in-use conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateSlug) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrContentTypeInUse) ||
		errors.Is(err, ErrCategoryInUse) ||
		errors.Is(err, ErrTagInUse)
}
