package contentengine

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ValidationResult is the outcome of checking a document against a schema.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateDocument checks a document against an ordered field schema. It
// never short-circuits: every field is checked and all errors collected.
// A required field that is missing, nil or the empty string yields exactly
// one "<label> is required" error and skips the type check. Document keys
// not declared in the schema are ignored.
func ValidateDocument(schema []FieldDefinition, doc Document) ValidationResult {
	var errs []string

	for _, field := range schema {
		value, present := doc[field.Name]
		if !present || value == nil || value == "" {
			if field.Required {
				errs = append(errs, fmt.Sprintf("%s is required", field.displayLabel()))
			}
			continue
		}

		switch field.Type {
		case FieldTypeNumber:
			if !isFiniteNumber(value) {
				errs = append(errs, fmt.Sprintf("%s must be a valid number", field.displayLabel()))
			}
		case FieldTypeEmail:
			s, ok := value.(string)
			if !ok || !emailPattern.MatchString(s) {
				errs = append(errs, fmt.Sprintf("%s must be a valid email address", field.displayLabel()))
			}
		}
		// string, text, richtext and image accept any present value.
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (f FieldDefinition) displayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// isFiniteNumber reports whether the value parses to a finite number.
// JSON decoding produces float64 or json.Number; string input is accepted
// when it parses.
func isFiniteNumber(value interface{}) bool {
	switch v := value.(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		f := float64(v)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		f, err := v.Float64()
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return false
	}
}

// validateSchema checks a content type schema definition: at least one
// field, recognized field types, and unique non-empty field names.
func validateSchema(schema []FieldDefinition) error {
	if len(schema) == 0 {
		return NewValidationError(ErrEmptySchema.Error())
	}

	var messages []string
	seen := make(map[string]bool, len(schema))
	for i, field := range schema {
		if field.Name == "" {
			messages = append(messages, fmt.Sprintf("field %d has no name", i))
			continue
		}
		if seen[field.Name] {
			messages = append(messages, fmt.Sprintf("duplicate field name %q", field.Name))
		}
		seen[field.Name] = true
		if !field.Type.IsValid() {
			messages = append(messages, fmt.Sprintf("field %q has unrecognized type %q", field.Name, field.Type))
		}
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}
