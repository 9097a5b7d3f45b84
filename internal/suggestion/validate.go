package suggestion

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one violated constraint, addressed by a JSON path
// into the candidate document (e.g. "plan[0].tasks[1].time").
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Result is the outcome of validating a candidate suggestion document.
// When Valid is true, Errors is empty.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// ErrorSummary joins all field errors into a single line for logs and
// corrective prompts.
func (r Result) ErrorSummary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

var (
	schemaOnce sync.Once
	schema     *validator.Validate
)

// schemaValidator returns the shared validator instance. validator.Validate
// caches struct metadata and is safe for concurrent use.
func schemaValidator() *validator.Validate {
	schemaOnce.Do(func() {
		schema = validator.New(validator.WithRequiredStructEnabled())
		schema.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return schema
}

// Validate decodes an untyped candidate document and checks every schema
// constraint, collecting all violations rather than stopping at the first.
// It never fails hard: malformed input becomes a reject with errors attached.
func Validate(raw []byte) Result {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{Valid: false, Errors: []FieldError{decodeError(err)}}
	}
	return ValidateDocument(&doc)
}

// ValidateDocument checks an already-decoded document against the schema.
func ValidateDocument(doc *Document) Result {
	err := schemaValidator().Struct(doc)
	if err == nil {
		return Result{Valid: true, Errors: []FieldError{}}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Valid: false, Errors: []FieldError{{Message: err.Error()}}}
	}

	errs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{
			Path:    fieldPath(fe.Namespace()),
			Message: constraintMessage(fe),
		})
	}
	return Result{Valid: false, Errors: errs}
}

// fieldPath strips the root struct name from a validator namespace, leaving
// the JSON path: "Document.plan[0].tasks[1].time" -> "plan[0].tasks[1].time".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		if fe.Param() == "15:04" {
			return "must be a 24-hour HH:MM time"
		}
		return fmt.Sprintf("must be a date in %s format", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// decodeError maps a JSON decoding failure to a field error. Type mismatches
// carry the offending path; syntax errors apply to the whole document.
func decodeError(err error) FieldError {
	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return FieldError{
			Path:    ute.Field,
			Message: fmt.Sprintf("must be of type %s, got %s", ute.Type, ute.Value),
		}
	}
	return FieldError{Message: fmt.Sprintf("document is not valid JSON: %v", err)}
}
