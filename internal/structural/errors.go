package structural

import (
	"encoding/json"
	"fmt"

	"github.com/hanpama/gqlfixture/internal/validation"
)

// Common discrepancy constructors (template helpers)
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func errExpectedArray(p validation.Path, got any) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("expected array value, got %s", jsonTypeName(got)),
		Path:    p,
	}
}

func errExpectedObject(p validation.Path, got any) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("expected object value, got %s", jsonTypeName(got)),
		Path:    p,
	}
}

func errNullNotAllowed(p validation.Path, typeName string) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("null value for non-nullable type %s", typeName),
		Path:    p,
	}
}

func errNullInNonNullableArray(p validation.Path, typeName string) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("null element in array of non-nullable type %s", typeName),
		Path:    p,
	}
}

func errMissingTypename(p validation.Path, typeName string) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("selection on %s has multiple fragments but no __typename to discriminate", typeName),
		Path:    p,
	}
}

func errMissingField(p validation.Path, key string) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("missing expected field %q", key),
		Path:    p,
	}
}

func errExtraField(p validation.Path, key string) validation.Error {
	return validation.Error{
		Message: fmt.Sprintf("field %q is not expected by the query", key),
		Path:    p,
	}
}

// jsonTypeName names a decoded JSON value's type for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
