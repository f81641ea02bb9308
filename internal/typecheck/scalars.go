package typecheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/hanpama/gqlfixture/internal/schema"
)

// SerializeLeaf enforces strict scalar semantics: a value is accepted only
// when the JSON representation already matches the declared type. Custom
// scalars pass through unchecked.
func (r *fixtureRuntime) SerializeLeaf(ctx context.Context, typeName string, value any) (any, error) {
	if t := r.sch.Types[typeName]; t != nil && t.Kind == schema.TypeKindEnum {
		s, ok := value.(string)
		if !ok || !t.HasEnumValue(s) {
			return nil, fmt.Errorf("Enum %s cannot represent value: %s", typeName, literal(value))
		}
		return s, nil
	}

	switch typeName {
	case "Int":
		return serializeInt(value)
	case "Float":
		return serializeFloat(value)
	case "String":
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("String cannot represent a non string value: %s", literal(value))
	case "Boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %s", literal(value))
	case "ID":
		return serializeID(value)
	default:
		return value, nil
	}
}

// serializeInt enforces the GraphQL Int range of a signed 32-bit integer.
func serializeInt(value any) (any, error) {
	var i int64
	switch v := value.(type) {
	case json.Number:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %s", literal(value))
			}
			return nil, fmt.Errorf("Int cannot represent non-integer value: %s", literal(value))
		}
		i = parsed
	case int:
		i = int64(v)
	case int64:
		i = v
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("Int cannot represent non-integer value: %s", literal(value))
		}
		i = int64(v)
	default:
		return nil, fmt.Errorf("Int cannot represent non-integer value: %s", literal(value))
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %s", literal(value))
	}
	return i, nil
}

func serializeFloat(value any) (any, error) {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return nil, fmt.Errorf("Float cannot represent non numeric value: %s", literal(value))
}

func serializeID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		if _, err := strconv.ParseInt(string(v), 10, 64); err == nil {
			return string(v), nil
		}
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %s", literal(value))
}

// literal renders a value the way it appeared in the fixture JSON.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	case json.Number:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
