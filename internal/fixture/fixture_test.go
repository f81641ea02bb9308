package fixture

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlfixture/internal/validation"
)

const sdl = `
type Query { data: Data }
type Data { items: [Item] }
type Item { id: ID count: Int }
`

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewFromSDL("test.graphql", sdl)
	require.NoError(t, err)
	return v
}

func TestValidate_BothPhasesPass(t *testing.T) {
	v := newValidator(t)
	data := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1", "count": json.Number("3")}},
		},
	}
	res, err := v.Validate(context.Background(), `{ data { items { id count } } }`, data, Options{})
	require.NoError(t, err)

	require.True(t, res.Valid)
	require.True(t, res.TypeChecked)
	require.Empty(t, res.Errors)
	require.Equal(t, "query { data { items { id count } } }", res.GeneratedQuery)
}

func TestValidate_StructuralFailureSkipsTypePhase(t *testing.T) {
	v := newValidator(t)
	data := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1"}},
		},
	}
	res, err := v.Validate(context.Background(), `{ data { items { id count } } }`, data, Options{})
	require.NoError(t, err)

	require.False(t, res.Valid)
	require.False(t, res.TypeChecked)
	want := []validation.Error{
		{Message: `missing expected field "count"`, Path: validation.Path{"data", "items", 0, "count"}},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_TypeErrorsAppendAfterStructural(t *testing.T) {
	v := newValidator(t)
	data := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1", "count": json.Number("1.5")}},
		},
	}
	res, err := v.Validate(context.Background(), `{ data { items { id count } } }`, data, Options{})
	require.NoError(t, err)

	require.False(t, res.Valid)
	require.True(t, res.TypeChecked)
	want := []validation.Error{
		{Message: "Int cannot represent non-integer value: 1.5", Path: validation.Path{"data", "items", 0, "count"}},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_StructuralOnly(t *testing.T) {
	v := newValidator(t)
	data := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1", "count": json.Number("1.5")}},
		},
	}
	res, err := v.Validate(context.Background(), `{ data { items { id count } } }`, data, Options{StructuralOnly: true})
	require.NoError(t, err)

	// The bad Int never gets checked.
	require.True(t, res.Valid)
	require.False(t, res.TypeChecked)
}

func TestValidate_FatalErrors(t *testing.T) {
	v := newValidator(t)

	t.Run("SyntaxError", func(t *testing.T) {
		_, err := v.Validate(context.Background(), `{ data `, nil, Options{})
		require.Error(t, err)
	})

	t.Run("UnknownFragment", func(t *testing.T) {
		_, err := v.Validate(context.Background(), `{ data { ...missing } }`, nil, Options{})
		require.ErrorContains(t, err, `unknown fragment "missing"`)
	})

	t.Run("AmbiguousOperation", func(t *testing.T) {
		_, err := v.Validate(context.Background(), `query A { data { items { id } } } query B { data { items { id } } }`, nil, Options{})
		require.ErrorContains(t, err, "operation name is required")
	})

	t.Run("UnknownOperation", func(t *testing.T) {
		_, err := v.Validate(context.Background(), `query A { data { items { id } } }`, nil, Options{OperationName: "C"})
		require.ErrorContains(t, err, `operation "C" is not defined`)
	})
}

func TestValidate_OperationSelection(t *testing.T) {
	v := newValidator(t)
	query := `
query Full { data { items { id count } } }
query Ids { data { items { id } } }
`
	data := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1"}},
		},
	}
	res, err := v.Validate(context.Background(), query, data, Options{OperationName: "Ids"})
	require.NoError(t, err)
	require.True(t, res.Valid)
}

func TestValidate_FragmentSpreadsNormalized(t *testing.T) {
	v := newValidator(t)
	query := `
query Q { data { items { ...itemFields } } }
fragment itemFields on Item { id count }
`
	data := map[string]any{
		"data": map[string]any{
			"items": []any{map[string]any{"id": "1", "count": json.Number("2")}},
		},
	}
	res, err := v.Validate(context.Background(), query, data, Options{})
	require.NoError(t, err)
	require.True(t, res.Valid)
	require.Equal(t, "query Q { data { items { ... on Item { id count } } } }", res.GeneratedQuery)
}

func TestDecodeJSON(t *testing.T) {
	t.Run("NumbersKeepPrecision", func(t *testing.T) {
		v, err := DecodeJSON([]byte(`{"a": 1, "b": 1.5}`))
		require.NoError(t, err)
		obj := v.(map[string]any)
		require.Equal(t, json.Number("1"), obj["a"])
		require.Equal(t, json.Number("1.5"), obj["b"])
	})

	t.Run("TrailingData", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{} {}`))
		require.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{`))
		require.Error(t, err)
	})
}
