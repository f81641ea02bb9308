package typecheck

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hanpama/gqlfixture/internal/schema"
	"github.com/hanpama/gqlfixture/internal/validation"
)

func mustSchema(t *testing.T, sdl string) *schema.Schema {
	t.Helper()
	sch, err := schema.BuildFromSDL("test.graphql", sdl)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return sch
}

func validate(t *testing.T, sdl, query string, data any) *Result {
	t.Helper()
	res, err := Validate(context.Background(), mustSchema(t, sdl), query, data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return res
}

func TestValidate_Scalars(t *testing.T) {
	sdl := `
type Query { n: Int f: Float s: String b: Boolean id: ID }
`

	t.Run("AllValid", func(t *testing.T) {
		got := validate(t, sdl, `{ n f s b id }`, map[string]any{
			"n":  json.Number("3"),
			"f":  json.Number("1.5"),
			"s":  "hi",
			"b":  true,
			"id": "u1",
		})
		if !got.Valid {
			t.Fatalf("expected valid, got errors: %v", got.Errors)
		}
	})

	t.Run("FloatWhereIntExpected", func(t *testing.T) {
		got := validate(t, sdl, `{ n }`, map[string]any{"n": json.Number("1.5")})
		want := []validation.Error{
			{Message: "Int cannot represent non-integer value: 1.5", Path: validation.Path{"n"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("IntOutsideSigned32BitRange", func(t *testing.T) {
		for _, n := range []string{"2147483648", "-2147483649", "99999999999999999999"} {
			got := validate(t, sdl, `{ n }`, map[string]any{"n": json.Number(n)})
			want := []validation.Error{
				{Message: "Int cannot represent non 32-bit signed integer value: " + n, Path: validation.Path{"n"}},
			}
			if diff := cmp.Diff(want, got.Errors); diff != "" {
				t.Fatalf("errors mismatch for %s (-want +got):\n%s", n, diff)
			}
		}
	})

	t.Run("IntRangeBoundsAreValid", func(t *testing.T) {
		for _, n := range []string{"2147483647", "-2147483648"} {
			got := validate(t, sdl, `{ n }`, map[string]any{"n": json.Number(n)})
			if !got.Valid {
				t.Fatalf("expected %s to be a valid Int, got errors: %v", n, got.Errors)
			}
		}
	})

	t.Run("IntegralNumberIsValidFloat", func(t *testing.T) {
		got := validate(t, sdl, `{ f }`, map[string]any{"f": json.Number("3")})
		if !got.Valid {
			t.Fatalf("expected valid, got errors: %v", got.Errors)
		}
	})

	t.Run("NumberWhereStringExpected", func(t *testing.T) {
		got := validate(t, sdl, `{ s }`, map[string]any{"s": json.Number("3")})
		want := []validation.Error{
			{Message: "String cannot represent a non string value: 3", Path: validation.Path{"s"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("StringWhereBooleanExpected", func(t *testing.T) {
		got := validate(t, sdl, `{ b }`, map[string]any{"b": "yes"})
		want := []validation.Error{
			{Message: `Boolean cannot represent a non boolean value: "yes"`, Path: validation.Path{"b"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("IDAcceptsIntegralNumber", func(t *testing.T) {
		got := validate(t, sdl, `{ id }`, map[string]any{"id": json.Number("42")})
		if !got.Valid {
			t.Fatalf("expected valid, got errors: %v", got.Errors)
		}
	})

	t.Run("IDRejectsFraction", func(t *testing.T) {
		got := validate(t, sdl, `{ id }`, map[string]any{"id": json.Number("4.2")})
		want := []validation.Error{
			{Message: "ID cannot represent value: 4.2", Path: validation.Path{"id"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestValidate_Enum(t *testing.T) {
	sdl := `
type Query { state: ReadState }
enum ReadState { UNREAD READING DONE }
`

	t.Run("DeclaredValue", func(t *testing.T) {
		got := validate(t, sdl, `{ state }`, map[string]any{"state": "READING"})
		if !got.Valid {
			t.Fatalf("expected valid, got errors: %v", got.Errors)
		}
	})

	t.Run("UndeclaredValue", func(t *testing.T) {
		got := validate(t, sdl, `{ state }`, map[string]any{"state": "SKIMMING"})
		want := []validation.Error{
			{Message: `Enum ReadState cannot represent value: "SKIMMING"`, Path: validation.Path{"state"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NonStringValue", func(t *testing.T) {
		got := validate(t, sdl, `{ state }`, map[string]any{"state": json.Number("1")})
		want := []validation.Error{
			{Message: "Enum ReadState cannot represent value: 1", Path: validation.Path{"state"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestValidate_CustomScalarPassesThrough(t *testing.T) {
	sdl := `
type Query { when: DateTime }
scalar DateTime
`
	got := validate(t, sdl, `{ when }`, map[string]any{"when": "2024-01-01T00:00:00Z"})
	if !got.Valid {
		t.Fatalf("expected valid, got errors: %v", got.Errors)
	}
}

func TestValidate_AliasAwareResolution(t *testing.T) {
	sdl := `
type Query { user: User }
type User { name: String }
`
	// The fixture stores values under the aliased keys.
	got := validate(t, sdl, `{ u: user { n: name } }`, map[string]any{
		"u": map[string]any{"n": "ada"},
	})
	if !got.Valid {
		t.Fatalf("expected valid, got errors: %v", got.Errors)
	}
	want := map[string]any{"u": map[string]any{"n": "ada"}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_ListErrorPaths(t *testing.T) {
	sdl := `
type Query { items: [Item] }
type Item { n: Int }
`
	got := validate(t, sdl, `{ items { n } }`, map[string]any{
		"items": []any{
			map[string]any{"n": json.Number("1")},
			map[string]any{"n": "two"},
		},
	})
	want := []validation.Error{
		{Message: `Int cannot represent non-integer value: "two"`, Path: validation.Path{"items", 1, "n"}},
	}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_AbstractResolution(t *testing.T) {
	sdl := `
type Query { media: Media }
union Media = Book | Movie
type Book { title: String }
type Movie { duration: Int }
`

	t.Run("TypenameWins", func(t *testing.T) {
		got := validate(t, sdl, `{ media { __typename ... on Book { title } } }`, map[string]any{
			"media": map[string]any{"__typename": "Book", "title": "Dune"},
		})
		if !got.Valid {
			t.Fatalf("expected valid, got errors: %v", got.Errors)
		}
	})

	t.Run("HeuristicFallbackByFields", func(t *testing.T) {
		// No __typename: the value's keys only fit Movie.
		got := validate(t, sdl, `{ media { ... on Movie { duration } } }`, map[string]any{
			"media": map[string]any{"duration": json.Number("120")},
		})
		if !got.Valid {
			t.Fatalf("expected valid, got errors: %v", got.Errors)
		}
	})

	t.Run("TypenameNotAPossibleType", func(t *testing.T) {
		got := validate(t, sdl, `{ media { ... on Book { title } } }`, map[string]any{
			"media": map[string]any{"__typename": "Song", "title": "x"},
		})
		want := []validation.Error{
			{Message: `abstract type Media cannot be resolved: __typename "Song" is not a possible type`, Path: validation.Path{"media"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NoMatchingType", func(t *testing.T) {
		got := validate(t, sdl, `{ media { ... on Book { title } } }`, map[string]any{
			"media": map[string]any{"pages": json.Number("300")},
		})
		want := []validation.Error{
			{Message: "abstract type Media cannot be resolved: no possible type matches the value's fields", Path: validation.Path{"media"}},
		}
		if diff := cmp.Diff(want, got.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestValidate_SyntaxErrorIsFatal(t *testing.T) {
	_, err := Validate(context.Background(), mustSchema(t, `type Query { a: Int }`), `{ a `, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
}
