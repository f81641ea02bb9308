// Package typecheck catches what the structural phase intentionally defers:
// whether scalar values are actually representable by their declared scalar
// types, and whether abstract-typed values resolve to a concrete object type
// at all. It executes the serialized query through the engine with
// alias-aware resolvers over the raw fixture, reusing the engine's own
// null and coercion rules rather than re-implementing scalar semantics.
package typecheck

import (
	"context"
	"fmt"

	"github.com/hanpama/gqlfixture/internal/engine"
	"github.com/hanpama/gqlfixture/internal/language"
	"github.com/hanpama/gqlfixture/internal/schema"
	"github.com/hanpama/gqlfixture/internal/validation"
)

// Result is the outcome of one type validation.
type Result struct {
	Valid  bool               `json:"valid"`
	Errors []validation.Error `json:"errors,omitempty"`
	Data   any                `json:"data,omitempty"`
	Query  string             `json:"query"`
}

// Validate executes queryText against the schema with field resolvers that
// read the alias-bearing fixture data. Every execution error surfaces as a
// validation error with the engine's own message and path.
func Validate(ctx context.Context, sch *schema.Schema, queryText string, data any) (*Result, error) {
	doc, err := language.ParseQuery(queryText)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}

	eng := engine.New(&fixtureRuntime{sch: sch}, sch)
	res := eng.Execute(ctx, doc, "", nil, data)

	out := &Result{Query: queryText, Data: res.Data}
	for _, ge := range res.Errors {
		p := make(validation.Path, len(ge.Path))
		for i, elem := range ge.Path {
			p[i] = elem
		}
		out.Errors = append(out.Errors, validation.Error{Message: ge.Message, Path: p})
	}
	out.Valid = len(out.Errors) == 0
	return out, nil
}

// fixtureRuntime resolves fields by indexing the parent JSON object with the
// selection's response key, so aliased selections read the aliased keys.
type fixtureRuntime struct {
	sch *schema.Schema
}

func (r *fixtureRuntime) Resolve(ctx context.Context, objectType, field, responseKey string, source any, args map[string]any) (any, error) {
	if source == nil {
		return nil, nil
	}
	obj, ok := source.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("cannot resolve field %q on non-object value", responseKey)
	}
	return obj[responseKey], nil
}

// ResolveType picks the concrete type for an abstract-typed value: an
// explicit __typename wins when it names a possible type; otherwise the
// first declared possible type whose field set covers the value's keys.
func (r *fixtureRuntime) ResolveType(ctx context.Context, abstractType string, value any) (string, error) {
	possible := r.sch.PossibleTypesOf(abstractType)
	obj, _ := value.(map[string]any)
	if obj != nil {
		if tn, ok := obj["__typename"].(string); ok {
			for _, name := range possible {
				if name == tn {
					return tn, nil
				}
			}
			return "", fmt.Errorf("abstract type %s cannot be resolved: __typename %q is not a possible type", abstractType, tn)
		}
		for _, name := range possible {
			if coversKeys(r.sch.Types[name], obj) {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("abstract type %s cannot be resolved: no possible type matches the value's fields", abstractType)
}

// coversKeys reports whether every key of the value (besides the
// discriminator) is a declared field of the candidate type.
func coversKeys(t *schema.Type, obj map[string]any) bool {
	if t == nil {
		return false
	}
	for key := range obj {
		if key == "__typename" {
			continue
		}
		if t.FieldByName(key) == nil {
			return false
		}
	}
	return true
}
