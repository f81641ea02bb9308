package engine

import "context"

// Runtime defines the host integration surface for field resolution,
// abstract type resolution, and leaf-value serialization used by the engine.
//
// Contract notes
//   - Resolve is called once per collected field group, depth-first, with the
//     parent source value ready. responseKey is the alias if the query gave
//     one, otherwise the field name; resolvers over captured JSON index the
//     parent by responseKey, not by field name.
//   - Errors returned from any hook are converted into located GraphQL
//     errors. If the field's return type is Non-Null, the engine propagates
//     the null up to the nearest nullable ancestor per the GraphQL spec.
//   - ResolveType must return a concrete object type name that is a possible
//     type of abstractType in the schema; otherwise return an error.
//   - SerializeLeaf coerces a scalar or enum value into its JSON-safe
//     representation, or fails when the value cannot represent the type.
//   - Implementations must not mutate source or args values.
type Runtime interface {
	// Resolve produces the raw value for one field of the source object.
	// Return (nil, nil) to produce a GraphQL null for nullable fields.
	Resolve(ctx context.Context, objectType, field, responseKey string, source any, args map[string]any) (any, error)

	// ResolveType determines the concrete runtime type name for a value of
	// an abstract GraphQL type (interface or union).
	ResolveType(ctx context.Context, abstractType string, value any) (string, error)

	// SerializeLeaf serializes a scalar or enum value to a JSON-safe Go
	// value according to the schema's scalar semantics.
	SerializeLeaf(ctx context.Context, scalarOrEnumTypeName string, value any) (any, error)
}
