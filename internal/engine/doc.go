// Package engine implements a synchronous GraphQL executor over the schema
// model, with runtime hooks for field resolution, abstract-type resolution,
// and leaf serialization.
//
// Execution follows the GraphQL specification's value-completion rules:
// grouped field collection in query order (honoring @skip/@include and
// fragment type conditions, including interface and union membership),
// list completion with index-aware paths, Non-Null null-propagation to the
// nearest nullable ancestor, and located errors (message + path) with
// partial success.
//
// The engine never performs I/O itself; everything observable happens
// through the Runtime hooks. Resolution is depth-first and single-threaded,
// so a Runtime backed by plain in-memory data needs no synchronization.
//
// One deliberate deviation from strict spec behavior: variables that are not
// provided coerce to null instead of failing the request. The engine's
// only consumer validates captured fixtures, which carry no variable values,
// and argument values never influence a fixture's shape.
package engine
