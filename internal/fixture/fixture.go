// Package fixture ties the validation phases together: it normalizes the
// query's fragments, checks the fixture's structure against the selection
// plan, and, when the structure holds, type-checks the values by executing
// the plan through the engine.
package fixture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hanpama/gqlfixture/internal/eventbus"
	"github.com/hanpama/gqlfixture/internal/events"
	"github.com/hanpama/gqlfixture/internal/fragments"
	"github.com/hanpama/gqlfixture/internal/language"
	"github.com/hanpama/gqlfixture/internal/queryprint"
	"github.com/hanpama/gqlfixture/internal/runid"
	"github.com/hanpama/gqlfixture/internal/schema"
	"github.com/hanpama/gqlfixture/internal/structural"
	"github.com/hanpama/gqlfixture/internal/typecheck"
	"github.com/hanpama/gqlfixture/internal/validation"
)

// Options controls a validation run.
type Options struct {
	// OperationName selects the operation when the document defines several.
	// Empty means the document's only operation.
	OperationName string
	// StructuralOnly skips the type-checking phase.
	StructuralOnly bool
	// Fixture labels the run in published events, typically a file path.
	Fixture string
}

// Result is the combined outcome of both validation phases.
type Result struct {
	Valid bool `json:"valid"`
	// Errors holds the structural errors (deepest first) followed by any
	// type errors.
	Errors         []validation.Error `json:"errors,omitempty"`
	GeneratedQuery string             `json:"generatedQuery,omitempty"`
	NormalizedData any                `json:"normalizedData,omitempty"`
	// TypeChecked reports whether the type phase ran. It is false when the
	// structure was invalid or StructuralOnly was set.
	TypeChecked bool `json:"typeChecked"`
}

// Validator validates fixtures against one schema.
type Validator struct {
	sch *schema.Schema
}

// New creates a Validator for the schema.
func New(sch *schema.Schema) *Validator { return &Validator{sch: sch} }

// NewFromSDL builds the schema from SDL text and returns a Validator for it.
func NewFromSDL(name, sdl string) (*Validator, error) {
	sch, err := schema.BuildFromSDL(name, sdl)
	if err != nil {
		return nil, err
	}
	return New(sch), nil
}

// Validate runs both phases over the fixture data. Syntax errors, unknown
// fragments, fragment cycles and unresolvable operations are fatal and
// returned as errors; everything else accumulates on the Result.
func (v *Validator) Validate(ctx context.Context, queryText string, data any, opts Options) (*Result, error) {
	doc, err := language.ParseQuery(queryText)
	if err != nil {
		return nil, err
	}
	doc, err = fragments.Inline(doc)
	if err != nil {
		return nil, err
	}
	op, err := selectOperation(doc, opts.OperationName)
	if err != nil {
		return nil, err
	}

	ctx, _ = runid.NewContext(ctx)
	eventbus.Publish(ctx, events.ValidationStart{
		OperationName: op.Name,
		Fixture:       opts.Fixture,
	})
	started := time.Now()

	sres := structural.Validate(v.sch, op, data)
	res := &Result{
		Valid:          sres.Valid,
		Errors:         sres.Errors,
		GeneratedQuery: sres.GeneratedQuery,
		NormalizedData: sres.NormalizedData,
	}

	typeErrors := 0
	if sres.Valid && !opts.StructuralOnly {
		tres, err := typecheck.Validate(ctx, v.sch, queryprint.Print(op), data)
		if err != nil {
			return nil, err
		}
		res.TypeChecked = true
		res.Valid = tres.Valid
		res.Errors = append(res.Errors, tres.Errors...)
		typeErrors = len(tres.Errors)
	}

	eventbus.Publish(ctx, events.ValidationFinish{
		OperationName:    op.Name,
		Fixture:          opts.Fixture,
		StructuralErrors: len(sres.Errors),
		TypeErrors:       typeErrors,
		Duration:         time.Since(started),
	})
	return res, nil
}

// ValidateFile decodes the fixture file as JSON and validates it.
func (v *Validator) ValidateFile(ctx context.Context, queryText, path string, opts Options) (*Result, error) {
	data, err := LoadJSON(path)
	if err != nil {
		return nil, err
	}
	if opts.Fixture == "" {
		opts.Fixture = path
	}
	return v.Validate(ctx, queryText, data, opts)
}

func selectOperation(doc *language.QueryDocument, name string) (*language.OperationDefinition, error) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, fmt.Errorf("document defines %d operations; an operation name is required", len(doc.Operations))
		}
		return doc.Operations[0], nil
	}
	if op := doc.Operations.ForName(name); op != nil {
		return op, nil
	}
	return nil, fmt.Errorf("operation %q is not defined in the document", name)
}

// LoadJSON reads and decodes a fixture file.
func LoadJSON(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := DecodeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}
