// Package structural decides whether a JSON value has exactly the shape a
// GraphQL selection plan implies: no missing fields, no extra fields, correct
// container nesting and nullability, with aliases and polymorphic fragment
// selections resolved per GraphQL semantics. Scalar coercion is deliberately
// left to the type-checking phase.
package structural

import (
	"fmt"
	"sort"

	"github.com/hanpama/gqlfixture/internal/language"
	"github.com/hanpama/gqlfixture/internal/queryprint"
	"github.com/hanpama/gqlfixture/internal/schema"
	"github.com/hanpama/gqlfixture/internal/validation"
)

// Result is the outcome of one structural validation.
type Result struct {
	Valid bool `json:"valid"`
	// Errors is ordered post-order: the deepest discrepancies come first,
	// root-level ones last.
	Errors []validation.Error `json:"errors,omitempty"`
	// GeneratedQuery is the validated selection plan serialized back to
	// query text, for reuse by the type-checking phase.
	GeneratedQuery string `json:"generatedQuery,omitempty"`
	// NormalizedData is a structural copy of the input with every response
	// key replaced by its canonical field name (aliases stripped).
	NormalizedData any `json:"normalizedData,omitempty"`
}

// Validate checks data against the operation's selection plan. The operation
// must already be fragment-normalized (see the fragments package): its
// selection sets contain only fields and inline fragments.
func Validate(sch *schema.Schema, op *language.OperationDefinition, data any) *Result {
	c := &checker{sch: sch}

	rootName := sch.QueryType
	switch op.Operation {
	case language.Mutation:
		rootName = sch.MutationType
	case language.Subscription:
		rootName = sch.SubscriptionType
	}
	root := sch.Types[rootName]

	res := &Result{GeneratedQuery: queryprint.Print(op)}
	if root == nil {
		res.Errors = []validation.Error{{Message: fmt.Sprintf("schema does not define a root type for %s operations", op.Operation)}}
		return res
	}

	if obj, ok := data.(map[string]any); ok {
		res.NormalizedData = c.checkSelections(op.SelectionSet, root, obj, validation.Path{})
	} else {
		c.add(errExpectedObject(validation.Path{}, data))
		res.NormalizedData = copyValue(data)
	}

	res.Errors = c.errs
	res.Valid = len(c.errs) == 0
	return res
}

type checker struct {
	sch  *schema.Schema
	errs []validation.Error
}

func (c *checker) add(err validation.Error) {
	c.errs = append(c.errs, err)
}

// checkValue validates a single value position against its declared type,
// peeling non-null and list wrappers level by level.
func (c *checker) checkValue(t *schema.TypeRef, selections language.SelectionSet, v any, p validation.Path) any {
	nonNull := schema.IsNonNull(t)
	inner := t
	if nonNull {
		inner = schema.Unwrap(t)
	}

	if v == nil {
		if nonNull {
			c.add(errNullNotAllowed(p, schema.GetNamedType(t)))
		}
		return nil
	}

	if inner.Kind == schema.TypeRefKindList {
		arr, ok := v.([]any)
		if !ok {
			c.add(errExpectedArray(p, v))
			return copyValue(v)
		}
		elemType := schema.Unwrap(inner)
		out := make([]any, len(arr))
		for i, elem := range arr {
			ep := p.Append(i)
			if elem == nil {
				if schema.IsNonNull(elemType) {
					c.add(errNullInNonNullableArray(ep, schema.GetNamedType(elemType)))
				}
				continue
			}
			out[i] = c.checkValue(elemType, selections, elem, ep)
		}
		return out
	}

	def := c.sch.Types[inner.Named]
	if def == nil {
		return copyValue(v)
	}
	switch def.Kind {
	case schema.TypeKindObject, schema.TypeKindInterface, schema.TypeKindUnion:
		obj, ok := v.(map[string]any)
		if !ok {
			c.add(errExpectedObject(p, v))
			return copyValue(v)
		}
		return c.checkSelections(selections, def, obj, p)
	default:
		// Scalar and enum leaves pass structurally; coercion is the type
		// phase's job.
		return copyValue(v)
	}
}

// expectedField is one canonical selection per response key, merged across
// plain fields and every applicable fragment.
type expectedField struct {
	key   string // response key: alias or field name
	name  string // canonical field name
	owner string // type name the field definition is resolved against
	sub   language.SelectionSet
}

// checkSelections validates one object value against the selection set's
// direct children, handling fragment classification, discriminators, and the
// narrowing rule for empty objects. Missing/extra-field errors for this level
// are recorded after any errors produced while descending, keeping the
// overall order deepest-first.
func (c *checker) checkSelections(selections language.SelectionSet, static *schema.Type, obj map[string]any, p validation.Path) map[string]any {
	var fields []*language.Field
	var frags []*language.InlineFragment
	for _, sel := range selections {
		switch s := sel.(type) {
		case *language.Field:
			fields = append(fields, s)
		case *language.InlineFragment:
			frags = append(frags, s)
		}
	}

	disc := findTypenameKey(fields, frags)

	// Resolve the concrete runtime type for this object, when the query
	// gives us the means to.
	concrete := ""
	if len(frags) >= 2 {
		tn, ok := "", false
		if disc != "" {
			if s, o := obj[disc].(string); o {
				tn, ok = s, true
			}
		}
		if !ok {
			// Without a runtime type every deeper check is unreliable;
			// report once and stop descending into this selection.
			c.add(errMissingTypename(p, static.Name))
			return copyObject(obj)
		}
		concrete = tn
	} else if len(frags) == 1 && disc != "" {
		if s, o := obj[disc].(string); o {
			concrete = s
		}
	}

	// An empty object under a single narrowing fragment stands for a
	// concrete type outside the narrowed set: nothing is expected of it.
	// A condition-less fragment (or one naming an unknown type) selects on
	// the enclosing type itself and narrows nothing.
	if len(obj) == 0 && len(frags) == 1 && concrete == "" {
		declared := c.sch.PossibleTypesOf(static.Name)
		cond := frags[0].TypeCondition
		if cond == "" || c.sch.Types[cond] == nil {
			cond = static.Name
		}
		narrowed := c.sch.PossibleTypesOf(cond)
		if !sameTypeSet(declared, narrowed) {
			return map[string]any{}
		}
	}

	ordered, index := c.expectedFields(fields, frags, static, concrete)

	normalized := make(map[string]any, len(obj))
	var local []validation.Error

	for _, ef := range ordered {
		val, present := obj[ef.key]
		if !present {
			local = append(local, errMissingField(p.Append(ef.key), ef.key))
			continue
		}
		if ef.name == "__typename" {
			normalized[ef.name] = val
			continue
		}
		fdef := c.fieldDef(concrete, ef.owner, ef.name)
		if fdef == nil {
			normalized[ef.name] = copyValue(val)
			continue
		}
		normalized[ef.name] = c.checkValue(fdef.Type, ef.sub, val, p.Append(ef.key))
	}

	extra := make([]string, 0)
	for key := range obj {
		if _, ok := index[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		local = append(local, errExtraField(p.Append(key), key))
		normalized[key] = copyValue(obj[key])
	}

	c.errs = append(c.errs, local...)
	return normalized
}

// expectedFields computes the canonical per-response-key selections for the
// resolved concrete type: plain fields plus the fields of every fragment
// whose type condition is satisfied. Duplicate response keys merge their
// sub-selections, per GraphQL field-merging semantics.
func (c *checker) expectedFields(fields []*language.Field, frags []*language.InlineFragment, static *schema.Type, concrete string) ([]*expectedField, map[string]*expectedField) {
	ordered := make([]*expectedField, 0, len(fields))
	index := make(map[string]*expectedField)

	addField := func(f *language.Field, owner string) {
		key := responseKey(f)
		if ef, ok := index[key]; ok {
			merged := make(language.SelectionSet, 0, len(ef.sub)+len(f.SelectionSet))
			merged = append(merged, ef.sub...)
			merged = append(merged, f.SelectionSet...)
			ef.sub = merged
			return
		}
		ef := &expectedField{key: key, name: f.Name, owner: owner, sub: f.SelectionSet}
		index[key] = ef
		ordered = append(ordered, ef)
	}

	for _, f := range fields {
		addField(f, static.Name)
	}

	single := len(frags) == 1
	var addFragment func(frag *language.InlineFragment)
	addFragment = func(frag *language.InlineFragment) {
		applies := false
		if concrete != "" {
			applies = c.sch.Satisfies(concrete, frag.TypeCondition)
		} else if single {
			// A lone fragment needs no discriminator; its fields are
			// mandatory at this level.
			applies = true
		}
		if !applies {
			return
		}
		owner := frag.TypeCondition
		if owner == "" {
			owner = static.Name
		}
		for _, sel := range frag.SelectionSet {
			switch s := sel.(type) {
			case *language.Field:
				addField(s, owner)
			case *language.InlineFragment:
				addFragment(s)
			}
		}
	}
	for _, frag := range frags {
		addFragment(frag)
	}

	return ordered, index
}

// fieldDef resolves a field definition, preferring the concrete runtime type
// (objects restate their interface fields in SDL) over the owning static or
// fragment-condition type.
func (c *checker) fieldDef(concrete, owner, name string) *schema.Field {
	if concrete != "" {
		if t := c.sch.Types[concrete]; t != nil {
			if f := t.FieldByName(name); f != nil {
				return f
			}
		}
	}
	if t := c.sch.Types[owner]; t != nil {
		if f := t.FieldByName(name); f != nil {
			return f
		}
	}
	return nil
}

// findTypenameKey returns the response key of the discriminator selection:
// a __typename field (possibly aliased) among the direct fields, or failing
// that inside any fragment.
func findTypenameKey(fields []*language.Field, frags []*language.InlineFragment) string {
	for _, f := range fields {
		if f.Name == "__typename" {
			return responseKey(f)
		}
	}
	for _, frag := range frags {
		for _, sel := range frag.SelectionSet {
			if f, ok := sel.(*language.Field); ok && f.Name == "__typename" {
				return responseKey(f)
			}
		}
	}
	return ""
}

func responseKey(f *language.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func sameTypeSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, name := range a {
		set[name] = true
	}
	for _, name := range b {
		if !set[name] {
			return false
		}
	}
	return true
}

// copyValue deep-copies a decoded JSON value so results never alias caller
// data.
func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyObject(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = copyValue(elem)
		}
		return out
	default:
		return v
	}
}

func copyObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = copyValue(v)
	}
	return out
}
