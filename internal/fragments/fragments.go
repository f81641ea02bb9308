// Package fragments flattens named fragment spreads into inline fragments so
// downstream validation only ever sees fields and inline fragments.
package fragments

import (
	"fmt"

	"github.com/hanpama/gqlfixture/internal/language"
)

// UnknownFragmentError reports a spread whose definition is missing from the
// document. It is fatal: no partial document is produced.
type UnknownFragmentError struct {
	Name string
}

func (e *UnknownFragmentError) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Name)
}

// Inline returns a copy of doc in which every fragment spread has been
// replaced by an inline fragment carrying the definition's type condition and
// recursively inlined selection set. Fragment definitions are removed from
// the output. The input document is never mutated, and the output shares no
// selection-set slices with it, so normalizing an already-normalized
// document is a no-op.
func Inline(doc *language.QueryDocument) (*language.QueryDocument, error) {
	out := &language.QueryDocument{Position: doc.Position}
	active := make(map[string]bool)
	for _, op := range doc.Operations {
		sel, err := inlineSelectionSet(doc, op.SelectionSet, active)
		if err != nil {
			return nil, err
		}
		opCopy := *op
		opCopy.SelectionSet = sel
		out.Operations = append(out.Operations, &opCopy)
	}
	return out, nil
}

func inlineSelectionSet(doc *language.QueryDocument, set language.SelectionSet, active map[string]bool) (language.SelectionSet, error) {
	out := make(language.SelectionSet, 0, len(set))
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			sub, err := inlineSelectionSet(doc, s.SelectionSet, active)
			if err != nil {
				return nil, err
			}
			f := *s
			f.SelectionSet = sub
			out = append(out, &f)

		case *language.InlineFragment:
			sub, err := inlineSelectionSet(doc, s.SelectionSet, active)
			if err != nil {
				return nil, err
			}
			frag := *s
			frag.SelectionSet = sub
			out = append(out, &frag)

		case *language.FragmentSpread:
			def := doc.Fragments.ForName(s.Name)
			if def == nil {
				return nil, &UnknownFragmentError{Name: s.Name}
			}
			if active[s.Name] {
				return nil, fmt.Errorf("fragment cycle through %q", s.Name)
			}
			active[s.Name] = true
			sub, err := inlineSelectionSet(doc, def.SelectionSet, active)
			delete(active, s.Name)
			if err != nil {
				return nil, err
			}
			directives := append(append(language.DirectiveList(nil), s.Directives...), def.Directives...)
			out = append(out, &language.InlineFragment{
				TypeCondition: def.TypeCondition,
				Directives:    directives,
				SelectionSet:  sub,
				Position:      s.Position,
			})
		}
	}
	return out, nil
}
