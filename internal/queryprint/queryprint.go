// Package queryprint renders a normalized selection plan back to query text.
// The output re-parses to the same plan, so the type-checking phase can run
// against exactly what the structural phase validated.
package queryprint

import (
	"fmt"
	"strings"

	"github.com/hanpama/gqlfixture/internal/language"
)

// Print renders the operation as query text on a single line.
func Print(op *language.OperationDefinition) string {
	var b strings.Builder
	b.WriteString(string(op.Operation))
	if op.Name != "" {
		b.WriteByte(' ')
		b.WriteString(op.Name)
	}
	if len(op.VariableDefinitions) > 0 {
		b.WriteByte('(')
		for i, vd := range op.VariableDefinitions {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(vd.Variable)
			b.WriteString(": ")
			b.WriteString(renderType(vd.Type))
			if vd.DefaultValue != nil {
				b.WriteString(" = ")
				renderValue(&b, vd.DefaultValue)
			}
		}
		b.WriteByte(')')
	}
	b.WriteByte(' ')
	renderSelectionSet(&b, op.SelectionSet)
	return b.String()
}

func renderSelectionSet(b *strings.Builder, set language.SelectionSet) {
	b.WriteString("{ ")
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			renderField(b, s)
		case *language.InlineFragment:
			b.WriteString("...")
			if s.TypeCondition != "" {
				b.WriteString(" on ")
				b.WriteString(s.TypeCondition)
			}
			renderDirectives(b, s.Directives)
			b.WriteByte(' ')
			renderSelectionSet(b, s.SelectionSet)
		case *language.FragmentSpread:
			// Normalized documents carry no spreads, but a hand-built one may.
			b.WriteString("...")
			b.WriteString(s.Name)
			renderDirectives(b, s.Directives)
		}
		b.WriteByte(' ')
	}
	b.WriteByte('}')
}

func renderField(b *strings.Builder, f *language.Field) {
	if f.Alias != "" && f.Alias != f.Name {
		b.WriteString(f.Alias)
		b.WriteString(": ")
	}
	b.WriteString(f.Name)
	if len(f.Arguments) > 0 {
		b.WriteByte('(')
		for i, arg := range f.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			renderValue(b, arg.Value)
		}
		b.WriteByte(')')
	}
	renderDirectives(b, f.Directives)
	if len(f.SelectionSet) > 0 {
		b.WriteByte(' ')
		renderSelectionSet(b, f.SelectionSet)
	}
}

func renderDirectives(b *strings.Builder, directives language.DirectiveList) {
	for _, d := range directives {
		b.WriteString(" @")
		b.WriteString(d.Name)
		if len(d.Arguments) > 0 {
			b.WriteByte('(')
			for i, arg := range d.Arguments {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(arg.Name)
				b.WriteString(": ")
				renderValue(b, arg.Value)
			}
			b.WriteByte(')')
		}
	}
}

func renderType(t *language.Type) string {
	var name string
	if t.NamedType != "" {
		name = t.NamedType
	} else {
		name = "[" + renderType(t.Elem) + "]"
	}
	if t.NonNull {
		name += "!"
	}
	return name
}

func renderValue(b *strings.Builder, v *language.Value) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.Kind {
	case language.Variable:
		b.WriteByte('$')
		b.WriteString(v.Raw)
	case language.StringValue, language.BlockValue:
		writeQuotedString(b, v.Raw)
	case language.ListValue:
		b.WriteByte('[')
		for i, c := range v.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			renderValue(b, c.Value)
		}
		b.WriteByte(']')
	case language.ObjectValue:
		b.WriteByte('{')
		for i, c := range v.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
			b.WriteString(": ")
			renderValue(b, c.Value)
		}
		b.WriteByte('}')
	default:
		// Int, Float, Boolean, Enum and null literals print raw.
		b.WriteString(v.Raw)
	}
}

// writeQuotedString emits a GraphQL string literal: only the escape
// sequences the GraphQL grammar defines, so the output always re-parses.
// Invalid UTF-8 bytes become U+FFFD.
func writeQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
