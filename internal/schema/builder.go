package schema

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/hanpama/gqlfixture/internal/language"
)

// EnumLiteral is an enum default value; it renders unquoted.
type EnumLiteral string

// BuildFromSDL parses and validates SDL through the GraphQL front end and
// converts it into the executable schema model.
func BuildFromSDL(name, sdl string) (*Schema, error) {
	src, err := language.LoadSchema(name, sdl)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return buildFromAST(src), nil
}

func buildFromAST(src *ast.Schema) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type),
		Directives:  make(map[string]*Directive),
		Description: src.Description,
	}
	if src.Query != nil {
		s.QueryType = src.Query.Name
	}
	if src.Mutation != nil {
		s.MutationType = src.Mutation.Name
	}
	if src.Subscription != nil {
		s.SubscriptionType = src.Subscription.Name
	}

	for name, builtin := range builtinScalars {
		s.Types[name] = builtin
	}
	for name, builtin := range builtinDirectives {
		s.Directives[name] = builtin
	}

	for name, def := range src.Types {
		if def.BuiltIn {
			continue
		}
		s.Types[name] = buildDefinition(src, def)
	}
	for name, def := range src.Directives {
		if isPreludeDirective(name) {
			continue
		}
		s.Directives[name] = buildDirectiveDef(def)
	}
	return s
}

func isPreludeDirective(name string) bool {
	switch name {
	case "include", "skip", "deprecated", "specifiedBy", "oneOf", "defer":
		return true
	}
	return false
}

func buildDefinition(src *ast.Schema, def *ast.Definition) *Type {
	t := &Type{
		Name:        def.Name,
		Description: def.Description,
		Interfaces:  append([]string(nil), def.Interfaces...),
	}
	switch def.Kind {
	case ast.Object:
		t.Kind = TypeKindObject
	case ast.Interface:
		t.Kind = TypeKindInterface
	case ast.Union:
		t.Kind = TypeKindUnion
	case ast.Scalar:
		t.Kind = TypeKindScalar
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil {
				url := arg.Value.Raw
				t.SpecifiedByURL = &url
			}
		}
	case ast.Enum:
		t.Kind = TypeKindEnum
		for _, v := range def.EnumValues {
			ev := &EnumValue{Name: v.Name, Description: v.Description}
			applyDeprecation(v.Directives, &ev.IsDeprecated, &ev.DeprecationReason)
			t.EnumValues = append(t.EnumValues, ev)
		}
	case ast.InputObject:
		t.Kind = TypeKindInputObject
		if def.Directives.ForName("oneOf") != nil {
			t.OneOf = true
		}
		for _, f := range def.Fields {
			t.InputFields = append(t.InputFields, buildInputValue(f.Name, f.Description, f.Type, f.DefaultValue, f.Directives))
		}
	}

	if def.Kind == ast.Object || def.Kind == ast.Interface {
		for _, f := range def.Fields {
			t.Fields = append(t.Fields, buildField(f))
		}
	}
	if def.Kind == ast.Interface || def.Kind == ast.Union {
		possible := make([]string, 0, len(src.PossibleTypes[def.Name]))
		for _, pt := range src.PossibleTypes[def.Name] {
			possible = append(possible, pt.Name)
		}
		sort.Strings(possible)
		t.PossibleTypes = possible
	}
	return t
}

func buildField(def *ast.FieldDefinition) *Field {
	f := &Field{
		Name:        def.Name,
		Description: def.Description,
		Type:        buildTypeRef(def.Type),
	}
	applyDeprecation(def.Directives, &f.IsDeprecated, &f.DeprecationReason)
	for _, arg := range def.Arguments {
		f.Arguments = append(f.Arguments, buildInputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives))
	}
	return f
}

func buildInputValue(name, description string, t *ast.Type, def *ast.Value, directives ast.DirectiveList) *InputValue {
	in := &InputValue{
		Name:         name,
		Description:  description,
		Type:         buildTypeRef(t),
		DefaultValue: goValue(def),
	}
	applyDeprecation(directives, &in.IsDeprecated, &in.DeprecationReason)
	return in
}

func buildDirectiveDef(def *ast.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         def.Name,
		Description:  def.Description,
		IsRepeatable: def.IsRepeatable,
	}
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range def.Arguments {
		d.Arguments = append(d.Arguments, buildInputValue(arg.Name, arg.Description, arg.Type, arg.DefaultValue, arg.Directives))
	}
	return d
}

func applyDeprecation(directives ast.DirectiveList, deprecated *bool, reason *string) {
	d := directives.ForName("deprecated")
	if d == nil {
		return
	}
	*deprecated = true
	if arg := d.Arguments.ForName("reason"); arg != nil {
		*reason = arg.Value.Raw
	}
}

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return NonNullType(buildTypeRef(&ast.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return NamedType(t.NamedType)
	}
	return ListType(buildTypeRef(t.Elem))
}

// goValue converts an AST literal into a plain Go value for defaults.
func goValue(v *ast.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.IntValue:
		iv, _ := strconv.Atoi(v.Raw)
		return iv
	case ast.FloatValue:
		fv, _ := strconv.ParseFloat(v.Raw, 64)
		return fv
	case ast.StringValue, ast.BlockValue:
		return v.Raw
	case ast.BooleanValue:
		return v.Raw == "true"
	case ast.NullValue:
		return nil
	case ast.EnumValue:
		return EnumLiteral(v.Raw)
	case ast.ListValue:
		out := make([]any, len(v.Children))
		for i, c := range v.Children {
			out[i] = goValue(c.Value)
		}
		return out
	case ast.ObjectValue:
		m := make(map[string]any)
		for _, f := range v.Children {
			m[f.Name] = goValue(f.Value)
		}
		return m
	default:
		return nil
	}
}
