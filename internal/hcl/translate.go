package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/devenv/internal/descriptor"
	"github.com/specialistvlad/devenv/internal/environment"
	"github.com/specialistvlad/devenv/internal/schema"
)

const (
	fieldBlockType = "field"
	// connectionVar is the variable a string query may reference to vary by
	// connection context, e.g. "[].${connection}_connection.host | [0]".
	connectionVar = "connection"
)

// translateEnvironment converts the HCL-specific environment schema into an
// environment definition.
func (l *Loader) translateEnvironment(s *schema.Environment) (*environment.Environment, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	env := &environment.Environment{
		Name:      s.Name,
		Label:     s.Label,
		Databases: make(descriptor.Configuration, len(s.Databases)),
		Commands:  make(map[environment.Action]string, len(s.Commands)),
	}
	for _, cc := range s.Contexts {
		env.Contexts = append(env.Contexts, descriptor.ConnectionContext(cc))
	}
	for action, cmd := range s.Commands {
		env.Commands[environment.Action(action)] = cmd
	}

	contexts := env.SupportedContexts()
	for _, db := range s.Databases {
		if _, exists := env.Databases[db.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate database block",
				Detail:   fmt.Sprintf("Database %q is defined more than once in environment %q.", db.Name, s.Name),
			})
			continue
		}
		fields, dbDiags := l.translateDatabase(db, contexts)
		diags = append(diags, dbDiags...)
		env.Databases[db.Name] = fields
	}

	return env, diags
}

// translateDatabase turns plain attributes into literals and `field` blocks
// into command or expression descriptors.
func (l *Loader) translateDatabase(db *schema.Database, contexts []descriptor.ConnectionContext) (descriptor.FieldSet, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	fields := make(descriptor.FieldSet)

	// The remaining body still carries the field blocks, which makes
	// JustAttributes complain about them; those diagnostics are dropped and
	// stray block types are reported separately below.
	attrs, attrDiags := db.Remain.JustAttributes()
	for _, d := range attrDiags {
		if d.Detail != "Blocks are not allowed here." {
			diags = append(diags, d)
		}
	}
	if body, ok := db.Remain.(*hclsyntax.Body); ok {
		for _, block := range body.Blocks {
			if block.Type != fieldBlockType {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unsupported block type",
					Detail:   fmt.Sprintf("Blocks of type %q are not expected in a database block.", block.Type),
					Subject:  block.TypeRange.Ptr(),
				})
			}
		}
	}

	for name, attr := range attrs {
		value, d := literalValue(attr)
		diags = append(diags, d...)
		if !d.HasErrors() {
			fields[name] = descriptor.Literal{Value: value}
		}
	}

	for _, f := range db.Fields {
		if _, exists := fields[f.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate field",
				Detail:   fmt.Sprintf("Field %q of database %q is defined more than once.", f.Name, db.Name),
				Subject:  f.DefRange.Ptr(),
			})
			continue
		}
		value, d := translateField(f, contexts)
		diags = append(diags, d...)
		if !d.HasErrors() {
			fields[f.Name] = value
		}
	}

	return fields, diags
}

func literalValue(attr *hcl.Attribute) (string, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || !val.Type().IsPrimitiveType() {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid literal field",
			Detail:   fmt.Sprintf("Field %q must be a string, number or bool.", attr.Name),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid literal field",
			Detail:   fmt.Sprintf("Field %q cannot be converted to a string: %v.", attr.Name, err),
			Subject:  attr.Expr.Range().Ptr(),
		}}
	}
	return str.AsString(), nil
}

func translateField(f *schema.Field, contexts []descriptor.ConnectionContext) (descriptor.Value, hcl.Diagnostics) {
	if strings.TrimSpace(f.Command) == "" {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Empty command",
			Detail:   fmt.Sprintf("Field %q has an empty command.", f.Name),
			Subject:  f.DefRange.Ptr(),
		}}
	}
	data := descriptor.Command{Command: f.Command}

	q, diags := translateQuery(f.Query, contexts)
	if diags.HasErrors() || q == nil {
		return data, diags
	}
	return descriptor.Expression{Data: data, Query: q}, diags
}

// translateQuery decides the query variant at load time. It returns nil when
// no query was given.
func translateQuery(expr hcl.Expression, contexts []descriptor.ConnectionContext) (descriptor.Query, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}

	var diags hcl.Diagnostics
	usesConnection := false
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != connectionVar {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown variable",
				Detail:   fmt.Sprintf("A query may only reference %q.", connectionVar),
				Subject:  traversal.SourceRange().Ptr(),
			})
			continue
		}
		usesConnection = true
	}
	if diags.HasErrors() {
		return nil, diags
	}

	if usesConnection {
		return perContextQuery(expr, contexts)
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}

	ty := val.Type()
	switch {
	case ty.Equals(cty.String):
		s := val.AsString()
		if descriptor.IsTemplate(s) {
			q, err := descriptor.Templated(s, contexts...)
			return q, queryDiags(expr, err)
		}
		q, err := descriptor.Fixed(s)
		return q, queryDiags(expr, err)

	case ty.IsObjectType() || ty.IsMapType():
		byContext := make(map[descriptor.ConnectionContext]string)
		for cc, branch := range val.AsValueMap() {
			if branch.IsNull() || !branch.Type().Equals(cty.String) {
				return nil, queryDiags(expr, fmt.Errorf("query for context %q must be a string", cc))
			}
			byContext[descriptor.ConnectionContext(cc)] = branch.AsString()
		}
		q, err := descriptor.PerContext(byContext)
		return q, queryDiags(expr, err)
	}

	return nil, queryDiags(expr, fmt.Errorf("query must be a string or an object keyed by connection context, got %s", ty.FriendlyName()))
}

// perContextQuery evaluates a query that references the connection variable
// once per declared context.
func perContextQuery(expr hcl.Expression, contexts []descriptor.ConnectionContext) (descriptor.Query, hcl.Diagnostics) {
	byContext := make(map[descriptor.ConnectionContext]string, len(contexts))
	for _, cc := range contexts {
		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{connectionVar: cty.StringVal(string(cc))},
		}
		val, diags := expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		if val.IsNull() || !val.Type().Equals(cty.String) {
			return nil, queryDiags(expr, fmt.Errorf("query referencing %q must be a string", connectionVar))
		}
		byContext[cc] = val.AsString()
	}
	q, err := descriptor.PerContext(byContext)
	return q, queryDiags(expr, err)
}

func queryDiags(expr hcl.Expression, err error) hcl.Diagnostics {
	if err == nil {
		return nil
	}
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid query",
		Detail:   err.Error(),
		Subject:  expr.Range().Ptr(),
	}}
}
