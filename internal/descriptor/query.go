package descriptor

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/specialistvlad/devenv/internal/query"
)

// Query selects the query expression used by an Expression. It is either a
// FixedQuery or a ContextualQuery.
type Query interface {
	// For returns the expression to use in the given context.
	For(cc ConnectionContext) (string, error)
	isQuery()
}

// FixedQuery uses the same expression in every context.
type FixedQuery struct {
	Expr string
}

// For implements Query.
func (q FixedQuery) For(ConnectionContext) (string, error) {
	return q.Expr, nil
}

// ContextualQuery holds one expression per supported context.
type ContextualQuery struct {
	byContext map[ConnectionContext]string
}

// For implements Query. It fails with *UnsupportedContextError when cc has
// no expression.
func (q ContextualQuery) For(cc ConnectionContext) (string, error) {
	selected, err := SelectContext(cc, q.Contexts())
	if err != nil {
		return "", err
	}
	return q.byContext[selected], nil
}

// Contexts returns the contexts this query supports, sorted.
func (q ContextualQuery) Contexts() []ConnectionContext {
	out := make([]ConnectionContext, 0, len(q.byContext))
	for cc := range q.byContext {
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (FixedQuery) isQuery()      {}
func (ContextualQuery) isQuery() {}

// ErrNoContexts is returned when building a ContextualQuery with no entries.
var ErrNoContexts = errors.New("contextual query needs at least one context")

// Fixed builds a FixedQuery after checking that expr compiles.
func Fixed(expr string) (FixedQuery, error) {
	if _, err := query.Compile(expr); err != nil {
		return FixedQuery{}, err
	}
	return FixedQuery{Expr: expr}, nil
}

// PerContext builds a ContextualQuery from an explicit mapping. Every
// expression must compile.
func PerContext(byContext map[ConnectionContext]string) (ContextualQuery, error) {
	if len(byContext) == 0 {
		return ContextualQuery{}, ErrNoContexts
	}
	m := make(map[ConnectionContext]string, len(byContext))
	for cc, expr := range byContext {
		if cc == "" {
			return ContextualQuery{}, errors.New("contextual query has an empty context name")
		}
		if _, err := query.Compile(expr); err != nil {
			return ContextualQuery{}, fmt.Errorf("context %q: %w", cc, err)
		}
		m[cc] = expr
	}
	return ContextualQuery{byContext: m}, nil
}

var connectionPlaceholder = regexp.MustCompile(`\{\{\s*connection\s*\}\}`)

// IsTemplate reports whether s contains a `{{ connection }}` placeholder.
func IsTemplate(s string) bool {
	return connectionPlaceholder.MatchString(s)
}

// Templated expands a template containing `{{ connection }}` once per
// context, e.g. `[].{{ connection }}_connection.host | [0]`.
func Templated(template string, contexts ...ConnectionContext) (ContextualQuery, error) {
	if !IsTemplate(template) {
		return ContextualQuery{}, fmt.Errorf("template %q does not reference {{ connection }}", template)
	}
	m := make(map[ConnectionContext]string, len(contexts))
	for _, cc := range contexts {
		m[cc] = connectionPlaceholder.ReplaceAllLiteralString(template, string(cc))
	}
	return PerContext(m)
}

// MustQuery panics if err is not nil. It is meant for statically known
// queries in environment definitions.
func MustQuery(q Query, err error) Query {
	if err != nil {
		panic(err)
	}
	return q
}
