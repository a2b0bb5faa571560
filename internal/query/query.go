package query

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// SyntaxError is returned by Compile when a query expression cannot be parsed.
type SyntaxError struct {
	Query string
	Err   error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid query %q: %v", e.Query, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

type opKind int

const (
	opField opKind = iota
	opIndex
	opProject
	opSlice
)

type op struct {
	kind  opKind
	name  string
	index int
	start *int
	stop  *int
}

// Query is a compiled query expression. It is immutable and safe for
// concurrent use.
type Query struct {
	source string
	stages [][]op
}

// Compile parses a query expression.
func Compile(source string) (*Query, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &SyntaxError{Query: source, Err: fmt.Errorf("empty expression")}
	}
	tree, err := queryParser.ParseString("", source)
	if err != nil {
		return nil, &SyntaxError{Query: source, Err: err}
	}

	q := &Query{source: source}
	for _, st := range tree.Stages {
		var ops []op
		if st.Head.Field != nil {
			ops = append(ops, op{kind: opField, name: *st.Head.Field})
		} else {
			o, err := lowerBracket(st.Head.Bracket)
			if err != nil {
				return nil, &SyntaxError{Query: source, Err: err}
			}
			ops = append(ops, o)
		}
		for _, acc := range st.Tail {
			if acc.Field != nil {
				ops = append(ops, op{kind: opField, name: *acc.Field})
				continue
			}
			o, err := lowerBracket(acc.Bracket)
			if err != nil {
				return nil, &SyntaxError{Query: source, Err: err}
			}
			ops = append(ops, o)
		}
		q.stages = append(q.stages, ops)
	}
	return q, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(source string) *Query {
	q, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return q
}

func lowerBracket(b *bracketNode) (op, error) {
	switch {
	case b.Index != nil:
		n, err := strconv.Atoi(*b.Index)
		if err != nil {
			return op{}, fmt.Errorf("bad index %q: %w", *b.Index, err)
		}
		return op{kind: opIndex, index: n}, nil
	case b.Slice != nil:
		start, err := optionalInt(b.Slice.Start)
		if err != nil {
			return op{}, err
		}
		stop, err := optionalInt(b.Slice.Stop)
		if err != nil {
			return op{}, err
		}
		return op{kind: opSlice, start: start, stop: stop}, nil
	default:
		// [] and [*]
		return op{kind: opProject}, nil
	}
}

func optionalInt(s *string) (*int, error) {
	if s == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil {
		return nil, fmt.Errorf("bad slice bound %q: %w", *s, err)
	}
	return &n, nil
}

// String returns the source text the query was compiled from.
func (q *Query) String() string { return q.source }

// Evaluate runs the query against a document. It reports false when a key or
// index is missing, when an accessor does not fit the value it is applied to,
// or when the final result is null. The document is never modified.
func (q *Query) Evaluate(doc cty.Value) (cty.Value, bool) {
	v := doc
	for _, ops := range q.stages {
		var ok bool
		v, ok = apply(v, ops)
		if !ok {
			return cty.NilVal, false
		}
	}
	if v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}

// Evaluate compiles source and evaluates it against doc. A query that does
// not parse evaluates to false.
func Evaluate(doc cty.Value, source string) (cty.Value, bool) {
	q, err := Compile(source)
	if err != nil {
		return cty.NilVal, false
	}
	return q.Evaluate(doc)
}

func apply(v cty.Value, ops []op) (cty.Value, bool) {
	for i, o := range ops {
		var ok bool
		switch o.kind {
		case opField:
			v, ok = attr(v, o.name)
		case opIndex:
			v, ok = index(v, o.index)
		case opProject:
			elems, isSeq := elements(v)
			if !isSeq {
				return cty.NilVal, false
			}
			return project(elems, ops[i+1:]), true
		case opSlice:
			elems, isSeq := elements(v)
			if !isSeq {
				return cty.NilVal, false
			}
			return project(slice(elems, o.start, o.stop), ops[i+1:]), true
		}
		if !ok {
			return cty.NilVal, false
		}
	}
	return v, true
}

// project applies rest to every element and collects the non-null results.
func project(elems []cty.Value, rest []op) cty.Value {
	var out []cty.Value
	for _, e := range elems {
		r, ok := apply(e, rest)
		if !ok || r.IsNull() {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(out)
}

func attr(v cty.Value, name string) (cty.Value, bool) {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, false
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(name) {
			return cty.NilVal, false
		}
		return v.GetAttr(name), true
	case ty.IsMapType():
		key := cty.StringVal(name)
		if !v.HasIndex(key).True() {
			return cty.NilVal, false
		}
		return v.Index(key), true
	}
	return cty.NilVal, false
}

func index(v cty.Value, n int) (cty.Value, bool) {
	elems, ok := elements(v)
	if !ok {
		return cty.NilVal, false
	}
	if n < 0 {
		n += len(elems)
	}
	if n < 0 || n >= len(elems) {
		return cty.NilVal, false
	}
	return elems[n], true
}

func elements(v cty.Value) ([]cty.Value, bool) {
	if v.IsNull() || !v.IsKnown() {
		return nil, false
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
		return nil, false
	}
	return v.AsValueSlice(), true
}

func slice(elems []cty.Value, start, stop *int) []cty.Value {
	n := len(elems)
	lo, hi := 0, n
	if start != nil {
		lo = clamp(*start, n)
	}
	if stop != nil {
		hi = clamp(*stop, n)
	}
	if lo >= hi {
		return nil
	}
	return elems[lo:hi]
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// ParseDocument parses JSON text into a document value.
func ParseDocument(text []byte) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(text)
	if err != nil {
		return cty.NilVal, err
	}
	v, err := ctyjson.Unmarshal(text, ty)
	if err != nil {
		return cty.NilVal, err
	}
	return v, nil
}

// Scalar renders a string, number or bool in its textual form. Numbers are
// written without exponent or grouping.
func Scalar(v cty.Value) (string, bool) {
	if v.IsNull() || !v.IsKnown() {
		return "", false
	}
	switch ty := v.Type(); {
	case ty.Equals(cty.String):
		return v.AsString(), true
	case ty.Equals(cty.Number):
		return formatNumber(v.AsBigFloat()), true
	case ty.Equals(cty.Bool):
		return strconv.FormatBool(v.True()), true
	}
	return "", false
}

func formatNumber(f *big.Float) string {
	if f.IsInt() {
		i, _ := f.Int(nil)
		return i.String()
	}
	return f.Text('f', -1)
}
